package common

import (
	"fmt"
	"os"
	"path/filepath"

	"atscore/internal/errors"
	"atscore/internal/utils"
)

// FileProcessor reads resume and job description files for commands and
// writes formatted command output.
type FileProcessor struct {
	logger *errors.Logger
}

func NewFileProcessor(logger *errors.Logger) *FileProcessor {
	return &FileProcessor{logger: logger}
}

// ReadFile returns the file content as a string with typed IO errors.
func (fp *FileProcessor) ReadFile(filename string) (string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	return string(content), nil
}

// WriteFile writes content to filename, creating the parent directory when
// it does not exist.
func (fp *FileProcessor) WriteFile(filename, content string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}
	return nil
}

// ValidateAndReadFiles validates each input path and returns the file
// contents in argument order. A non-text extension is only warned about
// since resumes are occasionally exported with odd suffixes.
func (fp *FileProcessor) ValidateAndReadFiles(filenames ...string) ([]string, error) {
	contents := make([]string, 0, len(filenames))

	for _, filename := range filenames {
		if err := utils.ValidateInputFile(filename); err != nil {
			return nil, errors.NewValidationError("INVALID_INPUT_FILE",
				fmt.Sprintf("Invalid file %s", filename), err)
		}

		if !utils.IsTextFile(filename) && fp.logger != nil {
			fp.logger.Warn("File may not be a text file", "filename", filename)
		}

		content, err := fp.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		contents = append(contents, content)
	}

	return contents, nil
}

// ValidateOutputFile wraps the output path check in a typed validation error.
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil
	}
	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}
	return nil
}
