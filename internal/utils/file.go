package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// textExtensions are the file extensions treated as plain text input.
// Resumes and job postings are expected to arrive as one of these.
var textExtensions = []string{".txt", ".md", ".markdown", ".text"}

// ValidateInputFile verifies the path points at an existing, readable,
// regular file.
func ValidateInputFile(path string) error {
	if path == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("file does not exist: %s", path)
	case err != nil:
		return fmt.Errorf("cannot access file %s: %w", path, err)
	case info.IsDir():
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read file %s: %w", path, err)
	}
	return f.Close()
}

// ValidateOutputFile verifies the output path is writable, creating the
// parent directory when needed. An empty path means stdout and is always
// valid.
func ValidateOutputFile(path string) error {
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("cannot create directory %s: %w", dir, err)
		}
	}
	return nil
}

// IsTextFile reports whether the file extension suggests plain text.
func IsTextFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(textExtensions, ext)
}
