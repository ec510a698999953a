package common

import (
	"fmt"

	"atscore/internal/errors"
	"atscore/internal/formatters"
)

// CommandConfig carries the output options shared by CLI commands.
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
}

// OutputHandler formats command results and routes them to a file or stdout.
type OutputHandler struct {
	files    *FileProcessor
	registry *formatters.FormatterRegistry
	logger   *errors.Logger
}

func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	return &OutputHandler{
		files:    NewFileProcessor(logger),
		registry: formatters.GlobalRegistry,
		logger:   logger,
	}
}

// HandleOutput renders data in the requested format and writes it to the
// configured destination. An empty OutputFile means stdout.
func (oh *OutputHandler) HandleOutput(data any, cfg CommandConfig) error {
	if err := oh.files.ValidateOutputFile(cfg.OutputFile); err != nil {
		return err
	}

	rendered, err := oh.registry.Format(data, cfg.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", cfg.OutputFormat), err)
	}

	if cfg.OutputFile == "" {
		fmt.Print(rendered)
		return nil
	}

	if err := oh.files.WriteFile(cfg.OutputFile, rendered); err != nil {
		return err
	}
	oh.logger.Info("Output written successfully",
		"file", cfg.OutputFile, "format", cfg.OutputFormat)
	return nil
}

// GetSupportedFormats lists the formats the registry can render.
func (oh *OutputHandler) GetSupportedFormats() []string {
	return oh.registry.GetSupportedFormats()
}
