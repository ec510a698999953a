package cli

import (
	"context"
	"fmt"

	"atscore/internal/common"
	"atscore/internal/config"
	"atscore/internal/errors"

	"github.com/spf13/cobra"
)

// Context keys for the config and logger threaded through every command.
type ctxKey int

const (
	configKey ctxKey = iota
	loggerKey
)

var rootCmd = &cobra.Command{
	Use:   "atscore",
	Short: "ATS keyword matching and resume scoring",
	Long: `Atscore scores a resume against a job description the way an
applicant tracking system would: weighted keyword extraction, variation-aware
matching, and a composite optimization score with prioritized tips.

AI-backed commands (tailor, coverletter, questions --answer) additionally
rewrite or generate application material using a Gemini model.`,
}

// Execute runs the CLI with the config and logger attached to the
// command context, where every subcommand can reach them.
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok {
		return nil, fmt.Errorf("configuration not found in command context")
	}
	return cfg, nil
}

func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	logger, ok := ctx.Value(loggerKey).(*errors.Logger)
	if !ok {
		return nil, fmt.Errorf("logger not found in command context")
	}
	return logger, nil
}

// applyFormatDefaults fills in the default output format and validates it
// against the configured supported formats.
func applyFormatDefaults(ctx context.Context, cmdConfig *common.CommandConfig) error {
	cfg, err := getConfigFromContext(ctx)
	if err != nil {
		return err
	}
	if cmdConfig.OutputFormat == "" {
		cmdConfig.OutputFormat = cfg.App.DefaultFormat
	}
	return common.ValidateOutputFormat(cmdConfig.OutputFormat, cfg.App.SupportedFormats)
}

func init() {
	rootCmd.AddCommand(
		matchCmd,
		reportCmd,
		tailorCmd,
		coverLetterCmd,
		questionsCmd,
		versionCmd,
		serveCmd,
	)
}
