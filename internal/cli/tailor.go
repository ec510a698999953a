package cli

import (
	"context"
	"fmt"

	"atscore/internal/ai"
	"atscore/internal/common"
	"atscore/internal/types"

	"github.com/spf13/cobra"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor [resume-file] [job-description-file]",
	Short: "Tailor a resume for a specific job description",
	Long: `Tailor your resume for a specific job description using AI.
The command takes two arguments: the path to your base resume file and
the path to the job description file. Both files should be in plain text format.

The AI rewrites content for keyword alignment but preserves your actual
experience; it never invents skills or employers.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd.Context(), &tailorConfig)
	},
	RunE: runTailor,
}

var tailorConfig common.CommandConfig

func init() {
	registerOutputFlags(tailorCmd, &tailorConfig)
}

func runTailor(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	tailorAIConfig := cfg.GetTailorConfig()
	aiService, err := ai.NewService(&tailorAIConfig, "tailor", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		tailorConfig,
		args,
		func(contents []string) (types.TailorResumeInput, error) {
			if len(contents) != 2 {
				return types.TailorResumeInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
			}
			return types.TailorResumeInput{
				BaseResume:     contents[0],
				JobDescription: contents[1],
			}, nil
		},
		func(ctx context.Context, input types.TailorResumeInput) (types.TailorResumeOutput, *ai.TokenUsage, error) {
			return aiService.Provider.TailorResume(ctx, input)
		},
		func(input types.TailorResumeInput, cfg common.CommandConfig) {
			logger.Info("Starting resume tailoring",
				"resume_chars", len(input.BaseResume),
				"job_chars", len(input.JobDescription),
				"output_format", cfg.OutputFormat)
		},
	)
	if err != nil {
		return fmt.Errorf("failed to tailor resume: %w", err)
	}

	logger.Info("Resume tailoring completed successfully")
	return nil
}
