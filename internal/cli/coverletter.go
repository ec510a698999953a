package cli

import (
	"context"
	"fmt"

	"atscore/internal/ai"
	"atscore/internal/common"
	"atscore/internal/types"

	"github.com/spf13/cobra"
)

var coverLetterCmd = &cobra.Command{
	Use:   "coverletter [resume-file] [job-description-file]",
	Short: "Generate a cover letter for a job application",
	Long: `Generate a tailored cover letter using AI.
The command takes two arguments: the path to your resume file and the path
to the job description file. Use --name to sign the letter with your name.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd.Context(), &coverLetterConfig)
	},
	RunE: runCoverLetter,
}

var (
	coverLetterConfig common.CommandConfig
	coverLetterName   string
)

func init() {
	registerOutputFlags(coverLetterCmd, &coverLetterConfig)
	coverLetterCmd.Flags().StringVar(&coverLetterName, "name", "", "Candidate name used to sign the letter")
}

func runCoverLetter(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	// Create AI service for cover letter operation
	coverLetterAIConfig := cfg.GetCoverLetterConfig()
	aiService, err := ai.NewService(&coverLetterAIConfig, "coverletter", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	createInput := func(contents []string) (types.CoverLetterInput, error) {
		if len(contents) != 2 {
			return types.CoverLetterInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return types.CoverLetterInput{
			Resume:         contents[0],
			JobDescription: contents[1],
			UserName:       coverLetterName,
		}, nil
	}

	logDetails := func(input types.CoverLetterInput, cfg common.CommandConfig) {
		logger.Info("Starting cover letter generation",
			"resume_chars", len(input.Resume),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	// Create a wrapper function that uses our specific AI service
	coverLetterOperation := func(ctx context.Context, input types.CoverLetterInput) (types.CoverLetterOutput, *ai.TokenUsage, error) {
		return aiService.Provider.GenerateCoverLetter(ctx, input)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		coverLetterConfig,
		args,
		createInput,
		coverLetterOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to generate cover letter: %w", err)
	}
	logger.Info("Cover letter generation completed successfully")
	return nil
}
