package cli

import (
	"fmt"

	"atscore/internal/ats"
	"atscore/internal/common"
	"atscore/internal/types"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match [resume-file] [job-description-file]",
	Short: "Score a resume against a job description",
	Long: `Score a resume against a job description using keyword matching.
The command takes two arguments: the path to your resume file and the path
to the job description file. Both files should be in plain text format.

Matching runs entirely locally; no AI provider or API key is required.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd.Context(), &matchConfig)
	},
	RunE: runMatch,
}

var matchConfig common.CommandConfig

func init() {
	registerOutputFlags(matchCmd, &matchConfig)
}

// registerOutputFlags wires the shared --output/--format flags and shell
// completion for the format values.
func registerOutputFlags(cmd *cobra.Command, cmdConfig *common.CommandConfig) {
	cmd.Flags().StringVarP(&cmdConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cmdConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	engine, err := ats.NewEngine(ats.DefaultTaxonomy(), cfg.Scoring.Thresholds)
	if err != nil {
		return fmt.Errorf("failed to create scoring engine: %w", err)
	}

	createInput := func(contents []string) (types.MatchInput, error) {
		if len(contents) != 2 {
			return types.MatchInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return types.MatchInput{
			Resume:         contents[0],
			JobDescription: contents[1],
		}, nil
	}

	logDetails := func(input types.MatchInput, cfg common.CommandConfig) {
		logger.Info("Starting match analysis",
			"resume_chars", len(input.Resume),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	matchOperation := func(input types.MatchInput) (types.MatchResult, error) {
		return engine.Match(input.Resume, input.JobDescription)
	}

	err = common.RunLocalCommand(
		logger,
		matchConfig,
		args,
		createInput,
		matchOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to run match analysis: %w", err)
	}
	logger.Info("Match analysis completed successfully")
	return nil
}
