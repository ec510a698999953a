package cli

import (
	"fmt"

	"atscore/internal/ats"
	"atscore/internal/common"
	"atscore/internal/types"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report [resume-file] [job-description-file]",
	Short: "Generate a full ATS report for a resume",
	Long: `Generate a structured ATS report covering job analysis, resume
performance, improvement opportunities, and competitive advantages.

The report is built from the same local keyword analysis as the match
command; no AI provider or API key is required.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd.Context(), &reportConfig)
	},
	RunE: runReport,
}

var reportConfig common.CommandConfig

func init() {
	registerOutputFlags(reportCmd, &reportConfig)
}

func runReport(cmd *cobra.Command, args []string) error {
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
		logger.Info("Starting report generation",
			"resume_chars", len(input.Resume),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	reportOperation := func(input types.MatchInput) (types.ATSReport, error) {
		return engine.Report(input.Resume, input.JobDescription)
	}

	err = common.RunLocalCommand(
		logger,
		reportConfig,
		args,
		createInput,
		reportOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	logger.Info("Report generation completed successfully")
	return nil
}
