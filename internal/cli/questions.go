package cli

import (
	"context"
	"fmt"

	"atscore/internal/ai"
	"atscore/internal/ats"
	"atscore/internal/common"
	"atscore/internal/types"

	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions [job-description-file] [resume-file]",
	Short: "Suggest likely interview questions, or answer one",
	Long: `Suggest interview questions an applicant is likely to face for a
job, based on the posting and the gaps and strengths in the resume.

Question suggestion runs entirely locally. With --answer, the command
instead drafts an answer to the given question using AI, grounded in the
resume and job description.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFormatDefaults(cmd.Context(), &questionsConfig)
	},
	RunE: runQuestions,
}

var (
	questionsConfig common.CommandConfig
	answerQuestion  string
)

func init() {
	registerOutputFlags(questionsCmd, &questionsConfig)
	questionsCmd.Flags().StringVar(&answerQuestion, "answer", "", "Draft an answer to this question instead of suggesting questions")
}

func runQuestions(cmd *cobra.Command, args []string) error {
	if answerQuestion != "" {
		return runAnswer(cmd, args)
	}
	return runSuggest(cmd, args)
}

func runSuggest(cmd *cobra.Command, args []string) error {
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
			JobDescription: contents[0],
			Resume:         contents[1],
		}, nil
	}

	logDetails := func(input types.MatchInput, cfg common.CommandConfig) {
		logger.Info("Suggesting interview questions",
			"job_chars", len(input.JobDescription),
			"resume_chars", len(input.Resume),
			"output_format", cfg.OutputFormat)
	}

	suggestOperation := func(input types.MatchInput) ([]string, error) {
		return engine.SuggestQuestions(input.JobDescription, input.Resume)
	}

	err = common.RunLocalCommand(
		logger,
		questionsConfig,
		args,
		createInput,
		suggestOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to suggest questions: %w", err)
	}
	logger.Info("Question suggestion completed successfully")
	return nil
}

func runAnswer(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	// Create AI service for answer operation
	answerAIConfig := cfg.GetAnswerConfig()
	aiService, err := ai.NewService(&answerAIConfig, "answer", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	createInput := func(contents []string) (types.AnswerQuestionInput, error) {
		if len(contents) != 2 {
			return types.AnswerQuestionInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return types.AnswerQuestionInput{
			Question:       answerQuestion,
			JobDescription: contents[0],
			Resume:         contents[1],
		}, nil
	}

	logDetails := func(input types.AnswerQuestionInput, cfg common.CommandConfig) {
		logger.Info("Drafting interview answer",
			"question_chars", len(input.Question),
			"job_chars", len(input.JobDescription),
			"resume_chars", len(input.Resume),
			"output_format", cfg.OutputFormat)
	}

	// Create a wrapper function that uses our specific AI service
	answerOperation := func(ctx context.Context, input types.AnswerQuestionInput) (types.AnswerQuestionOutput, *ai.TokenUsage, error) {
		return aiService.Provider.AnswerQuestion(ctx, input)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		questionsConfig,
		args,
		createInput,
		answerOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to draft answer: %w", err)
	}
	logger.Info("Interview answer completed successfully")
	return nil
}
