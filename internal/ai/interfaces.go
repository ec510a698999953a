package ai

import (
	"context"

	"atscore/internal/types"
)

// AIProvider interface for different AI implementations
// All methods return token usage information - callers can ignore it if not needed
type AIProvider interface {
	TailorResume(ctx context.Context, input types.TailorResumeInput) (types.TailorResumeOutput, *TokenUsage, error)
	GenerateCoverLetter(ctx context.Context, input types.CoverLetterInput) (types.CoverLetterOutput, *TokenUsage, error)
	AnswerQuestion(ctx context.Context, input types.AnswerQuestionInput) (types.AnswerQuestionOutput, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
