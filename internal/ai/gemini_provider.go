package ai

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"

	"atscore/internal/config"
	apperrors "atscore/internal/errors"
	"atscore/internal/types"
)

// Model availability checks get their own short deadline; operation
// timeouts can be far longer.
const modelCheckTimeout = 10 * time.Second

const maxRetryBackoff = 30 * time.Second

// GeminiProvider talks to Google Gemini on behalf of one operation,
// with its own retry policy and circuit breakers.
type GeminiProvider struct {
	client         *genai.Client
	httpClient     *http.Client
	config         *config.OperationAIConfig
	circuitBreaker *AICircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	logger         *apperrors.Logger
}

var _ AIProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a provider bound to one operation's settings.
func NewGeminiProvider(cfg *config.OperationAIConfig, operationType string, logger *apperrors.Logger) (*GeminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:         client,
		httpClient:     &http.Client{Timeout: *cfg.Timeout},
		config:         cfg,
		circuitBreaker: NewAICircuitBreaker(operationType, cfg, logger),
		modelBreaker:   NewModelCircuitBreaker(operationType, cfg, logger),
		logger:         logger,
	}, nil
}

// ModelInfo describes the configured model's availability.
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// GetModelInfo probes the configured model through the model breaker.
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	info := &ModelInfo{Name: g.config.Model}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return info
	}

	info.Available = true
	info.DisplayName = model.DisplayName
	info.Version = model.Version

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"provider", g.config.Provider,
		"display_name", info.DisplayName,
		"version", info.Version)

	return info
}

// backoffDelay returns the wait before retry attempt n (1-based), using
// exponential growth plus up to 10% jitter, capped at maxRetryBackoff.
func backoffDelay(attempt int) time.Duration {
	base := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
	jitterBig, _ := rand.Int(rand.Reader, big.NewInt(int64(float64(base)*0.1)))
	return min(base+time.Duration(jitterBig.Int64()), maxRetryBackoff)
}

func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	retries := *g.config.MaxRetries

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", retries,
				"error", lastErr.Error())

			select {
			case <-time.After(backoffDelay(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt+1,
					"total_attempts", attempt+1)
			}
			return result, nil
		}
		lastErr = err

		if !retryable(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", retries+1)

	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, retries, lastErr)
}

// retryable reports whether the error is transient: network failures and
// a handful of HTTP status codes from the Google API. Auth and input
// errors are permanent.
func retryable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// executeAIOperation runs one generation request end to end: tracing,
// breaker, retries, and JSON decoding of the structured response.
func executeAIOperation[Out any](
	g *GeminiProvider,
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out
	ctx, span := otel.Tracer("atscore.ai.gemini").Start(ctx, "gemini."+operationName)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	fail := func(err error) {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})
	if err != nil {
		fail(err)
		return output, nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed, "Failed to generate content for "+operationName, err)
	}

	if err := json.Unmarshal([]byte(result.Text()), &output); err != nil {
		fail(err)
		return output, nil, apperrors.NewAIError("AI_RESPONSE_PARSE_FAILED", "Failed to parse AI response for "+operationName, err)
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return output, tokenUsage, nil
}

// TailorResume rewrites a resume toward a job description.
func (g *GeminiProvider) TailorResume(ctx context.Context, input types.TailorResumeInput) (types.TailorResumeOutput, *TokenUsage, error) {
	prompts := g.promptsFor("tailor")

	output, tokenUsage, err := executeAIOperation[types.TailorResumeOutput](
		g,
		ctx,
		"tailor_resume",
		fmt.Sprintf(prompts.user, input.BaseResume, input.JobDescription),
		prompts.system,
		g.generationConfig(map[string]*genai.Schema{
			"tailoredResume": {Type: genai.TypeString},
			"keyChanges": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		}, "tailoredResume", "keyChanges"),
		attribute.Int("input.resume_length", len(input.BaseResume)),
		attribute.Int("input.job_length", len(input.JobDescription)),
	)
	if err != nil {
		return types.TailorResumeOutput{}, nil, err
	}

	output.TailoredResume = cleanResumeOutput(output.TailoredResume)
	if err := validateResumeOutput(output.TailoredResume); err != nil {
		return types.TailorResumeOutput{}, tokenUsage, err
	}
	if err := validateResumePreservation(output.TailoredResume, input.BaseResume); err != nil {
		return types.TailorResumeOutput{}, tokenUsage, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("output.tailored_length", len(output.TailoredResume)),
			attribute.Int("output.key_changes", len(output.KeyChanges)),
		)
	}

	return output, tokenUsage, nil
}

// GenerateCoverLetter drafts a cover letter from a resume and job posting.
func (g *GeminiProvider) GenerateCoverLetter(ctx context.Context, input types.CoverLetterInput) (types.CoverLetterOutput, *TokenUsage, error) {
	userName := input.UserName
	if userName == "" {
		userName = "The Candidate"
	}

	prompts := g.promptsFor("coverletter")

	output, tokenUsage, err := executeAIOperation[types.CoverLetterOutput](
		g,
		ctx,
		"generate_cover_letter",
		fmt.Sprintf(prompts.user, input.JobDescription, input.Resume, userName),
		prompts.system,
		g.generationConfig(map[string]*genai.Schema{
			"coverLetter": {Type: genai.TypeString},
		}, "coverLetter"),
		attribute.Int("input.resume_length", len(input.Resume)),
		attribute.Int("input.job_length", len(input.JobDescription)),
	)
	if err != nil {
		return types.CoverLetterOutput{}, nil, err
	}

	output.CoverLetter = cleanCoverLetterOutput(output.CoverLetter, userName)
	if err := validateCoverLetterOutput(output.CoverLetter); err != nil {
		return types.CoverLetterOutput{}, tokenUsage, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.Int("output.cover_letter_length", len(output.CoverLetter)))
	}

	return output, tokenUsage, nil
}

// AnswerQuestion answers an application question grounded in the resume.
func (g *GeminiProvider) AnswerQuestion(ctx context.Context, input types.AnswerQuestionInput) (types.AnswerQuestionOutput, *TokenUsage, error) {
	prompts := g.promptsFor("answer")

	output, tokenUsage, err := executeAIOperation[types.AnswerQuestionOutput](
		g,
		ctx,
		"answer_question",
		fmt.Sprintf(prompts.user, input.JobDescription, input.Resume, input.Question),
		prompts.system,
		g.generationConfig(map[string]*genai.Schema{
			"answer": {Type: genai.TypeString},
		}, "answer"),
		attribute.Int("input.question_length", len(input.Question)),
		attribute.Int("input.resume_length", len(input.Resume)),
		attribute.Int("input.job_length", len(input.JobDescription)),
	)
	if err != nil {
		return types.AnswerQuestionOutput{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.Int("output.answer_length", len(output.Answer)))
	}

	return output, tokenUsage, nil
}

// GetCircuitBreakerStats reports both breakers plus a combined health flag.
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetModelStats(),
		"overall_healthy":  g.circuitBreaker.IsHealthy() && g.modelBreaker.IsModelHealthy(),
	}
}

// Close is a no-op; the genai client holds no long-lived connections in
// single-shot usage.
func (g *GeminiProvider) Close() error {
	return nil
}

// generationConfig builds a structured-output request config with the
// given JSON object schema and the operation's temperature.
func (g *GeminiProvider) generationConfig(properties map[string]*genai.Schema, required ...string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: properties,
			Required:   required,
		},
	}
	if *g.config.Temperature > 0 {
		cfg.Temperature = g.config.Temperature
	}
	return cfg
}

// operationPrompts is the resolved prompt pair for one request.
type operationPrompts struct {
	system string
	user   string
}

// promptsFor resolves the system and user prompts for an operation.
// Precedence per prompt: file-loaded content, then config value, then
// the built-in default.
func (g *GeminiProvider) promptsFor(operationType string) operationPrompts {
	loaded := config.GetPromptsForOperation(operationType)
	cfg := g.config.CustomPrompts

	pick := func(fromFile, fromConfig, fallback string) string {
		if fromFile != "" {
			return fromFile
		}
		if fromConfig != "" {
			return fromConfig
		}
		return fallback
	}

	switch operationType {
	case "tailor":
		return operationPrompts{
			system: pick(loaded.SystemPrompts.TailorResume, cfg.SystemPrompts.TailorResume, DefaultSystemPrompts.TailorResume),
			user:   pick(loaded.UserPrompts.TailorResume, cfg.UserPrompts.TailorResume, DefaultUserPrompts.TailorResume),
		}
	case "coverletter":
		return operationPrompts{
			system: pick(loaded.SystemPrompts.CoverLetter, cfg.SystemPrompts.CoverLetter, DefaultSystemPrompts.CoverLetter),
			user:   pick(loaded.UserPrompts.CoverLetter, cfg.UserPrompts.CoverLetter, DefaultUserPrompts.CoverLetter),
		}
	case "answer":
		return operationPrompts{
			system: pick(loaded.SystemPrompts.AnswerQuestion, cfg.SystemPrompts.AnswerQuestion, DefaultSystemPrompts.AnswerQuestion),
			user:   pick(loaded.UserPrompts.AnswerQuestion, cfg.UserPrompts.AnswerQuestion, DefaultUserPrompts.AnswerQuestion),
		}
	default:
		return operationPrompts{}
	}
}

// TokenUsage is the token accounting reported by a generation response.
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}
	return &TokenUsage{
		InputTokens:  int64(result.UsageMetadata.PromptTokenCount),
		OutputTokens: int64(result.UsageMetadata.CandidatesTokenCount),
		TotalTokens:  int64(result.UsageMetadata.TotalTokenCount),
	}
}
