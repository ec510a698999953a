package ai

import (
	"context"
	"fmt"

	"atscore/internal/config"
	"atscore/internal/errors"
)

// Service is the entry point for AI-backed operations. Each operation
// type (tailor, coverletter, answer) gets its own Service with its own
// provider configuration.
type Service struct {
	Provider AIProvider
	config   *config.OperationAIConfig
	logger   *errors.Logger
}

// NewService builds a Service for one operation type. The API key is
// checked here so misconfiguration surfaces before any network call.
func NewService(cfg *config.OperationAIConfig, operationType string, logger *errors.Logger) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			fmt.Sprintf("No API key configured for the %s operation", operationType), nil)
	}

	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation_type", operationType,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	if cfg.Provider != "gemini" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	provider, err := NewGeminiProvider(cfg, operationType, logger)
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create AI provider", err)
	}

	return &Service{Provider: provider, config: cfg, logger: logger}, nil
}

// GetModelInfo exposes the provider's model metadata for health checks.
func (s *Service) GetModelInfo(ctx context.Context) any {
	return s.Provider.GetModelInfo(ctx)
}
