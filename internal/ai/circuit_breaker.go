package ai

import (
	"fmt"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"

	"atscore/internal/config"
	"atscore/internal/errors"
)

// Model metadata lookups tolerate far more failures than generation
// calls before tripping.
const (
	modelTripMinRequests = 5
	modelTripRatio       = 0.8
)

// AICircuitBreaker guards content generation calls for one operation type.
// A nil breaker means the feature is disabled and calls pass through.
type AICircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.GenerateContentResponse]
}

// ModelCircuitBreaker guards model metadata lookups.
type ModelCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[*genai.Model]
}

// breakerSettings builds gobreaker settings shared by both breaker kinds.
func breakerSettings(name, operationType string, cfg *config.OperationAIConfig, logger *errors.Logger, trip func(gobreaker.Counts) bool) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.CircuitBreaker.MaxRequests,
		Interval:    cfg.CircuitBreaker.Interval,
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: trip,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger == nil {
				return
			}
			logger.Info("Circuit breaker state changed",
				"name", name,
				"operation_type", operationType,
				"from", from.String(),
				"to", to.String(),
				"max_requests", cfg.CircuitBreaker.MaxRequests,
				"failure_threshold", cfg.CircuitBreaker.FailureThreshold)
		},
	}
}

// NewAICircuitBreaker builds a generation breaker for one operation type.
// Returns nil when the breaker is disabled in configuration.
func NewAICircuitBreaker(operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *AICircuitBreaker {
	if !cfg.CircuitBreaker.Enabled {
		return nil
	}

	trip := func(counts gobreaker.Counts) bool {
		if counts.Requests < cfg.CircuitBreaker.MinRequests {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.CircuitBreaker.FailureThreshold
	}
	settings := breakerSettings(fmt.Sprintf("AI-%s", operationType), operationType, cfg, logger, trip)

	return &AICircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[*genai.GenerateContentResponse](settings),
	}
}

// NewModelCircuitBreaker builds a metadata-lookup breaker for one
// operation type. Returns nil when the breaker is disabled.
func NewModelCircuitBreaker(operationType string, cfg *config.OperationAIConfig, logger *errors.Logger) *ModelCircuitBreaker {
	if !cfg.CircuitBreaker.Enabled {
		return nil
	}

	trip := func(counts gobreaker.Counts) bool {
		if counts.Requests < modelTripMinRequests {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) >= modelTripRatio
	}
	settings := breakerSettings(fmt.Sprintf("AI-Model-%s", operationType), operationType, cfg, logger, trip)

	return &ModelCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[*genai.Model](settings),
	}
}

// Execute runs fn under the breaker. A nil receiver runs fn directly.
func (cb *AICircuitBreaker) Execute(fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	if cb == nil || cb.cb == nil {
		return fn()
	}
	return cb.cb.Execute(fn)
}

// ExecuteModel runs fn under the breaker. A nil receiver runs fn directly.
func (cb *ModelCircuitBreaker) ExecuteModel(fn func() (*genai.Model, error)) (*genai.Model, error) {
	if cb == nil || cb.cb == nil {
		return fn()
	}
	return cb.cb.Execute(fn)
}

// GetStats reports breaker state for the stats endpoint.
func (cb *AICircuitBreaker) GetStats() map[string]any {
	if cb == nil || cb.cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    cb.cb.Name(),
		"state":   cb.cb.State().String(),
		"counts":  cb.cb.Counts(),
		"enabled": true,
	}
}

// GetModelStats reports breaker state for the stats endpoint.
func (cb *ModelCircuitBreaker) GetModelStats() map[string]any {
	if cb == nil || cb.cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    cb.cb.Name(),
		"state":   cb.cb.State().String(),
		"counts":  cb.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy reports whether the breaker is closed. A disabled breaker
// counts as healthy.
func (cb *AICircuitBreaker) IsHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true
	}
	return cb.cb.State() == gobreaker.StateClosed
}

// IsModelHealthy reports whether the breaker is closed. A disabled
// breaker counts as healthy.
func (cb *ModelCircuitBreaker) IsModelHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true
	}
	return cb.cb.State() == gobreaker.StateClosed
}
