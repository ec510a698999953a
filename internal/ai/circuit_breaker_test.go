package ai

import (
	"testing"
	"time"

	"atscore/internal/config"
)

func breakerTestConfig(model string, cb config.CircuitBreakerConfig) *config.OperationAIConfig {
	return &config.OperationAIConfig{
		Provider:       "gemini",
		Model:          model,
		CircuitBreaker: cb,
	}
}

func statsString(t *testing.T, stats map[string]any, key string) string {
	t.Helper()
	v, ok := stats[key].(string)
	if !ok {
		t.Fatalf("stats[%q] missing or not a string: %v", key, stats[key])
	}
	return v
}

func TestIndependentCircuitBreakerConfigurations(t *testing.T) {
	tailorCB := NewAICircuitBreaker("Tailor", breakerTestConfig("gemini-2.5-pro", config.CircuitBreakerConfig{
		Enabled: true, MaxRequests: 3, Interval: 60 * time.Second, Timeout: 60 * time.Second,
		MinRequests: 3, FailureThreshold: 0.6,
	}), nil)
	coverLetterCB := NewAICircuitBreaker("CoverLetter", breakerTestConfig("gemini-2.0-flash-lite", config.CircuitBreakerConfig{
		Enabled: true, MaxRequests: 5, Interval: 30 * time.Second, Timeout: 45 * time.Second,
		MinRequests: 2, FailureThreshold: 0.7,
	}), nil)
	answerCB := NewAICircuitBreaker("Answer", breakerTestConfig("gemini-1.5-pro", config.CircuitBreakerConfig{
		Enabled: true, MaxRequests: 4, Interval: 90 * time.Second, Timeout: 75 * time.Second,
		MinRequests: 5, FailureThreshold: 0.5,
	}), nil)

	breakers := map[string]*AICircuitBreaker{
		"AI-Tailor":      tailorCB,
		"AI-CoverLetter": coverLetterCB,
		"AI-Answer":      answerCB,
	}

	for wantName, cb := range breakers {
		t.Run(wantName, func(t *testing.T) {
			stats := cb.GetStats()

			if got := statsString(t, stats, "name"); got != wantName {
				t.Errorf("breaker name = %q, want %q", got, wantName)
			}
			if got := statsString(t, stats, "state"); got != "closed" {
				t.Errorf("initial state = %q, want closed", got)
			}
			if enabled, _ := stats["enabled"].(bool); !enabled {
				t.Error("breaker should report enabled")
			}
			if !cb.IsHealthy() {
				t.Error("fresh breaker should be healthy")
			}
		})
	}

	if tailorCB == coverLetterCB || tailorCB == answerCB || coverLetterCB == answerCB {
		t.Error("each operation must get its own breaker instance")
	}
}

func TestCircuitBreakerConfigurationMapping(t *testing.T) {
	cb := NewAICircuitBreaker("Test", breakerTestConfig("test-model", config.CircuitBreakerConfig{
		Enabled: true, MaxRequests: 10, Interval: 120 * time.Second, Timeout: 90 * time.Second,
		MinRequests: 5, FailureThreshold: 0.8,
	}), nil)
	if cb == nil {
		t.Fatal("enabled config should yield a breaker")
	}

	stats := cb.GetStats()
	if stats == nil {
		t.Fatal("GetStats returned nil")
	}
	if got := statsString(t, stats, "name"); got != "AI-Test" {
		t.Errorf("breaker name = %q, want AI-Test", got)
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	cb := NewAICircuitBreaker("Disabled", breakerTestConfig("test-model", config.CircuitBreakerConfig{
		Enabled: false,
	}), nil)

	// Disabled breakers are nil receivers that pass calls straight through.
	if cb != nil {
		t.Fatal("disabled config should yield a nil breaker")
	}
	if !cb.IsHealthy() {
		t.Error("nil breaker should report healthy")
	}
	if enabled, _ := cb.GetStats()["enabled"].(bool); enabled {
		t.Error("nil breaker stats should report enabled=false")
	}
}
