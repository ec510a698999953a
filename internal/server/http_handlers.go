package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"atscore/internal/ai"
)

// aiOperations lists the AI-backed operations whose models and circuit
// breakers are surfaced on the health endpoint.
var aiOperations = []string{"tailor", "coverletter", "answer"}

// Certificates nearing expiry degrade health before they actually expire.
const (
	certExpiryCritical = 24 * time.Hour
	certExpiryWarning  = 7 * 24 * time.Hour
)

// newOperationService builds the AI service for a named operation from
// its derived configuration.
func (s *Server) newOperationService(operation string) (*ai.Service, error) {
	cfg := s.AppConfig.GetTailorConfig()
	switch operation {
	case "coverletter":
		cfg = s.AppConfig.GetCoverLetterConfig()
	case "answer":
		cfg = s.AppConfig.GetAnswerConfig()
	}
	return ai.NewService(&cfg, operation, s.Logger)
}

// healthHandler reports overall service health: the in-process scoring
// engine, per-operation AI model reachability, circuit breakers, and TLS
// certificate state. Any unavailable AI model or unhealthy certificate
// degrades the response to 503.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	aiStatus := s.checkAIModelsHealth()
	certStatus := s.checkCertificateHealth()

	response := map[string]any{
		"status":  "healthy",
		"service": "atscore",
		"version": s.Version,
		// The scoring engine is in-process and available once the server
		// is up; only the AI side can degrade.
		"scoring_engine":   map[string]any{"available": s.Engine != nil},
		"ai_models":        aiStatus,
		"circuit_breakers": s.checkCircuitBreakerHealth(),
	}
	if certStatus != nil {
		response["certificates"] = certStatus
	}

	if !modelsAvailable(aiStatus) || !certHealthy(certStatus) {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func modelsAvailable(aiStatus map[string]any) bool {
	for _, status := range aiStatus {
		info, ok := status.(map[string]any)
		if !ok {
			continue
		}
		if available, ok := info["available"].(bool); ok && !available {
			return false
		}
	}
	return true
}

func certHealthy(certStatus map[string]any) bool {
	if certStatus == nil {
		return true
	}
	healthy, ok := certStatus["healthy"].(bool)
	return !ok || healthy
}

// checkAIModelsHealth queries model metadata for every AI operation
// under the configured health check timeout.
func (s *Server) checkAIModelsHealth() map[string]any {
	timeout := s.AppConfig.Observability.HealthCheck.Timeout
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	status := make(map[string]any, len(aiOperations))
	for _, operation := range aiOperations {
		service, err := s.newOperationService(operation)
		if err != nil {
			status[operation] = map[string]any{
				"available": false,
				"error":     fmt.Sprintf("Failed to create %s service: %v", operation, err),
			}
			continue
		}
		status[operation] = service.GetModelInfo(ctx)
	}
	return status
}

// checkCircuitBreakerHealth reports whether each operation's breaker
// could be constructed.
func (s *Server) checkCircuitBreakerHealth() map[string]any {
	status := make(map[string]any, len(aiOperations))
	for _, operation := range aiOperations {
		if _, err := s.newOperationService(operation); err != nil {
			status[operation] = map[string]any{
				"available": false,
				"error":     fmt.Sprintf("Failed to create %s service: %v", operation, err),
			}
			continue
		}
		status[operation] = map[string]any{
			"available": true,
			"message":   fmt.Sprintf("Circuit breaker integrated with %s service", operation),
		}
	}
	return status
}

// checkCertificateHealth inspects certificate expiry, auto-reload state,
// and reload metrics. Returns nil when no certificate manager is running.
func (s *Server) checkCertificateHealth() map[string]any {
	if s.CertificateManager == nil {
		return nil
	}

	status := make(map[string]any)

	timeToExpiry, err := s.CertificateManager.CheckExpiry()
	if err != nil {
		status["healthy"] = false
		status["error"] = fmt.Sprintf("Failed to check certificate expiry: %v", err)
		return status
	}

	status["time_to_expiry_hours"] = int(timeToExpiry.Hours())
	status["time_to_expiry"] = timeToExpiry.String()

	switch {
	case timeToExpiry <= 0:
		status["healthy"] = false
		status["status"] = "expired"
		status["message"] = "Certificate has expired"
	case timeToExpiry <= certExpiryCritical:
		status["healthy"] = false
		status["status"] = "critical"
		status["message"] = "Certificate expires within 24 hours"
	case timeToExpiry <= certExpiryWarning:
		status["healthy"] = true
		status["status"] = "warning"
		status["message"] = "Certificate expires within 7 days"
	default:
		status["healthy"] = true
		status["status"] = "ok"
		status["message"] = "Certificate is valid"
	}

	if !s.TLSConfig.AutoReload.Enabled {
		status["auto_reload"] = map[string]any{"enabled": false}
	} else {
		autoReload := map[string]any{
			"enabled":               true,
			"file_watcher_enabled":  s.TLSConfig.AutoReload.FileWatcher.Enabled,
			"vault_watcher_enabled": s.TLSConfig.AutoReload.VaultWatcher.Enabled,
		}
		if fw := s.CertificateManager.fileWatcher; fw != nil {
			autoReload["file_watcher_running"] = fw.IsRunning()
			autoReload["watched_files"] = fw.GetWatchedFiles()
		}
		if vw := s.CertificateManager.vaultWatcher; vw != nil {
			autoReload["vault_watcher_status"] = vw.Status()
		}
		status["auto_reload"] = autoReload
	}

	if metrics := s.CertificateManager.GetMetrics(); metrics != nil {
		status["metrics"] = map[string]any{
			"reload_count":         metrics.ReloadCount,
			"reload_success_count": metrics.ReloadSuccessCount,
			"reload_failure_count": metrics.ReloadFailureCount,
			"last_reload_time":     metrics.LastReloadTime,
			"last_reload_success":  metrics.LastReloadSuccess,
			"last_reload_error":    metrics.LastReloadError,
		}
	}

	return status
}

// statsHandler reports request limits and rate limiter activity.
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "atscore",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// parseJSONRequest decodes the request body into v, enforcing the JSON
// content type and surfacing the body size limit in the error message.
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// writeErrorResponse emits the standard JSON error envelope.
func writeErrorResponse(w http.ResponseWriter, errorKind, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: errorKind, Message: message}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
