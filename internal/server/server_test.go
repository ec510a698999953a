package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"atscore/internal/ats"
	"atscore/internal/config"
	"atscore/internal/errors"
	"atscore/internal/observability"
	"atscore/internal/types"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	engine, err := ats.NewDefaultEngine()
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	return &Server{
		Version:        "test",
		Engine:         engine,
		MaxRequestSize: 1024 * 1024,
		Logger:         errors.NewLogger(slog.LevelError),
	}
}

func newDisabledObservability(t *testing.T) *observability.ObservabilityManager {
	t.Helper()

	om, err := observability.NewObservabilityManager(
		observability.ObservabilityConfig{Enabled: false}, &config.Config{})
	if err != nil {
		t.Fatalf("Failed to create observability manager: %v", err)
	}
	return om
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		apiKey   string
		expected string
	}{
		{"", "****"},
		{"short", "****"},
		{"12345678", "****"},
		{"123456789abcdef", "12345678****"},
	}

	for _, tt := range tests {
		if got := maskAPIKey(tt.apiKey); got != tt.expected {
			t.Errorf("maskAPIKey(%q) = %q, want %q", tt.apiKey, got, tt.expected)
		}
	}
}

func TestParseFirstIP(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"SingleIP", "192.168.1.1", "192.168.1.1"},
		{"MultipleIPs", "203.0.113.7, 192.168.1.1", "203.0.113.7"},
		{"LeadingGarbage", "not-an-ip, 10.0.0.1", "10.0.0.1"},
		{"AllInvalid", "foo, bar", ""},
		{"IPv6", "2001:db8::1", "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFirstIP(tt.input); got != tt.expected {
				t.Errorf("parseFirstIP(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/match", nil)
	r.RemoteAddr = "10.1.2.3:54321"

	if got := getClientIP(r); got != "10.1.2.3" {
		t.Errorf("Expected RemoteAddr host, got %q", got)
	}

	r.Header.Set("X-Real-IP", "203.0.113.9")
	if got := getClientIP(r); got != "203.0.113.9" {
		t.Errorf("Expected X-Real-IP to win over RemoteAddr, got %q", got)
	}

	r.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1")
	if got := getClientIP(r); got != "198.51.100.4" {
		t.Errorf("Expected first X-Forwarded-For IP, got %q", got)
	}
}

func TestGetRateLimitKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/match", nil)
	r.RemoteAddr = "10.1.2.3:54321"

	if key := getRateLimitKey(r, false, false); key != "" {
		t.Errorf("Expected empty key when both dimensions disabled, got %q", key)
	}

	if key := getRateLimitKey(r, false, true); key != "ip:10.1.2.3" {
		t.Errorf("Expected IP key, got %q", key)
	}

	r.Header.Set("X-API-Key", "my-key")
	if key := getRateLimitKey(r, true, true); key != "api:my-key" {
		t.Errorf("Expected API key to win over IP, got %q", key)
	}

	r.Header.Del("X-API-Key")
	r.Header.Set("Authorization", "Bearer token-123")
	if key := getRateLimitKey(r, true, false); key != "api:token-123" {
		t.Errorf("Expected Bearer token key, got %q", key)
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t)
	s.APIKeys = map[string]bool{"valid-key": true}

	handler := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
	}{
		{"MissingKey", "", "", http.StatusUnauthorized},
		{"InvalidKey", "X-API-Key", "wrong-key", http.StatusUnauthorized},
		{"ValidKey", "X-API-Key", "valid-key", http.StatusOK},
		{"ValidBearer", "Authorization", "Bearer valid-key", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/match", nil)
			if tt.header != "" {
				r.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()

			handler(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestAuthMiddlewareSkippedWithoutKeys(t *testing.T) {
	s := newTestServer(t)

	handler := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodPost, "/match", nil)
	w := httptest.NewRecorder()
	handler(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected auth to be skipped when no keys configured, got %d", w.Code)
	}
}

func TestMatchHandler(t *testing.T) {
	s := newTestServer(t)
	om := newDisabledObservability(t)
	handler := s.createMatchHandler(om)

	resume := `Senior software engineer with Go, Python, and Kubernetes experience.
Led a team of five engineers building microservices on AWS with Docker and
PostgreSQL. Improved deployment throughput by 40% with CI/CD automation.
Experience
Skills
Education`
	job := `We are hiring a senior backend engineer. Requirements: 5+ years of
experience with Go, Kubernetes, Docker, and PostgreSQL. AWS experience
preferred. You will lead architecture and mentor the team.`

	body, _ := json.Marshal(MatchRequest{Resume: resume, JobDescription: job})
	r := httptest.NewRequest(http.MethodPost, "/match", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var result types.MatchResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if result.ATSOptimizationScore <= 0 {
		t.Errorf("Expected a positive ATS score, got %f", result.ATSOptimizationScore)
	}
	if len(result.TechnicalMatches) == 0 {
		t.Error("Expected technical matches for an overlapping resume and job")
	}
}

func TestMatchHandlerRejectsMissingFields(t *testing.T) {
	s := newTestServer(t)
	om := newDisabledObservability(t)
	handler := s.createMatchHandler(om)

	body, _ := json.Marshal(MatchRequest{Resume: "only a resume"})
	r := httptest.NewRequest(http.MethodPost, "/match", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for missing job description, got %d", w.Code)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if !strings.Contains(errResp.Message, "jobDescription") {
		t.Errorf("Expected error message to name the missing field, got %q", errResp.Message)
	}
}

func TestMatchHandlerRejectsWrongContentType(t *testing.T) {
	s := newTestServer(t)
	om := newDisabledObservability(t)
	handler := s.createMatchHandler(om)

	r := httptest.NewRequest(http.MethodPost, "/match", strings.NewReader("resume=abc"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	handler(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for wrong content type, got %d", w.Code)
	}
}

func TestQuestionsHandler(t *testing.T) {
	s := newTestServer(t)
	om := newDisabledObservability(t)
	handler := s.createQuestionsHandler(om)

	resume := `Backend engineer with Go and PostgreSQL experience. Built REST
APIs and internal tooling. Mentored junior engineers.
Experience
Skills
Education`
	job := `Senior engineer role. Requirements: Go, Kubernetes, AWS, Terraform.
Lead architecture reviews and mentor the team.`

	body, _ := json.Marshal(MatchRequest{Resume: resume, JobDescription: job})
	r := httptest.NewRequest(http.MethodPost, "/questions", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Questions []string `json:"questions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Questions) == 0 {
		t.Error("Expected at least one suggested question")
	}
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	s := newTestServer(t)
	s.MaxRequestSize = 64

	om := newDisabledObservability(t)
	handler := s.requestSizeLimitMiddleware()(s.createMatchHandler(om))

	body, _ := json.Marshal(MatchRequest{
		Resume:         strings.Repeat("x", 200),
		JobDescription: strings.Repeat("y", 200),
	})
	r := httptest.NewRequest(http.MethodPost, "/match", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for oversized body, got %d", w.Code)
	}
}

func TestRateLimiterAllow(t *testing.T) {
	logger := errors.NewLogger(slog.LevelError)
	limiter := NewRateLimiter(60, 0, 2, logger)
	defer limiter.Close()

	// Burst capacity of 2 admits the first two requests immediately.
	if !limiter.Allow("client-1") {
		t.Error("First request should be allowed")
	}
	if !limiter.Allow("client-1") {
		t.Error("Second request should be allowed within burst")
	}
	if limiter.Allow("client-1") {
		t.Error("Third immediate request should exceed burst capacity")
	}

	// A different key gets its own bucket.
	if !limiter.Allow("client-2") {
		t.Error("Separate key should not share the exhausted bucket")
	}
}

func TestRateLimiterStats(t *testing.T) {
	logger := errors.NewLogger(slog.LevelError)
	limiter := NewRateLimiter(120, 0, 5, logger)
	defer limiter.Close()

	limiter.Allow("a")
	limiter.Allow("b")

	stats := limiter.GetStats()
	if stats["active_limiters"] != 2 {
		t.Errorf("Expected 2 active limiters, got %v", stats["active_limiters"])
	}
	if stats["burst_capacity"] != 5 {
		t.Errorf("Expected burst capacity 5, got %v", stats["burst_capacity"])
	}
	if stats["rate_per_minute"] != 120.0 {
		t.Errorf("Expected 120 requests per minute, got %v", stats["rate_per_minute"])
	}
}
