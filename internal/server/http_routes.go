package server

import (
	"net/http"
	"strings"

	"atscore/internal/observability"
)

// setupRoutes builds the route table. Scoring and AI endpoints share the
// same middleware chain: rate limiting outermost, then authentication,
// then the body size cap.
func (s *Server) setupRoutes(om *observability.ObservabilityManager) *http.ServeMux {
	mux := http.NewServeMux()

	rateLimitHandler := s.createRateLimitMiddleware(om)
	requestLimitHandler := s.requestSizeLimitMiddleware()

	protected := func(handler http.HandlerFunc) http.HandlerFunc {
		return rateLimitHandler(s.authMiddleware(requestLimitHandler(handler)))
	}

	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/stats", s.statsHandler)

	// Local scoring endpoints
	mux.HandleFunc("/match", protected(s.createMatchHandler(om)))
	mux.HandleFunc("/report", protected(s.createReportHandler(om)))
	mux.HandleFunc("/questions", protected(s.createQuestionsHandler(om)))

	// AI-backed endpoints
	mux.HandleFunc("/tailor", protected(s.createTailorHandler(om)))
	mux.HandleFunc("/coverletter", protected(s.createCoverLetterHandler(om)))
	mux.HandleFunc("/answer", protected(s.createAnswerHandler(om)))

	return mux
}

// apiKeyFromRequest pulls the key from X-API-Key, falling back to a
// Bearer token in the Authorization header.
func apiKeyFromRequest(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return token
	}
	return ""
}

// authMiddleware enforces API key authentication. With no keys
// configured the server runs open, which suits local use.
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(s.APIKeys) == 0 {
			next(w, r)
			return
		}

		apiKey := apiKeyFromRequest(r)
		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr)
			writeErrorResponse(w, "Missing API key", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		if !s.APIKeys[apiKey] {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr,
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "Invalid API key", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		s.Logger.Debug("API authentication successful",
			"endpoint", r.URL.Path,
			"client_ip", r.RemoteAddr,
			"api_key_prefix", maskAPIKey(apiKey))

		next(w, r)
	}
}

// requestSizeLimitMiddleware caps request bodies at MaxRequestSize bytes.
func (s *Server) requestSizeLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.MaxRequestSize > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
			}
			next(w, r)
		}
	}
}

// maskAPIKey keeps only a short prefix of a key for log output.
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
