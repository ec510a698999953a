package server

import (
	"time"

	"atscore/internal/ats"
	"atscore/internal/config"
	atscoreErrors "atscore/internal/errors"
)

// MatchRequest feeds the match, report, and questions endpoints.
type MatchRequest struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jobDescription"`
}

// TailorRequest feeds the tailor endpoint.
type TailorRequest struct {
	BaseResume     string `json:"baseResume"`
	JobDescription string `json:"jobDescription"`
}

// CoverLetterRequest feeds the coverletter endpoint.
type CoverLetterRequest struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jobDescription"`
	UserName       string `json:"userName,omitempty"`
}

// AnswerRequest feeds the answer endpoint.
type AnswerRequest struct {
	Question       string `json:"question"`
	JobDescription string `json:"jobDescription"`
	Resume         string `json:"resume"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server carries everything the HTTP endpoints need: the local scoring
// engine, TLS and certificate state, auth keys, and limits.
type Server struct {
	Host    string
	Port    string
	Version string

	AppConfig *config.Config

	// Shared by the match, report, and questions endpoints.
	Engine *ats.Engine

	TLSConfig          config.TLSConfig
	CertificateManager *CertificateManager

	// Accepted API keys, keyed for O(1) lookup. Empty means open access.
	APIKeys map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxRequestSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Logger *atscoreErrors.Logger
}

// ServerConfig bundles the constructor arguments for NewServer.
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer builds a Server, creating the rate limiter only when enabled.
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *atscoreErrors.Logger) *Server {
	s := &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        make(map[string]bool, len(cfg.APIKeys)),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		Logger:         logger,
	}

	for _, key := range cfg.APIKeys {
		if key != "" {
			s.APIKeys[key] = true
		}
	}

	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		s.RateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return s
}
