package config

import (
	stderrors "errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"atscore/internal/ats"
)

// Config holds all application configuration.
// API Key Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (ATSCORE_AI_APIKEY, etc.)
// 4. Default values - Lowest priority
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Scoring       ScoringConfig       `mapstructure:"scoring"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AIConfig holds the global AI settings plus per-operation overrides.
type AIConfig struct {
	Provider         string        `mapstructure:"provider"`
	Model            string        `mapstructure:"model"`
	Timeout          time.Duration `mapstructure:"timeout"`
	APIKey           string        `mapstructure:"apiKey"`
	MaxRetries       int           `mapstructure:"maxRetries"`
	Temperature      float32       `mapstructure:"temperature"`
	UseSystemPrompts bool          `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig  `mapstructure:"customPrompts"`

	Tailor      OperationAIConfig `mapstructure:"tailor"`
	CoverLetter OperationAIConfig `mapstructure:"coverLetter"`
	Answer      OperationAIConfig `mapstructure:"answer"`
}

// CircuitBreakerConfig tunes the per-operation breaker. MaxRequests
// applies in the half-open state; FailureThreshold is a ratio in [0, 1].
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MinRequests      uint32        `mapstructure:"minRequests"`
	FailureThreshold float64       `mapstructure:"failureThreshold"`
}

// OperationAIConfig overrides the global AI settings for one operation.
// Pointer fields distinguish "unset, fall back to global" from an
// explicit zero value.
type OperationAIConfig struct {
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	Timeout          *time.Duration       `mapstructure:"timeout"`
	APIKey           string               `mapstructure:"apiKey"`
	MaxRetries       *int                 `mapstructure:"maxRetries"`
	Temperature      *float32             `mapstructure:"temperature"`
	UseSystemPrompts *bool                `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig         `mapstructure:"customPrompts"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// PromptConfig groups overridable prompt text. Each entry can be given
// inline or as a file path.
type PromptConfig struct {
	SystemPrompts SystemPrompts `mapstructure:"systemPrompts"`
	UserPrompts   UserPrompts   `mapstructure:"userPrompts"`
}

// SystemPrompts holds system-level instruction overrides.
type SystemPrompts struct {
	TailorResume       string `mapstructure:"tailorResume"`
	TailorResumeFile   string `mapstructure:"tailorResumeFile"`
	CoverLetter        string `mapstructure:"coverLetter"`
	CoverLetterFile    string `mapstructure:"coverLetterFile"`
	AnswerQuestion     string `mapstructure:"answerQuestion"`
	AnswerQuestionFile string `mapstructure:"answerQuestionFile"`
}

// UserPrompts holds user-level prompt template overrides.
type UserPrompts struct {
	TailorResume       string `mapstructure:"tailorResume"`
	TailorResumeFile   string `mapstructure:"tailorResumeFile"`
	CoverLetter        string `mapstructure:"coverLetter"`
	CoverLetterFile    string `mapstructure:"coverLetterFile"`
	AnswerQuestion     string `mapstructure:"answerQuestion"`
	AnswerQuestionFile string `mapstructure:"answerQuestionFile"`
}

// ScoringConfig holds the local ATS scoring policy
type ScoringConfig struct {
	Thresholds ats.Thresholds `mapstructure:"thresholds"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	TLS TLSConfig `mapstructure:"tls"`

	// Accepted API keys; an empty list disables authentication.
	APIKeys []string `mapstructure:"apiKeys"`

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// TLSConfig covers server and mutual TLS. Mode is one of "disabled",
// "server", or "mutual". Certificates come either from PEM files or,
// when sourced from Vault, as inline content.
type TLSConfig struct {
	Mode     string `mapstructure:"mode"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
	CAFile   string `mapstructure:"caFile"`

	CertContent string `mapstructure:"certContent"`
	KeyContent  string `mapstructure:"keyContent"`
	CAContent   string `mapstructure:"caContent"`

	MinVersion       string   `mapstructure:"minVersion"`
	CipherSuites     []string `mapstructure:"cipherSuites"`
	ClientAuthPolicy string   `mapstructure:"clientAuthPolicy"`

	// Development options only.
	InsecureSkipVerify bool   `mapstructure:"insecureSkipVerify"`
	ServerName         string `mapstructure:"serverName"`

	AutoReload AutoReloadConfig `mapstructure:"autoReload"`
}

// AutoReloadConfig controls hot certificate reloading. PreemptiveRenewal
// is how long before expiry a background renewal is attempted.
type AutoReloadConfig struct {
	Enabled           bool               `mapstructure:"enabled"`
	CheckInterval     time.Duration      `mapstructure:"checkInterval"`
	PreemptiveRenewal time.Duration      `mapstructure:"preemptiveRenewal"`
	MaxRetries        int                `mapstructure:"maxRetries"`
	RetryDelay        time.Duration      `mapstructure:"retryDelay"`
	FileWatcher       FileWatcherConfig  `mapstructure:"fileWatcher"`
	VaultWatcher      VaultWatcherConfig `mapstructure:"vaultWatcher"`
}

// FileWatcherConfig controls the fsnotify-based certificate watcher.
type FileWatcherConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	DebounceDelay time.Duration `mapstructure:"debounceDelay"`
}

// VaultWatcherConfig controls Vault secret polling for certificates.
type VaultWatcherConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	PollInterval   time.Duration `mapstructure:"pollInterval"`
	AutoRenew      bool          `mapstructure:"autoRenew"`
	RenewThreshold time.Duration `mapstructure:"renewThreshold"`
	SecretPath     string        `mapstructure:"secretPath"`
}

// RateLimitConfig controls per-client request throttling.
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RequestsPerMin int           `mapstructure:"requestsPerMin"`
	BurstCapacity  int           `mapstructure:"burstCapacity"`
	ByIP           bool          `mapstructure:"byIP"`
	ByAPIKey       bool          `mapstructure:"byAPIKey"`
	Window         time.Duration `mapstructure:"window"`
}

// AppConfig holds general application settings shared by CLI and server.
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ObservabilityConfig is the root of the tracing and metrics settings.
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Tracing         TracingConfig       `mapstructure:"tracing"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig   `mapstructure:"healthCheck"`
}

// TracingConfig holds span sampling settings.
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig controls the export cadence.
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig controls stdout exporters for development.
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig toggles each family of custom instruments.
type CustomMetricsConfig struct {
	AIOperations    AIOperationsMetricsConfig   `mapstructure:"aiOperations"`
	BusinessMetrics BusinessMetricsConfig       `mapstructure:"businessMetrics"`
	Infrastructure  InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// AIOperationsMetricsConfig toggles per-call AI instrumentation.
type AIOperationsMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackDuration   bool `mapstructure:"trackDuration"`
	TrackTokenUsage bool `mapstructure:"trackTokenUsage"`
	TrackModelInfo  bool `mapstructure:"trackModelInfo"`
}

// BusinessMetricsConfig toggles the operation counters.
type BusinessMetricsConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	TrackSuccessRates bool `mapstructure:"trackSuccessRates"`
	TrackContentSizes bool `mapstructure:"trackContentSizes"`
}

// InfrastructureMetricsConfig toggles rate limit and certificate metrics.
type InfrastructureMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackRateLimits bool `mapstructure:"trackRateLimits"`
	TrackCertExpiry bool `mapstructure:"trackCertExpiry"`
}

// PrometheusConfig exposes the scrape endpoint settings.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig configures the OTLP HTTP exporters.
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig bounds the health endpoint's dependency probes.
type HealthCheckConfig struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	AIModelCheckTimeout time.Duration `mapstructure:"aiModelCheckTimeout"`
}

// LoadConfig reads configuration from defaults, an optional YAML config
// file, and ATSCORE_-prefixed environment variables, then validates the
// result and loads any custom prompt files.
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("ATSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/atscore/")
	v.AddConfigPath("$HOME/.atscore")
	v.AddConfigPath(".")

	configFileUsed := ""
	switch err := v.ReadInConfig(); {
	case err == nil:
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Loaded config file: %s", configFileUsed)
	case stderrors.As(err, &viper.ConfigFileNotFoundError{}):
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()
	config.logConfigurationSources(configFileUsed)

	if err := config.validatePromptFiles(); err != nil {
		return nil, fmt.Errorf("prompt file validation failed: %w", err)
	}
	if err := config.loadPromptsFromFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts from files: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid. The AI API key is not
// required here: match and report run entirely locally, so a missing key
// only surfaces when an AI-backed operation is actually invoked.
func (c *Config) Validate() error {
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if !slices.Contains(c.App.SupportedFormats, c.App.DefaultFormat) {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	return nil
}

var GlobalConfig *Config

// InitConfig loads the configuration into GlobalConfig.
func InitConfig() error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}
	GlobalConfig = config
	return nil
}
