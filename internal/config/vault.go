package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/vault/api"

	"atscore/internal/errors"
)

// VaultConfig holds the Vault connection settings.
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"tokenFile"`
	Namespace string `mapstructure:"namespace"`

	Secrets VaultSecrets `mapstructure:"secrets"`
}

// VaultSecrets names the KVv2 paths secrets are read from. APIKeys
// points at a secret holding a comma-separated list under "keys".
type VaultSecrets struct {
	APIKeys   string `mapstructure:"apiKeys"`
	GeminiKey string `mapstructure:"geminiKey"`
	TLSCerts  string `mapstructure:"tlsCerts"`
}

// VaultClient wraps the Vault API client with logging and KVv2 helpers.
type VaultClient struct {
	client *api.Client
	config VaultConfig
	logger *errors.Logger
}

// NewVaultClient connects and verifies health. A disabled config yields
// (nil, nil), not an error.
func NewVaultClient(config VaultConfig, logger *errors.Logger) (*VaultClient, error) {
	if !config.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled")
		}
		return nil, nil
	}

	apiCfg := api.DefaultConfig()
	if config.Address != "" {
		apiCfg.Address = config.Address
	}

	client, err := api.NewClient(apiCfg)
	if err != nil {
		if logger != nil {
			logger.LogError(err, "Failed to create Vault client")
		}
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	token, err := resolveVaultToken(config, logger)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)

	health, err := client.Sys().Health()
	if err != nil {
		if logger != nil {
			logger.LogError(err, "Failed to connect to Vault", "address", config.Address)
		}
		return nil, fmt.Errorf("failed to connect to vault: %w", err)
	}
	if logger != nil {
		logger.Info("Connected to Vault",
			"address", config.Address,
			"version", health.Version,
			"sealed", health.Sealed)
	}

	return &VaultClient{client: client, config: config, logger: logger}, nil
}

// resolveVaultToken prefers an inline token and falls back to TokenFile.
func resolveVaultToken(config VaultConfig, logger *errors.Logger) (string, error) {
	token := config.Token

	if token == "" && config.TokenFile != "" {
		if logger != nil {
			logger.Debug("Reading Vault token from file", "file", config.TokenFile)
		}
		raw, err := os.ReadFile(config.TokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read vault token file: %w", err)
		}
		token = strings.TrimSpace(string(raw))
	}

	if token == "" {
		return "", fmt.Errorf("vault token is required when vault is enabled")
	}
	return token, nil
}

// VaultSecret is one KVv2 secret with its version.
type VaultSecret struct {
	Data    map[string]any
	Version int64
}

// GetSecretV2 reads a KVv2 secret and unpacks the data/metadata envelope.
func (vc *VaultClient) GetSecretV2(path string) (*VaultSecret, error) {
	if vc == nil {
		return nil, fmt.Errorf("vault client not initialized")
	}

	if vc.logger != nil {
		vc.logger.Debug("Reading secret from Vault", "path", path)
	}

	secret, err := vc.client.Logical().Read(path)
	if err != nil {
		if vc.logger != nil {
			vc.logger.LogError(err, "Failed to read secret from Vault", "path", path)
		}
		return nil, fmt.Errorf("failed to read secret from %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secret not found at path: %s", path)
	}

	return unpackKV2(secret, path)
}

// unpackKV2 extracts the payload and version from a KVv2 read response.
func unpackKV2(secret *api.Secret, path string) (*VaultSecret, error) {
	data, ok := secret.Data["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'data' field)", path)
	}
	metadata, ok := secret.Data["metadata"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("secret at %s is not in KVv2 format (missing 'metadata' field)", path)
	}
	versionRaw, ok := metadata["version"]
	if !ok {
		return nil, fmt.Errorf("secret metadata at %s is missing 'version' field", path)
	}
	version, err := parseVersionValue(versionRaw, path)
	if err != nil {
		return nil, err
	}
	return &VaultSecret{Data: data, Version: version}, nil
}

// parseVersionValue accepts the version as int64, float64, or string;
// Vault's JSON decoding can surface any of them.
func parseVersionValue(versionRaw any, path string) (int64, error) {
	switch v := versionRaw.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		version, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse secret version at %s: %w", path, err)
		}
		return version, nil
	default:
		return 0, fmt.Errorf("unexpected type for version at %s: %T", path, versionRaw)
	}
}

// GetStringSecret reads one string-typed key from a KVv2 secret.
func (vc *VaultClient) GetStringSecret(path, key string) (string, error) {
	secret, err := vc.GetSecretV2(path)
	if err != nil {
		return "", err
	}
	value, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in secret %s", key, path)
	}
	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("value for key '%s' is not a string in secret %s", key, path)
	}

	if vc.logger != nil {
		vc.logger.Debug("String secret retrieved from Vault",
			"path", path,
			"key", key,
			"masked_value", maskSecretValue(str))
	}
	return str, nil
}

func maskSecretValue(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}

// GetStringSliceSecret reads a comma-separated string key and splits it,
// trimming whitespace around each element.
func (vc *VaultClient) GetStringSliceSecret(path, key string) ([]string, error) {
	value, err := vc.GetStringSecret(path, key)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return []string{}, nil
	}

	parts := strings.Split(value, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts, nil
}

// ApplyVaultSecrets pulls API keys, the Gemini key, and TLS material
// from Vault into the config. Disabled Vault is a no-op.
func ApplyVaultSecrets(config *Config, logger *errors.Logger) error {
	if !config.Vault.Enabled {
		if logger != nil {
			logger.Debug("Vault integration disabled, skipping secret loading")
		}
		return nil
	}

	if logger != nil {
		logger.Info("Loading secrets from Vault",
			"api_keys_path", config.Vault.Secrets.APIKeys,
			"gemini_key_path", config.Vault.Secrets.GeminiKey,
			"tls_certs_path", config.Vault.Secrets.TLSCerts)
	}

	client, err := NewVaultClient(config.Vault, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize vault client: %w", err)
	}
	if client == nil {
		return nil
	}

	steps := []func(*VaultClient, *Config, *errors.Logger) error{
		loadAPIKeysFromVault,
		loadGeminiKeyFromVault,
		loadTLSCertsFromVault,
	}
	for _, step := range steps {
		if err := step(client, config, logger); err != nil {
			return err
		}
	}

	if logger != nil {
		logger.Info("Successfully completed applying secrets from Vault")
	}
	return nil
}

func loadAPIKeysFromVault(client *VaultClient, config *Config, logger *errors.Logger) error {
	path := config.Vault.Secrets.APIKeys
	if path == "" {
		return nil
	}

	apiKeys, err := client.GetStringSliceSecret(path, "keys")
	if err != nil {
		return fmt.Errorf("failed to load API keys from vault: %w", err)
	}

	if len(apiKeys) == 0 {
		if logger != nil {
			logger.Warn("No API keys found in Vault", "path", path)
		}
		return nil
	}

	config.Server.APIKeys = apiKeys
	if logger != nil {
		logger.Info("API keys loaded from Vault", "count", len(apiKeys))
	}
	return nil
}

func loadGeminiKeyFromVault(client *VaultClient, config *Config, logger *errors.Logger) error {
	path := config.Vault.Secrets.GeminiKey
	if path == "" {
		return nil
	}

	geminiKey, err := client.GetStringSecret(path, "api_key")
	if err != nil {
		return fmt.Errorf("failed to load Gemini API key from vault: %w", err)
	}
	if geminiKey == "" {
		if logger != nil {
			logger.Warn("Empty Gemini API key found in Vault", "path", path)
		}
		return nil
	}

	applyGeminiKey(config, geminiKey)

	if logger != nil {
		logger.Info("Gemini API key loaded from Vault and applied to all AI configurations")
	}
	return nil
}

// applyGeminiKey sets the global key and fills operation configs that
// lack an explicit one. Per-operation keys win over the Vault key.
func applyGeminiKey(config *Config, geminiKey string) {
	config.AI.APIKey = geminiKey
	for _, op := range []*OperationAIConfig{&config.AI.Tailor, &config.AI.CoverLetter, &config.AI.Answer} {
		if op.APIKey == "" {
			op.APIKey = geminiKey
		}
	}
}

func loadTLSCertsFromVault(client *VaultClient, config *Config, logger *errors.Logger) error {
	path := config.Vault.Secrets.TLSCerts
	if path == "" {
		return nil
	}

	tlsData, err := client.GetSecretV2(path)
	if err != nil {
		return fmt.Errorf("failed to load TLS certificates from vault: %w", err)
	}

	// Only PEM content is accepted from Vault; path fields would point
	// at files on the Vault host, not this one.
	for _, field := range []string{"cert_file", "key_file", "ca_file"} {
		if _, present := tlsData.Data[field]; present {
			return fmt.Errorf("vault TLS configuration error: '%s' field is no longer supported. Store certificate content in '%s' field instead",
				field, strings.TrimSuffix(field, "_file"))
		}
	}

	loaded := 0
	for key, dst := range map[string]*string{
		"cert": &config.Server.TLS.CertContent,
		"key":  &config.Server.TLS.KeyContent,
		"ca":   &config.Server.TLS.CAContent,
	} {
		if content, ok := tlsData.Data[key].(string); ok && content != "" {
			*dst = content
			loaded++
		}
	}

	if logger != nil {
		logger.Info("TLS certificates loaded from Vault", "certificates_loaded", loaded)
	}
	return nil
}
