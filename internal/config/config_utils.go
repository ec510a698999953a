package config

import (
	"log"
	"os"
	"strings"
)

// applyFallbacks fills in values viper cannot derive on its own:
// comma-separated API key lists from the environment, TLS defaults that
// depend on the selected mode, and the service instance identifier.
func (c *Config) applyFallbacks() {
	if len(c.Server.APIKeys) == 0 {
		if raw := os.Getenv("ATSCORE_SERVER_APIKEYS"); raw != "" {
			keys := strings.Split(raw, ",")
			for i := range keys {
				keys[i] = strings.TrimSpace(keys[i])
			}
			c.Server.APIKeys = keys
		}
	}

	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}

	if c.Observability.ServiceInstance == "" {
		instance := c.Observability.ServiceName + "-1"
		if hostname, err := os.Hostname(); err == nil {
			instance = c.Observability.ServiceName + "-" + hostname
		}
		c.Observability.ServiceInstance = instance
	}
}

// sensitiveEnvVar reports whether an environment variable's value must
// be masked in log output.
func sensitiveEnvVar(name string) bool {
	return strings.Contains(strings.ToLower(name), "key")
}

// logConfigurationSources prints where the effective configuration came
// from. API keys and other secrets are never printed.
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	watched := []string{
		"ATSCORE_AI_APIKEY",
		"ATSCORE_AI_PROVIDER",
		"ATSCORE_AI_MODEL",
		"ATSCORE_SERVER_PORT",
		"ATSCORE_SERVER_HOST",
		"ATSCORE_APP_LOGLEVEL",
		"ATSCORE_VAULT_ENABLED",
		"GEMINI_API_KEY", // legacy name still honored
	}

	log.Println("[CONFIG] Environment variables:")
	anySet := false
	for _, name := range watched {
		value := os.Getenv(name)
		if value == "" {
			continue
		}
		anySet = true
		if sensitiveEnvVar(name) {
			log.Printf("[CONFIG]   %s=***MASKED***", name)
		} else {
			log.Printf("[CONFIG]   %s=%s", name, value)
		}
	}
	if !anySet {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] AI Provider: %s", c.AI.Provider)
	log.Printf("[CONFIG] AI Model: %s", c.AI.Model)
	if c.AI.APIKey != "" {
		log.Println("[CONFIG] AI API Key: ***CONFIGURED***")
	} else {
		log.Println("[CONFIG] AI API Key: ***NOT SET***")
	}
	log.Printf("[CONFIG] Server Host: %s", c.Server.Host)
	log.Printf("[CONFIG] Server Port: %s", c.Server.Port)
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] TLS Mode: %s", c.Server.TLS.Mode)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)

	log.Println("[CONFIG] === Operation-Specific AI Configurations ===")
	log.Printf("[CONFIG] Tailor - Provider: %s, Model: %s", c.AI.Tailor.Provider, c.AI.Tailor.Model)
	log.Printf("[CONFIG] CoverLetter - Provider: %s, Model: %s", c.AI.CoverLetter.Provider, c.AI.CoverLetter.Model)
	log.Printf("[CONFIG] Answer - Provider: %s, Model: %s", c.AI.Answer.Provider, c.AI.Answer.Model)

	log.Println("[CONFIG] =====================================")
}
