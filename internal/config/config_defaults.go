package config

import (
	"time"

	"github.com/spf13/viper"

	"atscore/internal/ats"
)

// operationDefaults seeds the per-operation AI keys. Model deliberately
// defaults to empty so the global model applies unless overridden.
func operationDefaults(v *viper.Viper, op string, timeout time.Duration, retries int, temperature float64) {
	prefix := "ai." + op + "."
	v.SetDefault(prefix+"provider", "gemini")
	v.SetDefault(prefix+"model", "")
	v.SetDefault(prefix+"timeout", timeout)
	v.SetDefault(prefix+"apiKey", "")
	v.SetDefault(prefix+"maxRetries", retries)
	v.SetDefault(prefix+"temperature", temperature)
	v.SetDefault(prefix+"useSystemPrompts", true)

	v.SetDefault(prefix+"circuitBreaker.enabled", true)
	v.SetDefault(prefix+"circuitBreaker.maxRequests", 3)
	v.SetDefault(prefix+"circuitBreaker.interval", 60*time.Second)
	v.SetDefault(prefix+"circuitBreaker.timeout", 60*time.Second)
	v.SetDefault(prefix+"circuitBreaker.minRequests", 3)
	v.SetDefault(prefix+"circuitBreaker.failureThreshold", 0.6)
}

func setDefaults(v *viper.Viper) {
	defaults := map[string]any{
		"ai.provider":         "gemini",
		"ai.model":            "gemini-2.0-flash",
		"ai.timeout":          60 * time.Second,
		"ai.apiKey":           "",
		"ai.maxRetries":       3,
		"ai.temperature":      0.7,
		"ai.useSystemPrompts": true,

		"scoring.thresholds.highPriority":      ats.HighPriorityThreshold,
		"scoring.thresholds.mediumPriority":    ats.MediumPriorityThreshold,
		"scoring.thresholds.softSkillPriority": ats.SoftSkillPriorityThreshold,
		"scoring.thresholds.actionVerbTip":     ats.ActionVerbTipThreshold,
		"scoring.thresholds.quantificationTip": ats.QuantificationTipThreshold,
		"scoring.thresholds.irrelevantTip":     ats.IrrelevantTipThreshold,

		"server.host":         "localhost",
		"server.port":         "8080",
		"server.readTimeout":  30 * time.Second,
		"server.writeTimeout": 30 * time.Second,
		"server.idleTimeout":  120 * time.Second,
		"server.apiKeys":      []string{},

		"server.tls.mode":               "disabled",
		"server.tls.certFile":           "",
		"server.tls.keyFile":            "",
		"server.tls.caFile":             "",
		"server.tls.minVersion":         "1.2",
		"server.tls.cipherSuites":       []string{},
		"server.tls.clientAuthPolicy":   "require",
		"server.tls.insecureSkipVerify": false,
		"server.tls.serverName":         "",

		"server.tls.autoReload.enabled":                     true,
		"server.tls.autoReload.checkInterval":               30 * time.Second,
		"server.tls.autoReload.preemptiveRenewal":           72 * time.Hour,
		"server.tls.autoReload.maxRetries":                  3,
		"server.tls.autoReload.retryDelay":                  10 * time.Second,
		"server.tls.autoReload.fileWatcher.enabled":         true,
		"server.tls.autoReload.fileWatcher.debounceDelay":   time.Second,
		"server.tls.autoReload.vaultWatcher.enabled":        false,
		"server.tls.autoReload.vaultWatcher.pollInterval":   5 * time.Minute,
		"server.tls.autoReload.vaultWatcher.autoRenew":      true,
		"server.tls.autoReload.vaultWatcher.renewThreshold": 24 * time.Hour,
		"server.tls.autoReload.vaultWatcher.secretPath":     "",

		"server.rateLimit.enabled":        false,
		"server.rateLimit.requestsPerMin": 60,
		"server.rateLimit.burstCapacity":  10,
		"server.rateLimit.byIP":           true,
		"server.rateLimit.byAPIKey":       false,
		"server.rateLimit.window":         time.Minute,

		"app.logLevel":         "info",
		"app.defaultFormat":    "json",
		"app.supportedFormats": []string{"json", "text", "markdown"},
		"app.maxFileSize":      1024 * 1024,

		"vault.enabled":           false,
		"vault.address":           "",
		"vault.token":             "",
		"vault.tokenFile":         "",
		"vault.namespace":         "",
		"vault.secrets.apiKeys":   "",
		"vault.secrets.geminiKey": "",
		"vault.secrets.tlsCerts":  "",

		"observability.enabled":         true,
		"observability.serviceName":     "atscore",
		"observability.serviceVersion":  "",
		"observability.serviceInstance": "",
		"observability.consoleOutput":   false,
		"observability.sampleRate":      1.0,

		"observability.tracing.enabled":            true,
		"observability.tracing.sampleRate":         1.0,
		"observability.metrics.enabled":            true,
		"observability.metrics.collectionInterval": 15 * time.Second,

		"observability.customMetrics.aiOperations.enabled":              true,
		"observability.customMetrics.aiOperations.trackDuration":        true,
		"observability.customMetrics.aiOperations.trackTokenUsage":      true,
		"observability.customMetrics.aiOperations.trackModelInfo":       true,
		"observability.customMetrics.businessMetrics.enabled":           true,
		"observability.customMetrics.businessMetrics.trackSuccessRates": true,
		"observability.customMetrics.businessMetrics.trackContentSizes": true,
		"observability.customMetrics.infrastructure.enabled":            true,
		"observability.customMetrics.infrastructure.trackRateLimits":    true,
		"observability.customMetrics.infrastructure.trackCertExpiry":    true,

		"observability.console.enabled":     false,
		"observability.console.prettyPrint": true,

		"observability.prometheus.enabled":  true,
		"observability.prometheus.endpoint": "/metrics",
		"observability.prometheus.port":     "9090",

		"observability.otlp.enabled":  false,
		"observability.otlp.endpoint": "http://localhost:4318",
		"observability.otlp.insecure": true,
		"observability.otlp.headers":  map[string]string{},

		"observability.healthCheck.timeout":             15 * time.Second,
		"observability.healthCheck.aiModelCheckTimeout": 10 * time.Second,
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Resume rewrites run long and want low temperature; answers stay
	// factual; cover letters get a little voice.
	operationDefaults(v, "tailor", 90*time.Second, 2, 0.3)
	operationDefaults(v, "coverLetter", 60*time.Second, 3, 0.6)
	operationDefaults(v, "answer", 60*time.Second, 2, 0.4)
}
