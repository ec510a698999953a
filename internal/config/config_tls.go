package config

import "fmt"

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS

	switch tls.Mode {
	case "disabled":
		// Nothing else to check
	case "server":
		if err := validateCertSources(tls); err != nil {
			return err
		}
	case "mutual":
		if err := validateCertSources(tls); err != nil {
			return err
		}
		if tls.CAFile == "" && tls.CAContent == "" {
			return fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
		}
		if tls.CAFile != "" && tls.CAContent != "" {
			return fmt.Errorf("cannot specify both caFile and caContent - choose one")
		}
		if err := validateClientAuthPolicy(tls.ClientAuthPolicy); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}

	return validateTLSVersion(tls.MinVersion)
}

// validateCertSources checks that a certificate and key are provided from
// exactly one source each, either a file path or inline content.
func validateCertSources(tls TLSConfig) error {
	if (tls.CertFile == "" && tls.CertContent == "") || (tls.KeyFile == "" && tls.KeyContent == "") {
		return fmt.Errorf("TLS certificate and key are required for %s mode (provide either files or content)", tls.Mode)
	}
	if tls.CertFile != "" && tls.CertContent != "" {
		return fmt.Errorf("cannot specify both certFile and certContent - choose one")
	}
	if tls.KeyFile != "" && tls.KeyContent != "" {
		return fmt.Errorf("cannot specify both keyFile and keyContent - choose one")
	}
	return nil
}

// validateClientAuthPolicy validates the client authentication policy
func validateClientAuthPolicy(policy string) error {
	switch policy {
	case "require", "request", "verify", "":
		return nil // Empty defaults to require
	default:
		return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", policy)
	}
}

// validateTLSVersion validates the TLS version configuration
func validateTLSVersion(minVersion string) error {
	switch minVersion {
	case "", "1.2", "1.3":
		return nil // Empty defaults to 1.2
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", minVersion)
	}
}
