package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"

	"atscore/internal/config"
	"atscore/internal/observability"
)

var cipherSuiteIDs = map[string]uint16{
	"TLS_AES_128_GCM_SHA256":                  tls.TLS_AES_128_GCM_SHA256,
	"TLS_AES_256_GCM_SHA384":                  tls.TLS_AES_256_GCM_SHA384,
	"TLS_CHACHA20_POLY1305_SHA256":            tls.TLS_CHACHA20_POLY1305_SHA256,
	"TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256": tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	"TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384": tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256":   tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	"TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384":   tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	"TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305":  tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
	"TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305":    tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
}

// configureTLS applies the configured TLS mode to the HTTP server.
// "disabled" leaves the server on plain HTTP; "server" enables HTTPS;
// "mutual" additionally requires client certificates.
func (s *Server) configureTLS(httpServer *http.Server, vaultClient VaultClientInterface, om *observability.ObservabilityManager) error {
	addr := httpServer.Addr

	switch s.TLSConfig.Mode {
	case "disabled":
		fmt.Printf("Starting server on http://%s\n", addr)
		fmt.Println("TLS mode: Disabled (HTTP only)")
		return nil
	case "server":
		fmt.Printf("Starting server with HTTPS (server-only TLS) on https://%s\n", addr)
		fmt.Println("TLS mode: Server-only (no client certificates required)")
	case "mutual":
		fmt.Printf("Starting server with mTLS (mutual TLS) on https://%s\n", addr)
		fmt.Println("TLS mode: Mutual (client certificates required)")
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", s.TLSConfig.Mode)
	}

	if err := s.setupCertificateManager(vaultClient, om); err != nil {
		return err
	}

	tlsConfig, err := s.buildTLSConfig()
	if err != nil {
		return fmt.Errorf("failed to set up TLS: %w", err)
	}
	httpServer.TLSConfig = tlsConfig
	return nil
}

// setupCertificateManager wires in hot certificate reloading when
// auto-reload is enabled in the configuration.
func (s *Server) setupCertificateManager(vaultClient VaultClientInterface, om *observability.ObservabilityManager) error {
	if !s.TLSConfig.AutoReload.Enabled {
		return nil
	}

	cm := NewCertificateManager(&s.TLSConfig, &s.TLSConfig.AutoReload, vaultClient, om, s.Logger)
	if err := cm.Start(); err != nil {
		return fmt.Errorf("failed to start certificate manager: %w", err)
	}
	s.CertificateManager = cm

	cm.AddReloadCallback(func(success bool, err error) {
		if success {
			s.Logger.Info("TLS certificates reloaded successfully")
		} else {
			s.Logger.LogError(err, "Failed to reload TLS certificates")
		}
	})

	fmt.Println("TLS auto-reload: ENABLED")
	if s.TLSConfig.AutoReload.FileWatcher.Enabled {
		fmt.Println("  - File watching enabled")
	}
	if s.TLSConfig.AutoReload.VaultWatcher.Enabled {
		fmt.Println("  - Vault watching enabled")
	}
	return nil
}

// initializeVaultClient builds a Vault client when Vault-sourced
// certificates are in use. Returns nil when the watcher is disabled.
func (s *Server) initializeVaultClient() (VaultClientInterface, error) {
	if !s.TLSConfig.AutoReload.VaultWatcher.Enabled {
		return nil, nil
	}

	vc, err := config.NewVaultClient(s.AppConfig.Vault, s.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Vault client: %w", err)
	}
	return vc, nil
}

// buildTLSConfig assembles the tls.Config from the server configuration.
func (s *Server) buildTLSConfig() (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion: s.minTLSVersion(),
	}

	// Dynamic lookup when a certificate manager is running, static
	// certificates otherwise.
	if s.CertificateManager != nil {
		tlsConfig.GetCertificate = s.CertificateManager.GetServerCertificate
		if s.TLSConfig.Mode == "mutual" {
			tlsConfig.GetClientCertificate = func(info *tls.CertificateRequestInfo) (*tls.Certificate, error) {
				return s.CertificateManager.GetClientCertificate()
			}
			tlsConfig.VerifyPeerCertificate = s.CertificateManager.VerifyPeerCertificate
		}
	} else {
		cert, err := s.loadStaticServerCert()
		if err != nil {
			return nil, err
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	if len(s.TLSConfig.CipherSuites) > 0 {
		suites := make([]uint16, 0, len(s.TLSConfig.CipherSuites))
		for _, name := range s.TLSConfig.CipherSuites {
			if id, ok := cipherSuiteIDs[name]; ok {
				suites = append(suites, id)
			}
		}
		tlsConfig.CipherSuites = suites
	}

	if err := s.configureClientAuth(tlsConfig); err != nil {
		return nil, err
	}

	if s.TLSConfig.InsecureSkipVerify {
		tlsConfig.InsecureSkipVerify = true
		fmt.Println("WARNING: TLS certificate verification is disabled (insecureSkipVerify=true)")
	}
	if s.TLSConfig.ServerName != "" {
		tlsConfig.ServerName = s.TLSConfig.ServerName
	}

	return tlsConfig, nil
}

func (s *Server) minTLSVersion() uint16 {
	if s.TLSConfig.MinVersion == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}

// loadStaticServerCert loads the server key pair once at startup. PEM
// content takes precedence over file paths.
func (s *Server) loadStaticServerCert() (tls.Certificate, error) {
	switch {
	case s.TLSConfig.CertContent != "" && s.TLSConfig.KeyContent != "":
		cert, err := tls.X509KeyPair([]byte(s.TLSConfig.CertContent), []byte(s.TLSConfig.KeyContent))
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("failed to load server cert/key from content: %w", err)
		}
		return cert, nil
	case s.TLSConfig.CertFile != "" && s.TLSConfig.KeyFile != "":
		cert, err := tls.LoadX509KeyPair(s.TLSConfig.CertFile, s.TLSConfig.KeyFile)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("failed to load server cert/key from files: %w", err)
		}
		return cert, nil
	}
	return tls.Certificate{}, fmt.Errorf("TLS certificate and key are required (provide either files or content)")
}

// configureClientAuth sets the client certificate policy. Mutual mode
// requires CA material to verify clients against.
func (s *Server) configureClientAuth(tlsConfig *tls.Config) error {
	if s.TLSConfig.Mode != "mutual" {
		tlsConfig.ClientAuth = tls.NoClientCert
		return nil
	}

	var caPEM []byte
	switch {
	case s.TLSConfig.CAContent != "":
		caPEM = []byte(s.TLSConfig.CAContent)
	case s.TLSConfig.CAFile != "":
		data, err := os.ReadFile(s.TLSConfig.CAFile)
		if err != nil {
			return fmt.Errorf("failed to read CA file: %w", err)
		}
		caPEM = data
	default:
		return fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return fmt.Errorf("failed to append CA cert")
	}
	tlsConfig.ClientCAs = pool

	switch s.TLSConfig.ClientAuthPolicy {
	case "request":
		tlsConfig.ClientAuth = tls.RequestClientCert
	case "verify":
		tlsConfig.ClientAuth = tls.VerifyClientCertIfGiven
	default:
		tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
	}
	return nil
}
