package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"atscore/internal/config"
	"atscore/internal/errors"
	"atscore/internal/observability"
)

const expiryMetricInterval = time.Minute

// ReloadCallback receives the outcome of every certificate reload attempt.
type ReloadCallback func(success bool, err error)

// CertificateMetrics is a snapshot of reload activity.
type CertificateMetrics struct {
	ReloadCount        int64
	ReloadSuccessCount int64
	ReloadFailureCount int64
	LastReloadTime     time.Time
	LastReloadSuccess  bool
	LastReloadError    string
}

// CertificateManager owns the TLS certificates served by the HTTP server.
// Certificates can come from files on disk or from PEM content delivered
// through Vault; either source can be hot-reloaded by the corresponding
// watcher without restarting the server.
type CertificateManager struct {
	mu sync.RWMutex

	serverCert *tls.Certificate
	clientCert *tls.Certificate
	caPool     *x509.CertPool

	serverExpiry time.Time
	clientExpiry time.Time

	fileWatcher  *CertWatcher
	vaultWatcher *VaultWatcher

	tlsCfg    *config.TLSConfig
	reloadCfg *config.AutoReloadConfig
	vault     VaultClientInterface

	callbacks []ReloadCallback
	logger    *errors.Logger
	obs       *observability.ObservabilityManager

	reloads     int64
	reloadsOK   int64
	reloadsFail int64
	lastReload  time.Time
	lastOK      bool
	lastErr     string
}

// NewCertificateManager builds a manager for the given TLS configuration.
// The Vault client and observability manager may be nil.
func NewCertificateManager(tlsCfg *config.TLSConfig, reloadCfg *config.AutoReloadConfig, vault VaultClientInterface, om *observability.ObservabilityManager, logger *errors.Logger) *CertificateManager {
	return &CertificateManager{
		tlsCfg:    tlsCfg,
		reloadCfg: reloadCfg,
		vault:     vault,
		logger:    logger,
		obs:       om,
	}
}

// Start loads the initial certificates and launches the configured watchers.
func (cm *CertificateManager) Start() error {
	if err := cm.reload(); err != nil {
		return fmt.Errorf("load initial certificates: %w", err)
	}

	cm.startExpiryMonitoring()

	if err := cm.startFileWatcher(); err != nil {
		return err
	}
	return cm.startVaultWatcher()
}

// Stop shuts down the watchers.
func (cm *CertificateManager) Stop() error {
	if cm.fileWatcher != nil {
		if err := cm.fileWatcher.Stop(); err != nil {
			if cm.logger != nil {
				cm.logger.LogError(err, "Failed to stop file watcher")
			}
			return err
		}
	}
	if cm.vaultWatcher != nil {
		if err := cm.vaultWatcher.Stop(); err != nil {
			if cm.logger != nil {
				cm.logger.LogError(err, "Failed to stop Vault watcher")
			}
			return err
		}
	}
	if cm.logger != nil {
		cm.logger.Info("Certificate manager stopped")
	}
	return nil
}

func (cm *CertificateManager) startFileWatcher() error {
	if cm.reloadCfg == nil || !cm.reloadCfg.FileWatcher.Enabled {
		return nil
	}
	if cm.tlsCfg.CertFile == "" && cm.tlsCfg.KeyFile == "" && cm.tlsCfg.CAFile == "" {
		return nil
	}

	cm.fileWatcher = NewCertWatcher(
		cm.tlsCfg.CertFile,
		cm.tlsCfg.KeyFile,
		cm.tlsCfg.CAFile,
		cm.reloadCfg.FileWatcher.DebounceDelay,
		cm.onWatcherTrigger,
		cm.logger,
	)
	if err := cm.fileWatcher.Start(); err != nil {
		return fmt.Errorf("start file watcher: %w", err)
	}

	if cm.logger != nil {
		cm.logger.Info("Certificate file watcher started",
			"cert_file", cm.tlsCfg.CertFile,
			"key_file", cm.tlsCfg.KeyFile,
			"ca_file", cm.tlsCfg.CAFile)
	}
	return nil
}

func (cm *CertificateManager) startVaultWatcher() error {
	if cm.reloadCfg == nil || !cm.reloadCfg.VaultWatcher.Enabled {
		return nil
	}
	if cm.tlsCfg.CertContent == "" && cm.tlsCfg.KeyContent == "" && cm.tlsCfg.CAContent == "" {
		return nil
	}
	if cm.vault == nil {
		if cm.logger != nil {
			cm.logger.Warn("Vault watcher enabled but Vault client is nil")
		}
		return nil
	}

	cm.vaultWatcher = NewVaultWatcher(
		cm.vault,
		cm.reloadCfg.VaultWatcher.SecretPath,
		cm.reloadCfg.VaultWatcher.PollInterval,
		cm.onVaultUpdate,
		cm.logger,
	)
	if err := cm.vaultWatcher.Start(); err != nil {
		return fmt.Errorf("start Vault watcher: %w", err)
	}

	if cm.logger != nil {
		cm.logger.Info("Vault watcher started",
			"secret_path", cm.reloadCfg.VaultWatcher.SecretPath,
			"poll_interval", cm.reloadCfg.VaultWatcher.PollInterval)
	}
	return nil
}

// onVaultUpdate copies fresh PEM content from Vault into the TLS config
// and reloads.
func (cm *CertificateManager) onVaultUpdate(data *CertificateData, err error) {
	if err != nil {
		if cm.logger != nil {
			cm.logger.LogError(err, "Failed to fetch new certificate data from Vault")
		}
		return
	}

	cm.mu.Lock()
	if data.CertContent != "" {
		cm.tlsCfg.CertContent = data.CertContent
	}
	if data.KeyContent != "" {
		cm.tlsCfg.KeyContent = data.KeyContent
	}
	if data.CAContent != "" {
		cm.tlsCfg.CAContent = data.CAContent
	}
	cm.mu.Unlock()

	cm.onWatcherTrigger()
}

// onWatcherTrigger performs a reload on behalf of a watcher, routing any
// failure through metrics and callbacks instead of returning it.
func (cm *CertificateManager) onWatcherTrigger() {
	if cm.logger != nil {
		cm.logger.Info("Certificate reload triggered by file watcher")
	}

	if err := cm.reload(); err != nil {
		cm.mu.Lock()
		cm.recordReload(false, err)
		callbacks := append([]ReloadCallback(nil), cm.callbacks...)
		cm.mu.Unlock()

		if cm.logger != nil {
			cm.logger.LogError(err, "Failed to reload certificates")
		}
		for _, cb := range callbacks {
			go cb(false, err)
		}
	}
}

// GetServerCertificate hands the current server certificate to the TLS
// handshake. An expired certificate is refused outright; inside the
// preemptive renewal window a background reload is kicked off while the
// still-valid certificate is served.
func (cm *CertificateManager) GetServerCertificate(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.serverCert == nil {
		return nil, fmt.Errorf("no server certificate available")
	}
	if time.Now().After(cm.serverExpiry) {
		if cm.logger != nil {
			cm.logger.LogError(fmt.Errorf("server certificate expired"), "Server certificate expired",
				"expiry", cm.serverExpiry,
				"server_name", hello.ServerName)
		}
		return nil, fmt.Errorf("server certificate expired")
	}

	if cm.reloadCfg != nil && cm.reloadCfg.PreemptiveRenewal > 0 &&
		time.Now().After(cm.serverExpiry.Add(-cm.reloadCfg.PreemptiveRenewal)) {
		go func() {
			if cm.logger != nil {
				cm.logger.Info("Triggering preemptive certificate renewal")
			}
			cm.onWatcherTrigger()
		}()
	}

	return cm.serverCert, nil
}

// GetClientCertificate returns the certificate used for outbound mutual TLS.
func (cm *CertificateManager) GetClientCertificate() (*tls.Certificate, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.clientCert == nil {
		return nil, fmt.Errorf("no client certificate available")
	}
	if time.Now().After(cm.clientExpiry) {
		if cm.logger != nil {
			cm.logger.LogError(fmt.Errorf("client certificate expired"), "Client certificate expired", "expiry", cm.clientExpiry)
		}
		return nil, fmt.Errorf("client certificate expired")
	}
	return cm.clientCert, nil
}

// VerifyPeerCertificate validates a peer chain against the current CA pool.
func (cm *CertificateManager) VerifyPeerCertificate(rawCerts [][]byte, verifiedChains [][]*x509.Certificate) error {
	if len(rawCerts) == 0 {
		return fmt.Errorf("no peer certificates provided")
	}

	cert, err := x509.ParseCertificate(rawCerts[0])
	if err != nil {
		return fmt.Errorf("parse peer certificate: %w", err)
	}

	cm.mu.RLock()
	pool := cm.caPool
	cm.mu.RUnlock()
	if pool == nil {
		return fmt.Errorf("no CA certificate pool available")
	}

	if _, err := cert.Verify(x509.VerifyOptions{Roots: pool}); err != nil {
		return fmt.Errorf("peer certificate verification failed: %w", err)
	}
	return nil
}

// AddReloadCallback registers a callback invoked after every reload attempt.
func (cm *CertificateManager) AddReloadCallback(cb ReloadCallback) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, cb)
}

// CheckExpiry returns the time remaining until the earliest loaded
// certificate expires.
func (cm *CertificateManager) CheckExpiry() (time.Duration, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	earliest := cm.serverExpiry
	if !cm.clientExpiry.IsZero() && (earliest.IsZero() || cm.clientExpiry.Before(earliest)) {
		earliest = cm.clientExpiry
	}
	if earliest.IsZero() {
		return 0, fmt.Errorf("no certificates loaded")
	}
	return time.Until(earliest), nil
}

// GetMetrics returns a snapshot of reload activity.
func (cm *CertificateManager) GetMetrics() *CertificateMetrics {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	return &CertificateMetrics{
		ReloadCount:        cm.reloads,
		ReloadSuccessCount: cm.reloadsOK,
		ReloadFailureCount: cm.reloadsFail,
		LastReloadTime:     cm.lastReload,
		LastReloadSuccess:  cm.lastOK,
		LastReloadError:    cm.lastErr,
	}
}

// reload loads certificates from their configured source and swaps them in.
func (cm *CertificateManager) reload() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	serverCert, err := cm.loadServerCert()
	if err != nil {
		return err
	}
	caPool, err := cm.loadCAPool()
	if err != nil {
		return err
	}

	cm.serverCert = serverCert
	cm.caPool = caPool
	cm.lastReload = time.Now()

	cm.recordReload(true, nil)
	for _, cb := range cm.callbacks {
		go cb(true, nil)
	}

	if cm.logger != nil {
		cm.logger.Info("Certificates reloaded successfully",
			"server_cert_expiry", cm.serverExpiry,
			"reload_time", cm.lastReload)
	}
	return nil
}

// loadServerCert reads the server key pair. PEM content from Vault takes
// precedence over file paths. Returns nil when neither source is configured.
func (cm *CertificateManager) loadServerCert() (*tls.Certificate, error) {
	var (
		cert tls.Certificate
		err  error
	)
	switch {
	case cm.tlsCfg.CertContent != "" && cm.tlsCfg.KeyContent != "":
		cert, err = tls.X509KeyPair([]byte(cm.tlsCfg.CertContent), []byte(cm.tlsCfg.KeyContent))
	case cm.tlsCfg.CertFile != "" && cm.tlsCfg.KeyFile != "":
		cert, err = tls.LoadX509KeyPair(cm.tlsCfg.CertFile, cm.tlsCfg.KeyFile)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(cert.Certificate) > 0 {
		leaf, err := x509.ParseCertificate(cert.Certificate[0])
		if err != nil {
			return nil, fmt.Errorf("parse server certificate: %w", err)
		}
		cm.serverExpiry = leaf.NotAfter
	}
	return &cert, nil
}

// loadCAPool builds the CA pool for mutual TLS. Returns nil for
// server-only mode or when no CA material is configured.
func (cm *CertificateManager) loadCAPool() (*x509.CertPool, error) {
	if cm.tlsCfg.Mode != "mutual" {
		return nil, nil
	}

	var pem []byte
	switch {
	case cm.tlsCfg.CAContent != "":
		pem = []byte(cm.tlsCfg.CAContent)
	case cm.tlsCfg.CAFile != "":
		data, err := os.ReadFile(cm.tlsCfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
		pem = data
	default:
		return nil, nil
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("parse CA certificate")
	}
	return pool, nil
}

// recordReload updates counters and emits metrics. Caller holds cm.mu.
func (cm *CertificateManager) recordReload(success bool, err error) {
	cm.reloads++
	if success {
		cm.reloadsOK++
		cm.lastOK = true
		cm.lastErr = ""
	} else {
		cm.reloadsFail++
		cm.lastOK = false
		if err != nil {
			cm.lastErr = err.Error()
		}
	}
	cm.emitReloadMetric(success, err)
}

func (cm *CertificateManager) emitReloadMetric(success bool, err error) {
	if cm.obs == nil {
		return
	}
	metrics := cm.obs.GetMetrics()
	if metrics == nil {
		return
	}

	ctx := context.Background()
	attrs := []attribute.KeyValue{
		attribute.String("cert_type", "server"),
	}
	if success {
		attrs = append(attrs, attribute.String("status", "success"))
	} else {
		msg := ""
		if err != nil {
			msg = err.Error()
		}
		attrs = append(attrs,
			attribute.String("status", "failure"),
			attribute.String("error", msg))
	}
	metrics.CertReloadCount.Add(ctx, 1, metric.WithAttributes(attrs...))

	cm.emitExpiryMetrics()
}

// emitExpiryMetrics records seconds-to-expiry gauges for loaded certificates.
func (cm *CertificateManager) emitExpiryMetrics() {
	if cm.obs == nil {
		return
	}
	metrics := cm.obs.GetMetrics()
	if metrics == nil {
		return
	}

	ctx := context.Background()
	now := time.Now()
	for _, c := range []struct {
		expiry   time.Time
		certType string
	}{
		{cm.serverExpiry, "server"},
		{cm.clientExpiry, "client"},
	} {
		if c.expiry.IsZero() {
			continue
		}
		metrics.CertExpiryTime.Record(ctx, c.expiry.Sub(now).Seconds(),
			metric.WithAttributes(attribute.String("cert_type", c.certType)))
	}
}

// startExpiryMonitoring refreshes expiry gauges once a minute.
func (cm *CertificateManager) startExpiryMonitoring() {
	if cm.obs == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(expiryMetricInterval)
		defer ticker.Stop()

		for range ticker.C {
			cm.mu.RLock()
			cm.emitExpiryMetrics()
			cm.mu.RUnlock()
		}
	}()

	if cm.logger != nil {
		cm.logger.Info("Certificate expiry monitoring started")
	}
}
