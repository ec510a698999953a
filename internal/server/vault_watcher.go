package server

import (
	"fmt"
	"sync"
	"time"

	"atscore/internal/config"
	"atscore/internal/errors"
)

// VaultClientInterface is the subset of Vault operations the server needs.
type VaultClientInterface interface {
	GetSecretV2(path string) (*config.VaultSecret, error)
	GetStringSecret(path, key string) (string, error)
	GetStringSliceSecret(path, key string) ([]string, error)
}

// CertificateData carries PEM material read from a Vault secret.
type CertificateData struct {
	CertContent string
	KeyContent  string
	CAContent   string
}

// VaultReloadCallback receives fresh certificate data, or the error that
// prevented fetching it.
type VaultReloadCallback func(data *CertificateData, err error)

// VaultWatcher polls a KV v2 secret and fires a callback whenever the
// secret version advances. Version tracking means an unchanged secret
// costs one metadata read per poll and never triggers a reload.
type VaultWatcher struct {
	mu sync.RWMutex

	client   VaultClientInterface
	path     string
	interval time.Duration
	notify   VaultReloadCallback
	logger   *errors.Logger

	done        chan struct{}
	running     bool
	seenVersion int64
}

// NewVaultWatcher creates a watcher over the given secret path.
func NewVaultWatcher(client VaultClientInterface, secretPath string, pollInterval time.Duration, cb VaultReloadCallback, logger *errors.Logger) *VaultWatcher {
	return &VaultWatcher{
		client:   client,
		path:     secretPath,
		interval: pollInterval,
		notify:   cb,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start launches the polling loop.
func (vw *VaultWatcher) Start() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()

	if vw.running {
		return fmt.Errorf("vault watcher already started")
	}
	vw.running = true
	go vw.pollLoop()

	if vw.logger != nil {
		vw.logger.Info("Vault watcher started", "secret_path", vw.path, "poll_interval", vw.interval)
	}
	return nil
}

// Stop halts the polling loop.
func (vw *VaultWatcher) Stop() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()

	if !vw.running {
		return nil
	}
	close(vw.done)
	vw.running = false

	if vw.logger != nil {
		vw.logger.Info("Vault watcher stopped")
	}
	return nil
}

func (vw *VaultWatcher) pollLoop() {
	ticker := time.NewTicker(vw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			vw.poll()
		case <-vw.done:
			return
		}
	}
}

// poll reads the secret once and notifies the callback if its version
// advanced since the last observation.
func (vw *VaultWatcher) poll() {
	data, changed, err := vw.readSecret()
	if err != nil {
		if vw.logger != nil {
			vw.logger.LogError(err, "Failed to check Vault for updates")
		}
		return
	}
	if !changed {
		return
	}

	if vw.logger != nil {
		vw.logger.Info("Vault secret changed, triggering certificate reload",
			"secret_path", vw.path, "version", vw.seenVersion)
	}
	vw.notify(data, nil)
}

// readSecret fetches the secret and reports whether its version advanced.
// The version watermark only moves forward on a successful read.
func (vw *VaultWatcher) readSecret() (*CertificateData, bool, error) {
	secret, err := vw.client.GetSecretV2(vw.path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read secret %s: %w", vw.path, err)
	}

	vw.mu.Lock()
	defer vw.mu.Unlock()

	if secret.Version <= vw.seenVersion {
		return nil, false, nil
	}
	vw.seenVersion = secret.Version

	data := &CertificateData{}
	if v, ok := secret.Data["cert"].(string); ok {
		data.CertContent = v
	}
	if v, ok := secret.Data["key"].(string); ok {
		data.KeyContent = v
	}
	if v, ok := secret.Data["ca"].(string); ok {
		data.CAContent = v
	}
	return data, true, nil
}

// Status reports watcher state for the health endpoint.
func (vw *VaultWatcher) Status() map[string]any {
	vw.mu.RLock()
	defer vw.mu.RUnlock()

	return map[string]any{
		"running":       vw.running,
		"poll_interval": vw.interval.String(),
		"secret_path":   vw.path,
		"last_version":  vw.seenVersion,
	}
}
