package server

import (
	"testing"
	"time"

	"atscore/internal/config"
)

type stubVaultClient struct {
	secret *config.VaultSecret
}

func (c *stubVaultClient) GetSecretV2(path string) (*config.VaultSecret, error) {
	return c.secret, nil
}

func (c *stubVaultClient) GetStringSecret(path, key string) (string, error) {
	if v, ok := c.secret.Data[key].(string); ok {
		return v, nil
	}
	return "", nil
}

func (c *stubVaultClient) GetStringSliceSecret(path, key string) ([]string, error) {
	if v, ok := c.secret.Data[key].([]string); ok {
		return v, nil
	}
	return nil, nil
}

func TestVaultWatcherReadSecretExtractsPEM(t *testing.T) {
	client := &stubVaultClient{
		secret: &config.VaultSecret{
			Data: map[string]any{
				"cert": "cert-pem",
				"key":  "key-pem",
				"ca":   "ca-pem",
			},
			Version: 1,
		},
	}
	vw := NewVaultWatcher(client, "secret/data/tls", time.Minute, func(*CertificateData, error) {}, nil)

	data, changed, err := vw.readSecret()
	if err != nil {
		t.Fatalf("readSecret: %v", err)
	}
	if !changed {
		t.Fatal("expected first read to report a change")
	}
	if data.CertContent != "cert-pem" || data.KeyContent != "key-pem" || data.CAContent != "ca-pem" {
		t.Errorf("unexpected certificate data: %+v", data)
	}
}

func TestVaultWatcherVersionWatermark(t *testing.T) {
	client := &stubVaultClient{
		secret: &config.VaultSecret{
			Data:    map[string]any{},
			Version: 2,
		},
	}
	vw := NewVaultWatcher(client, "secret/data/tls", time.Minute, func(*CertificateData, error) {}, nil)

	if _, changed, err := vw.readSecret(); err != nil || !changed {
		t.Fatalf("first read: changed=%v err=%v, want change detected", changed, err)
	}

	// Same version again must not report a change.
	if _, changed, err := vw.readSecret(); err != nil || changed {
		t.Fatalf("repeat read: changed=%v err=%v, want no change", changed, err)
	}

	// Version moving forward is picked up.
	client.secret.Version = 3
	if _, changed, err := vw.readSecret(); err != nil || !changed {
		t.Fatalf("bumped read: changed=%v err=%v, want change detected", changed, err)
	}

	// A rollback below the watermark stays quiet.
	client.secret.Version = 1
	if _, changed, err := vw.readSecret(); err != nil || changed {
		t.Fatalf("rollback read: changed=%v err=%v, want no change", changed, err)
	}
}

func TestVaultWatcherStatus(t *testing.T) {
	vw := NewVaultWatcher(&stubVaultClient{secret: &config.VaultSecret{}}, "secret/data/tls", 30*time.Second, func(*CertificateData, error) {}, nil)

	status := vw.Status()
	if status["running"] != false {
		t.Error("watcher should not be running before Start")
	}
	if status["secret_path"] != "secret/data/tls" {
		t.Errorf("unexpected secret_path: %v", status["secret_path"])
	}
	if status["poll_interval"] != "30s" {
		t.Errorf("unexpected poll_interval: %v", status["poll_interval"])
	}
}
