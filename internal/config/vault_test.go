package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atscore/internal/errors"
)

func newTestLogger() *errors.Logger {
	logger, _ := errors.New("debug")
	return logger
}

func TestParseVersionValue(t *testing.T) {
	path := "secret/data/certs"

	for _, tc := range []struct {
		name  string
		raw   any
		want  int64
		fails bool
	}{
		{name: "int64", raw: int64(7), want: 7},
		{name: "float64", raw: float64(7.0), want: 7},
		{name: "numeric string", raw: "7", want: 7},
		{name: "garbage string", raw: "seven", fails: true},
		{name: "slice", raw: []string{"7"}, fails: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseVersionValue(tc.raw, path)
			if tc.fails {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestApplyGeminiKeyFillsAllOperations(t *testing.T) {
	cfg := &Config{}
	applyGeminiKey(cfg, "vault-key")

	assert.Equal(t, "vault-key", cfg.AI.APIKey)
	assert.Equal(t, "vault-key", cfg.AI.Tailor.APIKey)
	assert.Equal(t, "vault-key", cfg.AI.CoverLetter.APIKey)
	assert.Equal(t, "vault-key", cfg.AI.Answer.APIKey)
}

func TestApplyGeminiKeyKeepsExistingOperationKeys(t *testing.T) {
	cfg := &Config{
		AI: AIConfig{Tailor: OperationAIConfig{APIKey: "tailor-own-key"}},
	}
	applyGeminiKey(cfg, "vault-key")

	assert.Equal(t, "vault-key", cfg.AI.APIKey)
	assert.Equal(t, "tailor-own-key", cfg.AI.Tailor.APIKey)
	assert.Equal(t, "vault-key", cfg.AI.CoverLetter.APIKey)
	assert.Equal(t, "vault-key", cfg.AI.Answer.APIKey)
}

func TestResolveVaultTokenInline(t *testing.T) {
	token, err := resolveVaultToken(VaultConfig{Token: "inline-token"}, newTestLogger())
	require.NoError(t, err)
	assert.Equal(t, "inline-token", token)
}

func TestResolveVaultTokenFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "vault-token")
	require.NoError(t, os.WriteFile(file, []byte("  file-token  \n"), 0600))

	token, err := resolveVaultToken(VaultConfig{TokenFile: file}, newTestLogger())
	require.NoError(t, err)
	assert.Equal(t, "file-token", token)
}

func TestResolveVaultTokenErrors(t *testing.T) {
	logger := newTestLogger()

	blank := filepath.Join(t.TempDir(), "blank-token")
	require.NoError(t, os.WriteFile(blank, []byte("   \n  \n"), 0600))

	for _, tc := range []struct {
		name string
		cfg  VaultConfig
		want string
	}{
		{name: "unreadable file", cfg: VaultConfig{TokenFile: "/nonexistent/token/file"}, want: "failed to read vault token file"},
		{name: "nothing configured", cfg: VaultConfig{}, want: "vault token is required"},
		{name: "whitespace only file", cfg: VaultConfig{TokenFile: blank}, want: "vault token is required"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolveVaultToken(tc.cfg, logger)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestNewVaultClientDisabled(t *testing.T) {
	client, err := NewVaultClient(VaultConfig{Enabled: false}, newTestLogger())
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{Vault: VaultConfig{Enabled: false}}
	assert.NoError(t, ApplyVaultSecrets(cfg, newTestLogger()))
}

func TestGetSecretV2NilClient(t *testing.T) {
	var vc *VaultClient
	_, err := vc.GetSecretV2("secret/data/certs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault client not initialized")
}
