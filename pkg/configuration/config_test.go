package configuration

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

var mockConfigYAML = []byte(`
production: false
backend: software
pool_trim_interval_seconds: 30
`)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()
	path := fmt.Sprintf("%s/test.yaml", tempDir)
	if err := os.WriteFile(path, mockConfigYAML, 0o600); err != nil {
		t.Fatalf("write test config: %v", err)
	}

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.False(t, cfg.Production)
	assert.Equal(t, "software", cfg.Backend)
	assert.Equal(t, 30, cfg.PoolTrimIntervalSeconds)
}

func TestLoadDefaultsBackendToSoftware(t *testing.T) {
	tempDir := t.TempDir()
	path := fmt.Sprintf("%s/test.yaml", tempDir)
	if err := os.WriteFile(path, []byte("production: true\n"), 0o600); err != nil {
		t.Fatalf("write test config: %v", err)
	}

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "software", cfg.Backend)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	tempDir := t.TempDir()
	path := fmt.Sprintf("%s/test.yaml", tempDir)
	if err := os.WriteFile(path, []byte("backend: quantum\n"), 0o600); err != nil {
		t.Fatalf("write test config: %v", err)
	}

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsIncompletePKCS11(t *testing.T) {
	tempDir := t.TempDir()
	path := fmt.Sprintf("%s/test.yaml", tempDir)
	if err := os.WriteFile(path, []byte("backend: pkcs11\n"), 0o600); err != nil {
		t.Fatalf("write test config: %v", err)
	}

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsDirectory(t *testing.T) {
	tempDir := t.TempDir()
	_, err := Load(tempDir)
	assert.Error(t, err)
}
