package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadServerConfig_CreatesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadServerConfig(dir)
	if err != nil {
		t.Fatalf("LoadServerConfig: %v", err)
	}
	if len(cfg.APISecret) != 32 {
		t.Errorf("APISecret length = %d, want 32", len(cfg.APISecret))
	}
	if cfg.RequireAuth {
		t.Error("RequireAuth should default to false")
	}
	if cfg.RateLimits.WriteRatePerMin != 60 {
		t.Errorf("WriteRatePerMin = %d, want 60", cfg.RateLimits.WriteRatePerMin)
	}
	if cfg.RateLimits.ReadRatePerMin != 6000 {
		t.Errorf("ReadRatePerMin = %d, want 6000", cfg.RateLimits.ReadRatePerMin)
	}
	if _, err := os.Stat(filepath.Join(dir, "server_config.json")); err != nil {
		t.Errorf("config file should have been created: %v", err)
	}
}

func TestLoadServerConfig_SecretIsStable(t *testing.T) {
	dir := t.TempDir()

	first, err := LoadServerConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	second, err := LoadServerConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.APISecret, second.APISecret) {
		t.Error("APISecret must be stable across loads")
	}
}

func TestLoadServerConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	data := `{"api_secret": "c2hvcnQ=", "rate_limits": {"write_rate_per_min": 60, "read_rate_per_min": 6000}}`
	if err := os.WriteFile(filepath.Join(dir, "server_config.json"), []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadServerConfig(dir); err == nil {
		t.Error("expected error for short api_secret")
	}
}

func TestRateLimits_Validate(t *testing.T) {
	tests := []struct {
		name    string
		limits  RateLimits
		wantErr bool
	}{
		{"defaults", DefaultRateLimits(), false},
		{"zero is unlimited", RateLimits{}, false},
		{"negative write", RateLimits{WriteRatePerMin: -1}, true},
		{"negative read", RateLimits{ReadRatePerMin: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.limits.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServerConfig_SaveRejectsInvalid(t *testing.T) {
	cfg := &ServerConfig{APISecret: []byte("short")}
	if err := cfg.Save(t.TempDir()); err == nil {
		t.Error("Save should reject a config with a short secret")
	}
}
