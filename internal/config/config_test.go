package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaultsWithWarning(t *testing.T) {
	cfg, warnings := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))

	if !cfg.CoverageEnabled {
		t.Errorf("CoverageEnabled = false, want default true")
	}
	if len(cfg.TestPatterns) != 4 {
		t.Errorf("len(TestPatterns) = %d, want 4", len(cfg.TestPatterns))
	}
	if len(warnings) != 1 {
		t.Fatalf("len(warnings) = %d, want 1", len(warnings))
	}
}

func TestLoadMalformedFileReturnsDefaultsWithWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "testrules.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, warnings := Load(path)

	if cfg.HTMLCoverageDir != "htmlcov" {
		t.Errorf("HTMLCoverageDir = %q, want default htmlcov", cfg.HTMLCoverageDir)
	}
	if len(warnings) != 1 {
		t.Fatalf("len(warnings) = %d, want 1", len(warnings))
	}
}

func TestLoadOverlaysProvidedFieldsOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "testrules.json")
	body := `{
		"coverage_enabled": false,
		"test_groups": {"fast": ["pkg/a", "pkg/b"]},
		"debug_mode": true
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, warnings := Load(path)

	require.Nil(t, warnings)
	assert.False(t, cfg.CoverageEnabled)
	assert.True(t, cfg.DebugMode)
	assert.Len(t, cfg.TestGroups["fast"], 2)
	// test_patterns was not provided, so the default survives.
	assert.Len(t, cfg.TestPatterns, 4)
}

func TestLoadPreservesUnknownTopLevelKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "testrules.json")
	if err := os.WriteFile(path, []byte(`{"future_feature": {"on": true}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _ := Load(path)

	if _, ok := cfg.Extra["future_feature"]; !ok {
		t.Fatalf("Extra missing future_feature: %v", cfg.Extra)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Config) {}, wantErr: false},
		{
			name:    "empty test patterns",
			mutate:  func(c *Config) { c.TestPatterns = nil },
			wantErr: true,
		},
		{
			name:    "html coverage on with no dir",
			mutate:  func(c *Config) { c.HTMLCoverage = true; c.HTMLCoverageDir = "" },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
