// Package config loads testrules.json, the single configuration surface
// the rest of the pipeline reads from, with defaults that keep an absent
// or malformed file a non-fatal event.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the runner's configuration. Fields mirror the defaults the
// original host-language tool shipped: four built-in test types with two
// filename patterns each, a "group" namespace for ad-hoc module sets, and coverage
// reporting on by default.
type Config struct {
	TestPatterns     map[string][]string `json:"test_patterns"`
	TestGroups       map[string][]string `json:"test_groups"`
	CoverageEnabled  bool                `json:"coverage_enabled"`
	HTMLCoverage     bool                `json:"html_coverage"`
	HTMLCoverageDir  string              `json:"html_coverage_dir"`
	DebugMode        bool                `json:"debug_mode"`
	LogLevel         string              `json:"log_level"`
	Categories       map[string]bool     `json:"categories"`

	// Extra carries any top-level key this version of Config doesn't model
	// yet, so a richer testrules.json from a newer tool still round-trips
	// instead of silently losing fields.
	Extra map[string]json.RawMessage `json:"-"`
}

// Warning is a non-fatal problem encountered while loading configuration;
// the caller decides how (or whether) to surface it.
type Warning struct {
	Message string
}

func (w Warning) String() string { return w.Message }

func defaults() *Config {
	return &Config{
		TestPatterns: map[string][]string{
			"unit":        {"test_*.go", "*_test.go"},
			"integration": {"integration_test_*.go", "*_integration_test.go"},
			"e2e":         {"e2e_test_*.go", "*_e2e_test.go"},
			"regression":  {"regression_test_*.go", "*_regression_test.go"},
		},
		TestGroups:      map[string][]string{"all": {}},
		CoverageEnabled: true,
		HTMLCoverage:    true,
		HTMLCoverageDir: "htmlcov",
		LogLevel:        "info",
		Categories:      map[string]bool{},
	}
}

// Load reads path as JSON into a Config seeded with defaults. A missing
// file, or one that fails to parse, yields the defaults plus a Warning
// rather than an error: the original tool's load_config never aborts a run
// over a bad config file.
func Load(path string) (*Config, []Warning) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, []Warning{{Message: fmt.Sprintf("no configuration file found at %s, using defaults", path)}}
		}
		return cfg, []Warning{{Message: fmt.Sprintf("error loading configuration file %s: %v, using defaults", path, err)}}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return cfg, []Warning{{Message: fmt.Sprintf("error parsing configuration file %s: %v, using defaults", path, err)}}
	}

	applyKnownFields(cfg, raw)
	cfg.Extra = unknownFields(raw)

	return cfg, nil
}

var knownKeys = map[string]func(*Config, json.RawMessage) error{
	"test_patterns":     func(c *Config, v json.RawMessage) error { return json.Unmarshal(v, &c.TestPatterns) },
	"test_groups":       func(c *Config, v json.RawMessage) error { return json.Unmarshal(v, &c.TestGroups) },
	"coverage_enabled":  func(c *Config, v json.RawMessage) error { return json.Unmarshal(v, &c.CoverageEnabled) },
	"html_coverage":     func(c *Config, v json.RawMessage) error { return json.Unmarshal(v, &c.HTMLCoverage) },
	"html_coverage_dir": func(c *Config, v json.RawMessage) error { return json.Unmarshal(v, &c.HTMLCoverageDir) },
	"debug_mode":        func(c *Config, v json.RawMessage) error { return json.Unmarshal(v, &c.DebugMode) },
	"log_level":         func(c *Config, v json.RawMessage) error { return json.Unmarshal(v, &c.LogLevel) },
	"categories":        func(c *Config, v json.RawMessage) error { return json.Unmarshal(v, &c.Categories) },
}

// applyKnownFields overlays whichever recognized keys are present in raw
// onto cfg's defaults; a key present in testrules.json always wins, a key
// absent keeps its default.
func applyKnownFields(cfg *Config, raw map[string]json.RawMessage) {
	for key, apply := range knownKeys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		// A field that fails to unmarshal keeps its default rather than
		// aborting the whole load.
		_ = apply(cfg, v)
	}
}

func unknownFields(raw map[string]json.RawMessage) map[string]json.RawMessage {
	extra := make(map[string]json.RawMessage)
	for key, v := range raw {
		if _, known := knownKeys[key]; !known {
			extra[key] = v
		}
	}
	if len(extra) == 0 {
		return nil
	}
	return extra
}

// Validate checks the invariants the rest of the pipeline assumes hold:
// test_patterns must not be empty, and html_coverage_dir must be set
// whenever html_coverage is on. Group contents are not checked.
func (c *Config) Validate() error {
	if len(c.TestPatterns) == 0 {
		return fmt.Errorf("config validation failed: test_patterns must not be empty")
	}
	if c.HTMLCoverage && c.HTMLCoverageDir == "" {
		return fmt.Errorf("config validation failed: html_coverage_dir is required when html_coverage is enabled")
	}
	return nil
}
