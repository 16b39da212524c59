// Package config loads casebot configuration from a YAML or TOML file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Match and dispatch modes
const (
	MatchModeKeyword = "keyword"
	MatchModeOracle  = "oracle"

	DispatchModeMock = "mock"
	DispatchModeLive = "live"
)

// Config holds the complete application configuration
type Config struct {
	Dataset   DatasetConfig   `yaml:"dataset" toml:"dataset"`
	Artifacts ArtifactsConfig `yaml:"artifacts" toml:"artifacts"`
	Match     MatchConfig     `yaml:"match" toml:"match"`
	Dispatch  DispatchConfig  `yaml:"dispatch" toml:"dispatch"`
	Slack     SlackConfig     `yaml:"slack" toml:"slack"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// DatasetConfig locates the test case catalog
type DatasetConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// ArtifactsConfig controls the test script scan
type ArtifactsConfig struct {
	Root    string `yaml:"root" toml:"root"`
	Pattern string `yaml:"pattern" toml:"pattern"`
}

// MatchConfig selects keyword or oracle matching
type MatchConfig struct {
	Mode   string       `yaml:"mode" toml:"mode"`
	Oracle OracleConfig `yaml:"oracle" toml:"oracle"`
}

// OracleConfig configures the Gemini-backed semantic oracle
type OracleConfig struct {
	APIKey string `yaml:"api_key" toml:"api_key"`
	Model  string `yaml:"model" toml:"model"`
}

// DispatchConfig identifies the GitHub Actions workflow and dispatch mode
type DispatchConfig struct {
	Mode       string   `yaml:"mode" toml:"mode"`
	APIURL     string   `yaml:"api_url" toml:"api_url"`
	Owner      string   `yaml:"owner" toml:"owner"`
	Repo       string   `yaml:"repo" toml:"repo"`
	WorkflowID string   `yaml:"workflow_id" toml:"workflow_id"`
	Ref        string   `yaml:"ref" toml:"ref"`
	Token      string   `yaml:"token" toml:"token"`
	Timeout    Duration `yaml:"timeout" toml:"timeout"`
}

// SlackConfig holds Socket Mode credentials
type SlackConfig struct {
	BotToken string `yaml:"bot_token" toml:"bot_token"`
	AppToken string `yaml:"app_token" toml:"app_token"`
	APIURL   string `yaml:"api_url" toml:"api_url"`
}

// LoggingConfig controls the zap logger
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns the safe default configuration: keyword matching, mock dispatch
func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{Path: "mock_data/test_cases.csv"},
		Artifacts: ArtifactsConfig{
			Root:    "tests/ui",
			Pattern: "*.py",
		},
		Match: MatchConfig{
			Mode:   MatchModeKeyword,
			Oracle: OracleConfig{Model: "gemini-2.0-flash"},
		},
		Dispatch: DispatchConfig{
			Mode:       DispatchModeMock,
			APIURL:     "https://api.github.com",
			Owner:      "fumiharu",
			Repo:       "ui-automation-test-sample",
			WorkflowID: "ui-test.yml",
			Ref:        "main",
			Timeout:    Duration(10 * time.Second),
		},
		Slack: SlackConfig{APIURL: "https://slack.com/api"},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads an optional config file over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	//nolint:gosec // G304: config path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("failed to parse TOML config %s: %w", path, err)
		}
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format: %s", path)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	setString(&c.Dataset.Path, "DATASET_PATH")
	setString(&c.Artifacts.Root, "TESTS_ROOT")
	setString(&c.Artifacts.Pattern, "ARTIFACT_PATTERN")

	// MOCK_MODE=false is the legacy switch for oracle matching
	if v, ok := os.LookupEnv("MOCK_MODE"); ok && strings.EqualFold(strings.TrimSpace(v), "false") {
		c.Match.Mode = MatchModeOracle
	}
	setString(&c.Match.Mode, "MATCH_MODE")
	setString(&c.Match.Oracle.APIKey, "GEMINI_API_KEY")
	setString(&c.Match.Oracle.Model, "ORACLE_MODEL")

	// MOCK_GITHUB_MODE=false is the legacy switch for live dispatch
	if v, ok := os.LookupEnv("MOCK_GITHUB_MODE"); ok {
		if strings.EqualFold(strings.TrimSpace(v), "false") {
			c.Dispatch.Mode = DispatchModeLive
		} else {
			c.Dispatch.Mode = DispatchModeMock
		}
	}
	setString(&c.Dispatch.Mode, "DISPATCH_MODE")
	setString(&c.Dispatch.APIURL, "GITHUB_API_URL")
	setString(&c.Dispatch.Owner, "GITHUB_OWNER")
	setString(&c.Dispatch.Repo, "GITHUB_REPO")
	setString(&c.Dispatch.WorkflowID, "GITHUB_WORKFLOW_ID")
	setString(&c.Dispatch.Ref, "GITHUB_REF")
	setString(&c.Dispatch.Token, "GITHUB_TOKEN")
	if v := os.Getenv("DISPATCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Dispatch.Timeout = Duration(d)
		} else {
			// Validate reports it
			c.Dispatch.Timeout = -1
		}
	}

	setString(&c.Slack.BotToken, "SLACK_BOT_TOKEN")
	setString(&c.Slack.AppToken, "SLACK_APP_TOKEN")
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")
}

// normalize folds mode spellings. Dispatch is live only for the exact word "live".
func (c *Config) normalize() {
	c.Match.Mode = strings.ToLower(strings.TrimSpace(c.Match.Mode))
	if c.Match.Mode == "" {
		c.Match.Mode = MatchModeKeyword
	}

	if strings.EqualFold(strings.TrimSpace(c.Dispatch.Mode), DispatchModeLive) {
		c.Dispatch.Mode = DispatchModeLive
	} else {
		c.Dispatch.Mode = DispatchModeMock
	}
}

// Validate checks field values that would otherwise fail late
func (c *Config) Validate() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset path is required")
	}
	if c.Artifacts.Root == "" {
		return fmt.Errorf("artifact search root is required")
	}
	if _, err := filepath.Match(c.Artifacts.Pattern, ""); err != nil {
		return fmt.Errorf("invalid artifact pattern %q: %w", c.Artifacts.Pattern, err)
	}
	switch c.Match.Mode {
	case MatchModeKeyword, MatchModeOracle:
	default:
		return fmt.Errorf("unknown match mode: %s", c.Match.Mode)
	}
	if c.Dispatch.Timeout.Duration() <= 0 {
		return fmt.Errorf("dispatch timeout must be positive")
	}
	if c.Dispatch.Owner == "" || c.Dispatch.Repo == "" || c.Dispatch.WorkflowID == "" || c.Dispatch.Ref == "" {
		return fmt.Errorf("dispatch owner, repo, workflow_id and ref are required")
	}
	return nil
}

// IsLive reports whether real workflow dispatches are enabled
func (d DispatchConfig) IsLive() bool {
	return d.Mode == DispatchModeLive
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}
