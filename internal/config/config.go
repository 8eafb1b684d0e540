// internal/config/config.go
//
// This package handles configuration and the .aibclub directory structure.
// The directory holds the project config file and the log files; secrets for
// the hosted APIs only ever come from the environment.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// StateDirName is the directory created in the working directory
	StateDirName = ".aibclub"

	defaultPlannerModel   = "gemini-2.5-flash"
	defaultAccountURL     = "https://aistudio.google.com/app/apikey"
	defaultContactBaseURL = "https://api.emailjs.com"
)

// DefaultLaunchAt is the launch moment baked into the binary. Release builds
// override it with:
//
//	-ldflags "-X github.com/kingrea/aib-club/internal/config.DefaultLaunchAt=2026-09-01T18:00:00-04:00"
var DefaultLaunchAt = "2026-09-01T18:00:00-04:00"

const defaultProjectConfigYAML = `# aibclub configuration
version: 1

site:
  # Launch moment in RFC3339. Leave empty to use the launch time built into the binary.
  launch_at: ""

planner:
  model: gemini-2.5-flash
  # Shown next to quota, billing and key errors.
  account_url: https://aistudio.google.com/app/apikey

contact:
  # EmailJS REST API base URL.
  base_url: https://api.emailjs.com
`

// SiteConfig holds settings for the launch gate.
type SiteConfig struct {
	LaunchAt string `yaml:"launch_at"`
}

// PlannerConfig holds settings for the project plan generator.
type PlannerConfig struct {
	Model      string `yaml:"model"`
	AccountURL string `yaml:"account_url"`
}

// ContactConfig holds settings for the contact form delivery.
type ContactConfig struct {
	BaseURL string `yaml:"base_url"`
}

// ProjectConfig models .aibclub/config.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version"`
	Site    SiteConfig    `yaml:"site"`
	Planner PlannerConfig `yaml:"planner"`
	Contact ContactConfig `yaml:"contact"`
}

// Secrets are credentials for the hosted APIs, read from the environment.
type Secrets struct {
	GeminiAPIKey      string `env:"AIBCLUB_GEMINI_API_KEY"`
	EmailJSPublicKey  string `env:"AIBCLUB_EMAILJS_PUBLIC_KEY"`
	EmailJSServiceID  string `env:"AIBCLUB_EMAILJS_SERVICE_ID"`
	EmailJSTemplateID string `env:"AIBCLUB_EMAILJS_TEMPLATE_ID"`
}

// Config holds the runtime configuration for aibclub.
type Config struct {
	// ProjectDir is the directory aibclub was started from
	ProjectDir string

	// StateDir is ProjectDir/.aibclub
	StateDir string

	Project ProjectConfig
	Secrets Secrets
}

// InitStateDir creates the .aibclub directory structure in the given directory.
//
// Structure created:
// .aibclub/
// ├── config.yaml
// └── logs/
func InitStateDir(projectDir string) error {
	stateDir := filepath.Join(projectDir, StateDirName)
	if err := os.MkdirAll(filepath.Join(stateDir, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: ensure state dir: %w", err)
	}
	return ensureProjectConfig(filepath.Join(stateDir, "config.yaml"))
}

// NewConfig loads the project config file and the environment secrets.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir: projectDir,
		StateDir:   filepath.Join(projectDir, StateDirName),
		Project:    defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	if err := env.Parse(&cfg.Secrets); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.StateDir, "logs")
}

// LogPath returns the structured log file
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "aibclub.log")
}

// JournalPath returns the human-readable journal file
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "journal.log")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.StateDir, "config.yaml")
}

// LaunchTime resolves the launch moment. A non-empty override (the
// --launch-at flag) wins over the config file, which wins over the built-in
// default.
func (c *Config) LaunchTime(override string) (time.Time, error) {
	source, value := "built-in default", DefaultLaunchAt
	if v := strings.TrimSpace(c.Project.Site.LaunchAt); v != "" {
		source, value = "config site.launch_at", v
	}
	if v := strings.TrimSpace(override); v != "" {
		source, value = "--launch-at", v
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("config: %s %q is not RFC3339: %w", source, value, err)
	}
	return t, nil
}

// PlannerModel returns the configured text-generation model.
func (c *Config) PlannerModel() string {
	return c.Project.Planner.Model
}

// AccountURL returns the provider account page shown for account errors.
func (c *Config) AccountURL() string {
	return c.Project.Planner.AccountURL
}

// ContactBaseURL returns the email delivery API base URL.
func (c *Config) ContactBaseURL() string {
	return c.Project.Contact.BaseURL
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	pc := ProjectConfig{Version: 1}
	pc.applyDefaults()
	return pc
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Planner.Model) == "" {
		pc.Planner.Model = defaultPlannerModel
	}
	if strings.TrimSpace(pc.Planner.AccountURL) == "" {
		pc.Planner.AccountURL = defaultAccountURL
	}
	if strings.TrimSpace(pc.Contact.BaseURL) == "" {
		pc.Contact.BaseURL = defaultContactBaseURL
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Site.LaunchAt = strings.TrimSpace(pc.Site.LaunchAt)
	pc.Planner.Model = strings.TrimSpace(pc.Planner.Model)
	pc.Planner.AccountURL = strings.TrimSpace(pc.Planner.AccountURL)
	pc.Contact.BaseURL = strings.TrimRight(strings.TrimSpace(pc.Contact.BaseURL), "/")
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Site.LaunchAt != "" {
		if _, err := time.Parse(time.RFC3339, pc.Site.LaunchAt); err != nil {
			return fmt.Errorf("site.launch_at must be RFC3339: %w", err)
		}
	}
	if !strings.HasPrefix(pc.Contact.BaseURL, "http://") && !strings.HasPrefix(pc.Contact.BaseURL, "https://") {
		return fmt.Errorf("contact.base_url must be an http(s) URL")
	}
	return nil
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}
