// Package config provides unified configuration management for llmc.
// Configuration is loaded from multiple sources with the following precedence:
// embedded defaults → global file → .env → env vars → project llmc.toml → CLI flags
package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alexander-akhmetov/llmc/internal/dirs"
	"github.com/alexander-akhmetov/llmc/internal/llm"
)

//go:embed defaults/config.yaml defaults/llmc.toml
var defaultsFS embed.FS

// ProjectFileName is the per-repository configuration file.
const ProjectFileName = "llmc.toml"

// ErrProjectFileExists is returned by WriteProjectFile when llmc.toml is
// already present.
var ErrProjectFileExists = errors.New("llmc.toml already exists in the current directory")

// Config holds all configuration settings for llmc. It is the resolved
// runtime configuration handed to the message generator.
// Fields ending in *Set track whether that field was explicitly set, so a
// later layer can override an earlier one with a zero value.
type Config struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Timeout     int     `yaml:"timeout"` // seconds

	// Prompt is an inline prompt template; ${diff} is replaced with the diff.
	// When empty the prompt file chain is used (see LoadPrompt).
	Prompt string `yaml:"prompt"`

	APIKey     string `yaml:"api_key"`
	APIKeyName string `yaml:"api_key_name"`
	BaseURL    string `yaml:"base_url"`

	// PromptTemplate is the resolved template (inline Prompt or prompt file).
	PromptTemplate string `yaml:"-"`

	TemperatureSet bool `yaml:"-"`
	MaxTokensSet   bool `yaml:"-"`
	TimeoutSet     bool `yaml:"-"`

	configDir  string
	projectDir string
	sources    []string
}

// Sources returns the ordered list of sources that contributed to this config.
func (c *Config) Sources() []string {
	return c.sources
}

// ConfigDir returns the global config directory.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// ProjectDir returns the directory searched for llmc.toml and .env.
func (c *Config) ProjectDir() string {
	return c.projectDir
}

// Load loads configuration from the default global directory and the
// current working directory.
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	return LoadWithDirs(dirs.ConfigDir(), cwd)
}

// LoadWithDirs loads configuration with explicit global and project
// directories. An empty projectDir skips the project layers.
func LoadWithDirs(globalDir, projectDir string) (*Config, error) {
	if err := InstallDefaults(globalDir); err != nil {
		return nil, fmt.Errorf("install defaults: %w", err)
	}

	// 1. Embedded defaults
	cfg, err := loadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load embedded defaults: %w", err)
	}
	cfg.sources = append(cfg.sources, "embedded")

	// 2. Global config
	globalPath := filepath.Join(globalDir, "config.yaml")
	if globalCfg, err := loadFile(globalPath); err == nil {
		cfg.mergeFrom(globalCfg)
		cfg.sources = append(cfg.sources, globalPath)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("load global config: %w", err)
	}

	// 3. .env next to the project; never overrides variables already set
	if projectDir != "" {
		envPath := filepath.Join(projectDir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return nil, fmt.Errorf("load %s: %w", envPath, err)
			}
			cfg.sources = append(cfg.sources, "dotenv:"+envPath)
		}
	}

	// 4. Environment variables
	cfg.applyEnv()

	// 5. Project llmc.toml
	if projectDir != "" {
		projectPath := filepath.Join(projectDir, ProjectFileName)
		if projectCfg, err := loadProjectFile(projectPath); err == nil {
			cfg.mergeFrom(projectCfg)
			cfg.sources = append(cfg.sources, projectPath)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load project config: %w", err)
		}
	}

	cfg.configDir = globalDir
	cfg.projectDir = projectDir

	if err := cfg.resolvePrompt(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolvePrompt fills PromptTemplate from the inline prompt or the prompt
// file chain.
func (c *Config) resolvePrompt() error {
	if strings.TrimSpace(c.Prompt) != "" {
		c.PromptTemplate = c.Prompt
		return nil
	}
	tmpl, err := LoadPrompt(c.configDir, c.projectDir)
	if err != nil {
		return fmt.Errorf("load prompt: %w", err)
	}
	c.PromptTemplate = tmpl
	return nil
}

// InstallDefaults creates the config directory and installs the default
// config file if it does not exist.
func InstallDefaults(configDir string) error {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	promptsDir := filepath.Join(configDir, "prompts")
	if err := os.MkdirAll(promptsDir, 0o700); err != nil {
		return fmt.Errorf("create prompts dir: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		data, err := defaultsFS.ReadFile("defaults/config.yaml")
		if err != nil {
			return fmt.Errorf("read embedded config: %w", err)
		}
		if err := os.WriteFile(configPath, data, 0o600); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	}

	return nil
}

// DefaultProjectFile returns the template written by `llmc init`.
func DefaultProjectFile() ([]byte, error) {
	return defaultsFS.ReadFile("defaults/llmc.toml")
}

// WriteProjectFile writes the default llmc.toml into dir and returns its
// path. It refuses to overwrite an existing file.
func WriteProjectFile(dir string) (string, error) {
	path := filepath.Join(dir, ProjectFileName)
	if _, err := os.Stat(path); err == nil {
		return "", ErrProjectFileExists
	}
	data, err := DefaultProjectFile()
	if err != nil {
		return "", fmt.Errorf("read embedded llmc.toml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // project file is meant to be shared
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func loadEmbedded() (*Config, error) {
	data, err := defaultsFS.ReadFile("defaults/config.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded defaults: %w", err)
	}
	cfg, err := parseConfigWithTracking(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user's config file
	if err != nil {
		return nil, err
	}
	return parseConfigWithTracking(data)
}

// parseConfigWithTracking parses YAML config and tracks which fields were set.
func parseConfigWithTracking(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if _, ok := raw["temperature"]; ok {
		cfg.TemperatureSet = true
	}
	if _, ok := raw["max_tokens"]; ok {
		cfg.MaxTokensSet = true
	}
	if _, ok := raw["timeout"]; ok {
		cfg.TimeoutSet = true
	}

	return &cfg, nil
}

// projectFile mirrors llmc.toml. Pointer fields distinguish unset keys.
type projectFile struct {
	Provider    *string  `toml:"provider"`
	Model       *string  `toml:"model"`
	Temperature *float64 `toml:"temperature"`
	MaxTokens   *int     `toml:"max_tokens"`
	Timeout     *int     `toml:"timeout"`
	Prompt      *string  `toml:"prompt"`
	APIKey      *string  `toml:"api_key"`
	APIKeyName  *string  `toml:"api_key_name"`
	BaseURL     *string  `toml:"base_url"`
}

func loadProjectFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user's project file
	if err != nil {
		return nil, err
	}
	var file projectFile
	md, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
	}

	cfg := &Config{}
	if file.Provider != nil {
		cfg.Provider = *file.Provider
	}
	if file.Model != nil {
		cfg.Model = *file.Model
	}
	if file.Temperature != nil {
		cfg.Temperature = *file.Temperature
		cfg.TemperatureSet = true
	}
	if file.MaxTokens != nil {
		cfg.MaxTokens = *file.MaxTokens
		cfg.MaxTokensSet = true
	}
	if file.Timeout != nil {
		cfg.Timeout = *file.Timeout
		cfg.TimeoutSet = true
	}
	if file.Prompt != nil {
		cfg.Prompt = *file.Prompt
	}
	if file.APIKey != nil {
		cfg.APIKey = *file.APIKey
	}
	if file.APIKeyName != nil {
		cfg.APIKeyName = *file.APIKeyName
	}
	if file.BaseURL != nil {
		cfg.BaseURL = *file.BaseURL
	}
	return cfg, nil
}

// applyEnv applies LLMC_* environment variables to the config.
// Env vars sit between the global and the project config in precedence.
func (c *Config) applyEnv() {
	if v := os.Getenv("LLMC_PROVIDER"); v != "" {
		c.Provider = v
		c.sources = append(c.sources, "env:LLMC_PROVIDER")
	}

	if v := os.Getenv("LLMC_MODEL"); v != "" {
		c.Model = v
		c.sources = append(c.sources, "env:LLMC_MODEL")
	}

	if v := os.Getenv("LLMC_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = f
			c.TemperatureSet = true
			c.sources = append(c.sources, "env:LLMC_TEMPERATURE")
		}
	}

	if v := os.Getenv("LLMC_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTokens = n
			c.MaxTokensSet = true
			c.sources = append(c.sources, "env:LLMC_MAX_TOKENS")
		}
	}

	if v := os.Getenv("LLMC_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Timeout = n
			c.TimeoutSet = true
			c.sources = append(c.sources, "env:LLMC_TIMEOUT")
		}
	}

	if v := os.Getenv("LLMC_BASE_URL"); v != "" {
		c.BaseURL = v
		c.sources = append(c.sources, "env:LLMC_BASE_URL")
	}
}

// mergeFrom merges non-empty/set values from src into c.
func (c *Config) mergeFrom(src *Config) {
	if src.Provider != "" {
		c.Provider = src.Provider
	}
	if src.Model != "" {
		c.Model = src.Model
	}
	if src.TemperatureSet {
		c.Temperature = src.Temperature
		c.TemperatureSet = true
	}
	if src.MaxTokensSet {
		c.MaxTokens = src.MaxTokens
		c.MaxTokensSet = true
	}
	if src.TimeoutSet {
		c.Timeout = src.Timeout
		c.TimeoutSet = true
	}
	if src.Prompt != "" {
		c.Prompt = src.Prompt
	}
	if src.APIKey != "" {
		c.APIKey = src.APIKey
	}
	if src.APIKeyName != "" {
		c.APIKeyName = src.APIKeyName
	}
	if src.BaseURL != "" {
		c.BaseURL = src.BaseURL
	}
}

// ApplyCLIFlags applies CLI flag overrides to the config.
// CLI flags have the highest precedence.
func (c *Config) ApplyCLIFlags(provider, model string) {
	if provider != "" {
		c.Provider = provider
		c.sources = append(c.sources, "cli:provider")
	}
	if model != "" {
		c.Model = model
		c.sources = append(c.sources, "cli:model")
	}
}

// ToProviderSettings converts the config into the settings a provider
// client is built from.
func (c *Config) ToProviderSettings() llm.Settings {
	return llm.Settings{
		Provider:    c.Provider,
		Model:       c.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		APIKey:      c.APIKey,
		APIKeyName:  c.APIKeyName,
		BaseURL:     c.BaseURL,
		Timeout:     time.Duration(c.Timeout) * time.Second,
	}
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	if !llm.KnownProvider(c.Provider) {
		return fmt.Errorf("invalid provider %q: must be one of: %s",
			c.Provider, strings.Join(llm.ProviderNames(), ", "))
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", c.Timeout)
	}
	if !strings.Contains(c.PromptTemplate, "${diff}") {
		return errors.New("prompt must contain the ${diff} placeholder")
	}
	return nil
}
