// Package config loads the settings shared by the command and HTTP surfaces.
//
// Precedence, lowest first: built-in defaults, the optional YAML file, the
// environment. Command-line flags are applied on top by the CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rocketship-ai/scriptrunner/internal/runner"
)

// Config holds the process-wide settings. It is immutable once loaded.
type Config struct {
	ScriptsDir    string        `yaml:"scripts_dir"`
	Language      string        `yaml:"language"`
	Interpreter   []string      `yaml:"interpreter"`
	Timeout       time.Duration `yaml:"timeout"`
	KillGrace     time.Duration `yaml:"kill_grace"`
	CredentialKey string        `yaml:"credential_key"`
	Host          string        `yaml:"host"`
	Port          int           `yaml:"port"`
	MaxConcurrent int           `yaml:"max_concurrent"`
	LogLevel      string        `yaml:"log_level"`
}

const (
	defaultScriptsDir = "/app/scripts"
	defaultLanguage   = "javascript"
	defaultHost       = "0.0.0.0"
	defaultPort       = 8000
	defaultLogLevel   = "INFO"

	// EnvConfigFile names the optional YAML configuration file.
	EnvConfigFile = "SCRIPTRUNNER_CONFIG"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ScriptsDir:    defaultScriptsDir,
		Language:      defaultLanguage,
		Timeout:       runner.DefaultTimeout,
		KillGrace:     runner.DefaultKillGrace,
		CredentialKey: runner.DefaultCredentialKey,
		Host:          defaultHost,
		Port:          defaultPort,
		LogLevel:      defaultLogLevel,
	}
}

// Load builds a Config from defaults, the YAML file at path (or the file named
// by SCRIPTRUNNER_CONFIG when path is empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigFile))
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	c.ScriptsDir = getEnvDefault("SCRIPTRUNNER_SCRIPTS_DIR", c.ScriptsDir)
	c.Language = getEnvDefault("SCRIPTRUNNER_LANGUAGE", c.Language)
	c.CredentialKey = getEnvDefault("SCRIPTRUNNER_CREDENTIAL_KEY", c.CredentialKey)
	c.Host = getEnvDefault("HOST", c.Host)
	c.LogLevel = getEnvDefault("SCRIPTRUNNER_LOG", c.LogLevel)

	if v := strings.TrimSpace(os.Getenv("SCRIPTRUNNER_INTERPRETER")); v != "" {
		c.Interpreter = strings.Fields(v)
	}

	var err error
	if c.Timeout, err = durationFromEnv("SCRIPTRUNNER_TIMEOUT", c.Timeout); err != nil {
		return err
	}
	if c.KillGrace, err = durationFromEnv("SCRIPTRUNNER_KILL_GRACE", c.KillGrace); err != nil {
		return err
	}
	if c.Port, err = intFromEnv("PORT", c.Port); err != nil {
		return err
	}
	if c.MaxConcurrent, err = intFromEnv("SCRIPTRUNNER_MAX_CONCURRENT", c.MaxConcurrent); err != nil {
		return err
	}
	return nil
}

// Validate checks the configuration for values no component can work with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ScriptsDir) == "" {
		return fmt.Errorf("scripts directory is required")
	}
	if _, err := runner.LookupLanguage(c.Language); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.KillGrace <= 0 {
		return fmt.Errorf("kill grace must be positive")
	}
	if strings.TrimSpace(c.CredentialKey) == "" {
		return fmt.Errorf("credential key is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("max concurrent must not be negative")
	}
	return nil
}

// ListenAddr returns the host:port the HTTP surface binds to.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// EngineConfig returns the engine settings derived from c.
func (c Config) EngineConfig() runner.Config {
	return runner.Config{
		Timeout:       c.Timeout,
		KillGrace:     c.KillGrace,
		CredentialKey: c.CredentialKey,
		Interpreter:   c.Interpreter,
	}
}

func getEnvDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
