package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv  = "REALM_CONFIG"
	apiKeyEnv      = "PPLX_KEY"
	modelEnv       = "PPLX_MODEL"
	databaseEnv    = "REALM_DB"
	listenAddrEnv  = "REALM_ADDR"
	defaultTimeout = 60
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Files    FilesConfig    `yaml:"files"`
	LLM      LLMConfig      `yaml:"llm"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig describes the HTTP listen address.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig describes the SQLite database location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// FilesConfig locates the uploads and downloadable-contents directories.
type FilesConfig struct {
	UploadsDir  string `yaml:"uploadsDir"`
	ContentsDir string `yaml:"contentsDir"`
}

// LLMConfig defines how to contact the chat-completions API.
type LLMConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"apiKey"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// Timeout resolves the per-call timeout, defaulting to 60s.
func (l LLMConfig) Timeout() time.Duration {
	if l.TimeoutSeconds <= 0 {
		return defaultTimeout * time.Second
	}
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(apiKeyEnv); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(modelEnv); v != "" {
		c.LLM.Model = v
	}

	if v := os.Getenv(databaseEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(listenAddrEnv); v != "" {
		c.Server.Addr = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Server.Addr != "" {
		base.Server = override.Server
	}

	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Files.UploadsDir != "" {
		base.Files.UploadsDir = override.Files.UploadsDir
	}
	if override.Files.ContentsDir != "" {
		base.Files.ContentsDir = override.Files.ContentsDir
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.TimeoutSeconds > 0 {
		base.LLM.TimeoutSeconds = override.LLM.TimeoutSeconds
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:  LoggingConfig{Level: "info"},
		Server:   ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{Path: "realm.db"},
		Files: FilesConfig{
			UploadsDir:  "uploads",
			ContentsDir: "contents",
		},
		LLM: LLMConfig{
			Endpoint:       "https://api.perplexity.ai/chat/completions",
			Model:          "llama-3.1-sonar-huge-128k-online",
			APIKey:         "",
			TimeoutSeconds: defaultTimeout,
		},
	}
}
