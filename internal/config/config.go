package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	BrowserManaged = "managed"
	BrowserLocal   = "local"

	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-3-5-haiku-latest"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         string `yaml:"port"`
		TemplatesDir string `yaml:"templates_dir"`
		BodyLimitMB  int    `yaml:"body_limit_mb"`
		ArtifactDir  string `yaml:"artifact_dir"`
		LogLevel     string `yaml:"log_level"`
	} `yaml:"server"`

	LLM struct {
		Provider      string        `yaml:"provider"`
		APIKey        string        `yaml:"api_key"`
		Model         string        `yaml:"model"`
		BaseURL       string        `yaml:"base_url"`
		MaxTokens     int           `yaml:"max_tokens"`
		Timeout       time.Duration `yaml:"timeout"`
		MaxRetries    int           `yaml:"max_retries"`
		RatePerMinute int           `yaml:"rate_per_minute"`
	} `yaml:"llm"`

	Browser struct {
		Mode       string        `yaml:"mode"`
		ChromePath string        `yaml:"chrome_path"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"browser"`

	Generation struct {
		Mode string `yaml:"mode"`
	} `yaml:"generation"`
}

// Load reads an optional .env, an optional YAML file named by CONFIG_PATH,
// then applies environment overrides and defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	// -1 marks "unset" so an explicit 0 disables retries.
	cfg.LLM.MaxRetries = -1
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.TemplatesDir, "TEMPLATES_DIR")
	setInt(&cfg.Server.BodyLimitMB, "BODY_LIMIT_MB")
	setString(&cfg.Server.ArtifactDir, "ARTIFACT_DIR")
	setString(&cfg.Server.LogLevel, "LOG_LEVEL")

	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = ProviderOpenAI
	}
	switch cfg.LLM.Provider {
	case ProviderAnthropic:
		setString(&cfg.LLM.APIKey, "ANTHROPIC_API_KEY")
	default:
		setString(&cfg.LLM.APIKey, "OPENAI_API_KEY")
	}
	// OPENAI_VERSION is the older name for the model identifier.
	setString(&cfg.LLM.Model, "OPENAI_VERSION")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setString(&cfg.LLM.BaseURL, "OPENAI_BASE_URL")
	setInt(&cfg.LLM.MaxTokens, "LLM_MAX_TOKENS")
	setDuration(&cfg.LLM.Timeout, "LLM_TIMEOUT")
	setInt(&cfg.LLM.MaxRetries, "LLM_MAX_RETRIES")
	setInt(&cfg.LLM.RatePerMinute, "LLM_RATE_PER_MINUTE")

	setString(&cfg.Browser.Mode, "BROWSER_MODE")
	if cfg.Browser.Mode == "" {
		if strings.EqualFold(os.Getenv("APP_ENV"), "production") {
			cfg.Browser.Mode = BrowserManaged
		} else {
			cfg.Browser.Mode = BrowserLocal
		}
	}
	setString(&cfg.Browser.ChromePath, "CHROME_PATH")
	setDuration(&cfg.Browser.Timeout, "RENDER_TIMEOUT")

	setString(&cfg.Generation.Mode, "GENERATION_MODE")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "3000"
	}
	if cfg.Server.TemplatesDir == "" {
		cfg.Server.TemplatesDir = "templates"
	}
	if cfg.Server.BodyLimitMB <= 0 {
		cfg.Server.BodyLimitMB = 10
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if cfg.LLM.Model == "" {
		if cfg.LLM.Provider == ProviderAnthropic {
			cfg.LLM.Model = defaultAnthropicModel
		} else {
			cfg.LLM.Model = defaultOpenAIModel
		}
	}
	if cfg.LLM.MaxTokens <= 0 {
		cfg.LLM.MaxTokens = 8192
	}
	if cfg.LLM.Timeout <= 0 {
		cfg.LLM.Timeout = 90 * time.Second
	}
	if cfg.LLM.MaxRetries < 0 {
		cfg.LLM.MaxRetries = 2
	}
	if cfg.Browser.Timeout <= 0 {
		cfg.Browser.Timeout = 60 * time.Second
	}
	if cfg.Generation.Mode == "" {
		cfg.Generation.Mode = "structured"
	}
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLM.Provider)
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		if c.LLM.Provider == ProviderAnthropic {
			return fmt.Errorf("ANTHROPIC_API_KEY is required")
		}
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	switch c.Browser.Mode {
	case BrowserManaged, BrowserLocal:
	default:
		return fmt.Errorf("unsupported BROWSER_MODE %q", c.Browser.Mode)
	}
	switch c.Generation.Mode {
	case "structured", "document":
	default:
		return fmt.Errorf("unsupported GENERATION_MODE %q", c.Generation.Mode)
	}
	return nil
}

// BodyLimit returns the request body limit in bytes.
func (c *Config) BodyLimit() int {
	return c.Server.BodyLimitMB * 1024 * 1024
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// setDuration accepts Go durations ("90s") or bare seconds ("90").
func setDuration(dst *time.Duration, key string) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(n) * time.Second
	}
}
