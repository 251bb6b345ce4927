package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"quiz-diagnosis/internal/domain"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Logger        LoggerConfig
	AI            AIConfig
	Cache         CacheConfig
	Redis         RedisConfig
	Questions     map[domain.Segment][]string
	DiagnosisCopy domain.DiagnosisCopy
	Prompt        PromptConfig
	Integrations  IntegrationsConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level  string
	Env    string
	Output string // stdout | stderr
}

// AIConfig holds the process-level AI settings. Request-level overrides are
// merged in by Resolve.
type AIConfig struct {
	Enabled        bool
	Provider       string
	Model          string
	APIKey         string
	BaseURL        string
	Timeout        time.Duration
	MaxAttempts    int
	RetryBaseDelay time.Duration
	Temperature    float64

	// ProviderKeys holds the process-wide secrets per provider, used when a
	// request switches provider without supplying its own key.
	ProviderKeys map[string]string
}

type CacheConfig struct {
	Backend string // redis | memory | none
	TTL     time.Duration
	Size    int

	// ResultTTL bounds how long an assembled diagnosis stays retrievable by id.
	ResultTTL time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type PromptConfig struct {
	EmptyMarker string
}

type IntegrationsConfig struct {
	WebhookURL     string
	WhatsAppNumber string
	WebhookTimeout time.Duration
}

// fallbackSecretEnv maps a provider to the process-wide secret used when no
// key is configured for it.
var fallbackSecretEnv = map[string]string{
	"openrouter": "OPENROUTER_API_KEY",
	"langchain":  "OPENROUTER_API_KEY",
	"openai":     "OPENAI_API_KEY",
	"gemini":     "GEMINI_API_KEY",
	"anthropic":  "ANTHROPIC_API_KEY",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "20s")
	v.SetDefault("server.write_timeout", "40s")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.provider", "openrouter")
	v.SetDefault("ai.timeout", "15s")
	v.SetDefault("ai.max_attempts", 2)
	v.SetDefault("ai.retry_base_delay", "300ms")
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.size", 512)
	v.SetDefault("cache.result_ttl", "2h")
	v.SetDefault("prompt.empty_marker", "Nenhum")
	v.SetDefault("integrations.webhook_timeout", "10s")
}

// LoadConfig reads config.yaml and the environment. CONFIG_PATH points at an
// explicit file; otherwise "." and "./config" are searched.
func LoadConfig() (*Config, error) {
	return LoadFile(os.Getenv("CONFIG_PATH"))
}

// LoadFile is LoadConfig with an explicit config file path. An empty path
// searches the default locations.
func LoadFile(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", absPath)
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("logger.level"),
			Env:    v.GetString("logger.env"),
			Output: v.GetString("logger.output"),
		},
		AI: AIConfig{
			Enabled:        v.GetBool("ai.enabled"),
			Provider:       strings.ToLower(strings.TrimSpace(v.GetString("ai.provider"))),
			Model:          strings.TrimSpace(v.GetString("ai.model")),
			APIKey:         strings.TrimSpace(v.GetString("ai.api_key")),
			BaseURL:        v.GetString("ai.base_url"),
			Timeout:        v.GetDuration("ai.timeout"),
			MaxAttempts:    v.GetInt("ai.max_attempts"),
			RetryBaseDelay: v.GetDuration("ai.retry_base_delay"),
			Temperature:    v.GetFloat64("ai.temperature"),
		},
		Cache: CacheConfig{
			Backend:   strings.ToLower(v.GetString("cache.backend")),
			TTL:       v.GetDuration("cache.ttl"),
			Size:      v.GetInt("cache.size"),
			ResultTTL: v.GetDuration("cache.result_ttl"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		DiagnosisCopy: domain.DiagnosisCopy{
			Low:               v.GetString("diagnosis_copy.low"),
			Medium:            v.GetString("diagnosis_copy.medium"),
			High:              v.GetString("diagnosis_copy.high"),
			ConclusionDefault: v.GetString("diagnosis_copy.conclusion_default"),
		},
		Prompt: PromptConfig{
			EmptyMarker: v.GetString("prompt.empty_marker"),
		},
		Integrations: IntegrationsConfig{
			WebhookURL:     v.GetString("integrations.webhook_url"),
			WhatsAppNumber: v.GetString("integrations.whatsapp_number"),
			WebhookTimeout: v.GetDuration("integrations.webhook_timeout"),
		},
	}

	// viper lower-cases map keys, so segments are matched case-insensitively.
	cfg.Questions = make(map[domain.Segment][]string)
	for key, questions := range v.GetStringMapStringSlice("questions") {
		segment, err := domain.ParseSegment(key)
		if err != nil {
			return nil, fmt.Errorf("invalid questions key %q: %w", key, err)
		}
		cfg.Questions[segment] = questions
	}

	cfg.AI.ProviderKeys = make(map[string]string, len(fallbackSecretEnv))
	for provider, env := range fallbackSecretEnv {
		if key := strings.TrimSpace(os.Getenv(env)); key != "" {
			cfg.AI.ProviderKeys[provider] = key
		}
	}
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = cfg.AI.ProviderKeys[cfg.AI.Provider]
	}
	if cfg.AI.MaxAttempts < 1 {
		cfg.AI.MaxAttempts = 1
	}

	return cfg, nil
}

// AIOverride carries the per-request AI settings an admin may supply.
// Nil or empty fields fall back to the process configuration.
type AIOverride struct {
	Enabled  *bool
	Provider string
	Model    string
	APIKey   string
}

// Resolve merges a request override into the process configuration and
// returns the value handed to the diagnosis core.
func (c AIConfig) Resolve(override AIOverride) domain.AIConfig {
	resolved := domain.AIConfig{
		Enabled:    c.Enabled,
		Provider:   c.Provider,
		Model:      c.Model,
		Credential: c.APIKey,
	}
	if override.Enabled != nil {
		resolved.Enabled = *override.Enabled
	}
	if p := strings.ToLower(strings.TrimSpace(override.Provider)); p != "" && p != c.Provider {
		resolved.Provider = p
		resolved.Credential = c.ProviderKeys[p]
	}
	if m := strings.TrimSpace(override.Model); m != "" {
		resolved.Model = m
	}
	if k := strings.TrimSpace(override.APIKey); k != "" {
		resolved.Credential = k
	}
	return resolved
}

// RetryPolicy returns the retry settings for the narrative pipeline.
func (c AIConfig) RetryPolicy() domain.RetryPolicy {
	return domain.RetryPolicy{
		MaxAttempts: c.MaxAttempts,
		BaseDelay:   c.RetryBaseDelay,
	}
}
