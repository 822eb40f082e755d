package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App       AppConfig       `toml:"app"`
	Corpus    CorpusConfig    `toml:"corpus"`
	Composer  ComposerConfig  `toml:"composer"`
	LLM       LLMConfig       `toml:"llm"`
	Redis     RedisConfig     `toml:"redis"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
	Version string `toml:"version"`
	// TrustedProxies lists the proxy IPs or CIDRs allowed to set
	// X-Forwarded-For. Empty means the socket address is the client.
	TrustedProxies []string `toml:"trusted_proxies"`
}

// CorpusConfig points at the directory of article files and the catalog that
// maps file names to display metadata.
type CorpusConfig struct {
	Dir         string   `toml:"dir"`
	CatalogFile string   `toml:"catalog_file"`
	Extensions  []string `toml:"extensions"`
}

type ComposerConfig struct {
	Provider       string `toml:"provider"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type LLMConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type RateLimitConfig struct {
	Enabled       bool `toml:"enabled"`
	Requests      int  `toml:"requests"`
	WindowSeconds int  `toml:"window_seconds"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "nytinsight",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    8080,
			GinMode: "debug",
			Version: "1.0.0",
		},
		Corpus: CorpusConfig{
			Dir:         "articles",
			CatalogFile: "configs/sources.toml",
			Extensions:  []string{".txt", ".md", ".pdf"},
		},
		Composer: ComposerConfig{
			Provider:       "static",
			TimeoutSeconds: 20,
		},
		LLM: LLMConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		RateLimit: RateLimitConfig{
			Enabled:       false,
			Requests:      30,
			WindowSeconds: 60,
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)
	cfg.App.Version = getEnv("APP_VERSION", cfg.App.Version)
	cfg.App.TrustedProxies = getEnvAsList("APP_TRUSTED_PROXIES", cfg.App.TrustedProxies)

	cfg.Corpus.Dir = getEnv("CORPUS_DIR", cfg.Corpus.Dir)
	cfg.Corpus.CatalogFile = getEnv("CORPUS_CATALOG_FILE", cfg.Corpus.CatalogFile)
	cfg.Corpus.Extensions = getEnvAsList("CORPUS_EXTENSIONS", cfg.Corpus.Extensions)

	cfg.Composer.Provider = getEnv("COMPOSER_PROVIDER", cfg.Composer.Provider)
	cfg.Composer.TimeoutSeconds = getEnvAsInt("COMPOSER_TIMEOUT_SECONDS", cfg.Composer.TimeoutSeconds)

	cfg.LLM.BaseURL = getEnv("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.APIKey = getEnv("LLM_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.Model = getEnv("LLM_MODEL", cfg.LLM.Model)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)

	cfg.RateLimit.Enabled = getEnvAsBool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.Requests = getEnvAsInt("RATE_LIMIT_REQUESTS", cfg.RateLimit.Requests)
	cfg.RateLimit.WindowSeconds = getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", cfg.RateLimit.WindowSeconds)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvAsList reads a comma separated list; blank entries are dropped.
func getEnvAsList(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
