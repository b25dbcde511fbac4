package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	SupportEmail      string `mapstructure:"SUPPORT_EMAIL"`

	// Gemini configuration.
	GoogleAPIKey      string  `mapstructure:"GOOGLE_API_KEY"`
	GeminiAPIKey      string  `mapstructure:"GEMINI_API_KEY"`
	GeminiModel       string  `mapstructure:"GEMINI_MODEL"`
	GeminiTemperature float32 `mapstructure:"GEMINI_TEMPERATURE"`

	// SerpAPI configuration, shared by flight search and the web search tool.
	SerpAPIKey     string `mapstructure:"SERPAPI_API_KEY"`
	SerpAPIBaseURL string `mapstructure:"SERPAPI_BASE_URL"`

	FlightCurrency        string  `mapstructure:"FLIGHT_CURRENCY"`
	FlightLocale          string  `mapstructure:"FLIGHT_LOCALE"`
	FlightTimeoutSeconds  int     `mapstructure:"FLIGHT_TIMEOUT_SECONDS"`
	FlightMaxRetries      int     `mapstructure:"FLIGHT_MAX_RETRIES"`
	FlightCacheTTLSeconds int     `mapstructure:"FLIGHT_CACHE_TTL_SECONDS"`
	FlightRatePerSecond   float64 `mapstructure:"FLIGHT_RATE_PER_SECOND"`

	AgentTimeoutSeconds int  `mapstructure:"AGENT_TIMEOUT_SECONDS"`
	AgentMaxToolCalls   int  `mapstructure:"AGENT_MAX_TOOL_CALLS"`
	PlannerConcurrent   bool `mapstructure:"PLANNER_CONCURRENT"`
	PlanTTLMinutes      int  `mapstructure:"PLAN_TTL_MINUTES"`

	// Redis configuration. An empty address disables redis.
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB      int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB      int    `mapstructure:"REDIS_QUEUE_DB"`
	WorkerConcurrency int    `mapstructure:"WORKER_CONCURRENCY"`
}

// ErrMissingGeminiKey is returned by Validate when no Gemini credential is set.
var ErrMissingGeminiKey = errors.New("GOOGLE_API_KEY or GEMINI_API_KEY must be set")

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("SUPPORT_EMAIL", "")
	v.SetDefault("GOOGLE_API_KEY", "")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash-exp")
	v.SetDefault("GEMINI_TEMPERATURE", 0.7)
	v.SetDefault("SERPAPI_API_KEY", "")
	v.SetDefault("SERPAPI_BASE_URL", "https://serpapi.com/search.json")
	v.SetDefault("FLIGHT_CURRENCY", "INR")
	v.SetDefault("FLIGHT_LOCALE", "en")
	v.SetDefault("FLIGHT_TIMEOUT_SECONDS", 20)
	v.SetDefault("FLIGHT_MAX_RETRIES", 2)
	v.SetDefault("FLIGHT_CACHE_TTL_SECONDS", 600)
	v.SetDefault("FLIGHT_RATE_PER_SECOND", 2)
	v.SetDefault("AGENT_TIMEOUT_SECONDS", 120)
	v.SetDefault("AGENT_MAX_TOOL_CALLS", 5)
	v.SetDefault("PLANNER_CONCURRENT", true)
	v.SetDefault("PLAN_TTL_MINUTES", 30)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("WORKER_CONCURRENCY", 4)
}

// Load reads config.yaml from the current or ./config directory when present,
// overlays environment variables and returns the result.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.FlightCurrency = strings.ToUpper(strings.TrimSpace(cfg.FlightCurrency))
	return &cfg, nil
}

// Validate reports configuration that prevents the service from starting.
func (c *Config) Validate() error {
	if c.GeminiKey() == "" {
		return ErrMissingGeminiKey
	}
	return nil
}

// GeminiKey prefers GOOGLE_API_KEY and falls back to GEMINI_API_KEY.
func (c *Config) GeminiKey() string {
	if k := strings.TrimSpace(c.GoogleAPIKey); k != "" {
		return k
	}
	return strings.TrimSpace(c.GeminiAPIKey)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.RedisAddr) != ""
}

func (c *Config) FlightTimeout() time.Duration {
	return time.Duration(c.FlightTimeoutSeconds) * time.Second
}

func (c *Config) FlightCacheTTL() time.Duration {
	return time.Duration(c.FlightCacheTTLSeconds) * time.Second
}

func (c *Config) AgentTimeout() time.Duration {
	return time.Duration(c.AgentTimeoutSeconds) * time.Second
}

func (c *Config) PlanTTL() time.Duration {
	return time.Duration(c.PlanTTLMinutes) * time.Minute
}
