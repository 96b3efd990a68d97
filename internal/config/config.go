package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the server. It is loaded once at startup
// and injected explicitly; nothing reads settings from ambient globals.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	AI         AIConfig
	Detection  DetectionConfig
	Generation GenerationConfig
	Site       SiteConfig
}

type ServerConfig struct {
	Port              int
	Env               string
	RequestsPerMinute int
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

// AIConfig selects and parameterizes the text-generation backend. Model is a
// free-form identifier; the backend is chosen by substring ("gpt"/"openai"
// vs "claude"), matching how deployments have historically configured it.
type AIConfig struct {
	Model            string
	Temperature      float64
	MaxTokens        int
	RequestTimeout   time.Duration
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	AnthropicAPIKey  string
	AnthropicBaseURL string
}

// DetectionConfig controls the referrer/blacklist gates and deduplication.
// Pattern blocks are newline-separated plain substrings, not globs or regexes;
// matching must stay substring containment for compatibility with existing
// configured lists.
type DetectionConfig struct {
	ReferrerPatterns  string
	BlacklistPatterns string
	DedupWindow       time.Duration
	AutoGenerate      bool
	AutoGenerateDelay time.Duration
}

type GenerationConfig struct {
	HourlyLimit        int
	DailyLimit         int
	MinConfidence      float64
	ContentMinLength   int
	ContentMaxLength   int
	Tone               string
	IncludeExamples    bool
	IncludeCode        bool
	CustomPrompt       string
	DefaultContentType string
	DefaultStatus      string
	CategoryStrategy   string
	RetentionDays      int
}

type SiteConfig struct {
	Name        string
	Description string
}

var validCategoryStrategies = map[string]bool{
	"content-type": true,
	"path-segment": true,
}

// Load reads configuration from environment variables and returns a validated
// Config. Returns an error with a descriptive message if any required value is
// missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:              envInt("LLMURL_PORT", 8080),
			Env:               envString("LLMURL_ENV", "development"),
			RequestsPerMinute: envInt("LLMURL_REQUESTS_PER_MINUTE", 120),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		AI: AIConfig{
			Model:            envString("AI_MODEL", "gpt-4"),
			Temperature:      envFloat("AI_TEMPERATURE", 0.7),
			MaxTokens:        envInt("AI_MAX_TOKENS", 1500),
			RequestTimeout:   envDuration("AI_REQUEST_TIMEOUT", 60*time.Second),
			OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
			OpenAIBaseURL:    envString("OPENAI_BASE_URL", "https://api.openai.com"),
			AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
			AnthropicBaseURL: envString("ANTHROPIC_BASE_URL", ""),
		},
		Detection: DetectionConfig{
			ReferrerPatterns:  os.Getenv("DETECTION_REFERRER_PATTERNS"),
			BlacklistPatterns: os.Getenv("DETECTION_BLACKLIST_PATTERNS"),
			DedupWindow:       envDuration("DETECTION_DEDUP_WINDOW", time.Hour),
			AutoGenerate:      envBool("DETECTION_AUTO_GENERATE", false),
			AutoGenerateDelay: envDuration("DETECTION_AUTO_GENERATE_DELAY", 10*time.Second),
		},
		Generation: GenerationConfig{
			HourlyLimit:        envInt("GENERATION_HOURLY_LIMIT", 10),
			DailyLimit:         envInt("GENERATION_DAILY_LIMIT", 50),
			MinConfidence:      envFloat("GENERATION_MIN_CONFIDENCE", 0.3),
			ContentMinLength:   envInt("GENERATION_CONTENT_MIN_LENGTH", 800),
			ContentMaxLength:   envInt("GENERATION_CONTENT_MAX_LENGTH", 1500),
			Tone:               envString("GENERATION_TONE", "professional"),
			IncludeExamples:    envBool("GENERATION_INCLUDE_EXAMPLES", true),
			IncludeCode:        envBool("GENERATION_INCLUDE_CODE", true),
			CustomPrompt:       os.Getenv("GENERATION_CUSTOM_PROMPT"),
			DefaultContentType: envString("GENERATION_DEFAULT_CONTENT_TYPE", "blog"),
			DefaultStatus:      envString("GENERATION_DEFAULT_STATUS", "draft"),
			CategoryStrategy:   envString("GENERATION_CATEGORY_STRATEGY", "content-type"),
			RetentionDays:      envInt("GENERATION_RETENTION_DAYS", 30),
		},
		Site: SiteConfig{
			Name:        os.Getenv("SITE_NAME"),
			Description: os.Getenv("SITE_DESCRIPTION"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	model := strings.ToLower(c.AI.Model)
	switch {
	case strings.Contains(model, "gpt") || strings.Contains(model, "openai"):
		if c.AI.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for model %q", c.AI.Model)
		}
	case strings.Contains(model, "claude"):
		if c.AI.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for model %q", c.AI.Model)
		}
	default:
		return fmt.Errorf("AI_MODEL %q is not recognized: expected a gpt/openai or claude model", c.AI.Model)
	}

	if !validCategoryStrategies[c.Generation.CategoryStrategy] {
		return fmt.Errorf("GENERATION_CATEGORY_STRATEGY must be one of content-type, path-segment; got %q",
			c.Generation.CategoryStrategy)
	}

	if c.Generation.MinConfidence < 0 || c.Generation.MinConfidence > 1 {
		return fmt.Errorf("GENERATION_MIN_CONFIDENCE must be in [0,1]; got %v", c.Generation.MinConfidence)
	}

	if c.Generation.ContentMinLength > c.Generation.ContentMaxLength {
		return fmt.Errorf("GENERATION_CONTENT_MIN_LENGTH (%d) exceeds GENERATION_CONTENT_MAX_LENGTH (%d)",
			c.Generation.ContentMinLength, c.Generation.ContentMaxLength)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func envBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
