package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"ecostory/internal/logger"
)

// ErrMissingAPIKey is returned by Load when OPENAI_API_KEY is not set.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set; export it or add it to .env before starting")

// Config holds the application settings read from the environment.
type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`

	// OpenAI
	OpenAIAPIKey  string        `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `envconfig:"OPENAI_BASE_URL"`
	AITimeout     time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`

	// Generation
	StoryModel       string  `envconfig:"STORY_MODEL" default:"gpt-3.5-turbo"`
	SceneModel       string  `envconfig:"SCENE_MODEL" default:"gpt-4"`
	StoryMaxTokens   int     `envconfig:"STORY_MAX_TOKENS" default:"800"`
	StoryTemperature float32 `envconfig:"STORY_TEMPERATURE" default:"0.8"`
	ImageSize        string  `envconfig:"IMAGE_SIZE" default:"512x512"`
	ImageModel       string  `envconfig:"IMAGE_MODEL"`
	ImageConcurrency int     `envconfig:"IMAGE_CONCURRENCY" default:"3"`
	ImageRatePerSec  float64 `envconfig:"IMAGE_RATE_PER_SEC" default:"2"`
	TablesFile       string  `envconfig:"TABLES_FILE"`

	// Web
	HTTPAddr     string        `envconfig:"HTTP_ADDR" default:":8080"`
	TemplatesDir string        `envconfig:"TEMPLATES_DIR" default:"templates"`
	SessionTTL   time.Duration `envconfig:"SESSION_TTL" default:"30m"`

	// Observability
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding  string `envconfig:"LOG_ENCODING" default:"json"`
	LogOutput    string `envconfig:"LOG_OUTPUT"`
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads an optional .env file, then the environment. It fails when the
// API key is missing so nothing reaches the network without credentials.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OpenAIAPIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.ImageConcurrency < 1 {
		return fmt.Errorf("IMAGE_CONCURRENCY must be at least 1, got %d", c.ImageConcurrency)
	}
	if c.StoryMaxTokens < 1 {
		return fmt.Errorf("STORY_MAX_TOKENS must be at least 1, got %d", c.StoryMaxTokens)
	}
	return nil
}

// Logger returns the logger settings.
func (c *Config) Logger() logger.Config {
	return logger.Config{
		Level:      c.LogLevel,
		Encoding:   c.LogEncoding,
		OutputPath: c.LogOutput,
	}
}

// MaskedAPIKey returns the key with all but the last four characters hidden.
func (c *Config) MaskedAPIKey() string {
	k := c.OpenAIAPIKey
	if len(k) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + k[len(k)-4:]
}
