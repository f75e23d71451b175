// Package config loads process configuration from ENCOUNTER_FORGE_*
// environment variables.
package config

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/encounter-forge/internal/errors"
)

// Generator backends
const (
	GeneratorAuto    = "auto"
	GeneratorLLM     = "llm"
	GeneratorOffline = "offline"
)

// Config is everything the server and CLI read from the environment
type Config struct {
	GRPCAddr string `env:"ENCOUNTER_FORGE_GRPC_ADDR" envDefault:":50051"`
	HTTPAddr string `env:"ENCOUNTER_FORGE_HTTP_ADDR" envDefault:":8080"`

	// RedisURL enables redis storage for encounters and battles
	RedisURL string `env:"ENCOUNTER_FORGE_REDIS_URL"`
	// SQLitePath stores encounters in SQLite; it takes precedence over redis
	// for encounters only
	SQLitePath string        `env:"ENCOUNTER_FORGE_SQLITE_PATH"`
	BattleTTL  time.Duration `env:"ENCOUNTER_FORGE_BATTLE_TTL" envDefault:"12h"`

	// Generator is auto, llm or offline. auto uses the LLM when an API key is set.
	Generator        string        `env:"ENCOUNTER_FORGE_GENERATOR" envDefault:"auto"`
	OpenAIAPIKey     string        `env:"ENCOUNTER_FORGE_OPENAI_API_KEY"`
	OpenAIBaseURL    string        `env:"ENCOUNTER_FORGE_OPENAI_BASE_URL"`
	OpenAIModel      string        `env:"ENCOUNTER_FORGE_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	Temperature      float64       `env:"ENCOUNTER_FORGE_TEMPERATURE" envDefault:"0.8"`
	GeneratorTimeout time.Duration `env:"ENCOUNTER_FORGE_GENERATOR_TIMEOUT" envDefault:"60s"`
	GeneratorRetries int           `env:"ENCOUNTER_FORGE_GENERATOR_RETRIES" envDefault:"2"`

	SRDEnabled  bool          `env:"ENCOUNTER_FORGE_SRD_ENABLED" envDefault:"true"`
	SRDBaseURL  string        `env:"ENCOUNTER_FORGE_SRD_BASE_URL"`
	SRDCacheTTL time.Duration `env:"ENCOUNTER_FORGE_SRD_CACHE_TTL" envDefault:"24h"`

	OTelEndpoint string `env:"ENCOUNTER_FORGE_OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"ENCOUNTER_FORGE_OTEL_ENABLED" envDefault:"true"`

	LogLevel  string `env:"ENCOUNTER_FORGE_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"ENCOUNTER_FORGE_LOG_FORMAT" envDefault:"json"`
}

// Load parses the environment and validates the result
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values env parsing cannot
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("GRPCAddr", c.GRPCAddr, vb)
	errors.ValidateRequired("HTTPAddr", c.HTTPAddr, vb)
	errors.ValidateEnum("Generator", c.Generator,
		[]string{GeneratorAuto, GeneratorLLM, GeneratorOffline}, vb)
	if c.Generator == GeneratorLLM && strings.TrimSpace(c.OpenAIAPIKey) == "" {
		vb.Field("OpenAIAPIKey", "is required when the generator is llm")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		vb.Field("Temperature", "must be between 0 and 2")
	}
	if c.GeneratorRetries < 0 {
		vb.Field("GeneratorRetries", "must not be negative")
	}
	if c.BattleTTL <= 0 {
		vb.Field("BattleTTL", "must be positive")
	}
	errors.ValidateEnum("LogLevel", strings.ToLower(c.LogLevel), []string{"debug", "info", "warn", "error"}, vb)
	errors.ValidateEnum("LogFormat", strings.ToLower(c.LogFormat), []string{"json", "text"}, vb)

	return vb.Build()
}

// UseLLM reports whether generation goes to the Chat Completions API
func (c *Config) UseLLM() bool {
	switch c.Generator {
	case GeneratorLLM:
		return true
	case GeneratorOffline:
		return false
	default:
		return strings.TrimSpace(c.OpenAIAPIKey) != ""
	}
}

// Logger builds the slog logger described by LogLevel and LogFormat
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
