package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/pearl-backend/internal/platform/config"
)

const (
	EngineAuto    = "auto"
	EngineOAIHTTP = "oai_http"
	EngineMock    = "mock"
	EngineNone    = "none"
)

type Config struct {
	LogMode     string   `env:"LOG_MODE" envDefault:"development"`
	Port        string   `env:"PORT" envDefault:"8080"`
	ServiceName string   `env:"SERVICE_NAME" envDefault:"pearl"`
	Environment string   `env:"APP_ENV" envDefault:"development"`
	Version     string   `env:"APP_VERSION"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// JWTSecretKey verifies learner tokens. Empty disables authentication and
	// with it all persistence.
	JWTSecretKey  string `env:"JWT_SECRET_KEY"`
	MaxTextBytes  int    `env:"MAX_TEXT_BYTES" envDefault:"20000"`
	MaxAudioBytes int64  `env:"MAX_AUDIO_BYTES" envDefault:"10485760"`

	DB      DBConfig
	Model   ModelConfig   `envPrefix:"MODEL_"`
	Gateway GatewayConfig `envPrefix:"GATEWAY_"`
	Speech  SpeechConfig
	Otel    OtelConfig    `envPrefix:"OTEL_"`
	Metrics MetricsConfig `envPrefix:"METRICS_"`
}

type DBConfig struct {
	PostgresDSN  string `env:"POSTGRES_DSN"`
	SQLitePath   string `env:"PEARL_SQLITE_PATH" envDefault:"pearl.db"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
}

type ModelConfig struct {
	// Engine is auto, oai_http, mock or none. auto picks oai_http when a base
	// URL and API key are set and none otherwise.
	Engine      string        `env:"ENGINE" envDefault:"auto"`
	BaseURL     string        `env:"BASE_URL"`
	APIKey      string        `env:"API_KEY"`
	Name        string        `env:"NAME" envDefault:"gpt-4o-mini"`
	ChatPath    string        `env:"CHAT_PATH"`
	JSONMode    string        `env:"JSON_MODE" envDefault:"prompt"`
	Temperature float64       `env:"TEMPERATURE" envDefault:"0.2"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type GatewayConfig struct {
	RemarkDeadline        time.Duration `env:"REMARK_TIMEOUT" envDefault:"3s"`
	AnnotationDeadline    time.Duration `env:"ANNOTATION_TIMEOUT" envDefault:"6s"`
	RubricDeadline        time.Duration `env:"RUBRIC_TIMEOUT" envDefault:"8s"`
	TranscriptionDeadline time.Duration `env:"TRANSCRIPTION_TIMEOUT" envDefault:"15s"`
	AbandonAfter          time.Duration `env:"ABANDON_AFTER" envDefault:"30s"`
	MaxInFlight           int64         `env:"MAX_INFLIGHT" envDefault:"64"`
}

type SpeechConfig struct {
	Enabled         bool   `env:"SPEECH_ENABLED" envDefault:"false"`
	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	CredentialsJSON string `env:"GOOGLE_APPLICATION_CREDENTIALS_JSON"`
	LanguageCode    string `env:"SPEECH_LANGUAGE_CODE" envDefault:"en-US"`
	Model           string `env:"SPEECH_MODEL"`
}

type OtelConfig struct {
	Enabled     bool    `env:"ENABLED" envDefault:"false"`
	Endpoint    string  `env:"EXPORTER_OTLP_ENDPOINT"`
	Headers     string  `env:"EXPORTER_OTLP_HEADERS"`
	Insecure    bool    `env:"EXPORTER_OTLP_INSECURE" envDefault:"false"`
	SampleRatio float64 `env:"SAMPLER_RATIO" envDefault:"0.1"`
}

type MetricsConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`
	// Addr serves /metrics on a separate listener. Empty serves it on the API router.
	Addr string `env:"ADDR"`
}

// LoadConfig reads the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.validate()
}

// LoadConfigFrom reads configuration from vars only.
func LoadConfigFrom(vars map[string]string) (Config, error) {
	var cfg Config
	if err := config.ParseEnvWith(&cfg, vars); err != nil {
		return Config{}, err
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	c.Model.Engine = strings.ToLower(strings.TrimSpace(c.Model.Engine))
	switch c.Model.Engine {
	case EngineAuto, EngineOAIHTTP, EngineMock, EngineNone:
	case "":
		c.Model.Engine = EngineAuto
	default:
		return fmt.Errorf("MODEL_ENGINE: unknown engine %q", c.Model.Engine)
	}
	if c.Model.Engine == EngineOAIHTTP && strings.TrimSpace(c.Model.BaseURL) == "" {
		return fmt.Errorf("MODEL_BASE_URL is required for MODEL_ENGINE=%s", EngineOAIHTTP)
	}
	if c.MaxTextBytes <= 0 {
		return fmt.Errorf("MAX_TEXT_BYTES must be positive")
	}
	if c.MaxAudioBytes <= 0 {
		return fmt.Errorf("MAX_AUDIO_BYTES must be positive")
	}
	if c.Gateway.MaxInFlight <= 0 {
		return fmt.Errorf("GATEWAY_MAX_INFLIGHT must be positive")
	}
	return nil
}

// resolvedEngine applies the auto rule.
func (c Config) resolvedEngine() string {
	if c.Model.Engine != EngineAuto {
		return c.Model.Engine
	}
	if strings.TrimSpace(c.Model.BaseURL) != "" && strings.TrimSpace(c.Model.APIKey) != "" {
		return EngineOAIHTTP
	}
	return EngineNone
}
