package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix de todas las variables: ADHERENCE_PORT, ADHERENCE_DB_DSN, etc.
const Prefix = "ADHERENCE"

// Config del servicio. DBDSN vacío => storage en memoria (modo dev).
type Config struct {
	Port    int    `envconfig:"PORT" default:"8080"`
	AppName string `envconfig:"APP_NAME" default:"medication-adherence"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	DBDSN string `envconfig:"DB_DSN" default:""`

	InsightsBaseURL string        `envconfig:"INSIGHTS_BASE_URL" default:""`
	InsightsAPIKey  string        `envconfig:"INSIGHTS_API_KEY" default:""`
	InsightsModel   string        `envconfig:"INSIGHTS_MODEL" default:""`
	InsightsTimeout time.Duration `envconfig:"INSIGHTS_TIMEOUT" default:"20s"`
	InsightsRPM     int           `envconfig:"INSIGHTS_RPM" default:"30"`
	InsightsBurst   int           `envconfig:"INSIGHTS_BURST" default:"5"`

	// Sin AUTH_BASE_URL se usa el header X-Debug-User-ID.
	AuthBaseURL string `envconfig:"AUTH_BASE_URL" default:""`
	AuthAPIKey  string `envconfig:"AUTH_API_KEY" default:""`

	DefaultWindowDays int  `envconfig:"DEFAULT_WINDOW_DAYS" default:"30"`
	SwaggerEnabled    bool `envconfig:"SWAGGER_ENABLED" default:"true"`
}

// Load lee las variables de entorno y valida el resultado.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	if c.DefaultWindowDays <= 0 {
		return fmt.Errorf("DEFAULT_WINDOW_DAYS must be positive, got %d", c.DefaultWindowDays)
	}
	if c.InsightsTimeout <= 0 {
		return fmt.Errorf("INSIGHTS_TIMEOUT must be positive, got %s", c.InsightsTimeout)
	}
	if c.InsightsRPM < 0 || c.InsightsBurst < 0 {
		return fmt.Errorf("INSIGHTS_RPM and INSIGHTS_BURST must not be negative")
	}
	if c.InsightsEnabled() != (strings.TrimSpace(c.InsightsAPIKey) != "") {
		return fmt.Errorf("INSIGHTS_BASE_URL and INSIGHTS_API_KEY must be set together")
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c Config) InsightsEnabled() bool {
	return strings.TrimSpace(c.InsightsBaseURL) != ""
}

func (c Config) AuthEnabled() bool {
	return strings.TrimSpace(c.AuthBaseURL) != ""
}
