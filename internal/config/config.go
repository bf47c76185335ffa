package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultJWTSecret = "change-me-jwt-secret"

// Desk configures the desk API that agents talk to.
type Desk struct {
	AppEnv   string `envconfig:"APP_ENV" default:"dev"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"change-me-jwt-secret"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"12h"`
	// DeskAgents maps username to bcrypt hash, e.g. desk1:$2a$10$...
	DeskAgents map[string]string `envconfig:"DESK_AGENTS"`

	ControllerURL      string        `envconfig:"CONTROLLER_URL" default:"http://localhost:8090"`
	ControllerTimeout  time.Duration `envconfig:"CONTROLLER_TIMEOUT" default:"10s"`
	CustomerRecordType string        `envconfig:"CUSTOMER_RECORD_TYPE" default:"Customer"`

	SessionIdleTTL          time.Duration `envconfig:"SESSION_IDLE_TTL" default:"30m"`
	RegistrationURLTemplate string        `envconfig:"REGISTRATION_URL_TEMPLATE" default:"/registration-form/%s"`
	DownloadURLTemplate     string        `envconfig:"DOWNLOAD_URL_TEMPLATE" default:"/documents/%s/download"`
	CORSAllowedOrigins      []string      `envconfig:"CORS_ALLOWED_ORIGINS"`
}

// Sandbox configures the stand-in booking controller.
type Sandbox struct {
	AppEnv        string        `envconfig:"APP_ENV" default:"dev"`
	HTTPAddr      string        `envconfig:"SANDBOX_HTTP_ADDR" default:":8090"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL   string        `envconfig:"DATABASE_URL" default:"file:walkindesk.db?cache=shared"`
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RabbitMQURL   string        `envconfig:"RABBITMQ_URL"`
	HandoffBuffer time.Duration `envconfig:"HANDOFF_BUFFER" default:"30m"`
}

// LoadDotEnv reads .env when present. Real environment variables win.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
}

func LoadDesk() (*Desk, error) {
	var cfg Desk
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load desk config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	if err := validateDesk(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadSandbox() (*Sandbox, error) {
	var cfg Sandbox
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load sandbox config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	if cfg.HandoffBuffer < 0 {
		return nil, fmt.Errorf("HANDOFF_BUFFER must be >= 0")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL must not be empty")
	}
	return &cfg, nil
}

func validateDesk(cfg *Desk) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.ControllerTimeout <= 0 {
		return fmt.Errorf("CONTROLLER_TIMEOUT must be > 0")
	}
	if cfg.SessionIdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be > 0")
	}
	u, err := url.Parse(cfg.ControllerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("CONTROLLER_URL must be an absolute URL, got %q", cfg.ControllerURL)
	}
	if !strings.Contains(cfg.RegistrationURLTemplate, "%s") {
		return fmt.Errorf("REGISTRATION_URL_TEMPLATE must contain %%s")
	}
	if !strings.Contains(cfg.DownloadURLTemplate, "%s") {
		return fmt.Errorf("DOWNLOAD_URL_TEMPLATE must contain %%s")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if len(cfg.DeskAgents) == 0 {
			return fmt.Errorf("in prod/release DESK_AGENTS must list at least one agent")
		}
	}

	return nil
}

func (c *Desk) IsProd() bool { return isProdLike(c.AppEnv) }

func (c *Sandbox) IsProd() bool { return isProdLike(c.AppEnv) }

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

// ParseLevel maps LOG_LEVEL onto slog levels, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
