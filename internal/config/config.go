package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Logger       LoggerConfig
	Twilio       TwilioConfig
	SendGrid     SendGridConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// TwilioConfig holds Twilio Lookup credentials.
type TwilioConfig struct {
	BaseURL        string
	AccountSID     string
	AuthToken      string
	TimeoutSeconds int
}

// SendGridConfig holds SendGrid mail credentials.
type SendGridConfig struct {
	BaseURL        string
	APIKey         string
	FromEmail      string
	FromName       string
	TimeoutSeconds int
}

// NotificationConfig controls the async notification queue.
type NotificationConfig struct {
	QueueSize int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	queueSize := getEnvAsInt("NOTIFY_QUEUE_SIZE", 64)
	if queueSize <= 0 {
		return nil, fmt.Errorf("invalid NOTIFY_QUEUE_SIZE: %d", queueSize)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "customer-management"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Twilio: TwilioConfig{
			BaseURL:        getEnv("TWILIO_BASE_URL", "https://lookups.twilio.com"),
			AccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
			TimeoutSeconds: getEnvAsInt("TWILIO_TIMEOUT_SECONDS", 10),
		},
		SendGrid: SendGridConfig{
			BaseURL:        getEnv("SENDGRID_BASE_URL", "https://api.sendgrid.com"),
			APIKey:         os.Getenv("SENDGRID_API_KEY"),
			FromEmail:      getEnv("SENDGRID_FROM_EMAIL", "noreply@example.com"),
			FromName:       getEnv("SENDGRID_FROM_NAME", "The Customer Management Team"),
			TimeoutSeconds: getEnvAsInt("SENDGRID_TIMEOUT_SECONDS", 10),
		},
		Notification: NotificationConfig{
			QueueSize: queueSize,
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the outbound call timeout.
func (t TwilioConfig) Timeout() time.Duration {
	if t.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// Timeout returns the outbound call timeout.
func (s SendGridConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
