package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Email providers
const (
	ProviderResend   = "resend"
	ProviderSMTP     = "smtp"
	ProviderSendGrid = "sendgrid"
	ProviderLog      = "log"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Store    StoreConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	JWT      JWTConfig
	Email    EmailConfig
	Notify   NotifyConfig
	CORS     CORSConfig
	Auth     AuthRateConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port              string        `env:"SERVER_PORT" envDefault:"8080"`
	ReadHeaderTimeout time.Duration `env:"SERVER_READ_HEADER_TIMEOUT" envDefault:"5s"`
	ReadTimeout       time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout      time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout       time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout   time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LogConfig controls the logrus logger
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // json | text
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Driver string `env:"STORE_DRIVER" envDefault:"postgres"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Host         string        `env:"DB_HOST" envDefault:"localhost"`
	Port         string        `env:"DB_PORT" envDefault:"5432"`
	User         string        `env:"DB_USER" envDefault:"postgres"`
	Password     string        `env:"DB_PASSWORD"`
	Name         string        `env:"DB_NAME" envDefault:"events"`
	SSLMode      string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConns     int32         `env:"DB_MAX_CONNS" envDefault:"5"`
	MinConns     int32         `env:"DB_MIN_CONNS" envDefault:"0"`
	MaxLifetime  time.Duration `env:"DB_MAX_LIFETIME" envDefault:"1h"`
	ConnTimeout  time.Duration `env:"DB_CONN_TIMEOUT" envDefault:"10s"`
	QueryTimeout time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"30s"`
}

// MongoConfig holds MongoDB configuration
type MongoConfig struct {
	URI            string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DATABASE" envDefault:"events"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"10s"`
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret         string        `env:"JWT_SECRET"`
	AccessTokenTTL time.Duration `env:"JWT_ACCESS_TTL" envDefault:"1h"`
}

// EmailConfig holds email service configuration
type EmailConfig struct {
	Provider       string `env:"EMAIL_PROVIDER" envDefault:"log"`
	FromEmail      string `env:"EMAIL_FROM"`
	FromName       string `env:"EMAIL_FROM_NAME" envDefault:"Events Management System"`
	ResendAPIKey   string `env:"RESEND_API_KEY"`
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	SMTPHost       string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort       string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername   string `env:"SMTP_USERNAME"`
	SMTPPassword   string `env:"SMTP_PASSWORD"`
}

// NotifyConfig tunes the asynchronous notification dispatcher
type NotifyConfig struct {
	Workers     int           `env:"NOTIFY_WORKERS" envDefault:"2"`
	QueueSize   int           `env:"NOTIFY_QUEUE_SIZE" envDefault:"256"`
	SendTimeout time.Duration `env:"NOTIFY_SEND_TIMEOUT" envDefault:"10s"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string `env:"ORIGIN" envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Authorization,Content-Type"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
}

// AuthRateConfig limits requests to the public /auth endpoints per client
type AuthRateConfig struct {
	RequestsPerSecond float64 `env:"AUTH_RATE_LIMIT" envDefault:"5"`
	Burst             int     `env:"AUTH_RATE_BURST" envDefault:"10"`
}

// Load loads configuration from a .env file (if any) and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load("../.env"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: .env file not found: %v", err)
		}
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse builds a Config from the current environment without touching .env files
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	cfg.Email.Provider = strings.ToLower(strings.TrimSpace(cfg.Email.Provider))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWT.AccessTokenTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be positive")
	}

	switch c.Store.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for the postgres store")
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	switch c.Email.Provider {
	case ProviderResend:
		if c.Email.ResendAPIKey == "" {
			return fmt.Errorf("RESEND_API_KEY is required for the resend provider")
		}
	case ProviderSendGrid:
		if c.Email.SendGridAPIKey == "" {
			return fmt.Errorf("SENDGRID_API_KEY is required for the sendgrid provider")
		}
	case ProviderSMTP:
		if c.Email.SMTPUsername == "" || c.Email.SMTPPassword == "" {
			return fmt.Errorf("SMTP_USERNAME and SMTP_PASSWORD are required for the smtp provider")
		}
	case ProviderLog:
	default:
		return fmt.Errorf("unknown EMAIL_PROVIDER %q", c.Email.Provider)
	}

	if c.Email.Provider != ProviderLog && c.Email.FromEmail == "" {
		return fmt.Errorf("EMAIL_FROM is required when EMAIL_PROVIDER is %s", c.Email.Provider)
	}

	if c.CORS.AllowCredentials && slices.Contains(c.CORS.AllowedOrigins, "*") {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS requires an explicit ORIGIN, not *")
	}

	if c.Notify.Workers < 1 {
		return fmt.Errorf("NOTIFY_WORKERS must be at least 1")
	}
	if c.Notify.QueueSize < 1 {
		return fmt.Errorf("NOTIFY_QUEUE_SIZE must be at least 1")
	}

	return nil
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	q := url.Values{}
	q.Set("sslmode", c.Database.SSLMode)
	q.Set("connect_timeout", strconv.Itoa(int(c.Database.ConnTimeout.Seconds())))
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}
