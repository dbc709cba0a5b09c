package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Store    StoreConfig
	MySQL    MySQLConfig
	Postgres PostgresConfig
	Content  ContentConfig
	Images   ImagesConfig
	Session  SessionConfig
	Admin    AdminConfig
	SMTP     SMTPConfig
	Mail     MailConfig
	Kafka    KafkaConfig
}

type AppConfig struct {
	Name string
	Env  string
	// Currency is the ISO code order amounts are shown in.
	Currency string
}

type HTTPConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// StoreConfig selects where orders live: "mysql", "postgres" or "content"
// (the hosted content API).
type StoreConfig struct {
	Driver string
}

type MySQLConfig struct {
	DSN string
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
}

type ContentConfig struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	// BaseURL overrides the project API host (tests, self-hosted proxies).
	BaseURL string
	Timeout time.Duration
}

type ImagesConfig struct {
	Driver string // cdn|local|s3

	CDNBaseURL string

	LocalURLPrefix string

	S3Region    string
	S3Bucket    string
	S3Prefix    string
	S3URLExpiry time.Duration
}

type SessionConfig struct {
	Secret      string
	FlashSecret string
	CookieName  string
	Secure      bool
	MaxAge      time.Duration
}

type AdminConfig struct {
	Email        string
	PasswordHash string
}

type SMTPConfig struct {
	Host          string
	Port          string
	User          string
	Pass          string
	TLSMode       string // none|starttls|tls
	SkipVerifyTLS bool
}

type MailConfig struct {
	From     string
	FromName string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func Load() (*Config, error) {
	// .env is optional; production uses real environment variables.
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:     getEnv("APP_NAME", "orderdesk"),
			Env:      getEnv("APP_ENV", "local"),
			Currency: strings.ToUpper(getEnv("APP_CURRENCY", "USD")),
		},
		HTTP: HTTPConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", "mysql")),
		},
		MySQL: MySQLConfig{
			DSN: getEnv("DB_DSN", ""),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			DBName:   getEnv("POSTGRES_DB", "orderdesk"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("POSTGRES_MAX_CONNS", 10),
		},
		Content: ContentConfig{
			ProjectID:  getEnv("CONTENT_PROJECT_ID", ""),
			Dataset:    getEnv("CONTENT_DATASET", "production"),
			APIVersion: getEnv("CONTENT_API_VERSION", "2023-05-03"),
			Token:      getEnv("CONTENT_API_TOKEN", ""),
			BaseURL:    getEnv("CONTENT_BASE_URL", ""),
			Timeout:    getEnvAsDuration("CONTENT_TIMEOUT", 30*time.Second),
		},
		Images: ImagesConfig{
			Driver:         strings.ToLower(getEnv("IMAGE_DRIVER", "cdn")),
			CDNBaseURL:     getEnv("IMAGE_CDN_BASE_URL", "https://cdn.sanity.io"),
			LocalURLPrefix: getEnv("LOCAL_UPLOAD_URL_PREFIX", "/uploads"),
			S3Region:       getEnv("S3_REGION", ""),
			S3Bucket:       getEnv("S3_BUCKET", ""),
			S3Prefix:       getEnv("S3_PREFIX", "uploads"),
			S3URLExpiry:    getEnvAsDuration("S3_URL_EXPIRY", 15*time.Minute),
		},
		Session: SessionConfig{
			Secret:      getEnv("SESSION_SECRET", ""),
			FlashSecret: getEnv("FLASH_SECRET", ""),
			CookieName:  getEnv("SESSION_COOKIE_NAME", "orderdesk_admin"),
			Secure:      getEnvAsBool("COOKIE_SECURE", false),
			MaxAge:      getEnvAsDuration("SESSION_MAX_AGE", 7*24*time.Hour),
		},
		Admin: AdminConfig{
			Email:        strings.TrimSpace(getEnv("ADMIN_EMAIL", "")),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		SMTP: SMTPConfig{
			Host:          getEnv("SMTP_HOST", ""),
			Port:          getEnv("SMTP_PORT", "1025"),
			User:          getEnv("SMTP_USER", ""),
			Pass:          getEnv("SMTP_PASS", ""),
			TLSMode:       getEnv("SMTP_TLS_MODE", "none"),
			SkipVerifyTLS: getEnvAsBool("SMTP_SKIP_VERIFY", false),
		},
		Mail: MailConfig{
			From:     getEnv("MAIL_FROM", "no-reply@orderdesk.local"),
			FromName: getEnv("MAIL_FROM_NAME", "Orderdesk"),
		},
		Kafka: KafkaConfig{
			Brokers: splitAndTrim(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_ORDER_EVENTS_TOPIC", "order-events"),
		},
	}

	if cfg.Session.FlashSecret == "" {
		cfg.Session.FlashSecret = cfg.Session.Secret
	}

	return cfg, cfg.validate()
}

// DSN returns the pgx connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DBName,
		p.SSLMode,
	)
}

// MailEnabled reports whether customer emails can be sent.
func (s SMTPConfig) MailEnabled() bool { return s.Host != "" }

// Enabled reports whether order events are published.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("HTTP_ADDR is empty")
	}
	switch c.Store.Driver {
	case "mysql":
		if c.MySQL.DSN == "" {
			return fmt.Errorf("DB_DSN is required for STORE_DRIVER=mysql")
		}
	case "postgres":
		if c.Postgres.Host == "" || c.Postgres.User == "" || c.Postgres.DBName == "" {
			return fmt.Errorf("postgres config is incomplete")
		}
	case "content":
		if c.Content.ProjectID == "" && c.Content.BaseURL == "" {
			return fmt.Errorf("CONTENT_PROJECT_ID or CONTENT_BASE_URL is required for STORE_DRIVER=content")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER: %s", c.Store.Driver)
	}
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 bytes")
	}
	if c.Admin.Email == "" || c.Admin.PasswordHash == "" {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD_HASH are required")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if val := strings.TrimSpace(p); val != "" {
			out = append(out, val)
		}
	}
	return out
}
