package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Live      LiveConfig
	Blob      BlobConfig
	Firebase  FirebaseConfig
	Admin     AdminConfig
	Inquiry   InquiryConfig
	Messaging MessagingConfig
	App       AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Driver   string // postgres | memory
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
}

type RedisConfig struct {
	URL     string
	PageTTL time.Duration
}

// LiveConfig tunes the change feed and per-visitor refresh debounce.
type LiveConfig struct {
	Channel        string
	Debounce       time.Duration
	ConnectTimeout time.Duration
	KeepAlive      time.Duration
}

type BlobConfig struct {
	Driver        string // s3 | memory
	Bucket        string
	Region        string
	Endpoint      string
	PathStyle     bool
	PublicBaseURL string
	MaxUploadMB   int
}

type FirebaseConfig struct {
	CredentialsPath string
}

type AdminConfig struct {
	APIKey string
}

type InquiryConfig struct {
	RatePerMinute int
	Burst         int
}

type MessagingConfig struct {
	WhatsAppNumber string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
	ServiceName string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("STORE_DRIVER", "postgres"),
			URL:      getEnv("DB_DSN", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "interiors"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
		},
		Redis: RedisConfig{
			URL:     getEnv("REDIS_URL", ""),
			PageTTL: getEnvAsDuration("PAGE_CACHE_TTL", 10*time.Minute),
		},
		Live: LiveConfig{
			Channel:        getEnv("LIVE_CHANNEL", "cms:changes"),
			Debounce:       getEnvAsDuration("LIVE_DEBOUNCE", 500*time.Millisecond),
			ConnectTimeout: getEnvAsDuration("LIVE_CONNECT_TIMEOUT", 3*time.Second),
			KeepAlive:      getEnvAsDuration("LIVE_KEEPALIVE", 15*time.Second),
		},
		Blob: BlobConfig{
			Driver:        getEnv("BLOB_DRIVER", "memory"),
			Bucket:        getEnv("BLOB_S3_BUCKET", ""),
			Region:        getEnv("BLOB_S3_REGION", "us-east-1"),
			Endpoint:      getEnv("BLOB_S3_ENDPOINT", ""),
			PathStyle:     getEnvAsBool("BLOB_S3_PATH_STYLE", false),
			PublicBaseURL: getEnv("BLOB_PUBLIC_BASE_URL", ""),
			MaxUploadMB:   getEnvAsInt("BLOB_MAX_UPLOAD_MB", 10),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		Admin: AdminConfig{
			APIKey: getEnv("ADMIN_API_KEY", ""),
		},
		Inquiry: InquiryConfig{
			RatePerMinute: getEnvAsInt("INQUIRY_RATE_PER_MINUTE", 5),
			Burst:         getEnvAsInt("INQUIRY_RATE_BURST", 3),
		},
		Messaging: MessagingConfig{
			WhatsAppNumber: getEnv("WHATSAPP_NUMBER", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			ServiceName: getEnv("SERVICE_NAME", "interiors-cms"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Database.Driver {
	case "postgres":
		if c.Database.URL == "" && c.Database.Host == "" {
			return fmt.Errorf("DB_DSN or DB_HOST is required")
		}
	case "memory":
		if c.App.Environment == "production" {
			return fmt.Errorf("STORE_DRIVER=memory is not allowed in production")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Database.Driver)
	}

	switch c.Blob.Driver {
	case "memory":
	case "s3":
		if c.Blob.Bucket == "" {
			return fmt.Errorf("BLOB_S3_BUCKET is required for s3 driver")
		}
	default:
		return fmt.Errorf("unknown BLOB_DRIVER %q", c.Blob.Driver)
	}

	if c.Live.Debounce <= 0 {
		return fmt.Errorf("LIVE_DEBOUNCE must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid bool for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
