package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string `env:"PORT" envDefault:"8080"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
	SecureCookies  bool   `env:"SECURE_COOKIES" envDefault:"false"`

	// memory, mongo, redis or sqlite
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"memory"`
	MongoURI      string `env:"MONGODB_URI"`
	DatabaseName  string `env:"DATABASE_NAME" envDefault:"urbanthreads"`
	RedisURL      string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisPrefix   string `env:"REDIS_KEY_PREFIX" envDefault:"urbanthreads"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"urbanthreads.db"`

	JWTSecret   string        `env:"JWT_SECRET,required,notEmpty"`
	AccessTTL   time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	AdminEmail  string        `env:"ADMIN_EMAIL" envDefault:"admin@urbanthreads.com"`
	AdminPasswd string        `env:"ADMIN_PASSWORD"`

	// none, r2 or gcs
	ImageStore        string `env:"IMAGE_STORE" envDefault:"none"`
	R2Bucket          string `env:"R2_BUCKET"`
	R2AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY"`
	R2Endpoint        string `env:"R2_ENDPOINT"`
	R2PublicDomain    string `env:"R2_PUBLIC_DOMAIN"`
	GCSBucket         string `env:"GCS_BUCKET"`
	CredentialsFile   string `env:"CREDENTIALS_FILE_LOCATION"`
	MaxProductImages  int    `env:"MAX_PROD_IMAGES" envDefault:"4"`
	MaxUploadSizeMB   int    `env:"MAX_UPLOAD_SIZE_MB" envDefault:"5"`

	OrderDelay   time.Duration `env:"ORDER_DELAY" envDefault:"2s"`
	SuggestDelay time.Duration `env:"SUGGEST_DELAY" envDefault:"300ms"`
	MaxSessions  int           `env:"MAX_SESSIONS" envDefault:"10000"`

	// none, stdout or otlp
	OTelExporter string `env:"OTEL_EXPORTER" envDefault:"none"`
	OTelEndpoint string `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"urbanthreads-storefront"`
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	return Parse()
}

func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.StorageDriver {
	case "memory", "mongo", "redis", "sqlite":
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	switch cfg.ImageStore {
	case "none", "r2", "gcs":
	default:
		return nil, fmt.Errorf("unknown IMAGE_STORE %q", cfg.ImageStore)
	}
	if cfg.StorageDriver == "mongo" && cfg.MongoURI == "" {
		return nil, fmt.Errorf("STORAGE_DRIVER=mongo needs MONGODB_URI")
	}
	cfg.AdminEmail = strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	return &cfg, nil
}

// Origins splits ALLOWED_ORIGINS into a lookup set.
func (c *Config) Origins() map[string]bool {
	allowed := map[string]bool{}
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowed[origin] = true
		}
	}
	return allowed
}
