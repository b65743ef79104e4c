package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      string `envconfig:"ENV" default:"development"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":4000"`

	DatabaseURL   string `envconfig:"DATABASE_URL" required:"true"`
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"db/migrations"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// PublicBaseURL is where the API is reachable from the outside; cancel
	// and validation links in outgoing mail are built against it.
	PublicBaseURL   string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:4000"`
	FrontendBaseURL string `envconfig:"FRONTEND_BASE_URL" default:"http://localhost:4200"`

	SMTPHost   string `envconfig:"SMTP_HOST"`
	SMTPPort   int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser   string `envconfig:"SMTP_USER"`
	SMTPPass   string `envconfig:"SMTP_PASS"`
	FromEmail  string `envconfig:"FROM_EMAIL"`
	AdminEmail string `envconfig:"ADMIN_EMAIL"`

	RetentionWindow time.Duration `envconfig:"RETENTION_WINDOW" default:"720h"`
	PurgeInterval   time.Duration `envconfig:"PURGE_INTERVAL" default:"24h"`
}

func Load() (*Config, error) {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	return &cfg, nil
}
