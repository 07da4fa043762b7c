package config

import "github.com/kelseyhightower/envconfig"

// Config is the full process configuration, populated from the environment
// (godotenv loads .env first in cmd/api).
type Config struct {
	HTTPPort    string `envconfig:"HTTP_PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	BaseURL     string `envconfig:"BASE_URL" default:"http://localhost:8080"`

	JWTSecret    string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpiresIn string `envconfig:"JWT_EXPIRES_IN" default:"24h"`

	AdminUsername string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@exportdesk.local"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`

	SMTP SMTP
}

// SMTP configures outbound reset-link delivery. An empty Host selects the
// log-only notifier.
type SMTP struct {
	Host     string `envconfig:"SMTP_HOST"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USERNAME"`
	Password string `envconfig:"SMTP_PASSWORD"`
	From     string `envconfig:"FROM_EMAIL"`
}

func Load() (Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	return c, err
}
