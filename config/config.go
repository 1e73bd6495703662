package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultSessionSecret signs session cookies when SESSION_SECRET is unset. It
// never rotates.
const DefaultSessionSecret = "clinicconnect-secret-key"

type Config struct {
	Env            string        `mapstructure:"APP_ENV"`
	Port           string        `mapstructure:"PORT"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	DBHost         string        `mapstructure:"HEALTH_HOST"`
	DBPort         string        `mapstructure:"HEALTH_PORT"`
	DBUser         string        `mapstructure:"HEALTH_USER"`
	DBPassword     string        `mapstructure:"HEALTH_PASSWORD"`
	DBName         string        `mapstructure:"HEALTH_DATABASE"`
	DBSSLMode      string        `mapstructure:"HEALTH_SSLMODE"`
	DBMaxOpenConns int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	RedisURL       string        `mapstructure:"REDIS_URL"`
	SessionSecret  string        `mapstructure:"SESSION_SECRET"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`
	SendGridAPIKey string        `mapstructure:"SENDGRID_API_KEY"`
	MailFrom       string        `mapstructure:"MAIL_FROM"`
	MailFromName   string        `mapstructure:"MAIL_FROM_NAME"`
}

var keys = []string{
	"APP_ENV", "PORT", "DATABASE_URL",
	"HEALTH_HOST", "HEALTH_PORT", "HEALTH_USER", "HEALTH_PASSWORD", "HEALTH_DATABASE", "HEALTH_SSLMODE",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
	"REDIS_URL", "SESSION_SECRET", "SESSION_TTL",
	"SENDGRID_API_KEY", "MAIL_FROM", "MAIL_FROM_NAME",
}

// Load reads configuration from the environment. Outside production a .env
// file in the working directory is loaded first if present.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	if v.GetString("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8000")
	v.SetDefault("HEALTH_HOST", "localhost")
	v.SetDefault("HEALTH_PORT", "5432")
	v.SetDefault("HEALTH_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("SESSION_SECRET", DefaultSessionSecret)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("MAIL_FROM", "donotreply@clinicconnect.local")
	v.SetDefault("MAIL_FROM_NAME", "ClinicConnect")

	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" && cfg.DBName != "" {
		cfg.DatabaseURL = cfg.buildDSN()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) buildDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL or HEALTH_DATABASE is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// UsesDefaultSecret reports whether cookies are signed with the built-in secret.
func (c *Config) UsesDefaultSecret() bool {
	return c.SessionSecret == DefaultSessionSecret
}

// String masks credentials.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, Port: %s, Redis: %t, Mail: %t}",
		c.Env, c.Port, c.RedisURL != "", c.SendGridAPIKey != "")
}
