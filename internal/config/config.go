package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Report   ReportConfig
}

// AppConfig holds application-specific settings.
type AppConfig struct {
	Name string
	Env  string // development, production
	Port string
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	DSN string
}

// JWTConfig holds JWT settings.
type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

// ReportConfig holds report rendering settings.
type ReportConfig struct {
	// DisplayUTCOffsetHours shifts the generation timestamp printed in the
	// report footer. Colombia runs at UTC-5 year round.
	DisplayUTCOffsetHours int
}

// Load reads configuration from environment variables prefixed with VENTAS_,
// falling back to development defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VENTAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.name", "api_ventas")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8081")
	v.SetDefault("database.dsn", "ventas.db")
	v.SetDefault("jwt.secret", "dev-secret-change-me")
	v.SetDefault("jwt.issuer", "api_ventas")
	v.SetDefault("jwt.expiration", "24h")
	v.SetDefault("report.display_utc_offset_hours", -5)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			DSN: v.GetString("database.dsn"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Issuer:     v.GetString("jwt.issuer"),
			Expiration: v.GetDuration("jwt.expiration"),
		},
		Report: ReportConfig{
			DisplayUTCOffsetHours: v.GetInt("report.display_utc_offset_hours"),
		},
	}
	return cfg, nil
}

// IsProduction reports whether the app runs in production mode. Error detail
// is stripped from 500 responses when it does.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DisplayOffset returns the footer timestamp adjustment as a duration.
func (c *ReportConfig) DisplayOffset() time.Duration {
	return time.Duration(c.DisplayUTCOffsetHours) * time.Hour
}
