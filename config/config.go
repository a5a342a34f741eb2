package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Settings holds every knob the service reads from the environment.
type Settings struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8000"`

	// JWT
	SecretKey          string `envconfig:"SECRET_KEY" required:"true"`
	AccessTokenMinutes int    `envconfig:"ACCESS_TOKEN_EXPIRE_MINUTES" default:"1440"`

	// Database
	PostgresServer   string `envconfig:"POSTGRES_SERVER" default:"localhost"`
	PostgresPort     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"postgres"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:"lifecontrol"`
	PostgresSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`

	// Redis (optional, auth cache is skipped when unset)
	RedisAddr string `envconfig:"REDIS_ADDR" default:""`

	// CORS
	FrontendOrigin string `envconfig:"FRONTEND_ORIGIN" default:"http://localhost:3000"`
}

// App is the loaded configuration. LoadSettings must run before anything reads it.
var App Settings

// JwtKey is the HMAC key derived from SECRET_KEY, shared by token issue and verify.
var JwtKey []byte

func (s *Settings) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		s.PostgresServer, s.PostgresPort, s.PostgresUser, s.PostgresPassword, s.PostgresDB, s.PostgresSSLMode,
	)
}

func (s *Settings) AccessTokenTTL() time.Duration {
	return time.Duration(s.AccessTokenMinutes) * time.Minute
}

// LoadSettings reads the environment into App and derives JwtKey.
func LoadSettings() error {
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if s.AccessTokenMinutes <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be > 0")
	}
	App = s
	JwtKey = []byte(s.SecretKey)
	return nil
}
