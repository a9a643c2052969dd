package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port            string
	JWTSecret       string
	MySQLDSN        string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	OIDC            OIDCConfig
	AdminTokenHash  string
	CleanupSchedule string
	RateLimit       string
	LogLevel        string
}

type OIDCConfig struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

var required = []string{"JWT_SECRET", "MYSQL_DSN", "MONGO_URI", "MONGO_DB_NAME"}

// Load reads the env file named by START (.env-local or .env.docker,
// picked by the start script), then the process environment. A missing
// env file is fine when the variables are already set.
func Load() (*Config, error) {
	if file := os.Getenv("START"); file != "" {
		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("env file %s: %w", file, err)
		}
	} else {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8082")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("OIDC_ISSUER", "https://accounts.google.com")
	v.SetDefault("CLEANUP_SCHEDULE", "@every 5m")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("LOG_LEVEL", "info")

	var missing []string
	for _, key := range required {
		if v.GetString(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, errors.New(strings.Join(missing, ", ") + " is not set in environment")
	}

	return &Config{
		Port:        v.GetString("PORT"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		MySQLDSN:    v.GetString("MYSQL_DSN"),
		MongoURI:    v.GetString("MONGO_URI"),
		MongoDBName: v.GetString("MONGO_DB_NAME"),
		RedisAddr:   v.GetString("REDIS_ADDR"),
		OIDC: OIDCConfig{
			Issuer:       v.GetString("OIDC_ISSUER"),
			ClientID:     v.GetString("OIDC_CLIENT_ID"),
			ClientSecret: v.GetString("OIDC_CLIENT_SECRET"),
			RedirectURL:  v.GetString("OIDC_REDIRECT_URL"),
		},
		AdminTokenHash:  v.GetString("ADMIN_TOKEN_HASH"),
		CleanupSchedule: v.GetString("CLEANUP_SCHEDULE"),
		RateLimit:       v.GetString("RATE_LIMIT"),
		LogLevel:        v.GetString("LOG_LEVEL"),
	}, nil
}
