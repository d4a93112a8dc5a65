package config

import (
	"os"
	"strings"
	"time"
)

// Config is the env-driven runtime configuration.
type Config struct {
	Port string

	// Record store credential tiers: DSN is the elevated/service pool,
	// PublicDSN an optional restricted read-only role for public read paths.
	DSN       string
	PublicDSN string

	JWTSecret string
	TokenTTL  time.Duration

	CORSOrigins []string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
	S3PublicURL string

	LogLevel  string
	LogFormat string
	AppName   string
}

// FromEnv reads configuration from process environment.
func FromEnv() Config {
	cfg := Config{
		Port:        envOr("PORT", "8080"),
		DSN:         os.Getenv("DB_DSN"),
		PublicDSN:   os.Getenv("DB_DSN_PUBLIC"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenTTL:    24 * time.Hour,
		CORSOrigins: splitOrigins(os.Getenv("CORS_ORIGINS")),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Region:    os.Getenv("S3_REGION"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3PathStyle: strings.EqualFold(os.Getenv("S3_PATH_STYLE"), "true"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		LogFormat:   os.Getenv("LOG_FORMAT"),
		AppName:     envOr("APP_NAME", "akita-connect"),
	}

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.TokenTTL = d
		}
	}

	return cfg
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, strings.TrimRight(p, "/"))
		}
	}
	return out
}
