package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is everything main needs to wire the service. FromEnv keeps main
// lean; every knob has a development default.
type Config struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string

	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig
	SMTP        SMTPConfig

	Verification VerificationConfig
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// VerificationConfig carries the workflow knobs. RequireConfirmedEmail can
// be switched off for demo deployments; the bypass is logged when taken.
type VerificationConfig struct {
	TTL                   time.Duration
	CooldownTTL           time.Duration
	MaxAttempts           int
	RequireConfirmedEmail bool
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:          envString("COMERCIO_ADDR", ":8080"),
		JWTSigningKey: envString("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:     envString("JWT_ISSUER", "comercio"),
		DatabaseURL:   envString("DATABASE_URL", ""),
		Redis: RedisConfig{
			URL:          envString("REDIS_URL", ""),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: envList("KAFKA_BROKERS"),
			Topic:   envString("KAFKA_AUDIT_TOPIC", "comercio.verification.events"),
		},
		SMTP: SMTPConfig{
			Host:     envString("SMTP_HOST", ""),
			Port:     envInt("SMTP_PORT", 587),
			Username: envString("SMTP_USERNAME", ""),
			Password: envString("SMTP_PASSWORD", ""),
			From:     envString("SMTP_FROM", "no-reply@comercio.local"),
		},
		Verification: VerificationConfig{
			TTL:                   envDuration("VERIFICATION_TTL", 15*time.Minute),
			CooldownTTL:           envDuration("VERIFICATION_COOLDOWN_TTL", 15*time.Minute),
			MaxAttempts:           envInt("VERIFICATION_MAX_ATTEMPTS", 3),
			RequireConfirmedEmail: envBool("REQUIRE_CONFIRMED_EMAIL", true),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
