package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type LogConfig struct {
	Level      string
	Filename   string
	MaxSize    int
	MaxAge     int
	MaxBackups int
}

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type Config struct {
	Addr        string
	Mode        string
	DSN         string
	RedisAddr   string
	RedisPass   string
	JWTSecret   string
	TokenTTLMin int
	// Seconds a user must wait between SOS triggers. Zero disables
	// the redis-backed cooldown.
	SosCooldownSec int
	Log            LogConfig
	Mail           MailConfig
}

// Load reads .env (best effort) and assembles the configuration from
// environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	return &Config{
		Addr:           getEnv("ADDR", ":8080"),
		Mode:           getEnv("MODE", "debug"),
		DSN:            os.Getenv("DATABASE_DSN"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TokenTTLMin:    getIntEnv("ACCESS_TOKEN_EXPIRES_MIN", 60),
		SosCooldownSec: getIntEnv("SOS_COOLDOWN_SEC", 10),
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Filename:   os.Getenv("LOG_FILENAME"),
			MaxSize:    getIntEnv("LOG_MAX_SIZE", 100),
			MaxAge:     getIntEnv("LOG_MAX_AGE", 30),
			MaxBackups: getIntEnv("LOG_MAX_BACKUPS", 3),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getIntEnv("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     getEnv("FROM_EMAIL", os.Getenv("SMTP_USER")),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
