package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	Telegram TelegramConfig
	API      APIConfig
	Locale   string // BCP-47 tag used for currency formatting, e.g. "pt-BR"
	LogLevel string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Enabled reports whether a database was configured. Without one the bot keeps
// everything in memory.
func (c DBConfig) Enabled() bool {
	return c.Host != ""
}

type TelegramConfig struct {
	Token string
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration // zero means no client timeout
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	var timeout time.Duration
	if v := getEnv("API_TIMEOUT", ""); v != "" {
		timeout, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid API_TIMEOUT: %w", err)
		}
	}

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "foodorder"),
		},
		Telegram: TelegramConfig{
			Token: getEnv("TOKEN", ""),
		},
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:3333"),
			Timeout: timeout,
		},
		Locale:   getEnv("LOCALE", "pt-BR"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
