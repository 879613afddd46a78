package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN         string `mapstructure:"DB_DSN"`
	Environment   string `mapstructure:"ENV"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	Timezone      string `mapstructure:"TIMEZONE"`
	HTTPAddr      string `mapstructure:"HTTP_ADDR"`

	APIJWTSecret     string `mapstructure:"API_JWT_SECRET"`
	APITokenTTLHours int    `mapstructure:"API_TOKEN_TTL_HOURS"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`

	SlotStepMinutes         int `mapstructure:"SLOT_STEP_MINUTES"`
	AppointmentHorizonDays  int `mapstructure:"APPOINTMENT_HORIZON_DAYS"`
	BlockHorizonDays        int `mapstructure:"BLOCK_HORIZON_DAYS"`
	BlockGranularityMinutes int `mapstructure:"BLOCK_GRANULARITY_MINUTES"`
	AgendaDigestHour        int `mapstructure:"AGENDA_DIGEST_HOUR"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv читает конфиг из переменных окружения без .env
func FromEnv() (*Config, error) {
	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		Environment:    stringOr("ENV", "development"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		Timezone:       stringOr("TIMEZONE", "UTC"),
		HTTPAddr:       stringOr("HTTP_ADDR", ":8080"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		APIJWTSecret:   os.Getenv("API_JWT_SECRET"),
	}

	ints := []struct {
		key  string
		def  int
		dest *int
	}{
		{"REDIS_DB", 0, &cfg.RedisDB},
		{"SLOT_STEP_MINUTES", 30, &cfg.SlotStepMinutes},
		{"APPOINTMENT_HORIZON_DAYS", 21, &cfg.AppointmentHorizonDays},
		{"BLOCK_HORIZON_DAYS", 30, &cfg.BlockHorizonDays},
		{"BLOCK_GRANULARITY_MINUTES", 30, &cfg.BlockGranularityMinutes},
		{"AGENDA_DIGEST_HOUR", 7, &cfg.AgendaDigestHour},
		{"API_TOKEN_TTL_HOURS", 720, &cfg.APITokenTTLHours},
	}
	for _, v := range ints {
		n, err := intOr(v.key, v.def)
		if err != nil {
			return nil, err
		}
		*v.dest = n
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	if cfg.SlotStepMinutes <= 0 || cfg.BlockGranularityMinutes <= 0 {
		return nil, fmt.Errorf("slot step and block granularity must be positive")
	}
	if cfg.AgendaDigestHour > 23 {
		return nil, fmt.Errorf("AGENDA_DIGEST_HOUR must be in -1..23")
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// Location часовой пояс по умолчанию для специалистов без своего
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// APITokenTTL срок жизни токенов HTTP API
func (c *Config) APITokenTTL() time.Duration {
	return time.Duration(c.APITokenTTLHours) * time.Hour
}

func (c *Config) SlotStep() time.Duration {
	return time.Duration(c.SlotStepMinutes) * time.Minute
}

func (c *Config) BlockGranularity() time.Duration {
	return time.Duration(c.BlockGranularityMinutes) * time.Minute
}

// DigestEnabled -1 в AGENDA_DIGEST_HOUR отключает утреннюю рассылку
func (c *Config) DigestEnabled() bool {
	return c.AgendaDigestHour >= 0
}

func stringOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
