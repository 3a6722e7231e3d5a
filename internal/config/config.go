package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN           string
	HTTPAddr        string
	Environment     string
	MigrationsDir   string
	HorizonDays     int
	ShutdownTimeout int // seconds
}

// Load reads configuration from the environment, with .env as a convenience
// overlay for local development. DB_DSN may be empty outside production,
// which switches the server to the in-memory store.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err == nil {
		log.Println("loaded configuration from .env file")
	}

	cfg := &Config{
		DBDSN:           os.Getenv("DB_DSN"),
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		Environment:     os.Getenv("ENV"),
		MigrationsDir:   os.Getenv("MIGRATIONS_DIR"),
		HorizonDays:     30,
		ShutdownTimeout: 15,
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "migrations"
	}
	if raw := os.Getenv("BOOKING_HORIZON_DAYS"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			return nil, fmt.Errorf("invalid BOOKING_HORIZON_DAYS %q", raw)
		}
		cfg.HorizonDays = days
	}

	if cfg.Environment == "production" && cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required in production")
	}

	return cfg, nil
}
