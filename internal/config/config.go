// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port int

	// DBType is one of sqlite, postgres or mysql.
	DBType      string
	DBPath      string
	DatabaseURL string

	JWTSecret string
	TokenTTL  time.Duration

	// SettlementUnit is the smallest amount transfers are rounded to.
	SettlementUnit decimal.Decimal
	GroupTTL       time.Duration

	SESRegion    string
	SESFromEmail string
	SESFromName  string

	StaticPath string
}

// devJWTSecret is used when JWT_SECRET is unset. Fine for local runs only.
const devJWTSecret = "goingdutch-dev-secret-change-me"

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DBType:       getEnv("DB_TYPE", "sqlite"),
		DBPath:       getEnv("DB_PATH", "./data/goingdutch.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    getEnv("JWT_SECRET", devJWTSecret),
		SESRegion:    getEnv("SES_REGION", "us-east-1"),
		SESFromEmail: os.Getenv("SES_FROM_EMAIL"),
		SESFromName:  getEnv("SES_FROM_NAME", "Going Dutch"),
		StaticPath:   os.Getenv("STATIC_PATH"),
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}
	cfg.Port = port

	cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "720h"))
	if err != nil || cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q", os.Getenv("TOKEN_TTL"))
	}

	cfg.SettlementUnit, err = decimal.NewFromString(getEnv("SETTLEMENT_UNIT", "1"))
	if err != nil || !cfg.SettlementUnit.IsPositive() {
		return nil, fmt.Errorf("invalid SETTLEMENT_UNIT %q", os.Getenv("SETTLEMENT_UNIT"))
	}

	days, err := strconv.Atoi(getEnv("GROUP_TTL_DAYS", "14"))
	if err != nil || days < 0 {
		return nil, fmt.Errorf("invalid GROUP_TTL_DAYS %q", os.Getenv("GROUP_TTL_DAYS"))
	}
	cfg.GroupTTL = time.Duration(days) * 24 * time.Hour

	switch cfg.DBType {
	case "sqlite":
	case "postgres", "mysql":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for DB_TYPE=%s", cfg.DBType)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.DBType)
	}

	if cfg.JWTSecret == devJWTSecret {
		slog.Warn("JWT_SECRET not set, using development secret")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
