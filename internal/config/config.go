package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL   string
	ChannelURL   string
	SessionToken string
	AppPort      string
	AppEnv       string

	PageSize     int
	TickInterval time.Duration
	RefetchDelay time.Duration
}

const (
	defaultPageSize     = 10
	defaultTickInterval = 60 * time.Second
	defaultRefetchDelay = 3 * time.Second
)

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:   os.Getenv("API_BASE_URL"),
		ChannelURL:   os.Getenv("CHANNEL_URL"),
		SessionToken: os.Getenv("SESSION_TOKEN"),
		AppPort:      os.Getenv("APP_PORT"),
		AppEnv:       os.Getenv("APP_ENV"),
		PageSize:     intEnv("ORDERS_PAGE_SIZE", defaultPageSize),
		TickInterval: durationEnv("ELAPSED_TICK_INTERVAL", defaultTickInterval),
		RefetchDelay: durationEnv("REFETCH_DELAY", defaultRefetchDelay),
	}

	if cfg.APIBaseURL == "" || cfg.ChannelURL == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "8080"
	}

	return cfg
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
