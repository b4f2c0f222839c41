package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Environment string
	Port        string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	FrontendURL string

	// Archive settings
	ArweaveGateway   string
	ArweaveProcessID string

	CacheTTL time.Duration
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Msg("no .env file found")
	}

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		ArweaveGateway:   getEnv("ARWEAVE_GATEWAY", "https://arweave.net"),
		ArweaveProcessID: getEnv("ARWEAVE_PROCESS_ID", "FpZIj5iTHxKybufO6nc3Ab_DKPMgfJbVVs_oiazD4Fc"),

		CacheTTL: time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 300)) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
