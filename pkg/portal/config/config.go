package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port                  string
	DBPath                string
	JWTSecret             string
	ResolvedRetentionDays int
}

// AppConfig is the loaded configuration
var AppConfig *Config

// LoadConfig initializes configuration from a .env file or the environment
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:                  getEnv("PORT", "8080"),
		DBPath:                getEnv("PORTAL_DB_PATH", "portal.db"),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		ResolvedRetentionDays: getEnvInt("RESOLVED_RETENTION_DAYS", 30),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, fallback)
		return fallback
	}
	return n
}
