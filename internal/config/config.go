package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBDSN        string
	LogFile      string
	GeminiAPIKey string
	GeminiModel  string
	ContactPhone string // WhatsApp target for order notifications
}

func Load() Config {
	godotenv.Load()

	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		DBDSN:        getEnv("DB_DSN", "twinkle.db"), // sqlite file in project root
		LogFile:      getEnv("LOG_FILE", "./twinkle.log"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		ContactPhone: getEnv("CONTACT_PHONE", "201000000000"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s MODEL=%s", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.GeminiModel)
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
