package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	MongoURI    string
	DBName      string
	JWTSecret   string
	SessionTTL  time.Duration
	OTPTTL      time.Duration
	Port        string
	Production  bool
	StoreDriver string
	SeedFile    string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = FromEnv()
}

// FromEnv reads the configuration from the process environment.
func FromEnv() Config {
	return Config{
		MongoURI:    getEnvOrDefault("MONGO_URI", ""),
		DBName:      getEnvOrDefault("DB_NAME", "perfumery"),
		JWTSecret:   getEnvOrDefault("JWT_SECRET", ""),
		SessionTTL:  getDurationEnv("SESSION_TTL", 60, time.Minute),
		OTPTTL:      getDurationEnv("OTP_TTL", 5, time.Minute),
		Port:        getEnvOrDefault("PORT", "3000"),
		Production:  strings.EqualFold(getEnvOrDefault("APP_ENV", "development"), "production"),
		StoreDriver: strings.ToLower(getEnvOrDefault("STORE_DRIVER", StoreMongo)),
		SeedFile:    getEnvOrDefault("SEED_FILE", ""),
	}
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() []string {
	var problems []string
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURI == "" {
			problems = append(problems, "MONGO_URI is required when STORE_DRIVER=mongo")
		}
	case StoreMemory:
	default:
		problems = append(problems, "STORE_DRIVER must be mongo or memory")
	}
	return problems
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
