package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	DBDriver   string // postgres, mysql or sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	EncryptionKey string // 64 hex chars -> AES-256 key for gateway credentials

	ReconcileCron  string // cron spec for the stale-payment sweep
	GatewayTimeout int    // seconds, per provider HTTP call
	DefaultTimeout int    // minutes, payment window fallback when no setting is active
	SendgridKey    string
	ReceiptSender  string
	BaseURL        string // public base URL used to build webhook callback URLs
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "urjakart"),
		DBPort:     getEnv("DB_PORT", "5432"),

		EncryptionKey: getEnv("ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"),

		ReconcileCron:  getEnv("RECONCILE_CRON", "* * * * *"),
		GatewayTimeout: getEnvInt("GATEWAY_TIMEOUT_SECONDS", 15),
		DefaultTimeout: getEnvInt("DEFAULT_PAYMENT_TIMEOUT_MINUTES", 5),
		SendgridKey:    getEnv("SENDGRID_API_KEY", ""),
		ReceiptSender:  getEnv("RECEIPT_SENDER", "payments@urjakart.in"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:3000"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.EncryptionKey == "0000000000000000000000000000000000000000000000000000000000000000" {
		log.Println("Warning: Using default ENCRYPTION_KEY. Gateway credentials are not safe with it.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
