package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Partner    PartnerConfig
	IPResolver IPResolverConfig
	Aeps       AepsConfig
	Security   SecurityConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// JWTConfig holds the secret shared with the partner platform that issues agent tokens
type JWTConfig struct {
	Secret string
}

// PartnerConfig holds the upstream AEPS partner settings
type PartnerConfig struct {
	BaseURL string
	Timeout time.Duration
	// BankID selects the partner's settlement bank pipe sent with status fetches.
	BankID string
	// EncryptionKey is a 32-byte hex key. When set, request bodies are sent as JWE.
	EncryptionKey string
}

// IPResolverConfig holds external IP lookup settings
type IPResolverConfig struct {
	URL      string
	Timeout  time.Duration
	Fallback string
}

// AepsConfig holds AEPS business limits and lifetimes
type AepsConfig struct {
	WithdrawalCeiling   decimal.Decimal
	BankListTTL         time.Duration
	ReceiptTTL          time.Duration
	BiometricCaptureTTL time.Duration
	SweepInterval       time.Duration
}

// SecurityConfig holds security encryption keys
type SecurityConfig struct {
	ReceiptEncryptionKey string
	AadhaarHashKey       string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "aeps_agent"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-this-in-production"),
		},
		Partner: PartnerConfig{
			BaseURL:       getEnv("PARTNER_BASE_URL", "https://sandbox.aeps-partner.example/api/v1"),
			Timeout:       getEnvAsDuration("PARTNER_TIMEOUT", 30*time.Second),
			BankID:        getEnv("PARTNER_BANK_ID", "bank2"),
			EncryptionKey: getEnv("PARTNER_ENCRYPTION_KEY", ""),
		},
		IPResolver: IPResolverConfig{
			URL:      getEnv("IP_RESOLVER_URL", "https://api.ipify.org?format=json"),
			Timeout:  getEnvAsDuration("IP_RESOLVER_TIMEOUT", 3*time.Second),
			Fallback: getEnv("IP_FALLBACK", "0.0.0.0"),
		},
		Aeps: AepsConfig{
			WithdrawalCeiling:   getEnvAsDecimal("WITHDRAWAL_CEILING", decimal.NewFromInt(10000)),
			BankListTTL:         getEnvAsDuration("BANK_LIST_TTL", 6*time.Hour),
			ReceiptTTL:          getEnvAsDuration("RECEIPT_TTL", 30*time.Minute),
			BiometricCaptureTTL: getEnvAsDuration("BIOMETRIC_CAPTURE_TTL", 3*time.Minute),
			SweepInterval:       getEnvAsDuration("BIOMETRIC_SWEEP_INTERVAL", 30*time.Second),
		},
		Security: SecurityConfig{
			ReceiptEncryptionKey: getEnv("RECEIPT_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
			AadhaarHashKey:       getEnv("AADHAAR_HASH_KEY", "change-this-in-production"),
		},
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
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil && d.IsPositive() {
			return d
		}
	}
	return defaultValue
}
