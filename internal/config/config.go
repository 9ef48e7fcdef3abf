package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Razorpay    RazorpayConfig
	Store       StoreConfig
	LogLevel    string
}

// RazorpayConfig is used to create gateway orders and verify payment
// signatures against the Razorpay REST API
type RazorpayConfig struct {
	KeyID     string // RAZORPAY_KEY_ID: public key, also sent to the modal
	KeySecret string // RAZORPAY_KEY_SECRET: signs and verifies payment signatures
	Currency  string // RAZORPAY_CURRENCY, e.g. INR
	SDKURL    string // RAZORPAY_SDK_URL; empty means the hosted default
}

// StoreConfig carries storefront branding shown in the payment modal
type StoreConfig struct {
	Name        string
	Description string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("RAZORPAY_CURRENCY", "INR")
	viper.SetDefault("STORE_NAME", "Shanu Mart")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "grocery"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Razorpay: RazorpayConfig{
			KeyID:     strings.TrimSpace(getEnvOrViper("RAZORPAY_KEY_ID", "")),
			KeySecret: strings.TrimSpace(getEnvOrViper("RAZORPAY_KEY_SECRET", "")),
			Currency:  getEnvOrViper("RAZORPAY_CURRENCY", "INR"),
			SDKURL:    strings.TrimSpace(getEnvOrViper("RAZORPAY_SDK_URL", "")),
		},
		Store: StoreConfig{
			Name:        getEnvOrViper("STORE_NAME", "Shanu Mart"),
			Description: getEnvOrViper("STORE_DESCRIPTION", "Online Shopping - Groceries"),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Razorpay.KeyID == "" {
		return nil, fmt.Errorf("RAZORPAY_KEY_ID is required")
	}
	if cfg.Razorpay.KeySecret == "" {
		return nil, fmt.Errorf("RAZORPAY_KEY_SECRET is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
