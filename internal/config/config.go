package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Library   LibraryConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type LibraryConfig struct {
	VaultDir             string // root directory for uploaded digital files
	DefaultLoanDays      int
	ResetTokenTTLMinutes int
	PasswordHistoryCount int
	AdminUsername        string // bootstrap admin created when no admin exists
	AdminPassword        string
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()

	viper.SetDefault("LIBRARY_VAULT_DIR", "library_vault")
	viper.SetDefault("LIBRARY_DEFAULT_LOAN_DAYS", 14)
	viper.SetDefault("RESET_TOKEN_TTL_MINUTES", 60)
	viper.SetDefault("PASSWORD_HISTORY_COUNT", 3)
	viper.SetDefault("JWT_EXPIRY_HOURS", 8)
	viper.SetDefault("ADMIN_USERNAME", "admin")

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Host:        viper.GetString("SERVER_HOST"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Library: LibraryConfig{
			VaultDir:             viper.GetString("LIBRARY_VAULT_DIR"),
			DefaultLoanDays:      viper.GetInt("LIBRARY_DEFAULT_LOAN_DAYS"),
			ResetTokenTTLMinutes: viper.GetInt("RESET_TOKEN_TTL_MINUTES"),
			PasswordHistoryCount: viper.GetInt("PASSWORD_HISTORY_COUNT"),
			AdminUsername:        viper.GetString("ADMIN_USERNAME"),
			AdminPassword:        viper.GetString("ADMIN_PASSWORD"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   viper.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: viper.GetInt("RATE_LIMIT_GENERAL_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   viper.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
