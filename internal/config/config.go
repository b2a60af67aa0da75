package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Payroll  PayrollConfig
	Storage  StorageConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// PayrollConfig holds the payroll policy knobs. The anchor date and cycle
// length define the rolling pay period; the clock values feed the shift
// calculator.
type PayrollConfig struct {
	AnchorDate         time.Time
	CycleDays          int
	OvertimeCutoff     string
	DinnerStart        string
	DinnerEnd          string
	StandardShiftHours int
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Payroll policy configuration
	anchorDate, err := time.Parse("2006-01-02", getEnv("PAYROLL_ANCHOR_DATE", "2024-01-01"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_ANCHOR_DATE: %w", err)
	}

	cycleDays, err := strconv.Atoi(getEnv("PAYROLL_CYCLE_DAYS", "14"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_CYCLE_DAYS: %w", err)
	}

	standardShiftHours, err := strconv.Atoi(getEnv("PAYROLL_STANDARD_SHIFT_HOURS", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_STANDARD_SHIFT_HOURS: %w", err)
	}

	config.Payroll = PayrollConfig{
		AnchorDate:         anchorDate,
		CycleDays:          cycleDays,
		OvertimeCutoff:     getEnv("PAYROLL_OVERTIME_CUTOFF", "18:00"),
		DinnerStart:        getEnv("PAYROLL_DINNER_START", "20:00"),
		DinnerEnd:          getEnv("PAYROLL_DINNER_END", "21:00"),
		StandardShiftHours: standardShiftHours,
	}

	// Storage configuration
	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./storage"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/files"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Payroll.CycleDays <= 0 {
		return fmt.Errorf("PAYROLL_CYCLE_DAYS must be positive")
	}
	if c.Payroll.StandardShiftHours <= 0 {
		return fmt.Errorf("PAYROLL_STANDARD_SHIFT_HOURS must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
