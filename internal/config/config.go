package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string

	// Model artifact. ModelURL, when set, points at an inference sidecar
	// and ModelPath is ignored.
	ModelPath    string
	ModelURL     string
	ModelTimeout time.Duration

	// Reference dataset. DBDriver, when set, reads the columns of
	// ReferenceTable instead of the file at ReferenceDataPath.
	ReferenceDataPath string
	ReferenceTable    string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBTimezone string
	DBPath     string

	LogLevel  string
	LogFormat string
}

// Load reads .env.local (if present) and then the environment.
func Load() (*Config, error) {
	// carrega .env em dev
	_ = godotenv.Load(".env.local")

	timeout, err := time.ParseDuration(getEnv("MODEL_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("MODEL_TIMEOUT: %w", err)
	}

	cfg := &Config{
		ServerAddr:        getEnv("SERVER_ADDR", ":8080"),
		ModelPath:         getEnv("MODEL_PATH", "models/random_forest_model.json"),
		ModelURL:          os.Getenv("MODEL_URL"),
		ModelTimeout:      timeout,
		ReferenceDataPath: getEnv("REFERENCE_DATA_PATH", "data/heart_disease_preprocessed_data.csv"),
		ReferenceTable:    getEnv("REFERENCE_TABLE", "heart_disease_preprocessed_data"),
		DBDriver:          os.Getenv("DB_DRIVER"),
		DBHost:            os.Getenv("DB_HOST"),
		DBPort:            os.Getenv("DB_PORT"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),
		DBTimezone:        getEnv("DB_TIMEZONE", "UTC"),
		DBPath:            os.Getenv("DB_PATH"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ModelURL == "" && c.ModelPath == "" {
		return fmt.Errorf("MODEL_PATH or MODEL_URL must be set")
	}
	switch c.DBDriver {
	case "":
		if c.ReferenceDataPath == "" {
			return fmt.Errorf("REFERENCE_DATA_PATH must be set when DB_DRIVER is empty")
		}
	case "postgres", "mysql":
		if c.DBHost == "" || c.DBPort == "" || c.DBUser == "" || c.DBName == "" {
			return fmt.Errorf("database environment variables not configured (DB_HOST, DB_PORT, DB_USER, DB_NAME)")
		}
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH must be set for DB_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
