// Файл: pkg/config/config.go
package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Driver string
	DSN    string
}

type LogConfig struct {
	Level       string
	OutputPaths []string
}

type RegistryConfig struct {
	// detach | restrict | cascade
	DepartmentDeletePolicy string
}

type Config struct {
	Database DatabaseConfig
	Log      LogConfig
	Registry RegistryConfig
}

func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Предупреждение: .env файл не найден или не удалось его загрузить.")
	}

	return &Config{
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite"),
			DSN:    getEnv("DATABASE_URL", "company.db"),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			OutputPaths: splitList(getEnv("LOG_OUTPUT", "stdout")),
		},
		Registry: RegistryConfig{
			DepartmentDeletePolicy: getEnv("DEPARTMENT_DELETE_POLICY", "detach"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
