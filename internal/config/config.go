package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Origin     string
}

func Load() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "chatline"),
		DBPassword: getEnv("DB_PASSWORD", "chatline_dev_password"),
		DBName:     getEnv("DB_NAME", "chatline"),
		JWTSecret:  getEnv("JWT_SECRET", "dev-secret-change-me"),
		Origin:     getEnv("ORIGIN", "http://localhost:5173"),
	}
}

// DatabaseURL assembles the postgres connection string for pgx.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}
