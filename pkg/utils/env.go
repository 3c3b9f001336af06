package utils

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file if one is present. A missing file is not an
// error; deployments configure through the environment directly.
func LoadDotEnv() {
	if err := godotenv.Load(); err == nil {
		LogInfo(".env file loaded")
	}
}

// Getenv retrieves the value of the environment variable named by the key.
// If the variable is not present or its value is empty, Getenv returns the fallback string.
func Getenv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}
