package env

import "os"

// Get reads an environment variable, returning fallback when the
// variable is unset or empty.
func Get(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
