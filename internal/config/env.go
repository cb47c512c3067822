package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envFileNames are tried in order next to the configuration file; the first
// one that exists is loaded.
var envFileNames = []string{".env", ".env.local"}

// loadEnvFile loads KEY=VALUE pairs from the first env file found in dir.
// Variables already set in the process environment are not overwritten.
// It returns the loaded file, or "" when none exists.
func loadEnvFile(dir string) (string, error) {
	for _, name := range envFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return path, err
		}
		return path, nil
	}
	return "", nil
}
