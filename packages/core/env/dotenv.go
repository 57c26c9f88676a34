package env

import (
	"fmt"

	"github.com/joho/godotenv"
)

// LoadDotEnv reads KEY=VALUE pairs from a .env file. The process
// environment is left untouched.
func LoadDotEnv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return vars, nil
}

// MergeVariables merges maps left to right; later sources win.
func MergeVariables(sources ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, src := range sources {
		for k, v := range src {
			result[k] = v
		}
	}
	return result
}
