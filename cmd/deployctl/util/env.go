package util

import (
	"os"
	"strconv"
)

// EnvOr returns the value of the environment variable key, or fallback when
// it is unset or empty. Used to give flags shell-compatible defaults.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

// EnvBool returns the boolean value of the environment variable key, or
// fallback when it is unset or does not parse.
func EnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return v
}

// EnvInt returns the integer value of the environment variable key, or
// fallback when it is unset or does not parse.
func EnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return v
}
