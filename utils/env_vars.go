package utils

import (
	"fmt"
	"os"
	"strconv"
)

type EnvType interface {
	string | int | bool | float64
}

// GetEnv reads an environment variable, falling back to defaultValue when it
// is unset or empty. An unparseable value panics: it means the deployment is
// misconfigured and nothing sensible can be done.
func GetEnv[T EnvType](envVar string, defaultValue T) T {
	envValue, ok := os.LookupEnv(envVar)
	if !ok || envValue == "" {
		return defaultValue
	}
	parsed, err := parseEnv[T](envVar, envValue)
	if err != nil {
		panic(err)
	}
	return parsed
}

func parseEnv[T EnvType](envVar, envValue string) (T, error) {
	var zero T
	switch any(zero).(type) {
	case string:
		return any(envValue).(T), nil
	case int:
		intValue, err := strconv.Atoi(envValue)
		if err != nil {
			return zero, fmt.Errorf("environment variable %s: '%s' is not an integer", envVar, envValue)
		}
		return any(intValue).(T), nil
	case bool:
		boolValue, err := strconv.ParseBool(envValue)
		if err != nil {
			return zero, fmt.Errorf("environment variable %s: '%s' is not a boolean", envVar, envValue)
		}
		return any(boolValue).(T), nil
	case float64:
		floatValue, err := strconv.ParseFloat(envValue, 64)
		if err != nil {
			return zero, fmt.Errorf("environment variable %s: '%s' is not a float", envVar, envValue)
		}
		return any(floatValue).(T), nil
	}
	return zero, fmt.Errorf("environment variable %s: unsupported type", envVar)
}
