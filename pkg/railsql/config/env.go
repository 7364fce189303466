package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/sllt/railsql/pkg/railsql/logging"
)

// EnvLoader reads configuration from process environment variables, seeded
// from dotenv files in a configs folder.
type EnvLoader struct {
	logger logging.Logger
}

// NewEnvFile loads <configFolder>/.env into the environment, then applies
// <configFolder>/.<APP_ENV>.env on top when APP_ENV is set. Variables already
// present in the environment win over the base file.
func NewEnvFile(configFolder string, logger logging.Logger) Config {
	loader := &EnvLoader{logger: logger}
	loader.read(configFolder)

	return loader
}

func (e *EnvLoader) read(folder string) {
	defaultFile := fmt.Sprintf("%s/.env", folder)

	if err := godotenv.Load(defaultFile); err != nil {
		if !os.IsNotExist(err) {
			e.logger.Warnf("could not load config from %s: %v", defaultFile, err)
		}
	} else {
		e.logger.Logf("loaded config from %s", defaultFile)
	}

	if env := e.Get("APP_ENV"); env != "" {
		overrideFile := fmt.Sprintf("%s/.%s.env", folder, env)

		if err := godotenv.Overload(overrideFile); err != nil {
			if !os.IsNotExist(err) {
				e.logger.Warnf("could not load config override from %s: %v", overrideFile, err)
			}
		} else {
			e.logger.Logf("loaded config overrides from %s", overrideFile)
		}
	}
}

// Get returns the value of key, or the empty string when unset.
func (e *EnvLoader) Get(key string) string {
	return os.Getenv(key)
}

// GetOrDefault returns the value of key, or defaultValue when unset or empty.
func (e *EnvLoader) GetOrDefault(key, defaultValue string) string {
	if value := e.Get(key); value != "" {
		return value
	}

	return defaultValue
}
