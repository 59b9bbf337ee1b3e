// Package config reads runtime settings from the environment and .env files.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds settings shared by the command-line tools.
type Config struct {
	LogLevel  zerolog.Level
	OutputDir string
	Seed      int64
}

// LoadEnv loads every one of the usual .env files that exists, most
// specific first. godotenv never overrides a variable that is already set,
// so earlier files and the real environment win.
func LoadEnv() {
	env, ok := os.LookupEnv("ENV")
	if !ok {
		env = "development"
	}
	for _, filename := range []string{".env." + env + ".local", ".env." + env, ".env.local", ".env"} {
		if s, err := os.Stat(filename); err == nil && !s.IsDir() {
			_ = godotenv.Load(filename)
		}
	}
}

// Load reads the DIMRED_* variables, applying defaults for unset ones.
func Load() (*Config, error) {
	c := &Config{
		LogLevel:  zerolog.InfoLevel,
		OutputDir: ".",
		Seed:      1,
	}
	if v, ok := os.LookupEnv("DIMRED_LOG_LEVEL"); ok {
		level, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil {
			return nil, errors.Wrapf(err, "DIMRED_LOG_LEVEL=%q", v)
		}
		c.LogLevel = level
	}
	if v, ok := os.LookupEnv("DIMRED_OUTPUT_DIR"); ok && v != "" {
		c.OutputDir = v
	}
	if v, ok := os.LookupEnv("DIMRED_SEED"); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "DIMRED_SEED=%q", v)
		}
		c.Seed = seed
	}
	return c, nil
}

// Init loads the .env files and the configuration, then applies the log
// level to the global zerolog logger.
func Init() (*Config, error) {
	LoadEnv()
	c, err := Load()
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(c.LogLevel)
	return c, nil
}
