package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/TheusHen/D64/d64/envelope"
)

// DefaultKey is the key used when neither a flag nor D64_KEY provides one.
const DefaultKey = "A1B2C3D4"

// Config holds the CLI defaults read from the environment.
type Config struct {
	Key      string
	Addr     string
	Workers  int
	Compress string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Key:      getEnv("D64_KEY", DefaultKey),
		Addr:     getEnv("D64_ADDR", "127.0.0.1:4646"),
		Workers:  getEnvInt("D64_WORKERS", 1),
		Compress: strings.ToLower(getEnv("D64_COMPRESS", "default")),
	}
}

// Compression maps the Compress setting to an envelope compression level.
func (c *Config) Compression() (envelope.CompressionLevel, error) {
	return ParseCompression(c.Compress)
}

// ParseCompression accepts default, fast, best or none.
func ParseCompression(s string) (envelope.CompressionLevel, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return envelope.CompressionDefault, nil
	case "fast":
		return envelope.CompressionFast, nil
	case "best":
		return envelope.CompressionBest, nil
	case "none", "off":
		return envelope.CompressionNone, nil
	}
	return 0, fmt.Errorf("config: unknown compression %q", s)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Key: *** (%d bytes)\nAddr: %s\nWorkers: %d\nCompress: %s",
		len(c.Key), c.Addr, c.Workers, c.Compress)
}
