package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables that override values from config.toml.
const (
	EnvDatabasePath       = "LEARNDASH_DB_PATH"
	EnvServerHost         = "LEARNDASH_HOST"
	EnvServerPort         = "LEARNDASH_PORT"
	EnvStorageBackend     = "LEARNDASH_STORAGE"
	EnvRedisAddr          = "LEARNDASH_REDIS_ADDR"
	EnvRedisPassword      = "LEARNDASH_REDIS_PASSWORD"
	EnvHandoffSecret      = "LEARNDASH_HANDOFF_SECRET"
	EnvHandoffTTL         = "LEARNDASH_HANDOFF_TTL"
	EnvGoogleClientID     = "LEARNDASH_GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret = "LEARNDASH_GOOGLE_CLIENT_SECRET"
)

// LoadDotEnv loads variables from the given .env files (".env" when none are given).
// A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overwrites config fields with any LEARNDASH_* variables set in the environment.
func ApplyEnv(c *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	str(EnvDatabasePath, &c.Database.Path)
	str(EnvServerHost, &c.Server.Host)
	str(EnvStorageBackend, &c.Storage.Backend)
	str(EnvRedisAddr, &c.Storage.RedisAddr)
	str(EnvRedisPassword, &c.Storage.RedisPassword)
	str(EnvHandoffSecret, &c.Auth.HandoffSecret)
	str(EnvGoogleClientID, &c.Credentials.Google.ClientID)
	str(EnvGoogleClientSecret, &c.Credentials.Google.ClientSecret)

	if v := os.Getenv(EnvServerPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvServerPort, v)
		}
		c.Server.Port = port
	}

	if v := os.Getenv(EnvHandoffTTL); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvHandoffTTL, v)
		}
		c.Auth.HandoffTTL = Duration{ttl}
	}

	return nil
}
