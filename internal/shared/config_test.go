package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./learndash.db" {
			t.Errorf("expected database path ./learndash.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Storage.Backend != "sqlite" {
			t.Errorf("expected sqlite storage backend, got %s", config.Storage.Backend)
		}

		if config.Auth.LoginDelay.Duration != 1500*time.Millisecond {
			t.Errorf("expected login delay 1.5s, got %v", config.Auth.LoginDelay)
		}

		if config.Auth.ResetDelay.Duration != time.Second {
			t.Errorf("expected reset delay 1s, got %v", config.Auth.ResetDelay)
		}

		if config.Auth.HandoffTTL.Duration != 5*time.Minute {
			t.Errorf("expected handoff ttl 5m, got %v", config.Auth.HandoffTTL)
		}

		if config.Credentials.Google.Enabled() {
			t.Error("google login should be disabled without credentials")
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080

[storage]
backend = "memory"

[auth]
handoff_secret = "s3cret"
login_delay = "0s"

[credentials.google]
client_id = "test_client_id"
client_secret = "test_secret"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected addr 0.0.0.0:8080, got %s", config.Server.Addr())
		}

		if config.Auth.LoginDelay.Duration != 0 {
			t.Errorf("expected zero login delay, got %v", config.Auth.LoginDelay)
		}

		if config.Auth.RedirectDelay.Duration != 1500*time.Millisecond {
			t.Errorf("unset redirect delay should keep default, got %v", config.Auth.RedirectDelay)
		}

		if !config.Credentials.Google.Enabled() {
			t.Error("expected google login to be enabled")
		}
	})

	t.Run("LoadConfig bad duration", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[auth]\nlogin_delay = \"soon\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Fatal("expected parse error for bad duration")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tt := []struct {
			name   string
			mutate func(*Config)
		}{
			{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "etcd" }},
			{name: "redis without addr", mutate: func(c *Config) { c.Storage.Backend = "redis"; c.Storage.RedisAddr = "" }},
			{name: "empty secret", mutate: func(c *Config) { c.Auth.HandoffSecret = "" }},
			{name: "zero ttl", mutate: func(c *Config) { c.Auth.HandoffTTL = Duration{} }},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				config := DefaultConfig()
				tc.mutate(config)

				err := config.Validate()
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})
}

func TestApplyEnv(t *testing.T) {
	t.Run("overrides values", func(t *testing.T) {
		t.Setenv(EnvServerPort, "9999")
		t.Setenv(EnvHandoffSecret, "from-env")
		t.Setenv(EnvHandoffTTL, "30s")
		t.Setenv(EnvStorageBackend, "memory")

		config := DefaultConfig()
		if err := ApplyEnv(config); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if config.Server.Port != 9999 {
			t.Errorf("expected port 9999, got %d", config.Server.Port)
		}
		if config.Auth.HandoffSecret != "from-env" {
			t.Errorf("expected secret from env, got %s", config.Auth.HandoffSecret)
		}
		if config.Auth.HandoffTTL.Duration != 30*time.Second {
			t.Errorf("expected ttl 30s, got %v", config.Auth.HandoffTTL)
		}
		if config.Storage.Backend != "memory" {
			t.Errorf("expected memory backend, got %s", config.Storage.Backend)
		}
	})

	t.Run("rejects bad port", func(t *testing.T) {
		t.Setenv(EnvServerPort, "http")

		if err := ApplyEnv(DefaultConfig()); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadDotEnv", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte(EnvDatabasePath+"=/tmp/from-dotenv.db\n"), 0644); err != nil {
			t.Fatalf("failed to write .env: %v", err)
		}
		t.Setenv(EnvDatabasePath, "")
		os.Unsetenv(EnvDatabasePath)

		if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		config := DefaultConfig()
		if err := ApplyEnv(config); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Database.Path != "/tmp/from-dotenv.db" {
			t.Errorf("expected path from .env, got %s", config.Database.Path)
		}
	})
}
