package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Storage     StorageConfig     `toml:"storage"`
	Auth        AuthConfig        `toml:"auth"`
}

// CredentialsConfig contains social login provider credentials.
type CredentialsConfig struct {
	Google GoogleConfig `toml:"google"`
}

// GoogleConfig contains Google OAuth2 client credentials.
type GoogleConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// Enabled reports whether both client credentials are present.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	RateLimit      float64  `toml:"rate_limit"`
	RateBurst      int      `toml:"rate_burst"`
	AllowedOrigins []string `toml:"allowed_origins"`
	// TrustProxy takes the client address from X-Forwarded-For and X-Real-IP.
	TrustProxy bool `toml:"trust_proxy"`
}

// Addr returns the host:port pair the server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig selects the persistence substrate backing client preferences.
type StorageConfig struct {
	Backend       string `toml:"backend"` // sqlite, memory or redis
	Profile       string `toml:"profile"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// AuthConfig contains login flow timing and handoff token settings.
type AuthConfig struct {
	HandoffSecret string   `toml:"handoff_secret"`
	HandoffTTL    Duration `toml:"handoff_ttl"`
	SessionTTL    Duration `toml:"session_ttl"`
	LoginDelay    Duration `toml:"login_delay"`
	RedirectDelay Duration `toml:"redirect_delay"`
	NavigateDelay Duration `toml:"navigate_delay"`
	ResetDelay    Duration `toml:"reset_delay"`
	AllowGuest    bool     `toml:"allow_guest"`
}

// Duration wraps [time.Duration] so it can be written as "1500ms" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a [time.ParseDuration] string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: bad duration %q", ErrInvalidConfig, string(text))
	}
	d.Duration = parsed
	return nil
}

// MarshalText renders the duration in [time.Duration.String] form.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Validate reports configuration values that cannot be used at runtime.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "sqlite", "memory":
	case "redis":
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("%w: storage.redis_addr is required for the redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Storage.Backend)
	}

	if c.Auth.HandoffSecret == "" {
		return fmt.Errorf("%w: auth.handoff_secret is empty", ErrInvalidConfig)
	}
	if c.Auth.HandoffTTL.Duration <= 0 {
		return fmt.Errorf("%w: auth.handoff_ttl must be positive", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the defaults of the embedded example config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveConfig loads path when it exists and falls back to [DefaultConfig] otherwise.
// Environment overrides are applied in both cases.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}
	return config, nil
}
