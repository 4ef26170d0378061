package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the top-level daymark configuration.
type Config struct {
	UserID     string     `mapstructure:"user_id"`
	Debug      bool       `mapstructure:"debug"`
	DB         DB         `mapstructure:"db"`
	Classifier Classifier `mapstructure:"classifier"`
	Weather    Weather    `mapstructure:"weather"`
	Server     Server     `mapstructure:"server"`
	Output     Output     `mapstructure:"output"`
}

// DB selects and parameterizes the storage backend.
type DB struct {
	Driver string `mapstructure:"driver"` // "sqlite" or "postgres"
	Path   string `mapstructure:"path"`   // sqlite file; empty means the default location
	DSN    string `mapstructure:"dsn"`    // postgres connection string
}

// Classifier configures the emotion classification gateway.
type Classifier struct {
	Provider       string `mapstructure:"provider"` // "gateway" or "openai"
	URL            string `mapstructure:"url"`
	Model          string `mapstructure:"model"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Weather configures the optional conditions snapshot captured on writes.
type Weather struct {
	Enabled   bool    `mapstructure:"enabled"`
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `mapstructure:"addr"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied. A .env file in the
// working directory is loaded first so DAYMARK_* variables can override
// file settings in server deployments.
func Load(cfgFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("user_id", "")
	v.SetDefault("debug", false)
	v.SetDefault("db.driver", DefaultDB.Driver)
	v.SetDefault("db.path", "")
	v.SetDefault("db.dsn", "")
	v.SetDefault("classifier.provider", DefaultClassifier.Provider)
	v.SetDefault("classifier.url", DefaultClassifier.URL)
	v.SetDefault("classifier.model", "")
	v.SetDefault("classifier.api_key", "")
	v.SetDefault("classifier.timeout_seconds", DefaultClassifier.TimeoutSeconds)
	v.SetDefault("weather.enabled", false)
	v.SetDefault("weather.latitude", 0.0)
	v.SetDefault("weather.longitude", 0.0)
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)

	v.SetEnvPrefix("DAYMARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Classifier.APIKey == "" {
		cfg.Classifier.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	cfg.DB.Path = expandPath(cfg.DB.Path)

	return &cfg, nil
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}

// DBPath returns the sqlite database path: the configured one, or the
// default under the config directory.
func (c *Config) DBPath() string {
	if c.DB.Path != "" {
		return c.DB.Path
	}
	return filepath.Join(ConfigDir(), DefaultDBName)
}

// EnsureUserID returns a stable user identity. It prefers the configured
// user_id, falling back to an id generated on first use and persisted under
// the config directory so all commands attribute entries consistently.
func (c *Config) EnsureUserID() (string, error) {
	if c.UserID != "" {
		return c.UserID, nil
	}

	idPath := filepath.Join(ConfigDir(), "user_id")
	if data, err := os.ReadFile(idPath); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			c.UserID = id
			return id, nil
		}
	}

	id := uuid.NewString()
	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(idPath, []byte(id+"\n"), 0o600); err != nil {
		return "", err
	}
	c.UserID = id
	return id, nil
}
