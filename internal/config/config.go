package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFile is looked up in the working directory when no path is given.
	ConfigFile = "bookgraph.yml"
	// EnvFile is loaded from the config file's directory if present.
	EnvFile = ".env"

	DefaultPort     = 5000
	DefaultMongoURI = "mongodb://127.0.0.1:27017/playlist"
	DefaultDatabase = "playlist"

	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config holds the bookgraph configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
}

// ServerConfig defines settings for the HTTP server.
type ServerConfig struct {
	Port       int    `yaml:"port"`
	GinMode    string `yaml:"gin_mode,omitempty"`
	Playground bool   `yaml:"playground"`
	// MaxDepth limits query nesting; 0 disables the check.
	MaxDepth int `yaml:"max_depth,omitempty"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend  string `yaml:"backend"`
	MongoURI string `yaml:"mongo_uri"`
	// Database overrides the database named in MongoURI.
	Database string `yaml:"database,omitempty"`
	// Snapshot is the YAML file backing the memory backend. Empty keeps
	// everything in memory.
	Snapshot string `yaml:"snapshot,omitempty"`
	// Watch reloads the snapshot when another process rewrites it.
	Watch bool `yaml:"watch,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:       DefaultPort,
			Playground: true,
			MaxDepth:   10,
		},
		Store: StoreConfig{
			Backend:  BackendMongo,
			MongoURI: DefaultMongoURI,
		},
	}
}

// Load reads configuration from path, falling back to ConfigFile in the
// working directory. A missing file yields the defaults. Values from a .env
// file next to the config and from the environment are applied on top.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = ConfigFile
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("config file %s does not exist", path)
	default:
		return nil, err
	}

	if err := loadEnvFile(filepath.Join(filepath.Dir(path), EnvFile)); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadEnvFile loads a dotenv file without overriding variables that are
// already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := getenv("BOOKGRAPH_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BOOKGRAPH_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := getenv("GIN_MODE"); v != "" {
		c.Server.GinMode = v
	}
	if v := getenv("BOOKGRAPH_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := getenv("BOOKGRAPH_MONGO_URI"); v != "" {
		c.Store.MongoURI = v
	}
	if v := getenv("BOOKGRAPH_SNAPSHOT"); v != "" {
		c.Store.Snapshot = v
	}
	return nil
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	switch c.Store.Backend {
	case BackendMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("store.mongo_uri is required for the %s backend", BackendMongo)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q (expected %s or %s)", c.Store.Backend, BackendMongo, BackendMemory)
	}
	return nil
}

// DatabaseName returns the Mongo database to use: the explicit Database
// setting, else the path of MongoURI, else DefaultDatabase.
func (c *Config) DatabaseName() string {
	if c.Store.Database != "" {
		return c.Store.Database
	}
	u, err := url.Parse(c.Store.MongoURI)
	if err != nil {
		return DefaultDatabase
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return DefaultDatabase
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
