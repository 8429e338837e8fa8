// Package config loads scrapbook's settings file.
//
// Settings live in a TOML file at $XDG_CONFIG_HOME/scrapbook/config.toml (or
// the path given with --config). Every key is optional; missing keys keep the
// values from [Default]. A few deployment settings can be overridden from the
// environment:
//
//	SCRAPBOOK_ADDR        server.addr
//	SCRAPBOOK_REDIS_ADDR  cache.redis_addr (and selects the redis backend)
//	SCRAPBOOK_MONGO_URI   store.mongo_uri (and selects the mongo backend)
//
// Example file:
//
//	[server]
//	addr = ":8080"
//	cors_origins = ["https://scrapbook.example"]
//
//	[grid]
//	columns = 5
//	policy = "chimney"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	namespace = "prod"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/scrapbook/pkg/pipeline"
)

const appName = "scrapbook"

// Environment variables that override file settings.
const (
	EnvAddr      = "SCRAPBOOK_ADDR"
	EnvRedisAddr = "SCRAPBOOK_REDIS_ADDR"
	EnvMongoURI  = "SCRAPBOOK_MONGO_URI"
)

// Backend names.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config is the full settings file.
type Config struct {
	Server ServerConfig `toml:"server"`
	Grid   GridConfig   `toml:"grid"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	CORSOrigins     []string      `toml:"cors_origins"`
	RateLimit       int           `toml:"rate_limit"` // requests per minute per client IP; 0 disables
}

// GridConfig holds the default layout settings for CLI and API requests.
type GridConfig struct {
	Columns  int     `toml:"columns"`
	MinRows  int     `toml:"min_rows"`
	Policy   string  `toml:"policy"`
	Width    float64 `toml:"width"`
	Height   float64 `toml:"height"`
	Gap      float64 `toml:"gap"`
	Align    string  `toml:"align"`
	Captions bool    `toml:"captions"`
}

// CacheConfig selects the layout and artifact cache.
type CacheConfig struct {
	Backend       string `toml:"backend"` // none, file or redis
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Namespace     string `toml:"namespace"`
}

// StoreConfig selects where boards are kept.
type StoreConfig struct {
	Backend         string `toml:"backend"` // file or mongo
	Dir             string `toml:"dir"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimit:       120,
		},
		Grid: GridConfig{
			Columns: pipeline.DefaultColumns,
			MinRows: pipeline.DefaultMinRows,
			Policy:  string(pipeline.DefaultPolicy),
			Width:   pipeline.DefaultWidth,
			Height:  pipeline.DefaultHeight,
			Gap:     pipeline.DefaultGap,
			Align:   string(pipeline.DefaultAlign),
		},
		Cache: CacheConfig{
			Backend: BackendFile,
		},
		Store: StoreConfig{
			Backend: BackendFile,
		},
	}
}

// Path returns the default settings file location.
func Path() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// Load reads the settings file at path, applies environment overrides and
// validates the result. An empty path means [Path]; a missing file at the
// default location is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return nil, fmt.Errorf("locate config: %w", err)
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !os.IsNotExist(err) || explicit {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv(EnvAddr, c.Server.Addr)
	if addr := os.Getenv(EnvRedisAddr); addr != "" {
		c.Cache.Backend = BackendRedis
		c.Cache.RedisAddr = addr
	}
	if uri := os.Getenv(EnvMongoURI); uri != "" {
		c.Store.Backend = BackendMongo
		c.Store.MongoURI = uri
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Options returns pipeline options seeded with the grid settings.
func (g GridConfig) Options() pipeline.Options {
	return pipeline.Options{
		Columns:  g.Columns,
		MinRows:  g.MinRows,
		Policy:   g.Policy,
		Width:    g.Width,
		Height:   g.Height,
		Gap:      g.Gap,
		Align:    g.Align,
		Captions: g.Captions,
	}
}
