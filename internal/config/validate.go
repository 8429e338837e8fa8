package config

import (
	"fmt"
)

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateGrid(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	return c.validateStore()
}

func (c *Config) validateServer() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative, got %d", c.Server.RateLimit)
	}
	return nil
}

func (c *Config) validateGrid() error {
	opts := c.Grid.Options()
	if err := opts.ValidateForLayout(); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case BackendNone, BackendFile:
		return nil
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr is required when cache.backend = %q", BackendRedis)
		}
		if c.Cache.RedisDB < 0 {
			return fmt.Errorf("cache.redis_db must not be negative")
		}
		return nil
	}
	return fmt.Errorf("cache.backend must be one of none, file, redis; got %q", c.Cache.Backend)
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case BackendFile:
		return nil
	case BackendMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("store.mongo_uri is required when store.backend = %q", BackendMongo)
		}
		return nil
	}
	return fmt.Errorf("store.backend must be file or mongo; got %q", c.Store.Backend)
}
