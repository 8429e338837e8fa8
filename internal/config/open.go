package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/scrapbook/pkg/board"
	"github.com/matzehuels/scrapbook/pkg/cache"
)

// CacheDir returns the file cache directory using the XDG standard
// (~/.cache/scrapbook/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// OpenCache builds the configured cache, wrapped so cache hooks fire, and
// the keyer that goes with it. A non-empty namespace scopes every key.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, cache.Keyer, error) {
	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if c.Namespace != "" {
		keyer = cache.NewScopedKeyer(keyer, c.Namespace+":")
	}

	var backend cache.Cache
	switch c.Backend {
	case BackendNone:
		backend = cache.NewNullCache()
	case BackendRedis:
		prefix := appName + ":"
		if c.Namespace != "" {
			prefix += c.Namespace + ":"
		}
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   prefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open redis cache: %w", err)
		}
		backend = rc
	default:
		dir := c.Dir
		if dir == "" {
			d, err := CacheDir()
			if err != nil {
				return nil, nil, fmt.Errorf("get cache dir: %w", err)
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, nil, err
		}
		backend = fc
	}
	return cache.NewInstrumented(backend), keyer, nil
}

// OpenStore builds the configured board store.
func (s StoreConfig) OpenStore(ctx context.Context) (board.Store, error) {
	if s.Backend == BackendMongo {
		return board.NewMongoStore(ctx, board.MongoOptions{
			URI:        s.MongoURI,
			Database:   s.MongoDatabase,
			Collection: s.MongoCollection,
		})
	}
	return board.NewFileStore(s.Dir)
}
