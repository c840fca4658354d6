package config

import (
	"context"

	"github.com/matzehuels/dirgraph/pkg/cache"
	"github.com/matzehuels/dirgraph/pkg/store"
)

// OpenCache constructs the configured cache backend.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		return cache.NewRedisCache(ctx, c.Cache.Redis)
	default:
		return cache.NewFileCache(c.Cache.Dir)
	}
}

// OpenStore constructs the configured analysis store.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	if c.Store.Backend == StoreMongo {
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:      c.Store.Mongo.URI,
			Database: c.Store.Mongo.Database,
			Timeout:  c.Store.Mongo.Timeout.Duration,
		})
	}
	return store.NewMemoryStore(), nil
}
