// Package catalog memoizes the normalized Dataset for a source and keeps it
// current: identity checks on every read, explicit invalidation, an optional
// shared Redis layer and an optional file watcher.
package catalog

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"catalog-browser/models"
	"catalog-browser/services"
	"catalog-browser/storage"
	"catalog-browser/utils"
)

// Store is a second-level cache shared between processes.
type Store interface {
	Get(ctx context.Context, key string) (*models.Dataset, bool, error)
	Set(ctx context.Context, key string, ds *models.Dataset) error
	Delete(ctx context.Context, key string) error
}

// Cache holds the Dataset for one source, keyed by the source identity.
type Cache struct {
	source     storage.Source
	normalizer *services.Normalizer
	store      Store
	logger     *utils.Logger

	group singleflight.Group

	mu         sync.RWMutex
	key        string
	dataset    *models.Dataset
	generation uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithStore adds a shared store consulted before the source is read.
func WithStore(s Store) Option {
	return func(c *Cache) { c.store = s }
}

// NewCache returns an empty cache; nothing is read until the first Get.
func NewCache(source storage.Source, normalizer *services.Normalizer, logger *utils.Logger, opts ...Option) *Cache {
	c := &Cache{source: source, normalizer: normalizer, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the Dataset for the source's current identity, loading it when
// the identity changed or the cache was invalidated. Concurrent misses share
// one load.
func (c *Cache) Get(ctx context.Context) (*models.Dataset, error) {
	id, err := c.source.Identity(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: identity: %w", err)
	}
	key := id.Key()

	c.mu.RLock()
	ds, cachedKey, gen := c.dataset, c.key, c.generation
	c.mu.RUnlock()
	if ds != nil && cachedKey == key {
		return ds, nil
	}

	flight := key + "#" + strconv.FormatUint(gen, 10)
	resultCh := c.group.DoChan(flight, func() (interface{}, error) {
		return c.load(context.WithoutCancel(ctx), id, gen)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultCh:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("[cache] Shared in-flight load for %s", id.URI)
		}
		return res.Val.(*models.Dataset), nil
	}
}

// Invalidate drops the cached Dataset (and its shared copy) so the next Get reloads.
func (c *Cache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	key := c.key
	c.dataset = nil
	c.key = ""
	c.generation++
	c.mu.Unlock()

	c.logger.Info("[cache] Invalidated dataset")
	if c.store != nil && key != "" {
		if err := c.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("catalog: evict shared copy: %w", err)
		}
	}
	return nil
}

func (c *Cache) load(ctx context.Context, id models.SourceIdentity, gen uint64) (*models.Dataset, error) {
	key := id.Key()

	c.mu.RLock()
	current := c.dataset != nil && c.key == key && c.generation == gen
	ds := c.dataset
	c.mu.RUnlock()
	if current {
		return ds, nil
	}

	if c.store != nil {
		ds, ok, err := c.store.Get(ctx, key)
		switch {
		case err != nil:
			c.logger.Warn("[cache] Shared store read failed, loading from source: %v", err)
		case ok:
			c.logger.Info("[cache] Loaded %d products for %s from shared store", ds.Len(), id.URI)
			c.remember(key, ds, gen)
			return ds, nil
		}
	}

	start := time.Now()
	table, err := c.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: load %s: %w", id.URI, err)
	}
	ds, err = c.normalizer.Normalize(table, id)
	if err != nil {
		return nil, err
	}
	c.logger.Info("[cache] Loaded %d products for %s in %v", ds.Len(), id.URI, time.Since(start).Round(time.Millisecond))

	if c.store != nil {
		if err := c.store.Set(ctx, key, ds); err != nil {
			c.logger.Warn("[cache] Shared store write failed: %v", err)
		}
	}
	c.remember(key, ds, gen)
	return ds, nil
}

// remember keeps ds unless the cache was invalidated while it was loading.
func (c *Cache) remember(key string, ds *models.Dataset, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return
	}
	c.key = key
	c.dataset = ds
}
