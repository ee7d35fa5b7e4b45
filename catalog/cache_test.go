package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-browser/models"
	"catalog-browser/services"
	"catalog-browser/utils"
)

// fakeSource serves a fixed table and lets tests bump its version.
type fakeSource struct {
	mu      sync.Mutex
	version string
	columns []string
	loads   atomic.Int32
	release chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{version: "v1", columns: []string{"Product Name", "Selling Price"}}
}

func (f *fakeSource) bump(version string) {
	f.mu.Lock()
	f.version = version
	f.mu.Unlock()
}

func (f *fakeSource) Identity(context.Context) (models.SourceIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.SourceIdentity{URI: "fake.csv", Version: f.version}, nil
}

func (f *fakeSource) Load(context.Context) (*models.RawTable, error) {
	f.loads.Add(1)
	if f.release != nil {
		<-f.release
	}
	return models.NewRawTable(f.columns, [][]string{
		{"Smart TV 50in", "300"},
		{"Chef Knife", "45"},
	}), nil
}

func newTestCache(src *fakeSource, opts ...Option) *Cache {
	logger := utils.NopLogger()
	return NewCache(src, services.NewNormalizer(logger, nil), logger, opts...)
}

func TestCacheReturnsSameDatasetUntilIdentityChanges(t *testing.T) {
	src := newFakeSource()
	cache := newTestCache(src)
	ctx := context.Background()

	first, err := cache.Get(ctx)
	require.NoError(t, err)
	second, err := cache.Get(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), src.loads.Load())
	assert.Equal(t, 2, first.Len())

	src.bump("v2")
	third, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, int32(2), src.loads.Load())
	assert.Equal(t, "v2", third.Meta().Source.Version)
}

func TestCacheInvalidate(t *testing.T) {
	src := newFakeSource()
	cache := newTestCache(src)
	ctx := context.Background()

	first, err := cache.Get(ctx)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx))

	second, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, int32(2), src.loads.Load())
}

func TestCacheCollapsesConcurrentMisses(t *testing.T) {
	src := newFakeSource()
	src.release = make(chan struct{})
	cache := newTestCache(src)

	const callers = 8
	results := make([]*models.Dataset, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := cache.Get(context.Background())
			assert.NoError(t, err)
			results[i] = ds
		}(i)
	}
	close(src.release)
	wg.Wait()

	assert.Equal(t, int32(1), src.loads.Load())
	for _, ds := range results[1:] {
		assert.Same(t, results[0], ds)
	}
}

func TestCacheDoesNotKeepFailures(t *testing.T) {
	src := newFakeSource()
	src.columns = []string{"Product Name", "Price"}
	cache := newTestCache(src)
	ctx := context.Background()

	_, err := cache.Get(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrMissingColumn))

	_, err = cache.Get(ctx)
	require.Error(t, err)
	assert.Equal(t, int32(2), src.loads.Load(), "failed loads are retried on the next Get")
}

func TestCacheHonoursCallerContext(t *testing.T) {
	src := newFakeSource()
	src.release = make(chan struct{})
	defer close(src.release)
	cache := newTestCache(src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cache.Get(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisStore(client, 0)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	src := newFakeSource()
	ds, err := newTestCache(src).Get(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "k", ds))
	assert.True(t, mr.Exists(keyPrefix+"k"))

	got, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ds.Len(), got.Len())
	assert.Equal(t, ds.At(0).Name, got.At(0).Name)
	assert.True(t, ds.At(1).SellingPrice.Equal(got.At(1).SellingPrice))
	assert.Equal(t, ds.Meta().Columns, got.Meta().Columns)

	require.NoError(t, store.Delete(ctx, "k"))
	assert.False(t, mr.Exists(keyPrefix+"k"))
}

func TestCacheSharesThroughStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisStore(client, 0)
	ctx := context.Background()

	producer := newFakeSource()
	_, err := newTestCache(producer, WithStore(store)).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), producer.loads.Load())

	consumer := newFakeSource()
	ds, err := newTestCache(consumer, WithStore(store)).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, int32(0), consumer.loads.Load(), "second process reads the shared copy")
}

func TestInvalidateEvictsSharedCopy(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	src := newFakeSource()
	cache := newTestCache(src, WithStore(NewRedisStore(client, 0)))
	_, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Len(t, mr.Keys(), 1)

	require.NoError(t, cache.Invalidate(ctx))
	assert.Empty(t, mr.Keys())
}

func TestNewRedisClientFailsFast(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	client, err := NewRedisClient(context.Background(), addr)
	require.NoError(t, err)
	_ = client.Close()

	mr.Close()
	_, err = NewRedisClient(context.Background(), addr)
	assert.Error(t, err)
}
