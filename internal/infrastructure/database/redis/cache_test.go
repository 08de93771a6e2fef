package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	types "github.com/turtacn/PharmaLens/pkg/types/compound"
)

func TestJitterTTL(t *testing.T) {
	c := &redisCache{}

	assert.Equal(t, time.Duration(0), c.jitterTTL(0))

	base := 10 * time.Minute
	for i := 0; i < 100; i++ {
		got := c.jitterTTL(base)
		assert.GreaterOrEqual(t, got, 9*time.Minute)
		assert.LessOrEqual(t, got, 11*time.Minute)
	}
}

func TestFullKeyUsesPrefix(t *testing.T) {
	c := &redisCache{prefix: "pharmalens:"}
	assert.Equal(t, "pharmalens:structure:Aspirin", c.fullKey("structure:Aspirin"))
}

// fakeCache backs the resolution cache tests without a live Redis.
type fakeCache struct {
	store map[string][]byte
	fail  bool
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	if f.fail {
		return ErrClientClosed
	}
	data, ok := f.store[key]
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if f.fail {
		return ErrClientClosed
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.store[key] = data
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.store, k)
	}
	return nil
}

func (f *fakeCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration,
	loader func(ctx context.Context) (interface{}, error)) error {
	if err := f.Get(ctx, key, dest); err == nil {
		return nil
	}
	v, err := loader(ctx)
	if err != nil {
		return err
	}
	if err := f.Set(ctx, key, v, ttl); err != nil {
		return err
	}
	return f.Get(ctx, key, dest)
}

func (f *fakeCache) Ping(context.Context) error { return nil }

func TestResolutionCache_RoundTrip(t *testing.T) {
	rc := NewResolutionCache(newFakeCache(), time.Hour, logging.NewNopLogger())
	ctx := context.Background()

	_, ok := rc.GetRecord(ctx, "Aspirin")
	assert.False(t, ok)

	want := types.StructureRecord{
		Notation:      "CC(=O)OC1=CC=CC=C1C(=O)O",
		CanonicalName: "Aspirin",
		Formula:       "C9H8O4",
		Weight:        180.16,
		Identifier:    2244,
	}
	rc.PutRecord(ctx, "Aspirin", want)

	got, ok := rc.GetRecord(ctx, "Aspirin")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestResolutionCache_ErrorsDegradeToMiss(t *testing.T) {
	rc := NewResolutionCache(&fakeCache{fail: true}, time.Hour, logging.NewNopLogger())
	ctx := context.Background()

	rc.PutRecord(ctx, "Aspirin", types.StructureRecord{Identifier: 2244})
	_, ok := rc.GetRecord(ctx, "Aspirin")
	assert.False(t, ok)
}
