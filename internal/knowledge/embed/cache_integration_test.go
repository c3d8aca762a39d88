//go:build integration

package embed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformredis "sellarte/internal/platform/redis"
	"sellarte/pkg/testutil/containers"
)

type countingProvider struct {
	vector []float32
	calls  int
}

func (p *countingProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	p.calls++
	return p.vector, nil
}

func TestCache_Redis(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	client := &platformredis.Client{Client: rc.Client}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("second lookup hits the cache", func(t *testing.T) {
		provider := &countingProvider{vector: []float32{0.25, -1.5, 0}}
		cache := NewCache(provider, client, "text-embedding-3-small", logger)

		first, err := cache.Embed(ctx, "¿qué colores de tinta tienen?")
		require.NoError(t, err)

		second, err := cache.Embed(ctx, "¿qué colores de tinta tienen?")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, provider.calls)
	})

	t.Run("distinct texts and models get distinct keys", func(t *testing.T) {
		provider := &countingProvider{vector: []float32{1, 2}}
		cache := NewCache(provider, client, "text-embedding-3-small", logger)
		other := NewCache(provider, client, "text-embedding-3-large", logger)

		_, err := cache.Embed(ctx, "envíos a medellín")
		require.NoError(t, err)
		_, err = cache.Embed(ctx, "envíos a bogotá")
		require.NoError(t, err)
		_, err = other.Embed(ctx, "envíos a medellín")
		require.NoError(t, err)

		assert.Equal(t, 3, provider.calls)
	})
}
