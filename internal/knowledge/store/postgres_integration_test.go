//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellarte/internal/knowledge"
	id "sellarte/pkg/domain"
	"sellarte/pkg/sentinel"
	"sellarte/pkg/testutil/containers"
)

func TestPostgresFragmentStore(t *testing.T) {
	pc := containers.NewPostgresContainer(t)
	store := NewPostgres(pc.Pool)
	ctx := context.Background()

	fragment := func(title string, vec []float32) knowledge.Fragment {
		return knowledge.Fragment{
			ID:        id.NewFragmentID(),
			Title:     title,
			Content:   "contenido de " + title,
			Embedding: vec,
			CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		}
	}

	t.Run("upsert and list in insertion order", func(t *testing.T) {
		require.NoError(t, pc.Truncate(ctx, "knowledge_fragments"))
		first := fragment("Colores", []float32{0.1, 0.2})
		second := fragment("Envíos", []float32{0.3, 0.4})
		require.NoError(t, store.Upsert(ctx, first))
		require.NoError(t, store.Upsert(ctx, second))

		fragments, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, fragments, 2)
		assert.Equal(t, "Colores", fragments[0].Title)
		assert.Equal(t, []float32{0.1, 0.2}, fragments[0].Embedding)
		assert.Equal(t, "Envíos", fragments[1].Title)
	})

	t.Run("upsert replaces content and embedding", func(t *testing.T) {
		require.NoError(t, pc.Truncate(ctx, "knowledge_fragments"))
		frag := fragment("Colores", []float32{0.1, 0.2})
		require.NoError(t, store.Upsert(ctx, frag))

		frag.Content = "contenido actualizado"
		frag.Embedding = []float32{0.9, 0.8}
		require.NoError(t, store.Upsert(ctx, frag))

		fragments, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, fragments, 1)
		assert.Equal(t, "contenido actualizado", fragments[0].Content)
		assert.Equal(t, []float32{0.9, 0.8}, fragments[0].Embedding)
	})

	t.Run("delete and count", func(t *testing.T) {
		require.NoError(t, pc.Truncate(ctx, "knowledge_fragments"))
		frag := fragment("Colores", []float32{0.1})
		require.NoError(t, store.Upsert(ctx, frag))

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		require.NoError(t, store.Delete(ctx, frag.ID))
		assert.ErrorIs(t, store.Delete(ctx, frag.ID), sentinel.ErrNotFound)

		count, err = store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}
