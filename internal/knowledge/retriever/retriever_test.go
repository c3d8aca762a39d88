package retriever

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellarte/internal/knowledge"
	"sellarte/internal/knowledge/embed"
	"sellarte/internal/knowledge/store"
	"sellarte/internal/platform/logger"
	id "sellarte/pkg/domain"
)

const inkQuery = "qué colores de tinta tienen"

// newCorpus seeds three fragments: ink colors (cosine ~0.41 against the ink
// query), shipping (orthogonal), and returns (orthogonal).
func newCorpus(t *testing.T) (*store.Memory, *embed.Static) {
	t.Helper()

	mem := store.NewMemory()
	fragments := []knowledge.Fragment{
		{
			ID:        id.NewFragmentID(),
			Title:     "Colores de tinta",
			Content:   "Manejamos colores de tinta negra, azul, roja y verde para todos los sellos.",
			Embedding: []float32{0.41, 0.9120855, 0},
		},
		{
			ID:        id.NewFragmentID(),
			Title:     "Envíos",
			Content:   "Los envíos a nivel nacional tardan de 2 a 5 días hábiles.",
			Embedding: []float32{0, 0, 1},
		},
		{
			ID:        id.NewFragmentID(),
			Title:     "Devoluciones",
			Content:   "Aceptamos devoluciones dentro de los primeros 30 días.",
			Embedding: []float32{0, 1, 0},
		},
	}
	for i, fragment := range fragments {
		fragment.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, mem.Upsert(context.Background(), fragment))
	}

	static := &embed.Static{Vectors: map[string][]float32{
		inkQuery: {1, 0, 0},
	}}
	return mem, static
}

func newRetriever(t *testing.T, st Store, provider embed.Provider) *Retriever {
	t.Helper()
	r, err := New(st, provider, WithLogger(logger.Silent()))
	require.NoError(t, err)
	return r
}

func TestEmbedSearch_ThresholdIncludesAndExcludes(t *testing.T) {
	mem, static := newCorpus(t)
	r := newRetriever(t, mem, static)

	matches, err := r.EmbedSearch(context.Background(), inkQuery, 0.3, 4)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Colores de tinta", matches[0].Fragment.Title)
	assert.InDelta(t, 0.41, matches[0].Score, 0.01)
	assert.True(t, matches[0].Scored)

	matches, err = r.EmbedSearch(context.Background(), inkQuery, 0.5, 4)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestEmbedSearch_SortedDescendingAndTruncated(t *testing.T) {
	mem := store.NewMemory()
	for i, vec := range [][]float32{{0.5, 0.8660254}, {0.9, 0.4358899}, {0.7, 0.7141428}} {
		require.NoError(t, mem.Upsert(context.Background(), knowledge.Fragment{
			ID:        id.NewFragmentID(),
			Content:   string(rune('a' + i)),
			Embedding: vec,
		}))
	}
	static := &embed.Static{Vectors: map[string][]float32{"q": {1, 0}}}
	r := newRetriever(t, mem, static)

	matches, err := r.EmbedSearch(context.Background(), "q", 0.4, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Greater(t, matches[0].Score, matches[1].Score)
	assert.Equal(t, "b", matches[0].Fragment.Content)
	assert.Equal(t, "c", matches[1].Fragment.Content)
}

func TestEmbedSearch_EmptyCorpus(t *testing.T) {
	r := newRetriever(t, store.NewMemory(), &embed.Static{})

	matches, err := r.EmbedSearch(context.Background(), "cualquier cosa", 0.3, 4)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestEmbedSearch_SkipsMismatchedDimensions(t *testing.T) {
	mem := store.NewMemory()
	require.NoError(t, mem.Upsert(context.Background(), knowledge.Fragment{
		ID:        id.NewFragmentID(),
		Content:   "vector corto",
		Embedding: []float32{1},
	}))
	static := &embed.Static{Vectors: map[string][]float32{"q": {1, 0}}}
	r := newRetriever(t, mem, static)

	matches, err := r.EmbedSearch(context.Background(), "q", 0.0, 4)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestKeywordSearch_MatchesAndFilters(t *testing.T) {
	mem, _ := newCorpus(t)
	r := newRetriever(t, mem, &embed.Static{})

	matches, err := r.KeywordSearch(context.Background(), inkQuery, 4)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Colores de tinta", matches[0].Fragment.Title)
	assert.False(t, matches[0].Scored)
}

func TestKeywordSearch_StopWordsOnlyQuery(t *testing.T) {
	mem, _ := newCorpus(t)
	r := newRetriever(t, mem, &embed.Static{})

	matches, err := r.KeywordSearch(context.Background(), "qué tienen para mí", 4)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestKeywordSearch_StripsTrailingPunctuation(t *testing.T) {
	mem, _ := newCorpus(t)
	r := newRetriever(t, mem, &embed.Static{})

	matches, err := r.KeywordSearch(context.Background(), "¿venden tinta?", 4)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Colores de tinta", matches[0].Fragment.Title)
}

func TestKeywordSearch_InsertionOrderAndTruncation(t *testing.T) {
	mem, _ := newCorpus(t)
	r := newRetriever(t, mem, &embed.Static{})

	matches, err := r.KeywordSearch(context.Background(), "días de espera", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Envíos", matches[0].Fragment.Title)
}

func TestRetrieve_FallsBackWhenProviderUnavailable(t *testing.T) {
	mem, _ := newCorpus(t)
	// Static provider without the query vector: every embed fails.
	r := newRetriever(t, mem, &embed.Static{})

	matches, err := r.Retrieve(context.Background(), inkQuery, 0.3, 4)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Colores de tinta", matches[0].Fragment.Title)
	assert.False(t, matches[0].Scored)
}

func TestRetrieve_HighThresholdFallsBackToKeywords(t *testing.T) {
	mem, static := newCorpus(t)
	r := newRetriever(t, mem, static)

	matches, err := r.Retrieve(context.Background(), inkQuery, 0.5, 4)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Colores de tinta", matches[0].Fragment.Title)
	assert.False(t, matches[0].Scored)
}

func TestRetrieve_PrefersEmbeddingPath(t *testing.T) {
	mem, static := newCorpus(t)
	r := newRetriever(t, mem, static)

	matches, err := r.Retrieve(context.Background(), inkQuery, 0.3, 4)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.True(t, matches[0].Scored)
}
