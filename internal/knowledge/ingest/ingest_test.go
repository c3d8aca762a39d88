package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellarte/internal/knowledge/embed"
	"sellarte/internal/knowledge/store"
	"sellarte/internal/platform/logger"
	dErrors "sellarte/pkg/domain-errors"
	"sellarte/pkg/platform/audit"
)

const fragmentDoc = `[
	{"title": "Colores", "content": "Tinta negra, azul y roja."},
	{"title": "Vacío", "content": "   "},
	{"title": "Envíos", "content": "Entregas en 2 a 5 días."}
]`

func newService(t *testing.T, st Store, provider embed.Provider) (*Service, *audit.MemoryPublisher) {
	t.Helper()
	auditor := audit.NewMemoryPublisher()
	svc, err := New(st, provider, WithLogger(logger.Silent()), WithAuditPublisher(auditor))
	require.NoError(t, err)
	return svc, auditor
}

func TestIngest(t *testing.T) {
	mem := store.NewMemory()
	provider := &embed.Static{Vectors: map[string][]float32{
		"Tinta negra, azul y roja.": {1, 0},
		"Entregas en 2 a 5 días.":   {0, 1},
	}}
	svc, auditor := newService(t, mem, provider)

	count, err := svc.Ingest(context.Background(), strings.NewReader(fragmentDoc), "cli")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	fragments, err := mem.List(context.Background())
	require.NoError(t, err)
	require.Len(t, fragments, 2)
	assert.Equal(t, "Colores", fragments[0].Title)
	assert.Equal(t, []float32{1, 0}, fragments[0].Embedding)
	assert.Equal(t, "Envíos", fragments[1].Title)

	events := auditor.ByAction(audit.ActionKnowledgeIngested)
	require.Len(t, events, 1)
	assert.Equal(t, "2", events[0].Detail["fragments"])
}

func TestIngest_EmbeddingFailureAborts(t *testing.T) {
	mem := store.NewMemory()
	svc, _ := newService(t, mem, &embed.Static{})

	_, err := svc.Ingest(context.Background(), strings.NewReader(fragmentDoc), "cli")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnavailable, dErrors.CodeOf(err))

	fragments, err := mem.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fragments)
}

func TestIngest_RejectsMalformedAndEmptyDocuments(t *testing.T) {
	svc, _ := newService(t, store.NewMemory(), &embed.Static{})

	_, err := svc.Ingest(context.Background(), strings.NewReader("{no es json"), "cli")
	assert.Equal(t, dErrors.CodeInvalidInput, dErrors.CodeOf(err))

	_, err = svc.Ingest(context.Background(), strings.NewReader(`[{"title": "x", "content": ""}]`), "cli")
	assert.Equal(t, dErrors.CodeInvalidInput, dErrors.CodeOf(err))
}
