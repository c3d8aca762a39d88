package chat

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellarte/internal/knowledge"
	"sellarte/internal/knowledge/embed"
	"sellarte/internal/knowledge/retriever"
	"sellarte/internal/knowledge/store"
	"sellarte/internal/platform/logger"
	id "sellarte/pkg/domain"
	dErrors "sellarte/pkg/domain-errors"
	"sellarte/pkg/testutil"
)

// echoCompleter returns a canned answer and records the prompts it saw.
type echoCompleter struct {
	answer string
	system string
	user   string
	err    error
}

func (c *echoCompleter) Complete(_ context.Context, system, user string) (string, error) {
	c.system, c.user = system, user
	if c.err != nil {
		return "", c.err
	}
	return c.answer, nil
}

func newChatService(t *testing.T, completer Completer) *Service {
	t.Helper()

	mem := store.NewMemory()
	require.NoError(t, mem.Upsert(context.Background(), knowledge.Fragment{
		ID:        id.NewFragmentID(),
		Title:     "Colores de tinta",
		Content:   "Manejamos tinta negra, azul, roja y verde.",
		Embedding: []float32{1, 0},
		CreatedAt: time.Now(),
	}))

	provider := &embed.Static{Vectors: map[string][]float32{
		"qué colores de tinta tienen": {1, 0},
	}}
	r, err := retriever.New(mem, provider, retriever.WithLogger(logger.Silent()))
	require.NoError(t, err)

	svc, err := New(r, completer, WithLogger(logger.Silent()), WithRetrieval(0.3, 4))
	require.NoError(t, err)
	return svc
}

func TestRespond_GroundedAnswer(t *testing.T) {
	completer := &echoCompleter{answer: "Tenemos tinta negra, azul, roja y verde."}
	svc := newChatService(t, completer)

	reply, err := svc.Respond(context.Background(), "qué colores de tinta tienen")
	require.NoError(t, err)
	assert.True(t, reply.Grounded)
	assert.Equal(t, "Tenemos tinta negra, azul, roja y verde.", reply.Message)
	assert.Len(t, reply.Sources, 1)
	assert.Contains(t, completer.system, "Manejamos tinta negra")
	assert.Equal(t, "qué colores de tinta tienen", completer.user)
}

func TestRespond_FallbackWhenNothingRetrieved(t *testing.T) {
	completer := &echoCompleter{answer: "no debería llamarse"}
	svc := newChatService(t, completer)

	reply, err := svc.Respond(context.Background(), "horóscopo de hoy")
	require.NoError(t, err)
	assert.False(t, reply.Grounded)
	assert.Equal(t, FallbackReply, reply.Message)
	assert.Empty(t, completer.user)
}

func TestRespond_EmptyMessage(t *testing.T) {
	svc := newChatService(t, &echoCompleter{})

	_, err := svc.Respond(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeInvalidInput, dErrors.CodeOf(err))
}

func TestRespond_CompleterFailureSurfaces(t *testing.T) {
	completer := &echoCompleter{err: dErrors.New(dErrors.CodeUnavailable, "provider down")}
	svc := newChatService(t, completer)

	_, err := svc.Respond(context.Background(), "qué colores de tinta tienen")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnavailable, dErrors.CodeOf(err))
}

func TestHandler_Chat(t *testing.T) {
	svc := newChatService(t, &echoCompleter{answer: "Claro, tenemos cuatro colores."})
	h := NewHandler(svc, logger.Silent())

	r := chi.NewRouter()
	h.Register(r)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/chat", map[string]string{
		"message": "qué colores de tinta tienen",
	})
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)")
	rec := testutil.DoRequest(r, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	reply := testutil.DecodeResponse[Reply](t, rec)
	assert.True(t, reply.Grounded)
	assert.Equal(t, "Claro, tenemos cuatro colores.", reply.Message)
}

func TestHandler_RejectsBadBody(t *testing.T) {
	svc := newChatService(t, &echoCompleter{})
	h := NewHandler(svc, logger.Silent())

	r := chi.NewRouter()
	h.Register(r)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/chat", nil)
	req.Body = http.NoBody
	rec := testutil.DoRequest(r, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = testutil.NewJSONRequest(t, http.MethodPost, "/chat", map[string]string{"message": ""})
	rec = testutil.DoRequest(r, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
