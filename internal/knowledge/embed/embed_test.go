package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellarte/internal/platform/config"
	"sellarte/internal/platform/logger"
	dErrors "sellarte/pkg/domain-errors"
	"sellarte/pkg/platform/circuit"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *HTTPProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewHTTPProvider(config.EmbeddingConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "text-embedding-3-small",
	})
}

func TestHTTPProvider_Embed(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"colores de tinta"}, req.Input)
		assert.Equal(t, "text-embedding-3-small", req.Model)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{0.1, 0.2, 0.3}, "index": 0}},
		})
	})

	vector, err := provider.Embed(context.Background(), "colores de tinta")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
}

func TestHTTPProvider_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{0.5}, "index": 0}},
		})
	})

	vector, err := provider.Embed(context.Background(), "envíos")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5}, vector)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPProvider_ClientErrorDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"message": "bad input"}})
	})

	_, err := provider.Embed(context.Background(), "envíos")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnavailable, dErrors.CodeOf(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPProvider_MissingKeyFailsClosed(t *testing.T) {
	provider := NewHTTPProvider(config.EmbeddingConfig{BaseURL: "http://localhost:0"})

	_, err := provider.Embed(context.Background(), "hola")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnavailable, dErrors.CodeOf(err))
}

func TestBreaker_OpensAfterFailuresAndFailsFast(t *testing.T) {
	static := &Static{Vectors: map[string][]float32{}}
	wrapped := NewBreaker(static, circuit.New("embedding", circuit.WithFailureThreshold(2)), logger.Silent())

	ctx := context.Background()
	_, err := wrapped.Embed(ctx, "unknown")
	require.Error(t, err)
	_, err = wrapped.Embed(ctx, "unknown")
	require.Error(t, err)

	// Open. The next call is the one allowed probe; it fails and consumes
	// the probe window.
	_, err = wrapped.Embed(ctx, "unknown")
	require.Error(t, err)

	// The provider would now succeed, but no probe is available yet.
	static.Vectors["hola"] = []float32{1}
	_, err = wrapped.Embed(ctx, "hola")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnavailable, dErrors.CodeOf(err))
}
