package embed

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"math"
	"time"

	platformredis "sellarte/internal/platform/redis"
)

const cacheTTL = 24 * time.Hour

// Cache fronts a provider with Redis. Query texts repeat constantly in a
// storefront chat, so a hit saves a full provider round trip. A nil client
// degrades to pass-through, and cache errors never fail the lookup.
type Cache struct {
	next   Provider
	client *platformredis.Client
	model  string
	logger *slog.Logger
}

func NewCache(next Provider, client *platformredis.Client, model string, logger *slog.Logger) *Cache {
	return &Cache{next: next, client: client, model: model, logger: logger}
}

func (c *Cache) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.client == nil {
		return c.next.Embed(ctx, text)
	}

	key := c.key(text)
	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		if vector := decodeVector(raw); vector != nil {
			return vector, nil
		}
	}

	vector, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.client.Set(ctx, key, encodeVector(vector), cacheTTL).Err(); err != nil {
		c.logger.WarnContext(ctx, "embedding cache write failed", "error", err)
	}
	return vector, nil
}

func (c *Cache) key(text string) string {
	sum := sha256.Sum256([]byte(c.model + "\x00" + text))
	return "sellarte:embed:" + hex.EncodeToString(sum[:])
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) []float32 {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
