package retriever

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	pathEmbedding = "embedding"
	pathKeyword   = "keyword"
	pathNone      = "none"
)

var (
	retrievalTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sellarte_knowledge_retrievals_total",
		Help: "Retrievals by the path that produced the result.",
	}, []string{"path"})

	embeddingFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sellarte_knowledge_embedding_failures_total",
		Help: "Embedding provider failures that forced the keyword fallback.",
	})
)
