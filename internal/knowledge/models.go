// Package knowledge holds the fragment corpus that grounds chat responses.
// Fragments carry a precomputed embedding; retrieval ranks them by cosine
// similarity with a keyword fallback for when embeddings are unavailable.
package knowledge

import (
	"time"

	id "sellarte/pkg/domain"
)

// Fragment is one short knowledge passage with its embedding vector.
type Fragment struct {
	ID        id.FragmentID `json:"id"`
	Title     string        `json:"title,omitempty"`
	Content   string        `json:"content"`
	Embedding []float32     `json:"embedding,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// Match is a fragment paired with its similarity score. Keyword-path matches
// carry no score; Scored reports which path produced the match.
type Match struct {
	Fragment Fragment `json:"fragment"`
	Score    float64  `json:"score"`
	Scored   bool     `json:"scored"`
}
