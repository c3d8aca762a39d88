package retriever

import (
	"context"
	"strings"

	"sellarte/internal/knowledge"
	dErrors "sellarte/pkg/domain-errors"
)

// spanishStopWords covers the function words a storefront query is padded
// with. Tokens of length <= 2 are dropped before this check, so the short
// articles and prepositions never get here.
var spanishStopWords = map[string]struct{}{
	"que": {}, "qué": {}, "como": {}, "cómo": {}, "cuál": {}, "cuáles": {},
	"cuando": {}, "cuándo": {}, "donde": {}, "dónde": {}, "quien": {}, "quién": {},
	"para": {}, "por": {}, "con": {}, "sin": {}, "los": {}, "las": {}, "del": {},
	"una": {}, "uno": {}, "unos": {}, "unas": {}, "este": {}, "esta": {},
	"estos": {}, "estas": {}, "ese": {}, "esa": {}, "esos": {}, "esas": {},
	"tiene": {}, "tienen": {}, "hay": {}, "son": {}, "está": {}, "están": {},
	"ser": {}, "estar": {}, "pero": {}, "más": {}, "muy": {}, "también": {},
	"desde": {}, "hasta": {}, "sobre": {}, "entre": {}, "sus": {}, "les": {},
	"nos": {}, "ustedes": {}, "usted": {}, "quiero": {}, "quisiera": {},
	"puede": {}, "pueden": {}, "puedo": {}, "hacer": {}, "tengo": {}, "saber": {},
}

// KeywordSearch is the fallback and diagnostic path: no scores, OR semantics
// across keywords, matches returned in corpus insertion order.
func (r *Retriever) KeywordSearch(ctx context.Context, query string, maxResults int) ([]knowledge.Match, error) {
	if maxResults <= 0 {
		return nil, nil
	}

	keywords := extractKeywords(query)
	if len(keywords) == 0 {
		return nil, nil
	}

	fragments, err := r.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load knowledge corpus")
	}

	var matches []knowledge.Match
	for _, fragment := range fragments {
		text := strings.ToLower(fragment.Title + " " + fragment.Content)
		for _, keyword := range keywords {
			if strings.Contains(text, keyword) {
				matches = append(matches, knowledge.Match{Fragment: fragment})
				break
			}
		}
		if len(matches) == maxResults {
			break
		}
	}
	return matches, nil
}

// extractKeywords lowercases the query, splits on whitespace, strips trailing
// punctuation, and drops short tokens and stop words.
func extractKeywords(query string) []string {
	var keywords []string
	for _, token := range strings.Fields(strings.ToLower(query)) {
		token = strings.TrimRight(token, ".,;:!?¿¡\"'()")
		if len([]rune(token)) <= 2 {
			continue
		}
		if _, stop := spanishStopWords[token]; stop {
			continue
		}
		keywords = append(keywords, token)
	}
	return keywords
}
