package query

import (
	"strings"

	"github.com/orbitalgrid/helpgraph/ai"
)

// extractKeywords collects search keywords from a normalized query.
//
// Without tagger output it takes tokens longer than 3 characters
// verbatim. With tagger output it takes lowercased lemmas of nouns,
// verbs and adjectives that are not stopwords and longer than 2
// characters, plus the lowercased text of every tagged entity.
func extractKeywords(processed string, tagging *ai.Tagging) []string {
	if tagging == nil {
		var keywords []string
		for _, word := range strings.Fields(processed) {
			if len(word) > 3 {
				keywords = append(keywords, word)
			}
		}
		return keywords
	}

	var keywords []string
	for _, token := range tagging.Tokens {
		if token.IsStop || len(token.Text) <= 2 {
			continue
		}
		switch token.POS {
		case ai.POSNoun, ai.POSVerb, ai.POSAdjective:
			keywords = append(keywords, strings.ToLower(token.Lemma))
		}
	}
	for _, span := range tagging.Entities {
		keywords = append(keywords, strings.ToLower(span.Text))
	}

	return dedupe(keywords)
}
