package mock

import (
	"context"
	"strings"

	"github.com/orbitalgrid/helpgraph/ai"
)

// MockEntityTagger is a test double for ai.EntityTagger.
// It allows custom behavior injection via function fields.
type MockEntityTagger struct {
	// TagFunc is called by Tag if set.
	// If nil, uses default simple token annotation.
	TagFunc func(ctx context.Context, text string) (*ai.Tagging, error)

	callCount int
}

// Common function words the default tagger marks as stop words.
var mockStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "i": true, "how": true, "what": true,
}

// NewMockEntityTagger creates a mock tagger with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockTagger().
func NewMockEntityTagger() *MockEntityTagger {
	return &MockEntityTagger{}
}

// Tag annotates text with simple deterministic heuristics.
// Default behavior: every word becomes a NOUN token with a lowercase lemma,
// stop words marked from a fixed list; no entities and no noun chunks are
// produced. Tests inject TagFunc for richer behavior.
func (m *MockEntityTagger) Tag(ctx context.Context, text string) (*ai.Tagging, error) {
	m.callCount++

	if m.TagFunc != nil {
		return m.TagFunc(ctx, text)
	}

	words := strings.Fields(text)
	tokens := make([]ai.Token, 0, len(words))
	for _, word := range words {
		cleaned := strings.Trim(word, ".,!?;:\"'()[]{}")
		if cleaned == "" {
			continue
		}
		lemma := strings.ToLower(cleaned)
		tokens = append(tokens, ai.Token{
			Text:   cleaned,
			Lemma:  lemma,
			POS:    ai.POSNoun,
			IsStop: mockStopWords[lemma],
		})
	}

	return &ai.Tagging{Tokens: tokens}, nil
}

// CallCount returns the number of times Tag was called.
func (m *MockEntityTagger) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockEntityTagger) Reset() {
	m.callCount = 0
	m.TagFunc = nil
}
