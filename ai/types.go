package ai

// Span labels produced by taggers. The set mirrors the labels the
// classifier knows how to map onto entity kinds.
const (
	LabelGeoPolitical = "GPE"
	LabelOrganization = "ORG"
	LabelProduct      = "PRODUCT"
)

// Part-of-speech tags used in token annotations.
const (
	POSNoun      = "NOUN"
	POSVerb      = "VERB"
	POSAdjective = "ADJ"
)

// TaggedSpan is a named entity found in text.
type TaggedSpan struct {
	// Label is the entity label, one of the Label* constants.
	Label string

	// Text is the exact span text as it appeared in the input.
	Text string
}

// Token is a single annotated token of the input text.
type Token struct {
	// Text is the surface form of the token.
	Text string

	// Lemma is the dictionary form of the token, lowercased.
	Lemma string

	// POS is the coarse part-of-speech tag, one of the POS* constants
	// for the classes the classifier cares about.
	POS string

	// IsStop marks common function words.
	IsStop bool
}

// Tagging is the full analysis of one text.
type Tagging struct {
	// Entities are the named entities found in the text.
	Entities []TaggedSpan

	// NounChunks are the noun phrases of the text, in order of occurrence.
	NounChunks []string

	// Tokens are the per-token annotations, in order of occurrence.
	Tokens []Token
}
