package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// EntityTagger produces labeled spans and token annotations for a text.
// Implementations must be thread-safe for concurrent use.
type EntityTagger interface {
	// Tag analyzes text and returns named entities, noun chunks and
	// per-token annotations. Returns an empty Tagging (not nil) when the
	// text contains nothing of interest.
	// Returns an error if tagging fails.
	Tag(ctx context.Context, text string) (*Tagging, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and EntityTagger instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// EntityTagger returns the entity tagging service.
	// The returned EntityTagger is safe for concurrent use.
	EntityTagger() EntityTagger

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
