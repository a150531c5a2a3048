package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/orbitalgrid/helpgraph/ai"
	"github.com/orbitalgrid/helpgraph/core"
	"github.com/orbitalgrid/helpgraph/graph"
)

// BatchProcessor handles embedding generation for batches of graph nodes.
type BatchProcessor struct {
	graph          *graph.ContentGraph
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(g *graph.ContentGraph, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		graph:          g,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process generates embeddings for a batch of nodes and writes them
// back to the graph. Vectors are normalized after embedding so they
// stay compatible with cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, nodes []*core.GraphNode) error {
	if len(nodes) == 0 {
		return nil
	}

	texts := make([]string, len(nodes))
	for i, node := range nodes {
		texts[i] = embedText(node)
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(nodes) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(nodes), len(embeddings))
	}

	updates := make(map[core.ID][]float32, len(nodes))
	for i, node := range nodes {
		updates[node.ID] = NormalizeVector(embeddings[i])
	}

	if err := bp.graph.SetEmbeddings(updates); err != nil {
		return fmt.Errorf("failed to update embeddings: %w", err)
	}
	return nil
}
