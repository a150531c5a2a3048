// Copyright 2026 Orbital Grid
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/orbitalgrid/helpgraph/ai"
	"github.com/orbitalgrid/helpgraph/core"
	"github.com/orbitalgrid/helpgraph/graph"
)

// Config holds configuration for a reembedding run.
type Config struct {
	// BatchSize is the number of nodes to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of nodes)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for embedding calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder orchestrates reembedding of all embeddable nodes in a graph.
type Reembedder struct {
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *NodeIterator
}

// NewReembedder creates a reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(g *graph.ContentGraph, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if g == nil {
		return nil, ErrGraphRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(g, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewNodeIterator(g, config.BatchSize),
	}, nil
}

// Run reembeds every embeddable node in the graph, reporting progress
// to the configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	total := len(r.iterator.EmbeddableNodes())
	if total == 0 {
		fmt.Fprintf(r.progress, "No embeddable nodes in graph (0 nodes)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d nodes (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err := r.iterator.ForEach(ctx, func(nodes []*core.GraphNode) error {
		if err := r.processor.Process(ctx, nodes); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(nodes)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d nodes in %v (%.1f nodes/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
