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


package search

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/orbitalgrid/helpgraph/ai"
	"github.com/orbitalgrid/helpgraph/core"
	"github.com/orbitalgrid/helpgraph/graph"
	"github.com/panjf2000/ants/v2"
)

const (
	// DefaultThreshold is the minimum cosine similarity for a semantic hit.
	DefaultThreshold = 0.30

	// DefaultLimit is the result cap applied when the caller passes limit <= 0.
	DefaultLimit = 5

	// Lexical fallback scoring: a title substring match outweighs a body
	// match, and the sum is normalized to roughly the [0,1] range.
	lexicalTitleWeight = 2.0
	lexicalTextWeight  = 1.0
	lexicalNorm        = 3.0
)

// Engine ranks graph nodes against free-text queries.
//
// The primary path embeds the query and scores every embedded node by
// cosine similarity, sharded across a worker pool. When no embedder is
// configured, or the embedding call fails, the engine degrades to
// lexical substring scoring over node titles and text content so
// search never goes dark with the model offline.
type Engine struct {
	graph     *graph.ContentGraph
	embedder  ai.Embedder // nil forces the lexical path
	threshold float64
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithThreshold overrides the minimum cosine similarity for semantic hits.
func WithThreshold(threshold float64) Option {
	return func(e *Engine) error {
		if threshold < 0 || threshold > 1 {
			return ErrInvalidThreshold
		}
		e.threshold = threshold
		return nil
	}
}

// WithWorkers sets the worker pool size used to shard similarity scans.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithWorkers(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = 1
		}
		if e.pool != nil {
			e.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		e.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "search")
		return nil
	}
}

// NewEngine creates a search engine over the given graph. The embedder
// may be nil, in which case every search takes the lexical path.
func NewEngine(g *graph.ContentGraph, embedder ai.Embedder, opts ...Option) (*Engine, error) {
	if g == nil {
		return nil, ErrGraphRequired
	}

	poolSize := runtime.NumCPU()
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		graph:     g,
		embedder:  embedder,
		threshold: DefaultThreshold,
		pool:      pool,
		logger:    slog.Default().With("component", "search"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			e.Release()
			return nil, err
		}
	}

	return e, nil
}

// Release frees the worker pool. The engine must not be used after.
func (e *Engine) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// Search returns up to limit nodes ranked by relevance to the query.
// A limit <= 0 uses DefaultLimit.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]core.SearchResult, error) {
	return e.SearchWithMonitor(ctx, query, limit, nil)
}

// SearchWithMonitor is Search with per-stage observation hooks.
func (e *Engine) SearchWithMonitor(ctx context.Context, query string, limit int, monitor Monitor) ([]core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	monitor.Start(query)

	nodes := e.graph.Nodes()
	var results []core.SearchResult

	if e.embedder == nil {
		monitor.LexicalFallback(nil)
		results = e.lexicalScan(nodes, query)
	} else {
		queryEmbedding, err := e.embedder.EmbedText(ctx, query)
		if err != nil {
			e.logger.Warn("query embedding failed, using lexical fallback",
				"query", query, "err", err)
			monitor.LexicalFallback(err)
			results = e.lexicalScan(nodes, query)
		} else {
			results = e.semanticScan(nodes, queryEmbedding)
			monitor.AfterSemanticScan(results)
		}
	}

	// Rank by score; ties resolve to the earlier-inserted node.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].NodeID < results[j].NodeID
	})
	if len(results) > limit {
		results = results[:limit]
	}

	monitor.Finish(results)
	return results, nil
}

// semanticScan scores every embedded node against the query vector,
// sharding the node slice across the worker pool. Nodes without an
// embedding never score on this path.
func (e *Engine) semanticScan(nodes []*core.GraphNode, queryEmbedding []float32) []core.SearchResult {
	shards := e.pool.Cap()
	if shards > len(nodes) {
		shards = len(nodes)
	}
	if shards < 1 {
		return nil
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []core.SearchResult
	)

	chunk := (len(nodes) + shards - 1) / shards
	for start := 0; start < len(nodes); start += chunk {
		end := start + chunk
		if end > len(nodes) {
			end = len(nodes)
		}
		shard := nodes[start:end]

		wg.Add(1)
		task := func() {
			defer wg.Done()

			var local []core.SearchResult
			for _, node := range shard {
				if node.Embedding == nil {
					continue
				}
				similarity := CosineSimilarity(queryEmbedding, node.Embedding)
				if similarity > e.threshold {
					local = append(local, core.SearchResult{
						NodeID: node.ID,
						Score:  similarity,
						Node:   node,
					})
				}
			}

			if len(local) > 0 {
				mu.Lock()
				results = append(results, local...)
				mu.Unlock()
			}
		}
		if err := e.pool.Submit(task); err != nil {
			// Pool saturated or released: score the shard inline.
			task()
		}
	}
	wg.Wait()

	return results
}

// lexicalScan scores nodes by substring presence of the query in their
// title and text content.
func (e *Engine) lexicalScan(nodes []*core.GraphNode, query string) []core.SearchResult {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	var results []core.SearchResult
	for _, node := range nodes {
		var score float64
		if strings.Contains(strings.ToLower(node.Attr(core.AttrTitle)), needle) {
			score += lexicalTitleWeight
		}
		if strings.Contains(strings.ToLower(node.Attr(core.AttrTextContent)), needle) {
			score += lexicalTextWeight
		}
		score /= lexicalNorm
		if score > 0 {
			results = append(results, core.SearchResult{
				NodeID: node.ID,
				Score:  score,
				Node:   node,
			})
		}
	}
	return results
}
