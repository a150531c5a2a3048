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


package ingest

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/orbitalgrid/helpgraph/core"
	"github.com/orbitalgrid/helpgraph/graph"
	"github.com/panjf2000/ants/v2"
)

// Pipeline feeds scraped content records into the graph. Records fan
// out over a worker pool so embedding calls for independent records
// overlap; the graph's own write lock keeps each insert atomic.
//
// Re-scraped URLs are deduplicated by content fingerprint: a record
// whose URL was already ingested through this pipeline is skipped.
type Pipeline struct {
	graph  *graph.ContentGraph
	pool   *ants.Pool
	logger *slog.Logger

	mu   sync.Mutex
	seen map[core.ID]bool // URL fingerprints of ingested records
}

// Report summarizes one ingestion run.
type Report struct {
	Added      int
	Duplicates int
	Failed     int
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "ingest")
		return nil
	}
}

// NewPipeline creates an ingestion pipeline over the given graph.
func NewPipeline(g *graph.ContentGraph, opts ...Option) (*Pipeline, error) {
	if g == nil {
		return nil, ErrGraphRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		graph:  g,
		pool:   pool,
		logger: slog.Default().With("component", "ingest"),
		seen:   make(map[core.ID]bool),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.Release()
			return nil, err
		}
	}

	return p, nil
}

// Ingest adds the records to the graph and waits for completion.
// Individual record failures are logged and counted, never fatal to
// the batch.
func (p *Pipeline) Ingest(ctx context.Context, records []*core.ContentRecord) *Report {
	report := &Report{}
	var reportMu sync.Mutex
	var wg sync.WaitGroup

	for _, record := range records {
		record := record

		if record == nil {
			report.Failed++
			continue
		}
		if p.markSeen(record) {
			report.Duplicates++
			continue
		}

		wg.Add(1)
		task := func() {
			defer wg.Done()

			_, err := p.graph.AddContent(ctx, record)

			reportMu.Lock()
			defer reportMu.Unlock()
			if err != nil {
				report.Failed++
				p.logger.Warn("skipping record", "url", record.URL, "err", err)
				return
			}
			report.Added++
		}
		if err := p.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	p.logger.Info("ingestion finished",
		"added", report.Added, "duplicates", report.Duplicates, "failed", report.Failed)
	return report
}

// markSeen records the URL fingerprint and reports whether it was
// already present. Records without a URL are never marked; validation
// rejects them later.
func (p *Pipeline) markSeen(record *core.ContentRecord) bool {
	if record.URL == "" {
		return false
	}
	fingerprint := record.Fingerprint()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seen[fingerprint] {
		return true
	}
	p.seen[fingerprint] = true
	return false
}

// Release frees the worker pool. The pipeline must not be used after.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
