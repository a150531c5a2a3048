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

// Package helpgraph assembles a knowledge-graph help bot for scraped
// portal content: ingestion builds a content graph, queries are
// classified by intent, and answers are assembled from graph search
// results.
package helpgraph

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/orbitalgrid/helpgraph/ai"
	"github.com/orbitalgrid/helpgraph/ai/openai"
	"github.com/orbitalgrid/helpgraph/core"
	"github.com/orbitalgrid/helpgraph/graph"
	"github.com/orbitalgrid/helpgraph/ingest"
	"github.com/orbitalgrid/helpgraph/query"
	"github.com/orbitalgrid/helpgraph/reembed"
	"github.com/orbitalgrid/helpgraph/respond"
	"github.com/orbitalgrid/helpgraph/search"
	"github.com/orbitalgrid/helpgraph/storage"
	badgerstore "github.com/orbitalgrid/helpgraph/storage/badger"
)

var (
	// ErrNoPersistence is returned by snapshot operations when the bot
	// was created without a data directory.
	ErrNoPersistence = errors.New("no data directory configured")

	// ErrNoEmbedder is returned by Reembed when the bot runs without an
	// AI provider.
	ErrNoEmbedder = errors.New("no embedding provider configured")
)

// ConversationEntry is one question/answer exchange in the history.
type ConversationEntry struct {
	Timestamp      time.Time
	Query          string
	Response       *respond.Response
	ProcessingTime time.Duration
}

// QueryStats summarizes the conversation history.
type QueryStats struct {
	TotalQueries          int
	SuccessfulQueries     int
	SuccessRate           float64
	IntentDistribution    map[string]int
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
}

// SystemStatus reports component health and graph size.
type SystemStatus struct {
	Status            string
	Components        map[string]string
	Graph             core.GraphStats
	ConversationCount int
	LastUpdated       time.Time
}

// Bot wires together the content graph, search engine, query
// classifier, response builder and ingestion pipeline behind one
// facade.
type Bot struct {
	graph      *graph.ContentGraph
	engine     *search.Engine
	classifier *query.Classifier
	responder  *respond.Responder
	pipeline   *ingest.Pipeline
	provider   ai.Provider                // nil in offline mode
	snapshots  storage.SnapshotRepository // nil without a data directory
	logger     *slog.Logger

	mu      sync.Mutex
	history []ConversationEntry
}

// BotOption configures a Bot.
type BotOption func(*botOptions)

type botOptions struct {
	aiConfig *ai.Config
	offline  bool
	dataDir  string
}

// WithAIConfig sets the AI provider configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) BotOption {
	return func(o *botOptions) {
		o.aiConfig = config
	}
}

// WithoutAI runs the bot without an AI provider. Search falls back to
// lexical scoring and classification to regex-only entity extraction.
func WithoutAI() BotOption {
	return func(o *botOptions) {
		o.offline = true
	}
}

// WithDataDir enables graph snapshot persistence under the given
// directory.
func WithDataDir(path string) BotOption {
	return func(o *botOptions) {
		o.dataDir = path
	}
}

// New creates a Bot.
func New(opts ...BotOption) (*Bot, error) {
	options := &botOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	var provider ai.Provider
	var embedder ai.Embedder
	var tagger ai.EntityTagger
	if !options.offline {
		var err error
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
		embedder = provider.Embedder()
		tagger = provider.EntityTagger()
	}

	bot, err := assemble(embedder, tagger, options.dataDir)
	if err != nil {
		if provider != nil {
			provider.Close()
		}
		return nil, err
	}
	bot.provider = provider
	return bot, nil
}

// NewWithServices creates a Bot over explicit embedding and tagging
// services, typically mocks in tests. Either may be nil. Only the
// WithDataDir option applies.
func NewWithServices(embedder ai.Embedder, tagger ai.EntityTagger, opts ...BotOption) (*Bot, error) {
	options := &botOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return assemble(embedder, tagger, options.dataDir)
}

func assemble(embedder ai.Embedder, tagger ai.EntityTagger, dataDir string) (*Bot, error) {
	var graphOpts []graph.Option
	if embedder != nil {
		graphOpts = append(graphOpts, graph.WithEmbedder(embedder))
	}
	g, err := graph.New(graphOpts...)
	if err != nil {
		return nil, err
	}

	engine, err := search.NewEngine(g, embedder)
	if err != nil {
		return nil, err
	}

	var classifierOpts []query.Option
	if tagger != nil {
		classifierOpts = append(classifierOpts, query.WithTagger(tagger))
	}
	classifier, err := query.NewClassifier(classifierOpts...)
	if err != nil {
		engine.Release()
		return nil, err
	}

	responder, err := respond.NewResponder(g, engine)
	if err != nil {
		engine.Release()
		return nil, err
	}

	pipeline, err := ingest.NewPipeline(g)
	if err != nil {
		engine.Release()
		return nil, err
	}

	var snapshots storage.SnapshotRepository
	if dataDir != "" {
		backend, err := badgerstore.OpenBackend(dataDir, false)
		if err != nil {
			pipeline.Release()
			engine.Release()
			return nil, err
		}
		snapshots, err = badgerstore.NewSnapshotStore(backend)
		if err != nil {
			backend.Close()
			pipeline.Release()
			engine.Release()
			return nil, err
		}
	}

	return &Bot{
		graph:      g,
		engine:     engine,
		classifier: classifier,
		responder:  responder,
		pipeline:   pipeline,
		snapshots:  snapshots,
		logger:     slog.Default().With("component", "bot"),
	}, nil
}

// Ask classifies a query, builds the intent-specific response and
// records the exchange in the conversation history.
func (b *Bot) Ask(ctx context.Context, queryText string) *respond.Response {
	start := time.Now()

	analysis := b.classifier.Classify(ctx, queryText)
	response := b.responder.Respond(ctx, analysis)

	b.mu.Lock()
	b.history = append(b.history, ConversationEntry{
		Timestamp:      start,
		Query:          queryText,
		Response:       response,
		ProcessingTime: time.Since(start),
	})
	b.mu.Unlock()

	return response
}

// Classify runs intent classification without building a response.
func (b *Bot) Classify(ctx context.Context, queryText string) core.QueryAnalysis {
	return b.classifier.Classify(ctx, queryText)
}

// Search queries the graph directly, bypassing classification.
func (b *Bot) Search(ctx context.Context, queryText string, limit int) ([]core.SearchResult, error) {
	return b.engine.Search(ctx, queryText, limit)
}

// Ingest adds content records to the graph.
func (b *Bot) Ingest(ctx context.Context, records []*core.ContentRecord) *ingest.Report {
	return b.pipeline.Ingest(ctx, records)
}

// IngestFile loads content records from a JSON file and ingests them.
func (b *Bot) IngestFile(ctx context.Context, path string) (*ingest.Report, error) {
	return b.pipeline.IngestFile(ctx, path)
}

// Stats returns graph node and edge counts with per-kind histograms.
func (b *Bot) Stats() core.GraphStats {
	return b.graph.Stats()
}

// Export serializes the graph in the given format (json, gml, graphml).
func (b *Bot) Export(format string) ([]byte, error) {
	return b.graph.Export(format)
}

// ImportJSON replaces the graph contents with a previously exported
// JSON document.
func (b *Bot) ImportJSON(data []byte) error {
	return b.graph.ImportJSON(data)
}

// Clear removes all graph contents. The stored snapshot, if any, is
// untouched until the next Save.
func (b *Bot) Clear() {
	b.graph.Clear()
}

// Save writes the current graph state to the snapshot store.
func (b *Bot) Save(ctx context.Context) error {
	if b.snapshots == nil {
		return ErrNoPersistence
	}
	return b.snapshots.SaveSnapshot(ctx, b.graph.Nodes(), b.graph.Edges())
}

// Load replaces the graph contents with the stored snapshot.
func (b *Bot) Load(ctx context.Context) error {
	if b.snapshots == nil {
		return ErrNoPersistence
	}
	nodes, edges, err := b.snapshots.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	return b.graph.Restore(nodes, edges)
}

// Reembed recomputes all node embeddings with the configured provider,
// reporting progress to the given writer.
func (b *Bot) Reembed(ctx context.Context, config *reembed.Config, progress io.Writer) error {
	if b.provider == nil {
		return ErrNoEmbedder
	}
	reembedder, err := reembed.NewReembedder(b.graph, b.provider.Embedder(), config, progress)
	if err != nil {
		return err
	}
	return reembedder.Run(ctx)
}

// GetHistory returns the most recent conversation entries, up to limit.
func (b *Bot) GetHistory(limit int) []ConversationEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	if limit <= 0 || limit > len(b.history) {
		limit = len(b.history)
	}
	entries := make([]ConversationEntry, limit)
	copy(entries, b.history[len(b.history)-limit:])
	return entries
}

// ClearHistory discards the conversation history.
func (b *Bot) ClearHistory() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = nil
}

// QueryStatistics analyzes the conversation history: success rate,
// intent distribution and processing times.
func (b *Bot) QueryStatistics() QueryStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := QueryStats{
		TotalQueries:       len(b.history),
		IntentDistribution: make(map[string]int),
	}
	if len(b.history) == 0 {
		return stats
	}

	for _, entry := range b.history {
		stats.TotalProcessingTime += entry.ProcessingTime
		if entry.Response != nil && entry.Response.Success {
			stats.SuccessfulQueries++
			stats.IntentDistribution[string(entry.Response.Analysis.Intent)]++
		}
	}
	stats.SuccessRate = float64(stats.SuccessfulQueries) / float64(stats.TotalQueries)
	stats.AverageProcessingTime = stats.TotalProcessingTime / time.Duration(len(b.history))
	return stats
}

// SystemStatus reports component health and graph statistics.
func (b *Bot) SystemStatus() SystemStatus {
	components := map[string]string{
		"graph":      "active",
		"search":     "active",
		"classifier": "active",
		"responder":  "active",
	}
	if b.provider != nil {
		components["ai_provider"] = "active"
	} else {
		components["ai_provider"] = "inactive"
	}
	if b.snapshots != nil {
		components["snapshots"] = "active"
	} else {
		components["snapshots"] = "inactive"
	}

	b.mu.Lock()
	conversationCount := len(b.history)
	b.mu.Unlock()

	return SystemStatus{
		Status:            "healthy",
		Components:        components,
		Graph:             b.graph.Stats(),
		ConversationCount: conversationCount,
		LastUpdated:       time.Now().UTC(),
	}
}

// Close releases the worker pools, the AI provider and the snapshot
// store.
func (b *Bot) Close() error {
	b.pipeline.Release()
	b.engine.Release()

	if b.provider != nil {
		if err := b.provider.Close(); err != nil {
			b.logger.Error("error closing AI provider", "err", err)
		}
	}
	if b.snapshots != nil {
		if err := b.snapshots.Close(); err != nil {
			b.logger.Error("error closing snapshot store", "err", err)
			return err
		}
	}
	return nil
}
