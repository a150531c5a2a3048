package graph

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/orbitalgrid/helpgraph/ai"
	"github.com/orbitalgrid/helpgraph/core"
)

// ContentGraph owns the knowledge graph built from ingested content.
//
// All nodes and edges are created through AddContent (or Restore) and
// removed only by Clear. Node attributes are immutable once inserted,
// so readers may hold node pointers across calls; only embeddings can
// be replaced, through SetEmbeddings. A single write lock is held for
// the whole of one ingestion, which makes each AddContent call atomic
// to concurrent readers.
type ContentGraph struct {
	mu       sync.RWMutex
	nodes    map[core.ID]*core.GraphNode
	order    []core.ID // node IDs in insertion order
	edges    []core.GraphEdge
	outgoing map[core.ID][]int // edge indices by source node

	nextID   core.ID
	embedder ai.Embedder // nil when no embedding provider is configured
	logger   *slog.Logger
}

// Neighbor is one entry of a Related result.
type Neighbor struct {
	NodeID   core.ID
	Relation core.Relation
	Node     *core.GraphNode
}

// Option configures a ContentGraph.
type Option func(*ContentGraph) error

// WithEmbedder sets the embedding provider used to embed derived
// question and answer nodes. Without one, nodes carry no embedding and
// search falls back to lexical scoring.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(g *ContentGraph) error {
		g.embedder = embedder
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *ContentGraph) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger.With("component", "graph")
		return nil
	}
}

// New creates an empty content graph.
func New(opts ...Option) (*ContentGraph, error) {
	g := &ContentGraph{
		nodes:    make(map[core.ID]*core.GraphNode),
		outgoing: make(map[core.ID][]int),
		nextID:   1,
		logger:   slog.Default().With("component", "graph"),
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// pendingNode is a sub-node prepared during derivation, before the
// write lock is taken.
type pendingNode struct {
	kind      core.NodeKind
	attrs     map[string]string
	embedText string // "" when the node gets no embedding
	embedding []float32
	relation  core.Relation
	// answer nodes hang off the preceding question instead of the content node
	fromPrevious bool
}

// AddContent creates a content node for the record, derives the
// type-specific sub-nodes and links them. Returns the content node ID.
//
// Embeddings for derived question/answer nodes are computed before the
// graph is locked, so one slow embedding call never blocks readers.
// An unavailable or failing embedder degrades to nil embeddings.
func (g *ContentGraph) AddContent(ctx context.Context, record *core.ContentRecord) (core.ID, error) {
	if err := core.ValidateContentRecord(record); err != nil {
		return 0, err
	}

	pending := g.derive(record)
	g.embedPending(ctx, pending)

	g.mu.Lock()
	defer g.mu.Unlock()

	contentID := g.insertNode(core.KindContent, contentAttributes(record), nil)

	var previousID core.ID
	for _, p := range pending {
		id := g.insertNode(p.kind, p.attrs, p.embedding)
		source := contentID
		if p.fromPrevious {
			source = previousID
		}
		g.insertEdge(source, id, p.relation)
		previousID = id
	}

	g.logger.Info("added content",
		"url", record.URL,
		"content_type", string(record.ContentType),
		"derived", len(pending))

	return contentID, nil
}

// derive builds the sub-node plan for a record based on its content type.
// Missing nested fields skip their derivation step; an unrecognized
// content type derives nothing.
func (g *ContentGraph) derive(record *core.ContentRecord) []pendingNode {
	var pending []pendingNode

	switch record.ContentType {
	case core.ContentTypeFAQ:
		if len(record.FAQs) == 0 {
			g.logger.Debug("faq record with no faq entries", "url", record.URL)
			break
		}
		for _, faq := range record.FAQs {
			pending = append(pending, pendingNode{
				kind: core.KindQuestion,
				attrs: map[string]string{
					core.AttrText:      faq.Question,
					core.AttrSourceURL: faq.SourceURL,
				},
				embedText: faq.Question,
				relation:  core.RelationContains,
			}, pendingNode{
				kind: core.KindAnswer,
				attrs: map[string]string{
					core.AttrText:      faq.Answer,
					core.AttrSourceURL: faq.SourceURL,
				},
				embedText:    faq.Answer,
				relation:     core.RelationHasAnswer,
				fromPrevious: true,
			})
		}

	case core.ContentTypeData:
		if len(record.DataInfo.Specifications) > 0 {
			data, err := json.Marshal(record.DataInfo.Specifications)
			if err == nil {
				pending = append(pending, pendingNode{
					kind:     core.KindSpecification,
					attrs:    map[string]string{core.AttrData: string(data)},
					relation: core.RelationHasSpecification,
				})
			} else {
				g.logger.Warn("skipping unencodable specifications", "url", record.URL, "err", err)
			}
		}
		for _, link := range record.DownloadLinks {
			pending = append(pending, pendingNode{
				kind: core.KindDownloadLink,
				attrs: map[string]string{
					core.AttrURL:      link.URL,
					core.AttrText:     link.Text,
					core.AttrFileType: link.FileType,
				},
				relation: core.RelationHasDownload,
			})
		}
		if len(pending) == 0 {
			g.logger.Debug("data record with no specifications or links", "url", record.URL)
		}

	case core.ContentTypeAPI:
		if record.APIInfo.Documentation != "" {
			pending = append(pending, pendingNode{
				kind:     core.KindAPIDoc,
				attrs:    map[string]string{core.AttrText: record.APIInfo.Documentation},
				relation: core.RelationHasDocumentation,
			})
		}
		if record.APIInfo.CodeExamples != "" {
			pending = append(pending, pendingNode{
				kind:     core.KindCodeExample,
				attrs:    map[string]string{core.AttrCode: record.APIInfo.CodeExamples},
				relation: core.RelationHasExample,
			})
		}
		if len(pending) == 0 {
			g.logger.Debug("api record with no documentation or examples", "url", record.URL)
		}

	default:
		g.logger.Debug("no derivation for content type",
			"url", record.URL, "content_type", string(record.ContentType))
	}

	return pending
}

// embedPending attaches embeddings to the pending nodes that want one.
// Any embedder failure leaves the embeddings nil; search then scores
// those nodes through the lexical fallback instead.
func (g *ContentGraph) embedPending(ctx context.Context, pending []pendingNode) {
	if g.embedder == nil {
		return
	}

	var texts []string
	var indices []int
	for i, p := range pending {
		if p.embedText != "" {
			texts = append(texts, p.embedText)
			indices = append(indices, i)
		}
	}
	if len(texts) == 0 {
		return
	}

	embeddings, err := g.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		g.logger.Warn("embedding generation failed, nodes stay unembedded",
			"count", len(texts), "err", err)
		return
	}
	if len(embeddings) != len(texts) {
		g.logger.Warn("embedding count mismatch, nodes stay unembedded",
			"want", len(texts), "got", len(embeddings))
		return
	}

	for i, idx := range indices {
		pending[idx].embedding = embeddings[i]
	}
}

func contentAttributes(record *core.ContentRecord) map[string]string {
	attrs := map[string]string{
		core.AttrURL:         record.URL,
		core.AttrContentType: string(record.ContentType),
		core.AttrTitle:       record.Title(),
		core.AttrTextContent: record.TextContent,
	}
	if len(record.Metadata) > 0 {
		if data, err := json.Marshal(record.Metadata); err == nil {
			attrs[core.AttrMetadata] = string(data)
		}
	}
	return attrs
}

// insertNode adds a node under the write lock and returns its ID.
func (g *ContentGraph) insertNode(kind core.NodeKind, attrs map[string]string, embedding []float32) core.ID {
	id := g.nextID
	g.nextID++

	g.nodes[id] = &core.GraphNode{
		ID:         id,
		Kind:       kind,
		Attributes: attrs,
		Embedding:  embedding,
	}
	g.order = append(g.order, id)
	return id
}

// insertEdge adds an edge under the write lock.
func (g *ContentGraph) insertEdge(source, target core.ID, relation core.Relation) {
	g.edges = append(g.edges, core.GraphEdge{Source: source, Target: target, Relation: relation})
	g.outgoing[source] = append(g.outgoing[source], len(g.edges)-1)
}

// Node returns the node with the given ID.
func (g *ContentGraph) Node(id core.ID) (*core.GraphNode, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	node, ok := g.nodes[id]
	return node, ok
}

// SetEmbeddings replaces the embeddings of the identified nodes. All
// IDs are validated before any update is applied, so a failed call
// leaves the graph unchanged.
func (g *ContentGraph) SetEmbeddings(updates map[core.ID][]float32) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for id := range updates {
		if _, ok := g.nodes[id]; !ok {
			return ErrNodeNotFound
		}
	}
	for id, embedding := range updates {
		g.nodes[id].Embedding = embedding
	}
	return nil
}

// Nodes returns all nodes in insertion order.
// The returned slice is a fresh snapshot; the nodes themselves are shared
// and must not be mutated.
func (g *ContentGraph) Nodes() []*core.GraphNode {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]*core.GraphNode, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Related returns the outgoing neighbors of a node in edge insertion
// order. An optional relation filters the edges to that relation only.
// An absent node ID yields an empty result, not an error.
func (g *ContentGraph) Related(id core.ID, relation ...core.Relation) []Neighbor {
	g.mu.RLock()
	defer g.mu.RUnlock()

	indices, ok := g.outgoing[id]
	if !ok {
		return nil
	}

	var filter core.Relation
	if len(relation) > 0 {
		filter = relation[0]
	}

	neighbors := make([]Neighbor, 0, len(indices))
	for _, idx := range indices {
		edge := g.edges[idx]
		if filter != 0 && edge.Relation != filter {
			continue
		}
		neighbors = append(neighbors, Neighbor{
			NodeID:   edge.Target,
			Relation: edge.Relation,
			Node:     g.nodes[edge.Target],
		})
	}
	return neighbors
}

// Stats returns node and edge counts with per-kind histograms.
func (g *ContentGraph) Stats() core.GraphStats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := core.GraphStats{
		TotalNodes:    len(g.nodes),
		TotalEdges:    len(g.edges),
		NodeKinds:     make(map[string]int),
		EdgeRelations: make(map[string]int),
	}
	for _, node := range g.nodes {
		stats.NodeKinds[node.Kind.String()]++
	}
	for _, edge := range g.edges {
		stats.EdgeRelations[edge.Relation.String()]++
	}
	return stats
}

// Clear removes all nodes and edges. Irreversible.
func (g *ContentGraph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes = make(map[core.ID]*core.GraphNode)
	g.order = nil
	g.edges = nil
	g.outgoing = make(map[core.ID][]int)
	g.nextID = 1

	g.logger.Info("cleared graph")
}

// Restore replaces the graph contents with the given nodes and edges,
// typically loaded from a snapshot or a JSON export. Node order in the
// slice becomes the insertion order. Fails without modifying the graph
// if an edge references a missing node or a node ID repeats.
func (g *ContentGraph) Restore(nodes []*core.GraphNode, edges []core.GraphEdge) error {
	newNodes := make(map[core.ID]*core.GraphNode, len(nodes))
	newOrder := make([]core.ID, 0, len(nodes))
	var maxID core.ID

	for _, node := range nodes {
		if _, exists := newNodes[node.ID]; exists {
			return ErrDuplicateNode
		}
		newNodes[node.ID] = node
		newOrder = append(newOrder, node.ID)
		if node.ID > maxID {
			maxID = node.ID
		}
	}

	newOutgoing := make(map[core.ID][]int)
	for i, edge := range edges {
		if _, ok := newNodes[edge.Source]; !ok {
			return ErrDanglingEdge
		}
		if _, ok := newNodes[edge.Target]; !ok {
			return ErrDanglingEdge
		}
		newOutgoing[edge.Source] = append(newOutgoing[edge.Source], i)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes = newNodes
	g.order = newOrder
	g.edges = append([]core.GraphEdge(nil), edges...)
	g.outgoing = newOutgoing
	g.nextID = maxID + 1

	g.logger.Info("restored graph", "nodes", len(nodes), "edges", len(edges))
	return nil
}

// Edges returns a copy of all edges in insertion order.
func (g *ContentGraph) Edges() []core.GraphEdge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]core.GraphEdge(nil), g.edges...)
}
