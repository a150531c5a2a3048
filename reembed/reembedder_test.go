package reembed

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitalgrid/helpgraph/ai/mock"
	"github.com/orbitalgrid/helpgraph/core"
	"github.com/orbitalgrid/helpgraph/graph"
)

// qaGraph builds a graph holding one content node and n question/answer
// pairs, none of them embedded.
func qaGraph(t *testing.T, n int) *graph.ContentGraph {
	t.Helper()

	nodes := []*core.GraphNode{
		{
			ID:   1,
			Kind: core.KindContent,
			Attributes: map[string]string{
				core.AttrURL:   "https://portal.example.com/faq",
				core.AttrTitle: "FAQ",
			},
		},
	}
	var edges []core.GraphEdge
	id := core.ID(2)
	for i := 0; i < n; i++ {
		nodes = append(nodes,
			&core.GraphNode{
				ID:         id,
				Kind:       core.KindQuestion,
				Attributes: map[string]string{core.AttrText: "question text"},
			},
			&core.GraphNode{
				ID:         id + 1,
				Kind:       core.KindAnswer,
				Attributes: map[string]string{core.AttrText: "answer text"},
			})
		edges = append(edges,
			core.GraphEdge{Source: 1, Target: id, Relation: core.RelationContains},
			core.GraphEdge{Source: id, Target: id + 1, Relation: core.RelationHasAnswer})
		id += 2
	}

	g, err := graph.New()
	require.NoError(t, err)
	require.NoError(t, g.Restore(nodes, edges))
	return g
}

func countingEmbedder(calls *int) *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		*calls++
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{3, 4}
		}
		return out, nil
	}
	return embedder
}

func TestNodeIteratorSkipsUnembeddableKinds(t *testing.T) {
	g := qaGraph(t, 3)
	it := NewNodeIterator(g, 10)

	nodes := it.EmbeddableNodes()
	require.Len(t, nodes, 6, "content node excluded")
	for _, node := range nodes {
		assert.Contains(t, []core.NodeKind{core.KindQuestion, core.KindAnswer}, node.Kind)
	}
}

func TestNodeIteratorBatches(t *testing.T) {
	g := qaGraph(t, 5) // 10 embeddable nodes
	it := NewNodeIterator(g, 4)

	var sizes []int
	err := it.ForEach(context.Background(), func(nodes []*core.GraphNode) error {
		sizes = append(sizes, len(nodes))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4, 2}, sizes)
}

func TestNodeIteratorStopsOnError(t *testing.T) {
	g := qaGraph(t, 5)
	it := NewNodeIterator(g, 2)

	wantErr := errors.New("batch failed")
	batches := 0
	err := it.ForEach(context.Background(), func([]*core.GraphNode) error {
		batches++
		if batches == 2 {
			return wantErr
		}
		return nil
	})
	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 2, batches)
}

func TestBatchProcessorNormalizesAndStores(t *testing.T) {
	g := qaGraph(t, 1)
	calls := 0
	processor := NewBatchProcessor(g, countingEmbedder(&calls), 3, time.Millisecond)

	nodes := NewNodeIterator(g, 10).EmbeddableNodes()
	require.NoError(t, processor.Process(context.Background(), nodes))
	assert.Equal(t, 1, calls)

	for _, node := range nodes {
		stored, ok := g.Node(node.ID)
		require.True(t, ok)
		require.Len(t, stored.Embedding, 2)
		assert.InDelta(t, 0.6, stored.Embedding[0], 1e-6)
		assert.InDelta(t, 0.8, stored.Embedding[1], 1e-6)
	}
}

func TestBatchProcessorRetriesEmbedding(t *testing.T) {
	g := qaGraph(t, 1)

	calls := 0
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("transient failure")
		}
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{1, 0}
		}
		return out, nil
	}

	processor := NewBatchProcessor(g, embedder, 5, time.Millisecond)
	nodes := NewNodeIterator(g, 10).EmbeddableNodes()
	require.NoError(t, processor.Process(context.Background(), nodes))
	assert.Equal(t, 3, calls)
}

func TestBatchProcessorExhaustedRetries(t *testing.T) {
	g := qaGraph(t, 1)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("provider down")
	}

	processor := NewBatchProcessor(g, embedder, 2, time.Millisecond)
	nodes := NewNodeIterator(g, 10).EmbeddableNodes()
	err := processor.Process(context.Background(), nodes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestBatchProcessorCountMismatch(t *testing.T) {
	g := qaGraph(t, 1)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil
	}

	processor := NewBatchProcessor(g, embedder, 1, time.Millisecond)
	nodes := NewNodeIterator(g, 10).EmbeddableNodes()
	err := processor.Process(context.Background(), nodes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}

func TestNewReembedderValidation(t *testing.T) {
	g := qaGraph(t, 1)

	_, err := NewReembedder(nil, mock.NewMockEmbedder(), nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrGraphRequired)

	_, err = NewReembedder(g, nil, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestReembedderRun(t *testing.T) {
	g := qaGraph(t, 6) // 12 embeddable nodes

	calls := 0
	config := &Config{BatchSize: 5, ReportInterval: 5, MaxRetries: 3, RetryDelay: time.Millisecond}
	var buf bytes.Buffer

	reembedder, err := NewReembedder(g, countingEmbedder(&calls), config, &buf)
	require.NoError(t, err)
	require.NoError(t, reembedder.Run(context.Background()))

	assert.Equal(t, 3, calls, "12 nodes in batches of 5")
	for _, node := range g.Nodes() {
		if node.Kind == core.KindQuestion || node.Kind == core.KindAnswer {
			assert.NotNil(t, node.Embedding, "node %d reembedded", node.ID)
		} else {
			assert.Nil(t, node.Embedding, "node %d untouched", node.ID)
		}
	}

	output := buf.String()
	assert.Contains(t, output, "Starting reembedding of 12 nodes")
	assert.Contains(t, output, "Reembedding complete")
}

func TestReembedderRunEmptyGraph(t *testing.T) {
	g, err := graph.New()
	require.NoError(t, err)

	var buf bytes.Buffer
	reembedder, err := NewReembedder(g, mock.NewMockEmbedder(), nil, &buf)
	require.NoError(t, err)
	require.NoError(t, reembedder.Run(context.Background()))

	assert.Contains(t, buf.String(), "No embeddable nodes")
}
