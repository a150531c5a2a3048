package graph

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitalgrid/helpgraph/ai/mock"
	"github.com/orbitalgrid/helpgraph/core"
)

func populatedGraph(t *testing.T) *ContentGraph {
	t.Helper()

	g, err := New(WithEmbedder(mock.NewMockEmbedder()))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = g.AddContent(ctx, faqRecord(2))
	require.NoError(t, err)
	_, err = g.AddContent(ctx, dataRecord())
	require.NoError(t, err)
	_, err = g.AddContent(ctx, apiRecord())
	require.NoError(t, err)

	return g
}

func TestExportUnsupportedFormat(t *testing.T) {
	g, err := New()
	require.NoError(t, err)

	_, err = g.Export("dot")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExportJSONRoundTrip(t *testing.T) {
	g := populatedGraph(t)
	before := g.Stats()

	data, err := g.Export(FormatJSON)
	require.NoError(t, err)

	restored, err := New()
	require.NoError(t, err)
	require.NoError(t, restored.ImportJSON(data))

	after := restored.Stats()
	assert.Equal(t, before.TotalNodes, after.TotalNodes)
	assert.Equal(t, before.TotalEdges, after.TotalEdges)
	assert.Equal(t, before.NodeKinds, after.NodeKinds)
	assert.Equal(t, before.EdgeRelations, after.EdgeRelations)

	// Embeddings survive the round trip.
	var embedded int
	for _, node := range restored.Nodes() {
		if node.Embedding != nil {
			embedded++
		}
	}
	assert.Equal(t, 4, embedded) // 2 questions + 2 answers
}

func TestExportJSONShape(t *testing.T) {
	g, err := New()
	require.NoError(t, err)
	_, err = g.AddContent(context.Background(), apiRecord())
	require.NoError(t, err)

	data, err := g.Export(FormatJSON)
	require.NoError(t, err)

	var doc struct {
		Nodes []map[string]any `json:"nodes"`
		Edges []map[string]any `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Nodes, 3)
	require.Len(t, doc.Edges, 2)

	// Node attributes are flattened next to id and kind.
	content := doc.Nodes[0]
	assert.Equal(t, "content", content["kind"])
	assert.Equal(t, "https://example.org/api/catalog", content["url"])

	edge := doc.Edges[0]
	assert.Contains(t, []any{"has_documentation", "has_example"}, edge["relation"])
}

func TestImportJSONRejectsBadDocuments(t *testing.T) {
	g, err := New()
	require.NoError(t, err)

	assert.Error(t, g.ImportJSON([]byte("{not json")))
	assert.Error(t, g.ImportJSON([]byte(`{"nodes":[{"kind":"content"}],"edges":[]}`)))
	assert.Error(t, g.ImportJSON([]byte(`{"nodes":[{"id":1,"kind":"nebula"}],"edges":[]}`)))

	err = g.ImportJSON([]byte(`{"nodes":[{"id":1,"kind":"content"}],"edges":[{"source":1,"target":2,"relation":"contains"}]}`))
	assert.ErrorIs(t, err, ErrDanglingEdge)
}

func TestExportGML(t *testing.T) {
	g := populatedGraph(t)

	data, err := g.Export(FormatGML)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "graph [\n"))
	assert.Contains(t, text, "directed 1")
	assert.Contains(t, text, `label "question"`)
	assert.Contains(t, text, `relation "has_download"`)
	assert.Equal(t, g.Stats().TotalNodes, strings.Count(text, "node ["))
	assert.Equal(t, g.Stats().TotalEdges, strings.Count(text, "edge ["))
}

func TestExportGraphML(t *testing.T) {
	g := populatedGraph(t)

	data, err := g.Export(FormatGraphML)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `<graphml xmlns="http://graphml.graphdrawing.org/xmlns">`)
	assert.Contains(t, text, `<data key="kind">download_link</data>`)
	assert.Contains(t, text, `<data key="relation">has_answer</data>`)
	assert.Equal(t, g.Stats().TotalNodes, strings.Count(text, "<node id="))
	assert.Equal(t, g.Stats().TotalEdges, strings.Count(text, "<edge source="))
}

func TestExportGraphMLEscapesValues(t *testing.T) {
	g, err := New()
	require.NoError(t, err)

	_, err = g.AddContent(context.Background(), &core.ContentRecord{
		URL:         "https://example.org/search?q=a&b=<c>",
		ContentType: core.ContentTypeGeneral,
		TextContent: "a & b < c",
	})
	require.NoError(t, err)

	data, err := g.Export(FormatGraphML)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "a&amp;b=&lt;c&gt;")
	assert.NotContains(t, text, "q=a&b")
}
