package graph

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/orbitalgrid/helpgraph/core"
)

// Supported export formats.
const (
	FormatJSON    = "json"
	FormatGML     = "gml"
	FormatGraphML = "graphml"
)

// Export serializes the graph in the requested format.
//
// JSON carries the full node state including embeddings and round-trips
// through ImportJSON. GML and GraphML are interchange formats for
// external graph tools and carry node kinds, attributes and edge
// relations but no embedding vectors.
func (g *ContentGraph) Export(format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return g.exportJSON()
	case FormatGML:
		return g.exportGML()
	case FormatGraphML:
		return g.exportGraphML()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

type jsonEdge struct {
	Source   uint64 `json:"source"`
	Target   uint64 `json:"target"`
	Relation string `json:"relation"`
}

type jsonGraph struct {
	Nodes []map[string]any `json:"nodes"`
	Edges []jsonEdge       `json:"edges"`
}

func (g *ContentGraph) exportJSON() ([]byte, error) {
	nodes := g.Nodes()
	edges := g.Edges()

	doc := jsonGraph{
		Nodes: make([]map[string]any, 0, len(nodes)),
		Edges: make([]jsonEdge, 0, len(edges)),
	}

	for _, node := range nodes {
		entry := make(map[string]any, len(node.Attributes)+3)
		entry["id"] = uint64(node.ID)
		entry["kind"] = node.Kind.String()
		for key, value := range node.Attributes {
			entry[key] = value
		}
		if node.Embedding != nil {
			entry["embedding"] = node.Embedding
		}
		doc.Nodes = append(doc.Nodes, entry)
	}

	for _, edge := range edges {
		doc.Edges = append(doc.Edges, jsonEdge{
			Source:   uint64(edge.Source),
			Target:   uint64(edge.Target),
			Relation: edge.Relation.String(),
		})
	}

	return json.MarshalIndent(doc, "", "  ")
}

// ImportJSON replaces the graph contents with a previously exported
// JSON document. Node insertion order follows document order.
func (g *ContentGraph) ImportJSON(data []byte) error {
	var doc struct {
		Nodes []map[string]json.RawMessage `json:"nodes"`
		Edges []jsonEdge                   `json:"edges"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing graph document: %w", err)
	}

	nodes := make([]*core.GraphNode, 0, len(doc.Nodes))
	for i, entry := range doc.Nodes {
		node := &core.GraphNode{Attributes: make(map[string]string)}

		rawID, ok := entry["id"]
		if !ok {
			return fmt.Errorf("node %d: missing id", i)
		}
		var id uint64
		if err := json.Unmarshal(rawID, &id); err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
		node.ID = core.ID(id)

		var kindName string
		if raw, ok := entry["kind"]; ok {
			if err := json.Unmarshal(raw, &kindName); err != nil {
				return fmt.Errorf("node %d: %w", i, err)
			}
		}
		kind, err := core.ParseNodeKind(kindName)
		if err != nil {
			return fmt.Errorf("node %d: %w: %q", i, err, kindName)
		}
		node.Kind = kind

		for key, raw := range entry {
			switch key {
			case "id", "kind":
			case "embedding":
				if err := json.Unmarshal(raw, &node.Embedding); err != nil {
					return fmt.Errorf("node %d: embedding: %w", i, err)
				}
			default:
				var value string
				if err := json.Unmarshal(raw, &value); err != nil {
					return fmt.Errorf("node %d: attribute %q: %w", i, key, err)
				}
				node.Attributes[key] = value
			}
		}

		nodes = append(nodes, node)
	}

	edges := make([]core.GraphEdge, 0, len(doc.Edges))
	for i, entry := range doc.Edges {
		relation, err := core.ParseRelation(entry.Relation)
		if err != nil {
			return fmt.Errorf("edge %d: %w: %q", i, err, entry.Relation)
		}
		edges = append(edges, core.GraphEdge{
			Source:   core.ID(entry.Source),
			Target:   core.ID(entry.Target),
			Relation: relation,
		})
	}

	return g.Restore(nodes, edges)
}

// exportGML writes the graph in the GML text format understood by
// Gephi, NetworkX and friends.
func (g *ContentGraph) exportGML() ([]byte, error) {
	nodes := g.Nodes()
	edges := g.Edges()

	var b strings.Builder
	b.WriteString("graph [\n")
	b.WriteString("  directed 1\n")
	b.WriteString("  multigraph 1\n")

	for _, node := range nodes {
		fmt.Fprintf(&b, "  node [\n    id %d\n    label %s\n", uint64(node.ID), gmlQuote(node.Kind.String()))
		for _, key := range sortedKeys(node.Attributes) {
			fmt.Fprintf(&b, "    %s %s\n", key, gmlQuote(node.Attributes[key]))
		}
		b.WriteString("  ]\n")
	}

	for _, edge := range edges {
		fmt.Fprintf(&b, "  edge [\n    source %d\n    target %d\n    relation %s\n  ]\n",
			uint64(edge.Source), uint64(edge.Target), gmlQuote(edge.Relation.String()))
	}

	b.WriteString("]\n")
	return []byte(b.String()), nil
}

// gmlQuote escapes a string for use as a GML value.
func gmlQuote(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "\n", " ")
	return "\"" + s + "\""
}

// exportGraphML writes the graph in the GraphML XML format.
func (g *ContentGraph) exportGraphML() ([]byte, error) {
	nodes := g.Nodes()
	edges := g.Edges()

	// Collect the union of attribute keys for the <key> declarations.
	keySet := make(map[string]bool)
	for _, node := range nodes {
		for key := range node.Attributes {
			keySet[key] = true
		}
	}
	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<graphml xmlns="http://graphml.graphdrawing.org/xmlns">` + "\n")
	b.WriteString(`  <key id="kind" for="node" attr.name="kind" attr.type="string"/>` + "\n")
	for _, key := range keys {
		fmt.Fprintf(&b, `  <key id="%s" for="node" attr.name="%s" attr.type="string"/>`+"\n", key, key)
	}
	b.WriteString(`  <key id="relation" for="edge" attr.name="relation" attr.type="string"/>` + "\n")
	b.WriteString(`  <graph edgedefault="directed">` + "\n")

	for _, node := range nodes {
		fmt.Fprintf(&b, `    <node id="%d">`+"\n", uint64(node.ID))
		fmt.Fprintf(&b, `      <data key="kind">%s</data>`+"\n", xmlEscape(node.Kind.String()))
		for _, key := range sortedKeys(node.Attributes) {
			fmt.Fprintf(&b, `      <data key="%s">%s</data>`+"\n", key, xmlEscape(node.Attributes[key]))
		}
		b.WriteString("    </node>\n")
	}

	for _, edge := range edges {
		fmt.Fprintf(&b, `    <edge source="%d" target="%d">`+"\n", uint64(edge.Source), uint64(edge.Target))
		fmt.Fprintf(&b, `      <data key="relation">%s</data>`+"\n", xmlEscape(edge.Relation.String()))
		b.WriteString("    </edge>\n")
	}

	b.WriteString("  </graph>\n</graphml>\n")
	return []byte(b.String()), nil
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails on a failing writer; bytes.Buffer never does.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
