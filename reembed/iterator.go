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

	"github.com/orbitalgrid/helpgraph/core"
	"github.com/orbitalgrid/helpgraph/graph"
)

// DefaultBatchSize is the default number of nodes per batch.
const DefaultBatchSize = 100

// embedText returns the text a node is embedded with, or "" for node
// kinds that carry no embedding. Matches what ingestion embeds.
func embedText(node *core.GraphNode) string {
	switch node.Kind {
	case core.KindQuestion, core.KindAnswer:
		return node.Attr(core.AttrText)
	default:
		return ""
	}
}

// NodeIterator iterates over the embeddable nodes of a graph in batches.
type NodeIterator struct {
	graph     *graph.ContentGraph
	batchSize int
}

// NewNodeIterator creates a node iterator.
// batchSize: number of nodes per batch (<= 0 selects DefaultBatchSize).
func NewNodeIterator(g *graph.ContentGraph, batchSize int) *NodeIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &NodeIterator{
		graph:     g,
		batchSize: batchSize,
	}
}

// EmbeddableNodes returns the nodes that carry embedding text, in
// insertion order.
func (it *NodeIterator) EmbeddableNodes() []*core.GraphNode {
	var embeddable []*core.GraphNode
	for _, node := range it.graph.Nodes() {
		if embedText(node) != "" {
			embeddable = append(embeddable, node)
		}
	}
	return embeddable
}

// ForEach calls fn for each batch of embeddable nodes. Iteration stops
// on the first error from fn. Context cancellation is checked between
// batches.
func (it *NodeIterator) ForEach(ctx context.Context, fn func([]*core.GraphNode) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	nodes := it.EmbeddableNodes()
	for i := 0; i < len(nodes); i += it.batchSize {
		end := i + it.batchSize
		if end > len(nodes) {
			end = len(nodes)
		}

		if err := fn(nodes[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
