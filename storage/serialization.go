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


package storage

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/orbitalgrid/helpgraph/core"
)

// MUS serializers for the graph wire format. Attributes and embeddings
// reuse the stock map/slice serializers; nodes and edges are small
// hand-written composites over them.
var (
	attributesMUS = ord.NewMapSer[string, string](ord.String, ord.String)
	embeddingMUS  = ord.NewSliceSer[float32](raw.Float32)

	GraphNodeMUS = graphNodeSer{}
	GraphEdgeMUS = graphEdgeSer{}
)

type graphNodeSer struct{}

func (graphNodeSer) Marshal(node core.GraphNode, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(node.ID), bs)
	n += varint.PositiveInt.Marshal(int(node.Kind), bs[n:])
	n += attributesMUS.Marshal(node.Attributes, bs[n:])
	n += embeddingMUS.Marshal(node.Embedding, bs[n:])
	return n
}

func (graphNodeSer) Unmarshal(bs []byte) (node core.GraphNode, n int, err error) {
	var n1 int
	var id uint64
	id, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	node.ID = core.ID(id)

	var kind int
	kind, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	node.Kind = core.NodeKind(kind)

	node.Attributes, n1, err = attributesMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	node.Embedding, n1, err = embeddingMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (graphNodeSer) Size(node core.GraphNode) (size int) {
	size = varint.Uint64.Size(uint64(node.ID))
	size += varint.PositiveInt.Size(int(node.Kind))
	size += attributesMUS.Size(node.Attributes)
	size += embeddingMUS.Size(node.Embedding)
	return size
}

type graphEdgeSer struct{}

func (graphEdgeSer) Marshal(edge core.GraphEdge, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(edge.Source), bs)
	n += varint.Uint64.Marshal(uint64(edge.Target), bs[n:])
	n += varint.PositiveInt.Marshal(int(edge.Relation), bs[n:])
	return n
}

func (graphEdgeSer) Unmarshal(bs []byte) (edge core.GraphEdge, n int, err error) {
	var n1 int
	var v uint64
	v, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	edge.Source = core.ID(v)

	v, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	edge.Target = core.ID(v)

	var relation int
	relation, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	edge.Relation = core.Relation(relation)
	return
}

func (graphEdgeSer) Size(edge core.GraphEdge) (size int) {
	size = varint.Uint64.Size(uint64(edge.Source))
	size += varint.Uint64.Size(uint64(edge.Target))
	size += varint.PositiveInt.Size(int(edge.Relation))
	return size
}

// MarshalGraphNode serializes a GraphNode to bytes.
func MarshalGraphNode(node *core.GraphNode) []byte {
	buf := make([]byte, GraphNodeMUS.Size(*node))
	GraphNodeMUS.Marshal(*node, buf)
	return buf
}

// UnmarshalGraphNode deserializes a GraphNode from bytes.
func UnmarshalGraphNode(data []byte) (*core.GraphNode, error) {
	node, _, err := GraphNodeMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &node, nil
}

// MarshalGraphEdge serializes a GraphEdge to bytes.
func MarshalGraphEdge(edge core.GraphEdge) []byte {
	buf := make([]byte, GraphEdgeMUS.Size(edge))
	GraphEdgeMUS.Marshal(edge, buf)
	return buf
}

// UnmarshalGraphEdge deserializes a GraphEdge from bytes.
func UnmarshalGraphEdge(data []byte) (core.GraphEdge, error) {
	edge, _, err := GraphEdgeMUS.Unmarshal(data)
	return edge, err
}
