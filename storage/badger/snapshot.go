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

package badger

import (
	"context"
	"encoding/binary"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/orbitalgrid/helpgraph/core"
	"github.com/orbitalgrid/helpgraph/storage"
)

// SnapshotStore implements storage.SnapshotRepository on BadgerDB.
// Nodes and edges are stored under separate key prefixes; a meta key
// marks that a snapshot exists, so an empty graph snapshot is still
// distinguishable from no snapshot at all.
type SnapshotStore struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.SnapshotRepository = (*SnapshotStore)(nil)

// NewSnapshotStore creates a snapshot store on the given backend.
func NewSnapshotStore(backend *Backend) (*SnapshotStore, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	return &SnapshotStore{
		backend: backend,
		logger:  slog.Default().With("component", "storage"),
	}, nil
}

// SaveSnapshot replaces the stored snapshot with the given graph state.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, nodes []*core.GraphNode, edges []core.GraphEdge) error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	if err := s.backend.db.DropPrefix([]byte(nodeKeyPrefix), []byte(edgeKeyPrefix)); err != nil {
		return err
	}

	wb := s.backend.db.NewWriteBatch()
	defer wb.Cancel()

	for _, node := range nodes {
		if err := wb.Set(makeNodeKey(node.ID), storage.MarshalGraphNode(node)); err != nil {
			return err
		}
	}
	for i, edge := range edges {
		if err := wb.Set(makeEdgeKey(i), storage.MarshalGraphEdge(edge)); err != nil {
			return err
		}
	}

	meta := make([]byte, 8)
	binary.BigEndian.PutUint64(meta, uint64(time.Now().UTC().Unix()))
	if err := wb.Set([]byte(snapshotMetaKey), meta); err != nil {
		return err
	}

	if err := wb.Flush(); err != nil {
		return err
	}

	s.logger.Info("saved graph snapshot", "nodes", len(nodes), "edges", len(edges))
	return nil
}

// LoadSnapshot returns the stored graph state, nodes in insertion order.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context) ([]*core.GraphNode, []core.GraphEdge, error) {
	if s.backend.IsClosed() {
		return nil, nil, storage.ErrStorageClosed
	}

	var (
		nodes []*core.GraphNode
		edges []core.GraphEdge
	)

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		if _, err := tx.Get([]byte(snapshotMetaKey)); err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNoSnapshot
			}
			return err
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(nodeKeyPrefix)
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				node, err := storage.UnmarshalGraphNode(val)
				if err != nil {
					return err
				}
				nodes = append(nodes, node)
				return nil
			})
			if err != nil {
				iter.Close()
				return err
			}
		}
		iter.Close()

		opts = badger.DefaultIteratorOptions
		opts.Prefix = []byte(edgeKeyPrefix)
		iter = tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				edge, err := storage.UnmarshalGraphEdge(val)
				if err != nil {
					return err
				}
				edges = append(edges, edge)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, nil, err
	}

	return nodes, edges, nil
}

// DropSnapshot removes the stored snapshot, if any.
func (s *SnapshotStore) DropSnapshot(ctx context.Context) error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return s.backend.db.DropPrefix(
		[]byte(nodeKeyPrefix), []byte(edgeKeyPrefix), []byte(snapshotMetaKey))
}

// Close closes the underlying backend.
func (s *SnapshotStore) Close() error {
	return s.backend.Close()
}
