package storage

import (
	"context"

	"github.com/orbitalgrid/helpgraph/core"
)

// SnapshotRepository persists the full graph state so one process can
// ingest and another can answer. Implementations must be safe for
// concurrent use.
type SnapshotRepository interface {
	// SaveSnapshot replaces the stored snapshot with the given graph state.
	SaveSnapshot(ctx context.Context, nodes []*core.GraphNode, edges []core.GraphEdge) error

	// LoadSnapshot returns the stored graph state, nodes in insertion
	// order. Returns ErrNoSnapshot when nothing has been saved yet.
	LoadSnapshot(ctx context.Context) ([]*core.GraphNode, []core.GraphEdge, error)

	// DropSnapshot removes the stored snapshot, if any.
	DropSnapshot(ctx context.Context) error

	// Close closes the storage backend and releases resources.
	Close() error
}
