package badger

import (
	"encoding/binary"

	"github.com/orbitalgrid/helpgraph/core"
)

// Key prefixes for the snapshot key space.
const (
	nodeKeyPrefix   = "gnode:"
	edgeKeyPrefix   = "gedge:"
	snapshotMetaKey = "gmeta:snapshot"
)

// makeNodeKey generates a key for a node by ID. IDs are written
// BigEndian so key order matches insertion order.
func makeNodeKey(id core.ID) []byte {
	buf := make([]byte, len(nodeKeyPrefix)+8)
	offset := copy(buf, nodeKeyPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeEdgeKey generates a key for an edge by its position in the edge
// list, BigEndian so key order preserves edge order.
func makeEdgeKey(index int) []byte {
	buf := make([]byte, len(edgeKeyPrefix)+8)
	offset := copy(buf, edgeKeyPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(index))
	return buf
}
