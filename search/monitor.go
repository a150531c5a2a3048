package search

import "github.com/orbitalgrid/helpgraph/core"

// Monitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type Monitor interface {
	Start(query string)
	AfterSemanticScan(hits []core.SearchResult)
	LexicalFallback(cause error)
	Finish(results []core.SearchResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterSemanticScan(_ []core.SearchResult) {}
func (n *noopMonitor) LexicalFallback(_ error)                {}
func (n *noopMonitor) Finish(_ []core.SearchResult)           {}
