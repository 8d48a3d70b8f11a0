package search

import (
	"github.com/poiesic/recallit/core"
	"github.com/poiesic/recallit/query"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(rawQuery string)
	AfterExpansion(expansion *query.Expansion)
	AfterSemanticSearch(ids []uint64)
	AfterKeywordSearch(ids []uint64)
	AfterTagSearch(ids []uint64)
	DegradedToKeyword(cause error)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                       {}
func (n *noopMonitor) AfterExpansion(_ *query.Expansion)    {}
func (n *noopMonitor) AfterSemanticSearch(_ []uint64)       {}
func (n *noopMonitor) AfterKeywordSearch(_ []uint64)        {}
func (n *noopMonitor) AfterTagSearch(_ []uint64)            {}
func (n *noopMonitor) DegradedToKeyword(_ error)            {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)        {}
