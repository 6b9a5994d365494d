package bfs

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lvising/simerr"
)

var (
	// ErrGraphNil is returned for a nil adjacency.
	ErrGraphNil = simerr.Sentinel("bfs", "nil adjacency", simerr.ErrConfiguration)

	// ErrStartVertexNotFound is returned when start is outside 0..Order()-1.
	ErrStartVertexNotFound = simerr.Sentinel("bfs", "start vertex out of range", simerr.ErrConfiguration)

	// ErrOptionViolation is returned for an invalid Option, such as a
	// negative depth limit.
	ErrOptionViolation = simerr.Sentinel("bfs", "invalid option", simerr.ErrConfiguration)

	// ErrNoPath is returned by PathTo for a vertex the search never reached.
	ErrNoPath = simerr.Sentinel("bfs", "no path", simerr.ErrConfiguration)
)

// Adjacency is the read-only view BFS needs: vertices are 0..Order()-1 and
// Neighbors may repeat entries (multi-body terms list a partner once per
// shared term). hamiltonian.Graph satisfies it.
type Adjacency interface {
	Order() int
	Neighbors(v int) []int
}

// Option adjusts Options. Invalid values are remembered and reported by
// BFS before any vertex is visited.
type Option func(*Options)

// Options controls one traversal.
type Options struct {
	// Ctx is polled once per dequeued vertex; nil skips the poll.
	Ctx context.Context

	// OnVisit runs for every dequeued vertex; an error ends the search.
	OnVisit func(v, depth int) error

	// MaxDepth bounds the distance from start; 0 means unbounded.
	MaxDepth int

	// FilterNeighbor decides whether the edge curr→neighbor may be
	// followed. Cluster growth uses it to stay inside a site set.
	FilterNeighbor func(curr, neighbor int) bool

	scratch *Scratch
	err     error
}

// DefaultOptions returns unbounded, unfiltered options with a no-op visit
// hook and no context.
func DefaultOptions() Options {
	return Options{
		OnVisit:        func(int, int) error { return nil },
		FilterNeighbor: func(_, _ int) bool { return true },
	}
}

// WithContext enables cancellation; a nil ctx is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnVisit sets the visit hook; a nil fn is ignored.
func WithOnVisit(fn func(v, depth int) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// WithMaxDepth stops expansion past depth d. Zero removes the limit and a
// negative d is rejected with ErrOptionViolation.
func WithMaxDepth(d int) Option {
	return func(o *Options) {
		if d < 0 {
			o.err = fmt.Errorf("max depth %d: %w", d, ErrOptionViolation)
			return
		}
		o.MaxDepth = d
	}
}

// WithFilterNeighbor follows an edge only when fn returns true; a nil fn is
// ignored.
func WithFilterNeighbor(fn func(curr, neighbor int) bool) Option {
	return func(o *Options) {
		if fn != nil {
			o.FilterNeighbor = fn
		}
	}
}

// WithScratch makes BFS fill and return the buffers held by s instead of
// allocating new ones; a nil s is ignored.
func WithScratch(s *Scratch) Option {
	return func(o *Options) {
		if s != nil {
			o.scratch = s
		}
	}
}

// BFSResult is indexed by vertex. Depth is -1 for unreached vertices and
// Parent is -1 for the start and for unreached vertices. Order lists the
// visited vertices as they were dequeued.
type BFSResult struct {
	Order  []int
	Depth  []int
	Parent []int
}

// Reached reports whether v was visited.
func (r *BFSResult) Reached(v int) bool {
	return v >= 0 && v < len(r.Depth) && r.Depth[v] >= 0
}

// PathTo returns the tree path start..dest, or ErrNoPath.
func (r *BFSResult) PathTo(dest int) ([]int, error) {
	if !r.Reached(dest) {
		return nil, fmt.Errorf("vertex %d: %w", dest, ErrNoPath)
	}
	path := make([]int, r.Depth[dest]+1)
	for i, cur := len(path)-1, dest; i >= 0; i, cur = i-1, r.Parent[cur] {
		path[i] = cur
	}
	return path, nil
}
