// Package bfs provides a breadth-first search over an integer Adjacency,
// returning unweighted distances, parent links, and visit order.
//
// What
//
//   - Explore vertices in non-decreasing distance (edge count) from a start vertex.
//   - Returns a BFSResult containing:
//   - Order: visit sequence
//   - Depth: per-vertex distance from start (-1 when unreached)
//   - Parent: per-vertex predecessor in the BFS tree (-1 for root/unreached)
//   - Supports an OnVisit hook that may abort with an error.
//   - Allows filtering of individual neighbor edges via WithFilterNeighbor.
//   - Honors MaxDepth limit (d>0) or explicit "no limit" (d==0).
//
// Why
//
//   - Houdayer cluster moves grow a connected cluster over the local-term
//     adjacency of a Hamiltonian, restricted to sites where the two replicas
//     of a pair disagree. That is exactly BFS with a neighbor filter.
//
// Determinism
//
//	Neighbors are enqueued in the order Adjacency.Neighbors returns them, so
//	the visit sequence is fully reproducible for an immutable adjacency.
//
// Complexity (V = Order(), E = Σ len(Neighbors))
//
//   - Time:   O(V + E)
//   - Memory: O(V) for queue, Depth and Parent
//
// Usage
//
//	res, err := bfs.BFS(g, start,
//	    bfs.WithFilterNeighbor(func(curr, nbr int) bool { return inCluster[nbr] }),
//	)
//
// Errors
//
//   - ErrGraphNil             if the adjacency is nil.
//   - ErrStartVertexNotFound  if start is outside 0..Order()-1.
//   - ErrOptionViolation      if invalid Option (e.g. negative MaxDepth).
//   - ErrNoPath               from PathTo for an unreached vertex.
//
// All four wrap simerr.ErrConfiguration.
//   - context errors          when WithContext is cancelled.
//   - Wrapped user-supplied hook errors from OnVisit.
package bfs
