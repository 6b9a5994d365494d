package bfs

import "fmt"

// queueItem pairs a vertex with its BFS depth.
type queueItem struct {
	v     int
	depth int
}

// Scratch holds traversal buffers that WithScratch lends to successive
// searches. The result of one search is overwritten by the next; a Scratch
// must not be used by concurrent searches.
type Scratch struct {
	res   BFSResult
	queue []queueItem
}

// walker encapsulates mutable BFS state.
type walker struct {
	graph Adjacency
	opts  Options
	queue []queueItem
	head  int
	res   *BFSResult
}

// BFS runs breadth-first search on g starting from start,
// applying any number of functional Options.
// Returns ErrGraphNil or ErrStartVertexNotFound for invalid input,
// ErrOptionViolation for bad options, context errors on cancellation,
// or any user-supplied hook error.
func BFS(g Adjacency, start int, opts ...Option) (*BFSResult, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	n := g.Order()
	if start < 0 || start >= n {
		return nil, ErrStartVertexNotFound
	}

	w := walker{graph: g, opts: o}
	if s := o.scratch; s != nil {
		s.res.Order = s.res.Order[:0]
		s.res.Depth = resize(s.res.Depth, n)
		s.res.Parent = resize(s.res.Parent, n)
		w.res, w.queue = &s.res, s.queue[:0]
	} else {
		w.res = &BFSResult{
			Order:  make([]int, 0, 16),
			Depth:  make([]int, n),
			Parent: make([]int, n),
		}
		w.queue = make([]queueItem, 0, 16)
	}
	for i := 0; i < n; i++ {
		w.res.Depth[i] = -1
		w.res.Parent[i] = -1
	}

	w.enqueue(start, 0, -1)
	err := w.loop()
	if o.scratch != nil {
		o.scratch.queue = w.queue
	}
	return w.res, err
}

// resize returns buf with length n, reusing its backing array when large
// enough.
func resize(buf []int, n int) []int {
	if cap(buf) < n {
		return make([]int, n)
	}
	return buf[:n]
}

// enqueue marks v visited at depth d and records its parent.
func (w *walker) enqueue(v, d, parent int) {
	w.res.Depth[v] = d
	w.res.Parent[v] = parent
	w.queue = append(w.queue, queueItem{v: v, depth: d})
}

// loop processes the queue until empty, error, or cancellation.
func (w *walker) loop() error {
	for w.head < len(w.queue) {
		if w.opts.Ctx != nil {
			if err := w.opts.Ctx.Err(); err != nil {
				return err
			}
		}

		item := w.queue[w.head]
		w.head++

		w.res.Order = append(w.res.Order, item.v)
		if err := w.opts.OnVisit(item.v, item.depth); err != nil {
			return fmt.Errorf("bfs: OnVisit error at %d: %w", item.v, err)
		}
		w.enqueueNeighbors(item)
	}
	return nil
}

// enqueueNeighbors applies filtering and MaxDepth, and enqueues each unseen
// neighbor.
func (w *walker) enqueueNeighbors(item queueItem) {
	next := item.depth + 1
	if w.opts.MaxDepth > 0 && next > w.opts.MaxDepth {
		return
	}
	for _, nbr := range w.graph.Neighbors(item.v) {
		if w.res.Depth[nbr] >= 0 {
			continue
		}
		if !w.opts.FilterNeighbor(item.v, nbr) {
			continue
		}
		w.enqueue(nbr, next, item.v)
	}
}
