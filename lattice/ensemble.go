package lattice

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/lvising/bfs"
	"github.com/katalvlaran/lvising/hamiltonian"
	"github.com/katalvlaran/lvising/rng"
)

// KB is the Boltzmann constant in the units the temperature ladder uses.
const KB = 1.38064852

// ReplicasPerRung is the size of a replica pair.
const ReplicasPerRung = 2

// ClusterPolicy selects the rungs that receive Houdayer moves.
type ClusterPolicy int

const (
	// ClusterBelowJunction applies moves only to rungs strictly colder than
	// the junction temperature.
	ClusterBelowJunction ClusterPolicy = iota
	// ClusterAll applies moves to every rung.
	ClusterAll
	// ClusterNone disables cluster moves.
	ClusterNone
)

// ParseClusterPolicy accepts "below-junction", "all" or "none".
func ParseClusterPolicy(s string) (ClusterPolicy, error) {
	switch s {
	case "below-junction", "":
		return ClusterBelowJunction, nil
	case "all":
		return ClusterAll, nil
	case "none":
		return ClusterNone, nil
	default:
		return 0, fmt.Errorf("ParseClusterPolicy: %q: %w", s, ErrClusterPolicy)
	}
}

func (p ClusterPolicy) String() string {
	switch p {
	case ClusterBelowJunction:
		return "below-junction"
	case ClusterAll:
		return "all"
	case ClusterNone:
		return "none"
	default:
		return fmt.Sprintf("ClusterPolicy(%d)", int(p))
	}
}

// MoveKind reports what one Houdayer move did.
type MoveKind int

const (
	// MoveNone: the replicas agreed everywhere.
	MoveNone MoveKind = iota
	// MoveCluster: a cluster was flipped in both replicas.
	MoveCluster
)

// Counters accumulates ensemble activity for metrics.
type Counters struct {
	Sweeps           uint64
	ExchangeAttempts []uint64 // per adjacent slot pair (i, i+1)
	ExchangeAccepts  []uint64
	GlobalFlips      uint64 // replica-0 flips when most sites disagreed
	ClusterMoves     uint64
	ClusterSites     uint64 // total sites flipped by cluster moves
}

func (c Counters) clone() Counters {
	c.ExchangeAttempts = slices.Clone(c.ExchangeAttempts)
	c.ExchangeAccepts = slices.Clone(c.ExchangeAccepts)
	return c
}

// Option configures an Ensemble.
type Option func(*ensembleConfig)

type ensembleConfig struct {
	seed        uint64
	shape       Shape
	policy      ClusterPolicy
	junction    float64
	hasJunction bool
}

// WithSeed sets the seed every replica stream and the exchange stream are
// derived from.
func WithSeed(seed uint64) Option {
	return func(c *ensembleConfig) { c.seed = seed }
}

// WithShape overrides the shape selected from the Hamiltonian tag.
func WithShape(s Shape) Option {
	return func(c *ensembleConfig) {
		if s != nil {
			c.shape = s
		}
	}
}

// WithClusterPolicy selects which rungs receive Houdayer moves.
func WithClusterPolicy(p ClusterPolicy) Option {
	return func(c *ensembleConfig) { c.policy = p }
}

// WithJunction overrides the junction temperature.
func WithJunction(t float64) Option {
	return func(c *ensembleConfig) {
		c.junction = t
		c.hasJunction = true
	}
}

// Ensemble holds one replica pair per ladder rung.
type Ensemble struct {
	props    *Properties
	slots    [][ReplicasPerRung]*Replica
	rng      *rng.MWC
	policy   ClusterPolicy
	junction float64
	counters Counters

	disagree []bool // scratch: sites where the pair differs
	qsites   []int

	cluster     bfs.Scratch
	clusterOpts []bfs.Option // built once; growth stays inside disagree
}

// NewEnsemble builds the shared Properties and two replicas per rung.
// Stream 0 of the seed drives exchanges and cluster seeds; replica k of
// slot i draws from stream 1 + 2i + k.
func NewEnsemble(g *hamiltonian.Graph, ladder Ladder, mode SweepMode, opts ...Option) (*Ensemble, error) {
	cfg := ensembleConfig{policy: ClusterBelowJunction}
	for _, opt := range opts {
		opt(&cfg)
	}
	props, err := NewProperties(g, ladder, mode, cfg.shape)
	if err != nil {
		return nil, fmt.Errorf("NewEnsemble: %w", err)
	}
	switch cfg.policy {
	case ClusterBelowJunction, ClusterAll, ClusterNone:
	default:
		return nil, fmt.Errorf("NewEnsemble: %d: %w", cfg.policy, ErrClusterPolicy)
	}

	e := &Ensemble{
		props:    props,
		slots:    make([][ReplicasPerRung]*Replica, ladder.Rungs),
		rng:      rng.Derive(cfg.seed, 0),
		policy:   cfg.policy,
		junction: ladder.Temperature(ladder.Rungs / 2),
		disagree: make([]bool, props.NumIndices()),
		qsites:   make([]int, 0, props.NumIndices()),
	}
	e.clusterOpts = []bfs.Option{
		bfs.WithFilterNeighbor(func(_, nbr int) bool { return e.disagree[nbr] }),
		bfs.WithScratch(&e.cluster),
	}
	if cfg.hasJunction {
		e.junction = cfg.junction
	}
	for i := range e.slots {
		for k := 0; k < ReplicasPerRung; k++ {
			stream := uint64(1 + ReplicasPerRung*i + k)
			r, err := NewReplica(props, ladder.Temperature(i), rng.Derive(cfg.seed, stream))
			if err != nil {
				return nil, fmt.Errorf("NewEnsemble: slot %d: %w", i, err)
			}
			e.slots[i][k] = r
		}
	}
	if ladder.Rungs > 1 {
		e.counters.ExchangeAttempts = make([]uint64, ladder.Rungs-1)
		e.counters.ExchangeAccepts = make([]uint64, ladder.Rungs-1)
	}
	return e, nil
}

// Properties returns the shared properties.
func (e *Ensemble) Properties() *Properties { return e.props }

// Rungs returns the number of ladder slots.
func (e *Ensemble) Rungs() int { return len(e.slots) }

// Junction returns the junction temperature.
func (e *Ensemble) Junction() float64 { return e.junction }

// Replica returns replica k of slot.
func (e *Ensemble) Replica(slot, k int) *Replica { return e.slots[slot][k] }

// Temperature returns the temperature label of slot.
func (e *Ensemble) Temperature(slot int) float64 { return e.slots[slot][0].temperature }

// Temperatures returns the labels of every slot, in slot order.
func (e *Ensemble) Temperatures() []float64 {
	out := make([]float64, len(e.slots))
	for i := range e.slots {
		out[i] = e.Temperature(i)
	}
	return out
}

// Counters returns a snapshot of the activity counters.
func (e *Ensemble) Counters() Counters { return e.counters.clone() }

// Reinit randomizes every replica.
func (e *Ensemble) Reinit() {
	for i := range e.slots {
		for _, r := range e.slots[i] {
			r.Reinit()
		}
	}
}

// Sweep performs one full Monte Carlo step: local sweep, cluster moves per
// policy, then one exchange pass.
func (e *Ensemble) Sweep() {
	e.LocalSweep()
	for i := range e.slots {
		if e.clusterApplies(i) {
			e.HoudayerMove(i)
		}
	}
	e.ExchangePass()
	e.counters.Sweeps++
}

func (e *Ensemble) clusterApplies(slot int) bool {
	switch e.policy {
	case ClusterAll:
		return true
	case ClusterBelowJunction:
		return e.Temperature(slot) < e.junction
	default:
		return false
	}
}

// LocalSweep runs Update on every replica.
func (e *Ensemble) LocalSweep() {
	for i := range e.slots {
		for _, r := range e.slots[i] {
			r.Update()
		}
	}
}

// HoudayerMove applies one cluster move to the pair in slot.
//
// Steps:
//  1. Collect the sites where the two replicas disagree.
//  2. None: nothing to do.
//  3. More than half: flip replica 0 entirely and recollect; the
//     disagreement set becomes its complement.
//  4. Pick a uniform seed site, grow a cluster by BFS over the local terms
//     restricted to the disagreement set, and flip it in both replicas.
func (e *Ensemble) HoudayerMove(slot int) MoveKind {
	r0, r1 := e.slots[slot][0], e.slots[slot][1]
	n := len(r0.spins)
	for {
		e.qsites = e.qsites[:0]
		for i := 0; i < n; i++ {
			e.disagree[i] = r0.spins[i] != r1.spins[i]
			if e.disagree[i] {
				e.qsites = append(e.qsites, i)
			}
		}
		if len(e.qsites) == 0 {
			return MoveNone
		}
		if 2*len(e.qsites) <= n {
			break
		}
		r0.FlipSpins()
		e.counters.GlobalFlips++
	}

	seed := e.qsites[e.rng.Intn(len(e.qsites))]
	res, err := bfs.BFS(e.props.graph, seed, e.clusterOpts...)
	if err != nil {
		// seed is a valid position and no hook can fail
		panic(fmt.Sprintf("lattice: cluster growth: %v", err))
	}
	for _, pos := range res.Order {
		r0.FlipSpin(pos)
		r1.FlipSpin(pos)
	}
	e.counters.ClusterMoves++
	e.counters.ClusterSites += uint64(len(res.Order))
	return MoveCluster
}

// ExchangePass attempts one exchange between every adjacent slot pair in
// ascending order. For slots i and i+1:
//
//	ΔE = E(i) − E(i+1)                     replica 0 of each pair
//	Δβ = 1/(KB·T_i) − 1/(KB·T_{i+1})
//	accept when ΔE·Δβ > 1 or ΔE·Δβ > u
//
// It returns the number of accepted exchanges.
func (e *Ensemble) ExchangePass() int {
	accepted := 0
	for i := 0; i+1 < len(e.slots); i++ {
		ti, tj := e.Temperature(i), e.Temperature(i+1)
		dE := float64(e.slots[i][0].TotalEnergy() - e.slots[i+1][0].TotalEnergy())
		dB := 1/(KB*ti) - 1/(KB*tj)
		p := dE * dB

		e.counters.ExchangeAttempts[i]++
		if p > 1 || p > e.rng.Float64() {
			e.swapSlots(i, i+1)
			e.counters.ExchangeAccepts[i]++
			accepted++
		}
	}
	return accepted
}

// swapSlots moves the pairs between slots i and j and relabels them, so
// each slot keeps its temperature.
func (e *Ensemble) swapSlots(i, j int) {
	ti, tj := e.Temperature(i), e.Temperature(j)
	e.slots[i], e.slots[j] = e.slots[j], e.slots[i]
	for k := 0; k < ReplicasPerRung; k++ {
		e.slots[i][k].temperature = ti
		e.slots[j][k].temperature = tj
	}
}
