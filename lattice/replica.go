package lattice

import (
	"fmt"
	"math"
	"slices"

	"github.com/katalvlaran/lvising/rng"
)

// Replica is one spin configuration at one ladder temperature.
// Every spin is exactly +1 or −1 at all times.
type Replica struct {
	props       *Properties
	spins       []int8
	temperature float64
	rng         *rng.MWC
	order       []int // reused visitation order for Pseudo sweeps
}

// NewReplica returns a replica with random spins at temperature t, drawing
// from gen. The replica takes ownership of gen.
func NewReplica(props *Properties, t float64, gen *rng.MWC) (*Replica, error) {
	n := props.NumIndices()
	r := &Replica{
		props: props,
		spins: make([]int8, n),
		rng:   gen,
		order: make([]int, n),
	}
	for i := range r.order {
		r.order[i] = i
	}
	if err := r.SetTemperature(t); err != nil {
		return nil, err
	}
	r.Reinit()
	return r, nil
}

// Reinit draws a fresh random configuration.
func (r *Replica) Reinit() {
	for i := range r.spins {
		if r.rng.Uint32()&1 == 0 {
			r.spins[i] = 1
		} else {
			r.spins[i] = -1
		}
	}
}

// Update performs one sweep in the configured mode.
func (r *Replica) Update() {
	n := len(r.spins)
	switch r.props.mode {
	case Pseudo:
		r.rng.Shuffle(r.order)
		for _, pos := range r.order {
			r.updateIndex(pos)
		}
	case Random:
		for i := 0; i < n; i++ {
			r.updateIndex(r.rng.Intn(n))
		}
	default:
		for pos := 0; pos < n; pos++ {
			r.updateIndex(pos)
		}
	}
}

func (r *Replica) updateIndex(pos int) {
	if r.AcceptanceProbability(pos) > r.rng.Float64() {
		r.spins[pos] = -r.spins[pos]
	}
}

// AcceptanceProbability returns exp(2·E_pos/T) when E_pos < 0, else 1.
// The result is always in (0, 1] for finite positive T, up to float
// underflow at extreme E/T ratios.
func (r *Replica) AcceptanceProbability(pos int) float64 {
	e := r.IndexEnergy(pos)
	if e >= 0 {
		return 1
	}
	return math.Exp(2 * float64(e) / r.temperature)
}

// IndexEnergy returns the local energy of pos.
func (r *Replica) IndexEnergy(pos int) int {
	return r.props.IndexEnergy(r.spins, pos)
}

// TotalEnergy sums IndexEnergy over every position.
func (r *Replica) TotalEnergy() int {
	e := 0
	for pos := range r.spins {
		e += r.props.IndexEnergy(r.spins, pos)
	}
	return e
}

// Magnetization returns Σs / n.
func (r *Replica) Magnetization() float64 {
	sum := 0
	for _, s := range r.spins {
		sum += int(s)
	}
	return float64(sum) / float64(len(r.spins))
}

// StructureFactor returns the unnormalized k=0 and k=q spin sums of the
// current configuration. See Properties.StructureFactor.
func (r *Replica) StructureFactor() (k0 float64, kq complex128) {
	return r.props.StructureFactor(r.spins)
}

// FlipSpin negates one spin.
func (r *Replica) FlipSpin(pos int) { r.spins[pos] = -r.spins[pos] }

// FlipSpins negates every spin.
func (r *Replica) FlipSpins() {
	for i := range r.spins {
		r.spins[i] = -r.spins[i]
	}
}

// Spin returns the spin at pos.
func (r *Replica) Spin(pos int) int8 { return r.spins[pos] }

// Spins returns a copy of the configuration.
func (r *Replica) Spins() []int8 { return slices.Clone(r.spins) }

// SetSpins replaces the configuration. Every value must be ±1 and the length
// must match.
func (r *Replica) SetSpins(spins []int8) error {
	if len(spins) != len(r.spins) {
		return fmt.Errorf("SetSpins: %d spins for %d indices: %w", len(spins), len(r.spins), ErrDimensions)
	}
	for i, s := range spins {
		if s != 1 && s != -1 {
			return fmt.Errorf("SetSpins: spin %d is %d: %w", i, s, ErrDimensions)
		}
	}
	copy(r.spins, spins)
	return nil
}

// Temperature returns the current temperature label.
func (r *Replica) Temperature() float64 { return r.temperature }

// SetTemperature relabels the replica. t must lie within the ladder.
func (r *Replica) SetTemperature(t float64) error {
	if !r.props.ladder.Contains(t) {
		return fmt.Errorf("SetTemperature: %v not in [%v, %v]: %w",
			t, r.props.ladder.Min, r.props.ladder.Max(), ErrTemperatureRange)
	}
	r.temperature = t
	return nil
}

// Properties returns the shared lattice properties.
func (r *Replica) Properties() *Properties { return r.props }

// Clone returns an independent copy sharing Properties, with the same spins,
// temperature and generator state.
func (r *Replica) Clone() *Replica {
	gen := *r.rng
	return &Replica{
		props:       r.props,
		spins:       slices.Clone(r.spins),
		temperature: r.temperature,
		rng:         &gen,
		order:       slices.Clone(r.order),
	}
}
