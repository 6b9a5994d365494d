package lattice

import (
	"fmt"
	"math"
)

// Ladder is the ordered set of rung temperatures Min + i·Step, i < Rungs.
type Ladder struct {
	Min   float64
	Step  float64
	Rungs int
}

// Validate checks Rungs ≥ 1, Min > 0, and Step > 0 when there is more than
// one rung.
func (l Ladder) Validate() error {
	switch {
	case l.Rungs < 1:
		return fmt.Errorf("Ladder: %d rungs: %w", l.Rungs, ErrLadder)
	case !(l.Min > 0) || math.IsInf(l.Min, 0):
		return fmt.Errorf("Ladder: minimum temperature %v: %w", l.Min, ErrLadder)
	case l.Rungs > 1 && (!(l.Step > 0) || math.IsInf(l.Step, 0)):
		return fmt.Errorf("Ladder: step %v: %w", l.Step, ErrLadder)
	}
	return nil
}

// Temperature returns the temperature of rung i.
func (l Ladder) Temperature(i int) float64 {
	return l.Min + l.Step*float64(i)
}

// Max returns the highest temperature.
func (l Ladder) Max() float64 {
	return l.Temperature(l.Rungs - 1)
}

// Temperatures returns every rung temperature in ascending order.
func (l Ladder) Temperatures() []float64 {
	out := make([]float64, l.Rungs)
	for i := range out {
		out[i] = l.Temperature(i)
	}
	return out
}

// Index returns the rung nearest to t. Temperatures more than half a step
// outside the ladder are a range error.
func (l Ladder) Index(t float64) (int, error) {
	if l.Rungs == 1 || l.Step <= 0 {
		if math.Abs(t-l.Min) <= l.tolerance() {
			return 0, nil
		}
		return 0, fmt.Errorf("Ladder.Index: %v: %w", t, ErrTemperatureRange)
	}
	if math.IsNaN(t) || t < l.Min-0.5*l.Step {
		return 0, fmt.Errorf("Ladder.Index: %v below %v: %w", t, l.Min, ErrTemperatureRange)
	}
	i := int((t-l.Min)/l.Step + 0.5)
	if i >= l.Rungs {
		return 0, fmt.Errorf("Ladder.Index: %v above %v: %w", t, l.Max(), ErrTemperatureRange)
	}
	return i, nil
}

// Contains reports whether t lies within [Min, Max], allowing for rounding.
func (l Ladder) Contains(t float64) bool {
	tol := l.tolerance()
	return t >= l.Min-tol && t <= l.Max()+tol
}

func (l Ladder) tolerance() float64 {
	return 1e-9 * math.Max(1, math.Abs(l.Max()))
}
