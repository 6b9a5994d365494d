package lattice

import "fmt"

// SweepMode selects the site visitation order of one replica sweep.
type SweepMode byte

const (
	// All visits every position in ascending order.
	All SweepMode = 'a'
	// Pseudo visits every position once, in an order reshuffled each sweep.
	Pseudo SweepMode = 'p'
	// Random draws n positions uniformly with replacement.
	Random SweepMode = 'r'
)

// ParseSweepMode validates a mode character.
func ParseSweepMode(c byte) (SweepMode, error) {
	switch m := SweepMode(c); m {
	case All, Pseudo, Random:
		return m, nil
	default:
		return 0, fmt.Errorf("ParseSweepMode: %q: %w", c, ErrSweepMode)
	}
}

// String returns the mode name.
func (m SweepMode) String() string {
	switch m {
	case All:
		return "all"
	case Pseudo:
		return "pseudo"
	case Random:
		return "random"
	default:
		return fmt.Sprintf("SweepMode(%q)", byte(m))
	}
}
