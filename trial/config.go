package trial

import (
	"fmt"

	"github.com/katalvlaran/lvising/lattice"
	"github.com/katalvlaran/lvising/simerr"
)

// Defaults of the sampling schedule.
const (
	DefaultPreupdates  = 500
	DefaultSkip        = 10
	DefaultBaseUpdates = 5
	DefaultMaxCycles   = 10
	DefaultWindow      = 3
	DefaultPowerMax    = 5
)

var (
	// ErrConfig is returned for an invalid sampling schedule.
	ErrConfig = simerr.Sentinel("trial", "invalid configuration", simerr.ErrConfiguration)

	// ErrMoment is returned when a magnetization moment leaves [0,1].
	ErrMoment = simerr.Sentinel("trial", "magnetization moment outside [0,1]", simerr.ErrDataIntegrity)
)

// Observable is the per-sample quantity the stability detector watches.
type Observable string

const (
	// ObserveMagnetization watches |m|.
	ObserveMagnetization Observable = "magnetization"
	// ObserveChi0 watches (Σs)²/n.
	ObserveChi0 Observable = "chi0"
	// ObserveEnergy watches E/n.
	ObserveEnergy Observable = "energy"
)

// Measure evaluates the observable on r.
func (o Observable) Measure(r *lattice.Replica) float64 {
	n := float64(r.Properties().NumIndices())
	switch o {
	case ObserveChi0:
		k0, _ := r.StructureFactor()
		return k0 / n
	case ObserveEnergy:
		return float64(r.TotalEnergy()) / n
	default:
		m := r.Magnetization()
		if m < 0 {
			return -m
		}
		return m
	}
}

// Valid reports whether o is a known observable.
func (o Observable) Valid() bool {
	switch o {
	case ObserveMagnetization, ObserveChi0, ObserveEnergy:
		return true
	default:
		return false
	}
}

// Config is the sampling schedule of one trial.
type Config struct {
	Preupdates  int        `yaml:"preupdates"`
	Updates     int        `yaml:"updates"`
	Skip        int        `yaml:"skip"`
	BaseUpdates int        `yaml:"base_updates"`
	MaxCycles   int        `yaml:"max_cycles"`
	Window      int        `yaml:"window"`
	PowerMax    int        `yaml:"power_max"`
	Observable  Observable `yaml:"observable"`
}

// DefaultConfig returns the stability-seeking schedule.
func DefaultConfig() Config {
	return Config{
		Preupdates:  DefaultPreupdates,
		Updates:     0,
		Skip:        DefaultSkip,
		BaseUpdates: DefaultBaseUpdates,
		MaxCycles:   DefaultMaxCycles,
		Window:      DefaultWindow,
		PowerMax:    DefaultPowerMax,
		Observable:  ObserveMagnetization,
	}
}

// Validate checks the schedule.
func (c Config) Validate() error {
	switch {
	case c.Preupdates < 0:
		return fmt.Errorf("preupdates %d: %w", c.Preupdates, ErrConfig)
	case c.Updates < 0:
		return fmt.Errorf("updates %d: %w", c.Updates, ErrConfig)
	case c.Skip < 1:
		return fmt.Errorf("skip %d: %w", c.Skip, ErrConfig)
	case c.BaseUpdates < 1:
		return fmt.Errorf("base updates %d: %w", c.BaseUpdates, ErrConfig)
	case c.Window < 2:
		return fmt.Errorf("window %d: %w", c.Window, ErrConfig)
	case c.MaxCycles < c.Window:
		return fmt.Errorf("max cycles %d below window %d: %w", c.MaxCycles, c.Window, ErrConfig)
	case c.PowerMax < 0 || c.PowerMax > 30 || c.MaxCycles > 30:
		return fmt.Errorf("power max %d, max cycles %d: %w", c.PowerMax, c.MaxCycles, ErrConfig)
	case !c.Observable.Valid():
		return fmt.Errorf("observable %q: %w", c.Observable, ErrConfig)
	}
	return nil
}
