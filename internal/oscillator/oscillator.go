package oscillator

import (
	"fmt"
	"math"

	"github.com/san-kum/oscsim/internal/dynamo"
)

const (
	DefaultMass   = 1.0
	DefaultSpring = 1.0
)

// Params holds the physical constants of a driven damped oscillator:
//
//	m Q'' = F0 sin(w t + phi) - 2 g m Q' - k Q
//
// Damping is the rate g (1/s); the damping force is 2*g*m*velocity.
// A Params value is immutable per run: the integrator never mutates it.
type Params struct {
	Mass       float64 `yaml:"mass" mapstructure:"mass"`
	Damping    float64 `yaml:"damping" mapstructure:"damping"`
	Spring     float64 `yaml:"spring" mapstructure:"spring"`
	ForceAmp   float64 `yaml:"force_amp" mapstructure:"force_amp"`
	ForceFreq  float64 `yaml:"force_freq" mapstructure:"force_freq"`
	ForcePhase float64 `yaml:"force_phase" mapstructure:"force_phase"`
}

func DefaultParams() Params {
	return Params{
		Mass:      DefaultMass,
		Damping:   0.1,
		Spring:    DefaultSpring,
		ForceAmp:  1.0,
		ForceFreq: 1.0,
	}
}

// Validate rejects parameter sets before any integration starts. The
// right-hand side divides by mass, so zero or negative mass must never
// reach the solver.
func (p Params) Validate() error {
	if p.Mass <= 0 || math.IsNaN(p.Mass) {
		return fmt.Errorf("mass must be positive, got %g: %w", p.Mass, dynamo.ErrParameterBounds)
	}
	if p.Spring <= 0 || math.IsNaN(p.Spring) {
		return fmt.Errorf("spring constant must be positive, got %g: %w", p.Spring, dynamo.ErrParameterBounds)
	}
	if p.Damping < 0 || math.IsNaN(p.Damping) {
		return fmt.Errorf("damping must be non-negative, got %g: %w", p.Damping, dynamo.ErrParameterBounds)
	}
	return nil
}

// NaturalFreq returns sqrt(k/m), the undamped angular frequency.
func (p Params) NaturalFreq() float64 {
	return math.Sqrt(p.Spring / p.Mass)
}

// Force returns the external drive F0*sin(w*t + phi) at time t.
func (p Params) Force(t float64) float64 {
	return p.ForceAmp * math.Sin(p.ForceFreq*t+p.ForcePhase)
}

// Oscillator implements dynamo.System for the driven damped oscillator.
// State layout: x[0] = displacement Q, x[1] = velocity V.
type Oscillator struct {
	p Params
}

func New(p Params) *Oscillator {
	return &Oscillator{p: p}
}

func (o *Oscillator) Params() Params { return o.p }

func (o *Oscillator) StateDim() int { return 2 }

func (o *Oscillator) Derive(x dynamo.State, t float64) dynamo.State {
	q := x[0]
	v := x[1]
	a := (o.p.Force(t) - 2*o.p.Damping*o.p.Mass*v - o.p.Spring*q) / o.p.Mass
	return dynamo.State{v, a}
}

func (o *Oscillator) Kinetic(x dynamo.State) float64 {
	v := x[1]
	return 0.5 * o.p.Mass * v * v
}

func (o *Oscillator) Potential(x dynamo.State) float64 {
	q := x[0]
	return 0.5 * o.p.Spring * q * q
}

func (o *Oscillator) Energy(x dynamo.State) float64 {
	return o.Kinetic(x) + o.Potential(x)
}

// Power returns the instantaneous power delivered by the drive at time t.
func (o *Oscillator) Power(x dynamo.State, t float64) float64 {
	return o.p.Force(t) * x[1]
}

// GetParams implements dynamo.Configurable
func (o *Oscillator) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":        o.p.Mass,
		"damping":     o.p.Damping,
		"spring":      o.p.Spring,
		"force_amp":   o.p.ForceAmp,
		"force_freq":  o.p.ForceFreq,
		"force_phase": o.p.ForcePhase,
	}
}

// SetParam implements dynamo.Configurable
func (o *Oscillator) SetParam(name string, value float64) error {
	p := o.p
	switch name {
	case "mass":
		p.Mass = value
	case "damping":
		p.Damping = value
	case "spring":
		p.Spring = value
	case "force_amp":
		p.ForceAmp = value
	case "force_freq":
		p.ForceFreq = value
	case "force_phase":
		p.ForcePhase = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	o.p = p
	return nil
}
