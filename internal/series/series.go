package series

import (
	"github.com/san-kum/oscsim/internal/dynamo"
	"github.com/san-kum/oscsim/internal/oscillator"
)

// Trajectory is the sampled output of one integration: ascending sample
// times paired with displacement and velocity. Read-only once produced.
type Trajectory struct {
	Times []float64
	Q     []float64
	V     []float64
}

// FromStates splits solver output states into displacement and velocity
// columns. States shorter than 2 entries are recorded as zero.
func FromStates(times []float64, states []dynamo.State) Trajectory {
	traj := Trajectory{
		Times: times,
		Q:     make([]float64, len(states)),
		V:     make([]float64, len(states)),
	}
	for i, s := range states {
		if len(s) >= 2 {
			traj.Q[i] = s[0]
			traj.V[i] = s[1]
		}
	}
	return traj
}

func (tr Trajectory) Len() int { return len(tr.Times) }

// At returns the state at sample index i.
func (tr Trajectory) At(i int) dynamo.State {
	return dynamo.State{tr.Q[i], tr.V[i]}
}

// Set holds every derived quantity of a trajectory. Each column is a pure
// elementwise function of (params, trajectory); recomputing from the same
// inputs always yields the same values.
type Set struct {
	Force     []float64
	Kinetic   []float64
	Potential []float64
	Total     []float64
	Power     []float64
}

// Derive computes driving force, kinetic/potential/total energy, and
// instantaneous power over the trajectory samples.
func Derive(p oscillator.Params, tr Trajectory) Set {
	n := tr.Len()
	s := Set{
		Force:     make([]float64, n),
		Kinetic:   make([]float64, n),
		Potential: make([]float64, n),
		Total:     make([]float64, n),
		Power:     make([]float64, n),
	}

	for i := 0; i < n; i++ {
		q, v, t := tr.Q[i], tr.V[i], tr.Times[i]

		s.Force[i] = p.Force(t)
		s.Kinetic[i] = 0.5 * p.Mass * v * v
		s.Potential[i] = 0.5 * p.Spring * q * q
		s.Total[i] = s.Kinetic[i] + s.Potential[i]
		s.Power[i] = s.Force[i] * v
	}

	return s
}
