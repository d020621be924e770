package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/oscsim/internal/dynamo"
	"github.com/san-kum/oscsim/internal/integrators"
	"github.com/san-kum/oscsim/internal/oscillator"
	"github.com/san-kum/oscsim/internal/series"
)

// Config controls one simulation run.
type Config struct {
	TMax          float64
	Samples       int
	Tolerance     float64
	Dt            float64
	Adaptive      bool
	MinDt         float64
	MaxDt         float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		TMax:          50.0,
		Samples:       1000,
		Tolerance:     1e-8,
		Dt:            0.01,
		Adaptive:      true,
		MinDt:         1e-12,
		MaxDt:         1.0,
		ValidateState: true,
	}
}

// Result of one run: the trajectory, every derived series, and bookkeeping.
type Result struct {
	Traj        series.Trajectory
	Series      series.Set
	Metrics     map[string]float64
	StepsTaken  int
	EnergyDrift float64
}

// Simulator runs the full pipeline for one oscillator: integrate onto the
// requested output grid, then compute the derived series. Each Run is
// single-shot and stateless given its inputs; re-running with the same
// parameters yields the same result.
type Simulator struct {
	osc       *oscillator.Oscillator
	integ     dynamo.Integrator
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

// New creates a simulator. A nil integrator selects the adaptive RK45 driver.
func New(osc *oscillator.Oscillator, integ dynamo.Integrator) *Simulator {
	return &Simulator{
		osc:       osc,
		integ:     integ,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*Result, error) {
	if err := s.osc.Params().Validate(); err != nil {
		return nil, err
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.osc.StateDim() {
		return nil, dynamo.ErrDimensionMismatch
	}
	if !x0.IsValid() {
		return nil, dynamo.ErrInvalidState
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	times := integrators.TimeGrid(cfg.TMax, cfg.Samples)

	var (
		states []dynamo.State
		steps  int
		err    error
	)
	if s.integ == nil || cfg.Adaptive {
		states, steps, err = integrators.Solve(ctx, s.osc, x0, times, integrators.SolveOptions{
			Tolerance: cfg.Tolerance,
			InitialDt: cfg.Dt,
			MinDt:     cfg.MinDt,
			MaxDt:     cfg.MaxDt,
		})
	} else {
		states, steps, err = s.fixedGrid(ctx, x0, times, cfg)
	}
	if err != nil {
		return nil, err
	}

	for i, x := range states {
		for _, m := range s.metrics {
			m.Observe(x, times[i])
		}
		for _, obs := range s.observers {
			obs.OnStep(x, times[i])
		}
	}

	traj := series.FromStates(times, states)

	result := &Result{
		Traj:       traj,
		Series:     series.Derive(s.osc.Params(), traj),
		Metrics:    make(map[string]float64),
		StepsTaken: steps,
	}

	initialEnergy := s.osc.Energy(states[0])
	finalEnergy := s.osc.Energy(states[len(states)-1])
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.TMax <= 0 {
		return fmt.Errorf("tmax must be positive, got %f", cfg.TMax)
	}
	if cfg.Samples < 2 {
		return fmt.Errorf("samples must be at least 2, got %d", cfg.Samples)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping")
	}
	if !cfg.Adaptive && cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive for fixed stepping, got %f", cfg.Dt)
	}
	return nil
}

// fixedGrid integrates with the configured fixed-step integrator, clamping
// the final substep of each interval so samples land on the output grid.
func (s *Simulator) fixedGrid(ctx context.Context, x0 dynamo.State, times []float64, cfg Config) ([]dynamo.State, int, error) {
	out := make([]dynamo.State, len(times))
	out[0] = x0.Clone()

	x := x0.Clone()
	t := times[0]
	steps := 0

	for i := 1; i < len(times); i++ {
		target := times[i]

		for t < target {
			select {
			case <-ctx.Done():
				return nil, steps, ctx.Err()
			default:
			}

			h := math.Min(cfg.Dt, target-t)
			x = s.integ.Step(s.osc, x, t, h)
			t += h
			steps++

			if cfg.ValidateState && !x.IsValid() {
				return nil, steps, &dynamo.SimulationError{
					Step:    steps,
					Time:    t,
					State:   x.Clone(),
					Wrapped: dynamo.ErrUnstable,
				}
			}
		}

		out[i] = x.Clone()
	}

	return out, steps, nil
}
