// Package sweep re-runs the full simulation pipeline across a range of
// values for one parameter. Every evaluation is independent and stateless
// given its inputs, so runs fan out across goroutines; nothing is cached
// or shared between parameter values.
package sweep

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/oscsim/internal/dynamo"
	"github.com/san-kum/oscsim/internal/metrics"
	"github.com/san-kum/oscsim/internal/oscillator"
	"github.com/san-kum/oscsim/internal/sim"
)

// Point is the outcome of one parameter value: the full run result plus the
// closed-form steady-state amplitude at that value.
type Point struct {
	Value     float64
	Result    *sim.Result
	SteadyAmp float64
}

type Sweep struct {
	base oscillator.Params
	x0   dynamo.State
	cfg  sim.Config
}

func New(base oscillator.Params, x0 dynamo.State, cfg sim.Config) *Sweep {
	return &Sweep{base: base, x0: x0, cfg: cfg}
}

// Values returns n evenly spaced sweep values over [from, to].
func Values(from, to float64, n int) []float64 {
	vals := make([]float64, n)
	if n == 1 {
		vals[0] = from
		return vals
	}
	step := (to - from) / float64(n-1)
	for i := range vals {
		vals[i] = from + float64(i)*step
	}
	return vals
}

// Run simulates every value of the named parameter and returns points
// ordered as the input values. The first failing run aborts the sweep.
func (s *Sweep) Run(ctx context.Context, param string, values []float64) ([]Point, error) {
	points := make([]Point, len(values))
	errs := make([]error, len(values))

	var wg sync.WaitGroup
	for i, v := range values {
		wg.Add(1)
		go func(idx int, value float64) {
			defer wg.Done()
			points[idx], errs[idx] = s.runOne(ctx, param, value)
		}(i, v)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", param, values[i], err)
		}
	}

	return points, nil
}

func (s *Sweep) runOne(ctx context.Context, param string, value float64) (Point, error) {
	osc := oscillator.New(s.base)
	if err := osc.SetParam(param, value); err != nil {
		return Point{}, err
	}

	simulator := sim.New(osc, nil)
	simulator.AddMetric(metrics.NewPeakDisplacement())
	simulator.AddMetric(metrics.NewMeanEnergy(osc))
	simulator.AddMetric(metrics.NewMeanPower(osc.Params()))

	result, err := simulator.Run(ctx, s.x0, s.cfg)
	if err != nil {
		return Point{}, err
	}

	return Point{
		Value:     value,
		Result:    result,
		SteadyAmp: osc.Params().Steady().Amplitude,
	}, nil
}
