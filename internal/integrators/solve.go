package integrators

import (
	"context"
	"math"

	"github.com/san-kum/oscsim/internal/dynamo"
)

// SolveOptions controls the adaptive driver in [Solve].
type SolveOptions struct {
	Tolerance float64
	InitialDt float64
	MinDt     float64
	MaxDt     float64
}

func DefaultSolveOptions() SolveOptions {
	return SolveOptions{
		Tolerance: 1e-8,
		InitialDt: 0.01,
		MinDt:     1e-12,
		MaxDt:     1.0,
	}
}

// TimeGrid returns n evenly spaced output times over [0, tMax].
func TimeGrid(tMax float64, n int) []float64 {
	times := make([]float64, n)
	if n == 1 {
		return times
	}
	step := tMax / float64(n-1)
	for i := range times {
		times[i] = float64(i) * step
	}
	times[n-1] = tMax
	return times
}

// Solve integrates sys from the state x0 at times[0] and evaluates the
// solution at every requested output time. Between output points the driver
// substeps adaptively: trial steps that exceed the tolerance are rejected and
// retried smaller, accepted steps grow the next attempt. Steps are clamped so
// the solution lands exactly on each output time.
//
// Returns the state at each output time and the number of accepted steps.
// Fails with [dynamo.ErrStepTooSmall] when the error control cannot be
// satisfied above opts.MinDt (stiffness beyond the method's stability region)
// and with [dynamo.ErrUnstable] when the state diverges to NaN/Inf.
func Solve(ctx context.Context, sys dynamo.System, x0 dynamo.State, times []float64, opts SolveOptions) ([]dynamo.State, int, error) {
	if len(times) == 0 {
		return nil, 0, dynamo.ErrBadTimeGrid
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, 0, dynamo.ErrBadTimeGrid
		}
	}
	if len(x0) != sys.StateDim() {
		return nil, 0, dynamo.ErrDimensionMismatch
	}

	rk := NewRK45()

	out := make([]dynamo.State, len(times))
	out[0] = x0.Clone()

	x := x0.Clone()
	t := times[0]
	dt := opts.InitialDt
	steps := 0

	for i := 1; i < len(times); i++ {
		target := times[i]

		for t < target {
			select {
			case <-ctx.Done():
				return nil, steps, ctx.Err()
			default:
			}

			h := math.Min(dt, target-t)

			xNew, errRatio := rk.attempt(sys, x, t, h, opts.Tolerance)

			if errRatio > 1 {
				scale := math.Max(rk.minScale, rk.safety*math.Pow(errRatio, -0.25))
				dt = h * scale
				if dt < opts.MinDt {
					return nil, steps, &dynamo.SimulationError{
						Step:    steps,
						Time:    t,
						State:   x.Clone(),
						Wrapped: dynamo.ErrStepTooSmall,
					}
				}
				continue
			}

			if !xNew.IsValid() {
				return nil, steps, &dynamo.SimulationError{
					Step:    steps,
					Time:    t,
					State:   x.Clone(),
					Wrapped: dynamo.ErrUnstable,
				}
			}

			x = xNew
			t += h
			steps++

			if errRatio > 0 {
				scale := math.Min(rk.maxScale, rk.safety*math.Pow(errRatio, -0.2))
				dt = math.Min(h*scale, opts.MaxDt)
			} else {
				dt = math.Min(h*rk.maxScale, opts.MaxDt)
			}
			if dt < opts.MinDt {
				dt = opts.MinDt
			}
		}

		out[i] = x.Clone()
	}

	return out, steps, nil
}
