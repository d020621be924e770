package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/oscsim/internal/oscillator"
	"github.com/san-kum/oscsim/internal/series"
)

// SteadyFit is the response amplitude and phase lag estimated from the tail
// of a simulated trajectory, comparable against the closed form.
type SteadyFit struct {
	Amplitude float64
	PhaseLag  float64
}

// FitSteadyState least-squares fits Q(t) = a sin(wt+phi) + b cos(wt+phi)
// over the last tailFrac of the trajectory and converts to amplitude and
// phase lag. With gamma > 0 the transient decays, so the fit converges to
// the analytic steady state as the simulated interval grows.
func FitSteadyState(p oscillator.Params, tr series.Trajectory, tailFrac float64) (SteadyFit, error) {
	if tailFrac <= 0 || tailFrac > 1 {
		return SteadyFit{}, errors.New("analysis: tail fraction must be in (0, 1]")
	}
	start := int(float64(tr.Len()) * (1 - tailFrac))
	if tr.Len()-start < 4 {
		return SteadyFit{}, errors.New("analysis: too few samples in trajectory tail")
	}

	var sss, scc, ssc, sqs, sqc float64
	for i := start; i < tr.Len(); i++ {
		theta := p.ForceFreq*tr.Times[i] + p.ForcePhase
		s, c := math.Sincos(theta)
		q := tr.Q[i]

		sss += s * s
		scc += c * c
		ssc += s * c
		sqs += q * s
		sqc += q * c
	}

	det := sss*scc - ssc*ssc
	if math.Abs(det) < 1e-300 {
		return SteadyFit{}, errors.New("analysis: singular normal equations (is the drive frequency zero?)")
	}

	a := (sqs*scc - sqc*ssc) / det
	b := (sqc*sss - sqs*ssc) / det

	// Q = a sin(theta) + b cos(theta) = A sin(theta - delta)
	// with a = A cos(delta), b = -A sin(delta).
	return SteadyFit{
		Amplitude: math.Hypot(a, b),
		PhaseLag:  math.Atan2(-b, a),
	}, nil
}
