package oscillator

import "math"

// SteadyState is the closed-form long-time response of the driven damped
// oscillator once the homogeneous transient has decayed:
//
//	Q_ss(t) = A sin(w t + phi - delta)
type SteadyState struct {
	Amplitude float64
	PhaseLag  float64
	params    Params
}

// Steady returns the analytic steady-state response for the parameter set:
//
//	A     = F0 / sqrt((k - m w^2)^2 + (2 g m w)^2)
//	delta = atan2(2 g m w, k - m w^2)
//
// With zero damping at exact resonance the denominator vanishes and the
// amplitude is +Inf; callers probing resonance should check IsFinite.
func (p Params) Steady() SteadyState {
	w := p.ForceFreq
	elastic := p.Spring - p.Mass*w*w
	viscous := 2 * p.Damping * p.Mass * w

	denom := math.Hypot(elastic, viscous)

	// No drive means no steady response, even where the denominator vanishes.
	var amp float64
	switch {
	case p.ForceAmp == 0:
		amp = 0
	case denom > 0:
		amp = math.Abs(p.ForceAmp) / denom
	default:
		amp = math.Inf(1)
	}

	return SteadyState{
		Amplitude: amp,
		PhaseLag:  math.Atan2(viscous, elastic),
		params:    p,
	}
}

func (s SteadyState) IsFinite() bool {
	return !math.IsInf(s.Amplitude, 0) && !math.IsNaN(s.Amplitude)
}

// At evaluates the steady-state displacement at time t.
func (s SteadyState) At(t float64) float64 {
	p := s.params
	return s.Amplitude * math.Sin(p.ForceFreq*t+p.ForcePhase-s.PhaseLag)
}

// VelocityAt evaluates the steady-state velocity at time t.
func (s SteadyState) VelocityAt(t float64) float64 {
	p := s.params
	return s.Amplitude * p.ForceFreq * math.Cos(p.ForceFreq*t+p.ForcePhase-s.PhaseLag)
}

// Series evaluates the steady-state displacement over the given times.
func (s SteadyState) Series(times []float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = s.At(t)
	}
	return out
}

// MeanEnergy returns the cycle-averaged total energy of the steady-state
// response, 1/4 A^2 (m w^2 + k).
func (s SteadyState) MeanEnergy() float64 {
	p := s.params
	w := p.ForceFreq
	return 0.25 * s.Amplitude * s.Amplitude * (p.Mass*w*w + p.Spring)
}
