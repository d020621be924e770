package metrics

import (
	"math"

	"github.com/san-kum/oscsim/internal/dynamo"
	"github.com/san-kum/oscsim/internal/oscillator"
)

// PeakDisplacement records the largest |Q| seen over a run.
type PeakDisplacement struct {
	name string
	peak float64
}

func NewPeakDisplacement() *PeakDisplacement {
	return &PeakDisplacement{name: "peak_displacement"}
}

func (p *PeakDisplacement) Name() string { return p.name }

func (p *PeakDisplacement) Observe(x dynamo.State, t float64) {
	if len(x) == 0 {
		return
	}
	p.peak = math.Max(p.peak, math.Abs(x[0]))
}

func (p *PeakDisplacement) Value() float64 { return p.peak }

func (p *PeakDisplacement) Reset() { p.peak = 0 }

// MeanPower averages the instantaneous power delivered by the drive. At
// steady state this balances the power dissipated by damping.
type MeanPower struct {
	name    string
	params  oscillator.Params
	sum     float64
	samples int
}

func NewMeanPower(params oscillator.Params) *MeanPower {
	return &MeanPower{
		name:   "mean_power",
		params: params,
	}
}

func (m *MeanPower) Name() string { return m.name }

func (m *MeanPower) Observe(x dynamo.State, t float64) {
	if len(x) < 2 {
		return
	}
	m.sum += m.params.Force(t) * x[1]
	m.samples++
}

func (m *MeanPower) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanPower) Reset() {
	m.sum = 0
	m.samples = 0
}
