package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/oscsim/internal/dynamo"
	"github.com/san-kum/oscsim/internal/oscillator"
)

func TestPeakDisplacement(t *testing.T) {
	m := NewPeakDisplacement()

	m.Observe(dynamo.State{0.5, 0}, 0)
	m.Observe(dynamo.State{-2.0, 1}, 0.1)
	m.Observe(dynamo.State{1.0, -1}, 0.2)

	if m.Value() != 2.0 {
		t.Errorf("expected peak 2.0, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestMeanEnergy(t *testing.T) {
	osc := oscillator.New(oscillator.Params{Mass: 2, Spring: 8})
	m := NewMeanEnergy(osc)

	// KE + PE: {1,0} -> 4, {0,1} -> 1
	m.Observe(dynamo.State{1, 0}, 0)
	m.Observe(dynamo.State{0, 1}, 0.1)

	if math.Abs(m.Value()-2.5) > 1e-12 {
		t.Errorf("expected mean energy 2.5, got %f", m.Value())
	}
}

func TestMeanEnergyEmpty(t *testing.T) {
	osc := oscillator.New(oscillator.DefaultParams())
	m := NewMeanEnergy(osc)

	if m.Value() != 0 {
		t.Errorf("expected 0 with no observations, got %f", m.Value())
	}
}

func TestEnergyDrift(t *testing.T) {
	osc := oscillator.New(oscillator.Params{Mass: 1, Spring: 1})
	m := NewEnergyDrift(osc)

	m.Observe(dynamo.State{1, 0}, 0)   // E = 0.5
	m.Observe(dynamo.State{1, 1}, 0.1) // E = 1.0

	if math.Abs(m.Value()-1.0) > 1e-12 {
		t.Errorf("expected drift 1.0, got %f", m.Value())
	}

	// Drift tracks the maximum, not the latest.
	m.Observe(dynamo.State{1, 0}, 0.2)
	if math.Abs(m.Value()-1.0) > 1e-12 {
		t.Errorf("drift should hold its maximum, got %f", m.Value())
	}
}

func TestMeanPower(t *testing.T) {
	p := oscillator.Params{Mass: 1, Spring: 1, ForceAmp: 2, ForceFreq: 1, ForcePhase: math.Pi / 2}
	m := NewMeanPower(p)

	// At t=0 the drive is F0*sin(pi/2) = 2; with v=3 power is 6.
	m.Observe(dynamo.State{0, 3}, 0)
	if math.Abs(m.Value()-6.0) > 1e-12 {
		t.Errorf("expected mean power 6.0, got %f", m.Value())
	}

	m.Observe(dynamo.State{0, -3}, 0)
	if math.Abs(m.Value()) > 1e-12 {
		t.Errorf("expected mean power 0 after symmetric sample, got %f", m.Value())
	}
}
