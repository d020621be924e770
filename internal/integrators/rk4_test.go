package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/oscsim/internal/dynamo"
)

func TestRK4Accuracy(t *testing.T) {
	sys := &harmonicOscillator{}
	integ := NewRK4()

	x0 := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	x := x0
	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestEulerFirstOrder(t *testing.T) {
	sys := &harmonicOscillator{}
	integ := NewEuler()

	x := dynamo.State{1.0, 0.0}
	dt := 0.001
	for i := 0; i < 1000; i++ {
		x = integ.Step(sys, x, float64(i)*dt, dt)
	}

	if math.Abs(x[0]-math.Cos(1.0)) > 1e-2 {
		t.Errorf("euler drifted too far: got %.6f, expected %.6f", x[0], math.Cos(1.0))
	}
}
