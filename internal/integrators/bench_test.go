package integrators

import (
	"context"
	"testing"

	"github.com/san-kum/oscsim/internal/dynamo"
)

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	sys := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(sys, x, 0, 0.01)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	sys := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(sys, x, 0, 0.01)
	}
}

func BenchmarkRK45(b *testing.B) {
	integrator := NewRK45()
	sys := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(sys, x, 0, 0.01)
	}
}

func BenchmarkSolve(b *testing.B) {
	sys := &harmonicOscillator{}
	times := TimeGrid(10.0, 100)
	opts := DefaultSolveOptions()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = Solve(context.Background(), sys, dynamo.State{1.0, 0.0}, times, opts)
	}
}
