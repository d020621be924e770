// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical integrator interface
//   - [AdaptiveIntegrator]: integrator with embedded error estimation
//   - [Metric]: running observation over a trajectory
//
// # Example
//
//	sys := oscillator.New(params)
//	integ := integrators.NewRK45()
//	traj, err := integrators.Solve(ctx, sys, x0, times, opts)
//
// # Thread Safety
//
// Systems and integrators are NOT thread-safe. For parameter sweeps,
// use the sweep package which gives each run its own instances.
package dynamo
