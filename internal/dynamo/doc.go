// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of controlled ordinary differential equations:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical integrator interface
//   - [Controller]: feedback controller interface
//   - [Result]: recorded trajectory of a simulation run
//
// # Example
//
//	dyn := physics.NewDoubleInvertedPendulum()
//	integ := integrators.NewRK4()
//	s := sim.New(dyn, integ, ctrl)
//	result, _ := s.Run(ctx, x0, cfg)
//
// # Thread Safety
//
// Simulator and controller instances are NOT thread-safe. Parallel workers
// must each build their own simulator and controller.
package dynamo
