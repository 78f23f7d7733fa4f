// Package physics provides the plant models for sliding-mode gain tuning.
//
// Each model implements the [dynamo.System] interface, defining the
// differential equations governing the system's evolution:
//
//   - [DoubleInvertedPendulum]: two serial pendulums on a driven cart,
//     the plant all controllers in this repo are tuned against
//   - [Pendulum]: single damped pendulum, the reference model integrator
//     and simulator tests validate against
//
// Both models implement [dynamo.Hamiltonian] for energy calculation; the
// double inverted pendulum also implements [dynamo.Configurable] for
// parameter adjustment.
package physics
