// Package control provides sliding-mode controllers for the double
// inverted pendulum.
//
// All controllers implement the [dynamo.Controller] interface and share
// the same linear sliding [Surface]; they differ only in the reaching law
// and gain arity:
//
//   - [ClassicalSMC]: boundary-layer switching plus linear damping (6 gains)
//   - [AdaptiveSMC]: online switching-gain adaptation (5 gains)
//   - [SuperTwistingSMC]: continuous second-order sliding mode (6 gains)
//   - [None]: passthrough controller (zero control)
//
// Controllers with internal state implement [dynamo.Resettable] and must
// be reset (or rebuilt) between simulation runs.
package control
