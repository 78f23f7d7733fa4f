package fitness

import (
	"context"
	"fmt"

	"github.com/san-kum/smctune/internal/dynamo"
	"github.com/san-kum/smctune/internal/metrics"
)

// Trajectory is the reduced output of one closed-loop simulation: the
// control-input samples and the tracked-state error samples over a fixed
// horizon, plus the sample period. It is read-only to the evaluator.
type Trajectory struct {
	Dt         float64
	Control    []float64
	StateError []float64
}

// SimulateFunc runs the closed loop for one candidate gain vector. It is
// expected to be deterministic for fixed gains and to fail with a
// *dynamo.DivergenceError when the trajectory leaves the finite domain.
type SimulateFunc func(ctx context.Context, gains []float64) (*Trajectory, error)

// Measure reduces a control series to a non-negative chattering scalar.
// It must be strictly increasing in switching activity and zero only for
// a constant signal.
type Measure func(u []float64, dt float64) float64

// Config holds the constraint parameters. It is immutable after
// construction; concurrent tuning runs for different controller variants
// each get their own value.
type Config struct {
	// TrackingThreshold is the feasible tracking RMS in radians.
	TrackingThreshold float64
	// PenaltyScale converts constraint violation into fitness units.
	PenaltyScale float64
}

func DefaultConfig() Config {
	return Config{
		TrackingThreshold: 0.1,
		PenaltyScale:      1000.0,
	}
}

// Evaluator maps a candidate gain vector to the scalar a minimizing
// optimizer consumes. Chattering is the unconditional term; tracking
// accuracy enters only as a penalty once it violates the threshold:
//
//	fitness = chattering + max(0, trackingRMS - threshold) * penaltyScale
//
// The inversion matters. An objective of the form
// "tracking + max(0, chattering - threshold) * scale" goes identically
// flat wherever both terms sit inside their thresholds, and a swarm with
// a flat objective returns an arbitrary point. With chattering
// unconditional, any two candidates with different switching activity
// score differently everywhere in the feasible region.
//
// The evaluator is stateless; it is safe to call Evaluate concurrently
// as long as the injected simulate collaborator isolates its own state
// per call.
type Evaluator struct {
	cfg      Config
	simulate SimulateFunc
	measure  Measure
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMeasure overrides the default derivative-energy chattering measure.
func WithMeasure(m Measure) Option {
	return func(e *Evaluator) { e.measure = m }
}

func NewEvaluator(cfg Config, simulate SimulateFunc, opts ...Option) *Evaluator {
	e := &Evaluator{
		cfg:      cfg,
		simulate: simulate,
		measure:  metrics.ChatteringIndex,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs the injected simulation for gains and reduces the
// trajectory to a fitness value. Simulation failures propagate as
// errors; they are never converted into a numeric fitness.
func (e *Evaluator) Evaluate(ctx context.Context, gains []float64) (float64, error) {
	traj, err := e.simulate(ctx, gains)
	if err != nil {
		return 0, err
	}
	return e.Reduce(traj)
}

// Reduce scores an already-computed trajectory.
func (e *Evaluator) Reduce(traj *Trajectory) (float64, error) {
	if traj == nil || len(traj.Control) == 0 || len(traj.StateError) == 0 {
		return 0, fmt.Errorf("fitness: %w", dynamo.ErrEmptyTrajectory)
	}

	chattering := e.measure(traj.Control, traj.Dt)
	trackingRMS := metrics.RMS(traj.StateError)

	fitness, _ := e.Score(chattering, trackingRMS)
	return fitness, nil
}

// Score combines a chattering index and a tracking RMS into the final
// fitness, returning the constraint penalty alongside.
func (e *Evaluator) Score(chattering, trackingRMS float64) (fitness, penalty float64) {
	if trackingRMS > e.cfg.TrackingThreshold {
		penalty = (trackingRMS - e.cfg.TrackingThreshold) * e.cfg.PenaltyScale
	}
	return chattering + penalty, penalty
}
