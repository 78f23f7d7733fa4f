package tune

import (
	"context"

	"github.com/san-kum/smctune/internal/config"
	"github.com/san-kum/smctune/internal/control"
	"github.com/san-kum/smctune/internal/dynamo"
	"github.com/san-kum/smctune/internal/fitness"
	"github.com/san-kum/smctune/internal/integrators"
	"github.com/san-kum/smctune/internal/metrics"
	"github.com/san-kum/smctune/internal/physics"
	"github.com/san-kum/smctune/internal/sim"
)

// TrackedStates are the plant components the tuner holds to the zero
// reference: the two link angles.
var TrackedStates = []int{1, 2}

// ReplayResult is a full trajectory replayed with fixed gains.
type ReplayResult struct {
	Result *dynamo.Result
	Dt     float64
}

// ClosedLoop adapts the simulator into the fitness evaluator's simulate
// collaborator. Every call builds a fresh controller and integrator, so
// concurrent evaluations share nothing but the (read-only) plant.
type ClosedLoop struct {
	variant string
	plant   *physics.DoubleInvertedPendulum
	simCfg  dynamo.Config
	x0      dynamo.State
}

func NewClosedLoop(cfg *config.Config) *ClosedLoop {
	return &ClosedLoop{
		variant: cfg.Controller,
		plant:   physics.NewDoubleInvertedPendulum(),
		simCfg: dynamo.Config{
			Dt:            cfg.Sim.Dt,
			Duration:      cfg.Sim.Duration,
			ValidateState: true,
		},
		x0: dynamo.State(cfg.InitStateVec()),
	}
}

// Simulate runs one closed-loop episode for a candidate gain vector and
// reduces it to the trajectory form the fitness evaluator consumes.
// Divergence propagates as *dynamo.DivergenceError.
func (c *ClosedLoop) Simulate(ctx context.Context, gains []float64) (*fitness.Trajectory, error) {
	result, err := c.Run(ctx, gains)
	if err != nil {
		return nil, err
	}
	return &fitness.Trajectory{
		Dt:         c.simCfg.Dt,
		Control:    result.ControlSeries(0),
		StateError: metrics.CombinedError(result.States, TrackedStates),
	}, nil
}

// Run executes one full episode and returns the raw trajectory with the
// standard metric set attached.
func (c *ClosedLoop) Run(ctx context.Context, gains []float64) (*dynamo.Result, error) {
	ctrl, err := control.NewFromGains(c.variant, gains)
	if err != nil {
		return nil, err
	}

	s := sim.New(c.plant, integrators.NewRK4(), ctrl)
	s.AddMetric(metrics.NewChattering())
	s.AddMetric(metrics.NewTrackingRMS(TrackedStates))
	s.AddMetric(metrics.NewControlEffort())

	return s.Run(ctx, c.x0, c.simCfg)
}
