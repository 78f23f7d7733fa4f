package tune

import (
	"context"
	"sync"
	"time"

	"github.com/san-kum/smctune/internal/config"
	"github.com/san-kum/smctune/internal/fitness"
	"github.com/san-kum/smctune/internal/optim"
)

// Outcome is the final record of one gain-tuning run.
type Outcome struct {
	Controller        string
	BestGains         []float64
	BestFitness       float64
	History           []optim.IterationStats
	Evaluations       int
	FailedEvaluations int
	CollapseWarnings  int
	Elapsed           time.Duration
}

// Tuner wires the plant, controller variant, fitness evaluator and PSO
// for one controller type. Independent Tuner instances share no mutable
// state, so different controller variants may be tuned in parallel.
type Tuner struct {
	cfg    *config.Config
	loop   *ClosedLoop
	eval   *fitness.Evaluator
	onIter func(optim.IterationStats)
}

func New(cfg *config.Config) (*Tuner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loop := NewClosedLoop(cfg)
	eval := fitness.NewEvaluator(fitness.Config{
		TrackingThreshold: cfg.Fitness.TrackingThreshold,
		PenaltyScale:      cfg.Fitness.PenaltyScale,
	}, loop.Simulate)

	return &Tuner{cfg: cfg, loop: loop, eval: eval}, nil
}

// OnIteration registers a progress callback for the underlying swarm.
func (t *Tuner) OnIteration(fn func(optim.IterationStats)) {
	t.onIter = fn
}

func (t *Tuner) Run(ctx context.Context) (*Outcome, error) {
	psoCfg := optim.PSOConfig{
		Particles:  t.cfg.PSO.Particles,
		Iterations: t.cfg.PSO.Iterations,
		Inertia:    t.cfg.PSO.Inertia,
		Cognitive:  t.cfg.PSO.Cognitive,
		Social:     t.cfg.PSO.Social,
		Bounds:     t.cfg.BoundsBox(),
		Seed:       t.cfg.PSO.Seed,
		Workers:    t.cfg.PSO.Workers,
	}
	if psoCfg.Workers <= 0 {
		psoCfg.Workers = optim.DefaultPSOConfig(nil).Workers
	}

	pso := optim.NewPSO(psoCfg)
	if t.onIter != nil {
		pso.OnIteration(t.onIter)
	}

	start := time.Now()
	res, err := pso.Optimize(ctx, t.eval.Evaluate)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Controller:        t.cfg.Controller,
		BestGains:         res.BestPos,
		BestFitness:       res.BestVal,
		History:           res.History,
		Evaluations:       res.Evaluations,
		FailedEvaluations: res.FailedEvaluations,
		CollapseWarnings:  res.CollapseWarnings,
		Elapsed:           time.Since(start),
	}, nil
}

// Replay runs the closed loop once with the given gains and returns the
// full trajectory plus metric values, for reporting and export.
func (t *Tuner) Replay(ctx context.Context, gains []float64) (*ReplayResult, error) {
	result, err := t.loop.Run(ctx, gains)
	if err != nil {
		return nil, err
	}
	return &ReplayResult{Result: result, Dt: t.cfg.Sim.Dt}, nil
}

// RunAll tunes several controller configurations as independent,
// non-interacting runs executed concurrently. The first error wins;
// successful outcomes are returned in input order.
func RunAll(ctx context.Context, cfgs []*config.Config) ([]*Outcome, error) {
	outcomes := make([]*Outcome, len(cfgs))
	errs := make([]error, len(cfgs))

	var wg sync.WaitGroup
	for i, cfg := range cfgs {
		wg.Add(1)
		go func(idx int, cfg *config.Config) {
			defer wg.Done()
			tuner, err := New(cfg)
			if err != nil {
				errs[idx] = err
				return
			}
			outcomes[idx], errs[idx] = tuner.Run(ctx)
		}(i, cfg)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return outcomes, nil
}
