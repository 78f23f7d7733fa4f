package optim

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/smctune/internal/fitness"
)

// Objective maps a candidate position to the value being minimized. A
// returned error marks the evaluation as failed; the optimizer assigns
// the candidate a +Inf sentinel and keeps searching.
type Objective func(ctx context.Context, pos []float64) (float64, error)

type PSOConfig struct {
	Particles  int
	Iterations int
	Inertia    float64
	Cognitive  float64
	Social     float64
	Bounds     [][2]float64
	Seed       int64
	Workers    int
}

// DefaultPSOConfig mirrors the tuning runs this repo was built around:
// 30 particles, 150 iterations, standard inertia-weight coefficients.
func DefaultPSOConfig(bounds [][2]float64) PSOConfig {
	return PSOConfig{
		Particles:  30,
		Iterations: 150,
		Inertia:    0.7,
		Cognitive:  1.5,
		Social:     1.5,
		Bounds:     bounds,
		Workers:    runtime.NumCPU(),
	}
}

// IterationStats summarizes one swarm iteration for progress reporting.
type IterationStats struct {
	Iteration int
	BestVal   float64
	BestPos   []float64
	MeanVal   float64
	Failed    int
	Collapsed bool
}

type Result struct {
	BestPos           []float64
	BestVal           float64
	History           []IterationStats
	Evaluations       int
	FailedEvaluations int
	CollapseWarnings  int
}

type particle struct {
	pos, vel []float64
	val      float64
	bestPos  []float64
	bestVal  float64
}

// PSO is a global-best particle swarm optimizer over a bounded box.
// Candidate evaluation is farmed out to a worker pool; each worker calls
// the objective independently, so the objective must not share mutable
// state across calls.
type PSO struct {
	cfg      PSOConfig
	detector *fitness.CollapseDetector
	onIter   func(IterationStats)
}

func NewPSO(cfg PSOConfig) *PSO {
	return &PSO{
		cfg:      cfg,
		detector: fitness.NewCollapseDetector(),
	}
}

// OnIteration registers a callback invoked after every iteration, on the
// optimizer's goroutine.
func (p *PSO) OnIteration(fn func(IterationStats)) {
	p.onIter = fn
}

func (p *PSO) Optimize(ctx context.Context, obj Objective) (*Result, error) {
	dims := len(p.cfg.Bounds)
	rng := rand.New(rand.NewSource(p.cfg.Seed))

	swarm := make([]*particle, p.cfg.Particles)
	for i := range swarm {
		pos := make([]float64, dims)
		vel := make([]float64, dims)
		for d, b := range p.cfg.Bounds {
			span := b[1] - b[0]
			pos[d] = b[0] + rng.Float64()*span
			vel[d] = (rng.Float64()*2 - 1) * span * 0.1
		}
		swarm[i] = &particle{pos: pos, vel: vel, bestVal: math.Inf(1)}
	}

	result := &Result{BestVal: math.Inf(1)}
	values := make([]float64, p.cfg.Particles)

	for iter := 0; iter < p.cfg.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		failed := p.evaluate(ctx, obj, swarm, values)
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Evaluations += p.cfg.Particles
		result.FailedEvaluations += failed

		for _, pt := range swarm {
			if pt.val < pt.bestVal {
				pt.bestVal = pt.val
				pt.bestPos = append([]float64(nil), pt.pos...)
			}
			if pt.bestVal < result.BestVal {
				result.BestVal = pt.bestVal
				result.BestPos = append([]float64(nil), pt.bestPos...)
			}
		}

		collapsed := p.detector.Check(values)
		if collapsed {
			result.CollapseWarnings++
		}

		stats := IterationStats{
			Iteration: iter,
			BestVal:   result.BestVal,
			BestPos:   append([]float64(nil), result.BestPos...),
			MeanVal:   finiteMean(values),
			Failed:    failed,
			Collapsed: collapsed,
		}
		result.History = append(result.History, stats)
		if p.onIter != nil {
			p.onIter(stats)
		}

		p.move(rng, swarm, result.BestPos)
	}

	return result, nil
}

// evaluate scores the whole swarm through a bounded worker pool and
// returns the number of failed evaluations. Failures score +Inf.
func (p *PSO) evaluate(ctx context.Context, obj Objective, swarm []*particle, values []float64) int {
	workers := p.cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	failed := 0
	var mu sync.Mutex
	idx := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				val, err := obj(ctx, swarm[i].pos)
				if err != nil || math.IsNaN(val) {
					val = math.Inf(1)
					if ctx.Err() == nil {
						mu.Lock()
						failed++
						mu.Unlock()
					}
				}
				swarm[i].val = val
				values[i] = val
			}
		}()
	}

	for i := range swarm {
		idx <- i
	}
	close(idx)
	wg.Wait()

	return failed
}

func (p *PSO) move(rng *rand.Rand, swarm []*particle, globalBest []float64) {
	if globalBest == nil {
		return
	}
	for _, pt := range swarm {
		if pt.bestPos == nil {
			continue
		}
		for d, b := range p.cfg.Bounds {
			r1, r2 := rng.Float64(), rng.Float64()
			pt.vel[d] = p.cfg.Inertia*pt.vel[d] +
				p.cfg.Cognitive*r1*(pt.bestPos[d]-pt.pos[d]) +
				p.cfg.Social*r2*(globalBest[d]-pt.pos[d])

			// Velocity clamp keeps a particle from tunneling across
			// the whole box in one step.
			span := b[1] - b[0]
			if pt.vel[d] > span {
				pt.vel[d] = span
			} else if pt.vel[d] < -span {
				pt.vel[d] = -span
			}

			pt.pos[d] += pt.vel[d]
			if pt.pos[d] < b[0] {
				pt.pos[d] = b[0]
				pt.vel[d] = 0
			} else if pt.pos[d] > b[1] {
				pt.pos[d] = b[1]
				pt.vel[d] = 0
			}
		}
	}
}

func finiteMean(values []float64) float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return math.Inf(1)
	}
	return stat.Mean(finite, nil)
}
