package fitness_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/smctune/internal/dynamo"
	"github.com/san-kum/smctune/internal/fitness"
)

// fixedMeasure lets the specs pin the chattering index directly.
func fixedMeasure(index float64) fitness.Measure {
	return func(u []float64, dt float64) float64 { return index }
}

// trajectoryWithRMS builds a state-error series whose RMS is exactly rms.
func trajectoryWithRMS(rms float64) *fitness.Trajectory {
	return &fitness.Trajectory{
		Dt:         0.001,
		Control:    []float64{1, 1, 1, 1},
		StateError: []float64{rms, -rms, rms, -rms},
	}
}

func simulateReturning(traj *fitness.Trajectory) fitness.SimulateFunc {
	return func(ctx context.Context, gains []float64) (*fitness.Trajectory, error) {
		return traj, nil
	}
}

var _ = Describe("Evaluator", func() {
	var cfg fitness.Config

	BeforeEach(func() {
		cfg = fitness.DefaultConfig()
	})

	Describe("constraint activation", func() {
		It("applies no penalty at the threshold exactly", func() {
			e := fitness.NewEvaluator(cfg, nil)
			_, penalty := e.Score(1.0, cfg.TrackingThreshold)
			Expect(penalty).To(BeZero())
		})

		It("applies an exactly linear penalty above the threshold", func() {
			e := fitness.NewEvaluator(cfg, nil)
			eps := 0.005
			_, penalty := e.Score(1.0, cfg.TrackingThreshold+eps)
			Expect(penalty).To(BeNumerically("~", eps*cfg.PenaltyScale, 1e-9))
		})
	})

	Describe("concrete scenarios", func() {
		It("returns the bare chattering index inside the constraint", func() {
			// chattering 342.25, tracking 0.05 <= 0.1: penalty 0.
			e := fitness.NewEvaluator(cfg, nil)
			f, penalty := e.Score(342.25, 0.05)
			Expect(penalty).To(BeZero())
			Expect(f).To(Equal(342.25))
		})

		It("adds the scaled violation outside the constraint", func() {
			// chattering 1.5, tracking 0.12: penalty (0.12-0.1)*1000 = 20.
			e := fitness.NewEvaluator(cfg, nil)
			f, penalty := e.Score(1.5, 0.12)
			Expect(penalty).To(BeNumerically("~", 20.0, 1e-9))
			Expect(f).To(BeNumerically("~", 21.5, 1e-9))
		})
	})

	Describe("no flat-fitness collapse", func() {
		It("separates candidates with materially different chattering", func() {
			simA := simulateReturning(trajectoryWithRMS(0.02))
			simB := simulateReturning(trajectoryWithRMS(0.02))
			evalA := fitness.NewEvaluator(cfg, simA, fitness.WithMeasure(fixedMeasure(10.0)))
			evalB := fitness.NewEvaluator(cfg, simB, fitness.WithMeasure(fixedMeasure(11.5)))

			fa, err := evalA.Evaluate(context.Background(), []float64{1})
			Expect(err).NotTo(HaveOccurred())
			fb, err := evalB.Evaluate(context.Background(), []float64{1})
			Expect(err).NotTo(HaveOccurred())

			Expect(math.Abs(fa - fb)).To(BeNumerically(">", 1.0))
		})

		It("does not collapse where the inverted objective would", func() {
			// The defective shape: tracking + max(0, chattering-2)*10.
			// At chattering 1.9, tracking 0: it yields exactly 0.
			defective := func(chattering, tracking float64) float64 {
				excess := math.Max(0, chattering-2.0)
				return tracking + excess*10.0
			}
			Expect(defective(1.9, 0.0)).To(BeZero())

			// Same inputs through the corrected objective keep signal.
			e := fitness.NewEvaluator(cfg, nil)
			f, _ := e.Score(1.9, 0.0)
			Expect(f).To(Equal(1.9))

			// And nearby chattering levels remain distinguishable.
			f2, _ := e.Score(1.7, 0.0)
			Expect(f).NotTo(Equal(f2))
		})

		It("is strictly increasing in chattering at fixed feasible tracking", func() {
			e := fitness.NewEvaluator(cfg, nil)
			prev := -1.0
			for _, c := range []float64{0, 0.5, 1.0, 5.0, 50.0, 500.0} {
				f, _ := e.Score(c, 0.08)
				Expect(f).To(BeNumerically(">", prev))
				prev = f
			}
		})
	})

	Describe("non-negativity", func() {
		It("never returns a negative fitness for valid trajectories", func() {
			e := fitness.NewEvaluator(cfg, nil)
			for _, c := range []float64{0, 0.1, 12.5} {
				for _, r := range []float64{0, 0.05, 0.1, 0.3} {
					f, _ := e.Score(c, r)
					Expect(f).To(BeNumerically(">=", 0))
				}
			}
		})
	})

	Describe("failure propagation", func() {
		It("propagates divergence instead of inventing a fitness", func() {
			divergence := &dynamo.DivergenceError{Step: 314, Time: 0.314}
			sim := func(ctx context.Context, gains []float64) (*fitness.Trajectory, error) {
				return nil, divergence
			}
			e := fitness.NewEvaluator(cfg, sim)

			_, err := e.Evaluate(context.Background(), []float64{1, 2, 3})
			Expect(err).To(HaveOccurred())
			Expect(dynamo.IsDivergence(err)).To(BeTrue())
		})

		It("rejects empty control series", func() {
			sim := simulateReturning(&fitness.Trajectory{Dt: 0.001, StateError: []float64{0.1}})
			e := fitness.NewEvaluator(cfg, sim)

			_, err := e.Evaluate(context.Background(), []float64{1})
			Expect(errors.Is(err, dynamo.ErrEmptyTrajectory)).To(BeTrue())
		})

		It("rejects empty state-error series", func() {
			sim := simulateReturning(&fitness.Trajectory{Dt: 0.001, Control: []float64{0.1}})
			e := fitness.NewEvaluator(cfg, sim)

			_, err := e.Evaluate(context.Background(), []float64{1})
			Expect(errors.Is(err, dynamo.ErrEmptyTrajectory)).To(BeTrue())
		})
	})

	Describe("end-to-end reduction", func() {
		It("computes chattering from the control series by default", func() {
			traj := &fitness.Trajectory{
				Dt:         0.01,
				Control:    []float64{1, 1, 1, 1, 1},
				StateError: []float64{0.01, -0.01, 0.01},
			}
			e := fitness.NewEvaluator(cfg, simulateReturning(traj))

			f, err := e.Evaluate(context.Background(), []float64{1})
			Expect(err).NotTo(HaveOccurred())
			// Constant control, feasible tracking: zero everywhere.
			Expect(f).To(BeZero())
		})
	})
})

var _ = Describe("CollapseDetector", func() {
	It("flags an all-identical population", func() {
		d := fitness.NewCollapseDetector()
		values := make([]float64, 30)
		Expect(d.Check(values)).To(BeTrue())
	})

	It("does not flag a spread population", func() {
		d := fitness.NewCollapseDetector()
		values := make([]float64, 30)
		for i := range values {
			values[i] = float64(i) * 0.37
		}
		Expect(d.Check(values)).To(BeFalse())
	})

	It("ignores infinite sentinels from failed evaluations", func() {
		d := fitness.NewCollapseDetector()
		values := []float64{1.0, 2.0, 3.0, math.Inf(1), math.Inf(1), math.Inf(1), 4.0, 5.0}
		Expect(d.Check(values)).To(BeFalse())
	})

	It("requires at least two finite values", func() {
		d := fitness.NewCollapseDetector()
		Expect(d.Check([]float64{1.0})).To(BeFalse())
		Expect(d.Check(nil)).To(BeFalse())
	})
})
