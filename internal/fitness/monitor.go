package fitness

import "math"

// CollapseDetector flags the failure signature of a degenerate objective:
// most of a population receiving one identical fitness value, which
// leaves the optimizer without a search signal. A flagged iteration is a
// warning to investigate before trusting the returned gains, not a hard
// failure.
type CollapseDetector struct {
	// Tolerance under which two fitness values count as identical.
	Tolerance float64
	// Fraction of finite values that must coincide to flag collapse.
	Fraction float64
}

func NewCollapseDetector() *CollapseDetector {
	return &CollapseDetector{
		Tolerance: 1e-9,
		Fraction:  0.9,
	}
}

// Check reports whether the fitness values of one population are
// collapsed. Non-finite sentinels (failed evaluations) are excluded.
func (d *CollapseDetector) Check(values []float64) bool {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) < 2 {
		return false
	}

	// Count the largest cluster around each value. Populations are
	// small (tens of particles), quadratic is fine.
	best := 0
	for _, center := range finite {
		n := 0
		for _, v := range finite {
			if math.Abs(v-center) <= d.Tolerance {
				n++
			}
		}
		if n > best {
			best = n
		}
	}

	return float64(best) >= d.Fraction*float64(len(finite))
}
