package metrics

import (
	"math"

	"github.com/san-kum/smctune/internal/dynamo"
)

// TrackingRMS accumulates the RMS deviation of selected state components
// from the zero reference. For the double inverted pendulum the tracked
// components are the two link angles.
type TrackingRMS struct {
	name    string
	tracked []int
	sumSq   float64
	samples int
}

func NewTrackingRMS(tracked []int) *TrackingRMS {
	return &TrackingRMS{name: "tracking_rms", tracked: tracked}
}

func (m *TrackingRMS) Name() string { return m.name }

func (m *TrackingRMS) Observe(x dynamo.State, u dynamo.Control, t float64) {
	for _, idx := range m.tracked {
		if idx < len(x) {
			m.sumSq += x[idx] * x[idx]
		}
	}
	m.samples++
}

func (m *TrackingRMS) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return math.Sqrt(m.sumSq / float64(m.samples))
}

func (m *TrackingRMS) Reset() {
	m.sumSq = 0
	m.samples = 0
}

// CombinedError flattens selected state components of a trajectory into
// a single signed error series: the euclidean norm over tracked
// components at each sample, carrying the sign of the first one. The
// fitness evaluator consumes this series.
func CombinedError(states []dynamo.State, tracked []int) []float64 {
	errs := make([]float64, 0, len(states))
	for _, x := range states {
		sumSq := 0.0
		sgn := 1.0
		for i, idx := range tracked {
			if idx >= len(x) {
				continue
			}
			if i == 0 && x[idx] < 0 {
				sgn = -1
			}
			sumSq += x[idx] * x[idx]
		}
		errs = append(errs, sgn*math.Sqrt(sumSq))
	}
	return errs
}
