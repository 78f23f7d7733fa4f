package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/smctune/internal/dynamo"
)

// ChatteringIndex reduces a control time series to a scalar measure of
// high-frequency switching activity: the RMS of the discrete time
// derivative of the signal.
//
//	index = sqrt( mean( ((u[i+1]-u[i])/dt)^2 ) )
//
// It is zero for a constant signal and strictly increasing in both the
// amplitude and the frequency of switching. This is the measure the
// fitness evaluator minimizes; see metrics.SpectralIndex for a
// frequency-domain cross-check.
func ChatteringIndex(u []float64, dt float64) float64 {
	if len(u) < 2 || dt <= 0 {
		return 0
	}
	d := make([]float64, len(u)-1)
	for i := range d {
		d[i] = (u[i+1] - u[i]) / dt
	}
	return math.Sqrt(floats.Dot(d, d) / float64(len(d)))
}

// RMS returns the root mean square of a sample vector.
func RMS(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(xs, xs) / float64(len(xs)))
}

// Chattering is the streaming dynamo.Metric form of ChatteringIndex for
// control channel 0.
type Chattering struct {
	name    string
	prevU   float64
	prevT   float64
	sumSq   float64
	samples int
	first   bool
}

func NewChattering() *Chattering {
	return &Chattering{name: "chattering", first: true}
}

func (c *Chattering) Name() string { return c.name }

func (c *Chattering) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(u) == 0 {
		return
	}
	if c.first {
		c.prevU = u[0]
		c.prevT = t
		c.first = false
		return
	}
	dt := t - c.prevT
	if dt > 0 {
		du := (u[0] - c.prevU) / dt
		c.sumSq += du * du
		c.samples++
	}
	c.prevU = u[0]
	c.prevT = t
}

func (c *Chattering) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return math.Sqrt(c.sumSq / float64(c.samples))
}

func (c *Chattering) Reset() {
	c.prevU = 0
	c.prevT = 0
	c.sumSq = 0
	c.samples = 0
	c.first = true
}
