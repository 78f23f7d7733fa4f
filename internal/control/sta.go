package control

import (
	"math"

	"github.com/san-kum/smctune/internal/dynamo"
)

// SuperTwistingSMC is a second-order sliding-mode controller. The
// discontinuity is pushed into the integral term, so the applied control
// itself is continuous:
//
//	u  = -K1*sqrt(|s|)*sign(s) + z
//	z' = -K2*sign(s)
//
// Gains: [k1, k2, lam1, lam2, K1, K2].
type SuperTwistingSMC struct {
	Surface  Surface
	KAlg1    float64
	KAlg2    float64
	MaxForce float64

	z     float64
	prevT float64
	first bool
}

func NewSuperTwistingSMC(gains []float64) (*SuperTwistingSMC, error) {
	if len(gains) != 6 {
		return nil, dynamo.ErrDimensionMismatch
	}
	c := &SuperTwistingSMC{
		Surface:  Surface{K1: gains[0], K2: gains[1], Lam1: gains[2], Lam2: gains[3]},
		KAlg1:    gains[4],
		KAlg2:    gains[5],
		MaxForce: DefaultMaxForce,
	}
	c.Reset()
	return c, nil
}

func (c *SuperTwistingSMC) Reset() {
	c.z = 0
	c.prevT = 0
	c.first = true
}

func (c *SuperTwistingSMC) Compute(x dynamo.State, t float64) dynamo.Control {
	s := c.Surface.Value(x)

	if c.first {
		c.first = false
	} else if dt := t - c.prevT; dt > 0 {
		c.z += -c.KAlg2 * sign(s) * dt
		c.z = clamp(c.z, c.MaxForce)
	}
	c.prevT = t

	u := -c.KAlg1*math.Sqrt(abs(s))*sign(s) + c.z
	return dynamo.Control{clamp(u, c.MaxForce)}
}
