package control

import "github.com/san-kum/smctune/internal/dynamo"

// AdaptiveSMC raises its switching gain while the state is off the
// sliding surface and lets it leak back down once the surface is reached:
//
//	u     = -Khat*sat(s/eps)
//	Khat' = gamma*|s| - leak*Khat, Khat in [KInit, KMax]
//
// Gains: [k1, k2, lam1, lam2, gamma].
type AdaptiveSMC struct {
	Surface       Surface
	Gamma         float64
	Leak          float64
	KInit         float64
	KMax          float64
	BoundaryLayer float64
	MaxForce      float64

	khat  float64
	prevT float64
	first bool
}

func NewAdaptiveSMC(gains []float64) (*AdaptiveSMC, error) {
	if len(gains) != 5 {
		return nil, dynamo.ErrDimensionMismatch
	}
	c := &AdaptiveSMC{
		Surface:       Surface{K1: gains[0], K2: gains[1], Lam1: gains[2], Lam2: gains[3]},
		Gamma:         gains[4],
		Leak:          0.1,
		KInit:         5.0,
		KMax:          DefaultMaxForce,
		BoundaryLayer: DefaultBoundaryLayer,
		MaxForce:      DefaultMaxForce,
	}
	c.Reset()
	return c, nil
}

func (c *AdaptiveSMC) Reset() {
	c.khat = c.KInit
	c.prevT = 0
	c.first = true
}

func (c *AdaptiveSMC) Compute(x dynamo.State, t float64) dynamo.Control {
	s := c.Surface.Value(x)

	if c.first {
		c.first = false
	} else if dt := t - c.prevT; dt > 0 {
		c.khat += (c.Gamma*abs(s) - c.Leak*c.khat) * dt
		if c.khat < c.KInit {
			c.khat = c.KInit
		}
		if c.khat > c.KMax {
			c.khat = c.KMax
		}
	}
	c.prevT = t

	u := -c.khat * sat(s, c.BoundaryLayer)
	return dynamo.Control{clamp(u, c.MaxForce)}
}

// Gain exposes the current adapted switching gain.
func (c *AdaptiveSMC) Gain() float64 { return c.khat }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
