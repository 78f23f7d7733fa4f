package control

import "github.com/san-kum/smctune/internal/dynamo"

// ClassicalSMC is a boundary-layer sliding-mode controller:
//
//	u = -K*sat(s/eps) - kd*s
//
// Gains: [k1, k2, lam1, lam2, K, kd].
type ClassicalSMC struct {
	Surface       Surface
	K             float64
	Kd            float64
	BoundaryLayer float64
	MaxForce      float64
}

func NewClassicalSMC(gains []float64) (*ClassicalSMC, error) {
	if len(gains) != 6 {
		return nil, dynamo.ErrDimensionMismatch
	}
	return &ClassicalSMC{
		Surface:       Surface{K1: gains[0], K2: gains[1], Lam1: gains[2], Lam2: gains[3]},
		K:             gains[4],
		Kd:            gains[5],
		BoundaryLayer: DefaultBoundaryLayer,
		MaxForce:      DefaultMaxForce,
	}, nil
}

func (c *ClassicalSMC) Compute(x dynamo.State, t float64) dynamo.Control {
	s := c.Surface.Value(x)
	u := -c.K*sat(s, c.BoundaryLayer) - c.Kd*s
	return dynamo.Control{clamp(u, c.MaxForce)}
}
