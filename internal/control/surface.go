package control

import "github.com/san-kum/smctune/internal/dynamo"

// DefaultMaxForce bounds the actuator output of every controller in this
// package, matching the cart motor saturation used in the plant presets.
const DefaultMaxForce = 150.0

// DefaultBoundaryLayer is the sat() boundary layer width shared by the
// classical and adaptive controllers.
const DefaultBoundaryLayer = 0.02

// Surface is the linear sliding surface shared by all controller variants:
//
//	s = k1*th1d + k2*th2d + lam1*th1 + lam2*th2
//
// computed over the two pendulum angle errors (the upright target is the
// zero state, so errors equal the angles themselves).
type Surface struct {
	K1, K2     float64
	Lam1, Lam2 float64
}

func (sf Surface) Value(x dynamo.State) float64 {
	if len(x) < 6 {
		return 0
	}
	th1, th2 := x[1], x[2]
	th1d, th2d := x[4], x[5]
	return sf.K1*th1d + sf.K2*th2d + sf.Lam1*th1 + sf.Lam2*th2
}

// sat is the continuous switching approximation: linear inside the
// boundary layer, +/-1 outside.
func sat(s, eps float64) float64 {
	if eps <= 0 {
		if s > 0 {
			return 1
		}
		if s < 0 {
			return -1
		}
		return 0
	}
	r := s / eps
	if r > 1 {
		return 1
	}
	if r < -1 {
		return -1
	}
	return r
}

func sign(s float64) float64 {
	if s > 0 {
		return 1
	}
	if s < 0 {
		return -1
	}
	return 0
}

func clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
