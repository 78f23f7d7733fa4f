package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/smctune/internal/dynamo"
)

// DoubleInvertedPendulum models two serial pendulums mounted on a
// horizontally driven cart. Angles are measured from the upright
// position, so the equilibrium to stabilize is the zero state.
//
// State: [x, theta1, theta2, xdot, theta1dot, theta2dot]
// Control: [F] horizontal force on the cart
type DoubleInvertedPendulum struct {
	CartMass float64
	M1, M2   float64
	L1, L2   float64
	Damping  float64 // cart rail friction
	D1, D2   float64 // joint friction
	Gravity  float64
}

func NewDoubleInvertedPendulum() *DoubleInvertedPendulum {
	return &DoubleInvertedPendulum{
		CartMass: 1.5,
		M1:       0.2, M2: 0.15,
		L1: 0.4, L2: 0.3,
		Damping: 0.1,
		D1:      0.005, D2: 0.004,
		Gravity: 9.81,
	}
}

func (d *DoubleInvertedPendulum) StateDim() int   { return 6 }
func (d *DoubleInvertedPendulum) ControlDim() int { return 1 }

func (d *DoubleInvertedPendulum) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	th1, th2 := x[1], x[2]
	xd, th1d, th2d := x[3], x[4], x[5]
	m0, m1, m2 := d.CartMass, d.M1, d.M2
	l1, l2, g := d.L1, d.L2, d.Gravity

	force := 0.0
	if len(u) > 0 {
		force = u[0]
	}

	s1, c1 := math.Sincos(th1)
	s2, c2 := math.Sincos(th2)
	s12, c12 := math.Sincos(th1 - th2)

	// M(q) qdd = rhs(q, qd, F), generalized coordinates q = [x, th1, th2].
	M := mat.NewDense(3, 3, []float64{
		m0 + m1 + m2, (m1 + m2) * l1 * c1, m2 * l2 * c2,
		(m1 + m2) * l1 * c1, (m1 + m2) * l1 * l1, m2 * l1 * l2 * c12,
		m2 * l2 * c2, m2 * l1 * l2 * c12, m2 * l2 * l2,
	})

	rhs := mat.NewVecDense(3, []float64{
		force + (m1+m2)*l1*th1d*th1d*s1 + m2*l2*th2d*th2d*s2 - d.Damping*xd,
		(m1+m2)*g*l1*s1 - m2*l1*l2*th2d*th2d*s12 - d.D1*th1d,
		m2*g*l2*s2 + m2*l1*l2*th1d*th1d*s12 - d.D2*th2d,
	})

	var qdd mat.VecDense
	if err := qdd.SolveVec(M, rhs); err != nil {
		// Singular mass matrix cannot occur for positive masses and
		// lengths; poison the state so the simulator flags divergence.
		nan := math.NaN()
		return dynamo.State{nan, nan, nan, nan, nan, nan}
	}

	return dynamo.State{xd, th1d, th2d, qdd.AtVec(0), qdd.AtVec(1), qdd.AtVec(2)}
}

func (d *DoubleInvertedPendulum) Energy(x dynamo.State) float64 {
	th1, th2 := x[1], x[2]
	xd, th1d, th2d := x[3], x[4], x[5]
	m0, m1, m2 := d.CartMass, d.M1, d.M2
	l1, l2, g := d.L1, d.L2, d.Gravity

	c1, c2 := math.Cos(th1), math.Cos(th2)
	c12 := math.Cos(th1 - th2)

	v1sq := xd*xd + 2*l1*th1d*xd*c1 + l1*l1*th1d*th1d
	v2sq := xd*xd + l1*l1*th1d*th1d + l2*l2*th2d*th2d +
		2*xd*l1*th1d*c1 + 2*xd*l2*th2d*c2 + 2*l1*l2*th1d*th2d*c12

	ke := 0.5*m0*xd*xd + 0.5*m1*v1sq + 0.5*m2*v2sq
	pe := (m1+m2)*g*l1*c1 + m2*g*l2*c2

	return ke + pe
}

func (d *DoubleInvertedPendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"cart_mass": d.CartMass,
		"m1":        d.M1,
		"m2":        d.M2,
		"l1":        d.L1,
		"l2":        d.L2,
		"damping":   d.Damping,
		"gravity":   d.Gravity,
	}
}

func (d *DoubleInvertedPendulum) SetParam(name string, value float64) error {
	switch name {
	case "cart_mass":
		d.CartMass = value
	case "m1":
		d.M1 = value
	case "m2":
		d.M2 = value
	case "l1":
		d.L1 = value
	case "l2":
		d.L2 = value
	case "damping":
		d.Damping = value
	case "gravity":
		d.Gravity = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
