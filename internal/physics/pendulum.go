package physics

import (
	"math"

	"github.com/san-kum/smctune/internal/dynamo"
)

// Pendulum is a single pendulum with viscous joint damping and a torque
// input, angle measured from the hanging position. The double inverted
// pendulum is too stiff to check by eye, so integrator and simulator
// tests validate against this model instead: it has a known small-angle
// period and, without damping, exactly conserved energy.
type Pendulum struct {
	Mass    float64
	Length  float64
	Damping float64
	Gravity float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{Mass: 1.0, Length: 1.0, Damping: 0.1, Gravity: 9.81}
}

// NewFrictionlessPendulum conserves energy exactly, so any drift in a
// simulated run is integrator error.
func NewFrictionlessPendulum() *Pendulum {
	p := NewPendulum()
	p.Damping = 0
	return p
}

func (p *Pendulum) StateDim() int   { return 2 }
func (p *Pendulum) ControlDim() int { return 1 }

func (p *Pendulum) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	torque := 0.0
	if len(u) > 0 {
		torque = u[0]
	}
	inertia := p.Mass * p.Length * p.Length
	alpha := (torque - p.Damping*x[1] - p.Mass*p.Gravity*p.Length*math.Sin(x[0])) / inertia
	return dynamo.State{x[1], alpha}
}

func (p *Pendulum) Energy(x dynamo.State) float64 {
	v := p.Length * x[1]
	return 0.5*p.Mass*v*v + p.Mass*p.Gravity*p.Length*(1-math.Cos(x[0]))
}

// Period is the small-angle oscillation period, 2*pi*sqrt(L/g).
func (p *Pendulum) Period() float64 {
	return 2 * math.Pi * math.Sqrt(p.Length/p.Gravity)
}
