package engine

import (
	"math"
	"math/rand"
	"time"
)

// Integrator advances the state of the context it is bound to.
type Integrator interface {
	StepSize() float64
	Step(steps int) error

	bind(c *Context) error
	unbind()
}

type integratorBase struct {
	ctx      *Context
	stepSize float64

	// scratch buffers, sized on bind
	oldPos []Vec3
	preCon []Vec3
}

func (b *integratorBase) StepSize() float64 {
	return b.stepSize
}

func (b *integratorBase) bind(c *Context) error {
	if b.ctx != nil {
		return ErrIntegratorBound
	}
	b.ctx = c
	n := c.system.NumParticles()
	b.oldPos = make([]Vec3, n)
	b.preCon = make([]Vec3, n)
	return nil
}

func (b *integratorBase) unbind() {
	b.ctx = nil
}

func (b *integratorBase) context() (*Context, error) {
	if b.ctx == nil {
		return nil, ErrNotBound
	}
	if b.ctx.closed {
		return nil, ErrContextClosed
	}
	return b.ctx, nil
}

// constrain applies SHAKE relative to the positions saved in oldPos and folds
// the correction into the velocities.
func (b *integratorBase) constrain(c *Context, dt float64) error {
	if len(c.system.Constraints) == 0 {
		return nil
	}
	copy(b.preCon, c.positions)
	if err := shake(c.system.Constraints, c.system.Masses, b.oldPos, c.positions, ShakeTolerance); err != nil {
		return err
	}
	invDt := 1 / dt
	for i := range c.positions {
		if c.system.Masses[i] == 0 {
			continue
		}
		c.velocities[i] = c.velocities[i].Add(c.positions[i].Sub(b.preCon[i]).Scale(invDt))
	}
	return nil
}

// LangevinMiddleIntegrator is the BAOAB-style Langevin scheme with the
// thermostat applied between the two position half updates.
type LangevinMiddleIntegrator struct {
	integratorBase
	temperature float64
	friction    float64
	rng         *rand.Rand
}

// NewLangevinMiddleIntegrator takes temperature in K, friction in 1/ps and
// step size in ps.
func NewLangevinMiddleIntegrator(temperature, friction, stepSize float64) *LangevinMiddleIntegrator {
	return &LangevinMiddleIntegrator{
		integratorBase: integratorBase{stepSize: stepSize},
		temperature:    temperature,
		friction:       friction,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (l *LangevinMiddleIntegrator) Temperature() float64 { return l.temperature }
func (l *LangevinMiddleIntegrator) Friction() float64    { return l.friction }

func (l *LangevinMiddleIntegrator) SetRandomSeed(seed int64) {
	l.rng = rand.New(rand.NewSource(seed))
}

func (l *LangevinMiddleIntegrator) Step(steps int) error {
	c, err := l.context()
	if err != nil {
		return Wrap("step", err)
	}

	dt := l.stepSize
	halfDt := 0.5 * dt
	alpha := math.Exp(-l.friction * dt)
	noise := math.Sqrt(BoltzmannKJ * l.temperature * (1 - alpha*alpha))
	masses := c.system.Masses

	for s := 0; s < steps; s++ {
		if err := c.computeForces(); err != nil {
			return Wrap("step", err)
		}

		for i, m := range masses {
			if m == 0 {
				continue
			}
			c.velocities[i] = c.velocities[i].Add(c.forces[i].Scale(dt / m))
		}
		copy(l.oldPos, c.positions)
		for i, m := range masses {
			if m == 0 {
				continue
			}
			c.positions[i] = c.positions[i].Add(c.velocities[i].Scale(halfDt))
		}
		for i, m := range masses {
			if m == 0 {
				continue
			}
			sigma := noise / math.Sqrt(m)
			c.velocities[i] = Vec3{
				alpha*c.velocities[i][0] + sigma*l.rng.NormFloat64(),
				alpha*c.velocities[i][1] + sigma*l.rng.NormFloat64(),
				alpha*c.velocities[i][2] + sigma*l.rng.NormFloat64(),
			}
		}
		for i, m := range masses {
			if m == 0 {
				continue
			}
			c.positions[i] = c.positions[i].Add(c.velocities[i].Scale(halfDt))
		}

		if err := l.constrain(c, dt); err != nil {
			return Wrap("step", err)
		}
		if err := c.afterStep(dt); err != nil {
			return Wrap("step", err)
		}
	}
	return nil
}

// VerletIntegrator is the leapfrog form of Verlet integration.
type VerletIntegrator struct {
	integratorBase
}

func NewVerletIntegrator(stepSize float64) *VerletIntegrator {
	return &VerletIntegrator{integratorBase: integratorBase{stepSize: stepSize}}
}

func (v *VerletIntegrator) Step(steps int) error {
	c, err := v.context()
	if err != nil {
		return Wrap("step", err)
	}

	dt := v.stepSize
	masses := c.system.Masses
	for s := 0; s < steps; s++ {
		if err := c.computeForces(); err != nil {
			return Wrap("step", err)
		}

		copy(v.oldPos, c.positions)
		for i, m := range masses {
			if m == 0 {
				continue
			}
			c.velocities[i] = c.velocities[i].Add(c.forces[i].Scale(dt / m))
			c.positions[i] = c.positions[i].Add(c.velocities[i].Scale(dt))
		}

		if err := v.constrain(c, dt); err != nil {
			return Wrap("step", err)
		}
		if err := c.afterStep(dt); err != nil {
			return Wrap("step", err)
		}
	}
	return nil
}
