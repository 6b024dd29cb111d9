package engine

import (
	"fmt"
)

// Context binds a System, an Integrator and a Platform and owns the platform
// kernels together with the live simulation state.
type Context struct {
	system     *System
	integrator Integrator
	platform   Platform
	properties Properties
	kernels    Kernels

	positions  []Vec3
	velocities []Vec3
	forces     []Vec3
	box        Box
	time       float64
	steps      int64

	energy      float64
	forcesValid bool
	closed      bool
}

// NewContext validates the properties against the platform, creates the
// kernels and binds the integrator to the new context.
func NewContext(system *System, integrator Integrator, platform Platform, properties Properties) (*Context, error) {
	if err := system.Validate(); err != nil {
		return nil, Wrap("validate system", err)
	}
	resolved, err := resolveProperties(platform, properties)
	if err != nil {
		return nil, Wrap("create context", err)
	}

	kernels, err := platform.CreateKernels(system, resolved)
	if err != nil {
		return nil, Wrap("create kernels", err)
	}

	n := system.NumParticles()
	c := &Context{
		system:     system,
		integrator: integrator,
		platform:   platform,
		properties: resolved,
		kernels:    kernels,
		positions:  make([]Vec3, n),
		velocities: make([]Vec3, n),
		forces:     make([]Vec3, n),
		box:        system.Box,
	}
	if err := integrator.bind(c); err != nil {
		kernels.Close()
		return nil, Wrap("create context", err)
	}

	log.Debug("created context on {{platform}}", "platform", platform.Name(), "particles", n, "properties", resolved)
	return c, nil
}

func (c *Context) Platform() Platform {
	return c.platform
}

// Properties returns the effective platform properties, defaults included.
func (c *Context) Properties() Properties {
	return c.properties.Clone()
}

func (c *Context) System() *System {
	return c.system
}

func (c *Context) Integrator() Integrator {
	return c.integrator
}

// SetState loads positions, velocities, box and time. Missing velocities are
// set to zero.
func (c *Context) SetState(s *State) error {
	if c.closed {
		return Wrap("set state", ErrContextClosed)
	}
	n := c.system.NumParticles()
	if len(s.Positions) != n {
		return Wrap("set state", fmt.Errorf("%w: state has %d positions, system has %d particles", ErrParticleCount, len(s.Positions), n))
	}
	if len(s.Velocities) != 0 && len(s.Velocities) != n {
		return Wrap("set state", fmt.Errorf("%w: state has %d velocities, system has %d particles", ErrParticleCount, len(s.Velocities), n))
	}

	copy(c.positions, s.Positions)
	if len(s.Velocities) == n {
		copy(c.velocities, s.Velocities)
	} else {
		for i := range c.velocities {
			c.velocities[i] = Vec3{}
		}
	}
	if s.Box != (Box{}) {
		c.box = s.Box
	}
	c.time = s.Time
	c.steps = s.StepCount
	c.forcesValid = false
	return nil
}

// GetState returns a snapshot with the requested data. Forces and energy are
// evaluated at the current positions when requested.
func (c *Context) GetState(types DataType) (*State, error) {
	if c.closed {
		return nil, Wrap("get state", ErrContextClosed)
	}
	s := &State{
		Time:      c.time,
		StepCount: c.steps,
		Box:       c.box,
		Types:     types,
	}
	if types&(StateForces|StateEnergy) != 0 {
		if err := c.computeForces(); err != nil {
			return nil, Wrap("get state", err)
		}
	}
	if types&StatePositions != 0 {
		s.Positions = append([]Vec3(nil), c.positions...)
	}
	if types&StateVelocities != 0 {
		s.Velocities = append([]Vec3(nil), c.velocities...)
	}
	if types&StateForces != 0 {
		s.Forces = append([]Vec3(nil), c.forces...)
	}
	if types&StateEnergy != 0 {
		s.PotentialEnergy = c.energy
		s.KineticEnergy = c.kineticEnergy()
	}
	return s, nil
}

// Close releases the platform kernels and unbinds the integrator.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.integrator.unbind()
	return c.kernels.Close()
}

func (c *Context) computeForces() error {
	if c.forcesValid {
		return nil
	}
	energy, err := c.kernels.CalcForces(c.positions, c.box, c.forces)
	if err != nil {
		return err
	}
	c.energy = energy
	c.forcesValid = true
	return nil
}

func (c *Context) kineticEnergy() float64 {
	ke := 0.0
	for i, m := range c.system.Masses {
		ke += 0.5 * m * c.velocities[i].Dot(c.velocities[i])
	}
	return ke
}

// afterStep advances time and applies per-step bookkeeping forces.
func (c *Context) afterStep(dt float64) error {
	c.time += dt
	c.steps++
	c.forcesValid = false

	for _, f := range c.system.Forces {
		if rm, ok := f.(*CMMotionRemover); ok && rm.Frequency > 0 && c.steps%int64(rm.Frequency) == 0 {
			c.removeCenterOfMassMotion()
		}
	}
	for i, p := range c.positions {
		if !p.IsValid() {
			return fmt.Errorf("%w: particle %d at step %d", ErrInvalidState, i, c.steps)
		}
	}
	return nil
}

func (c *Context) removeCenterOfMassMotion() {
	var momentum Vec3
	total := 0.0
	for i, m := range c.system.Masses {
		momentum = momentum.Add(c.velocities[i].Scale(m))
		total += m
	}
	if total == 0 {
		return
	}
	vcm := momentum.Scale(1 / total)
	for i, m := range c.system.Masses {
		if m != 0 {
			c.velocities[i] = c.velocities[i].Sub(vcm)
		}
	}
}
