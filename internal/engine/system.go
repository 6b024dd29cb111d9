package engine

import "fmt"

// Constraint fixes the distance between two particles.
type Constraint struct {
	P1, P2   int
	Distance float64
}

// System is the simulated system: particle masses, box, constraints and forces.
type System struct {
	Masses      []float64
	Box         Box
	Constraints []Constraint
	Forces      []Force
}

func NewSystem() *System {
	return &System{Box: DefaultBox}
}

func (s *System) NumParticles() int {
	return len(s.Masses)
}

func (s *System) AddParticle(mass float64) int {
	s.Masses = append(s.Masses, mass)
	return len(s.Masses) - 1
}

func (s *System) AddConstraint(p1, p2 int, distance float64) int {
	s.Constraints = append(s.Constraints, Constraint{P1: p1, P2: p2, Distance: distance})
	return len(s.Constraints) - 1
}

func (s *System) AddForce(f Force) int {
	s.Forces = append(s.Forces, f)
	return len(s.Forces) - 1
}

func (s *System) UsesPeriodicBoundaryConditions() bool {
	for _, f := range s.Forces {
		if f.UsesPeriodicBoundaryConditions() {
			return true
		}
	}
	return false
}

// Validate checks particle indices and per-particle parameter counts.
func (s *System) Validate() error {
	n := s.NumParticles()
	for i, m := range s.Masses {
		if m < 0 {
			return fmt.Errorf("%w: particle %d has negative mass %g", ErrMalformedInput, i, m)
		}
	}
	for i, c := range s.Constraints {
		if err := checkIndices(n, c.P1, c.P2); err != nil {
			return fmt.Errorf("constraint %d: %w", i, err)
		}
		if c.Distance <= 0 {
			return fmt.Errorf("%w: constraint %d has non-positive distance", ErrMalformedInput, i)
		}
	}

	for _, f := range s.Forces {
		if err := validateForce(n, f); err != nil {
			return fmt.Errorf("%s: %w", f.ForceName(), err)
		}
	}
	return nil
}

func validateForce(n int, f Force) error {
	switch f := f.(type) {
	case *HarmonicBondForce:
		for _, b := range f.Bonds {
			if err := checkIndices(n, b.P1, b.P2); err != nil {
				return err
			}
		}
	case *HarmonicAngleForce:
		for _, a := range f.Angles {
			if err := checkIndices(n, a.P1, a.P2, a.P3); err != nil {
				return err
			}
		}
	case *PeriodicTorsionForce:
		for _, t := range f.Torsions {
			if err := checkIndices(n, t.P1, t.P2, t.P3, t.P4); err != nil {
				return err
			}
		}
	case *NonbondedForce:
		if len(f.Particles) != n {
			return fmt.Errorf("%w: %d nonbonded particles for %d system particles", ErrMalformedInput, len(f.Particles), n)
		}
		for _, e := range f.Exceptions {
			if err := checkIndices(n, e.P1, e.P2); err != nil {
				return err
			}
		}
		if f.Method != NoCutoff && f.Cutoff <= 0 {
			return fmt.Errorf("%w: non-positive cutoff %g", ErrMalformedInput, f.Cutoff)
		}
	case *CMMotionRemover:
		if f.Frequency < 0 {
			return fmt.Errorf("%w: negative frequency", ErrMalformedInput)
		}
	}
	return nil
}

func checkIndices(n int, idx ...int) error {
	for _, i := range idx {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: particle index %d out of range [0,%d)", ErrMalformedInput, i, n)
		}
	}
	return nil
}
