package engine

// DataType selects what a State snapshot carries.
type DataType int

const (
	StatePositions DataType = 1 << iota
	StateVelocities
	StateForces
	StateEnergy
)

// State is a snapshot of a context, or the initial conditions loaded into one.
type State struct {
	Time            float64
	StepCount       int64
	Box             Box
	Positions       []Vec3
	Velocities      []Vec3
	Forces          []Vec3
	PotentialEnergy float64
	KineticEnergy   float64
	Types           DataType
}

func (s *State) NumParticles() int {
	return len(s.Positions)
}

func (s *State) Has(t DataType) bool {
	return s.Types&t == t
}
