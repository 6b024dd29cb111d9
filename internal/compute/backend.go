package compute

import "github.com/san-kum/mdbench/internal/engine"

type Backend interface {
	// NonbondedForces adds the nonbonded forces to forces and returns the energy.
	NonbondedForces(nb *Nonbonded, positions []engine.Vec3, forces []engine.Vec3) float64
	Cleanup()
}

type SerialBackend struct{}

func NewSerialBackend() *SerialBackend {
	return &SerialBackend{}
}

func (s *SerialBackend) Cleanup() {}

func (s *SerialBackend) NonbondedForces(nb *Nonbonded, pos []engine.Vec3, forces []engine.Vec3) float64 {
	energy := nb.ExceptionForces(pos, forces)
	cells := nb.buildCells(pos)
	if cells == nil {
		return energy + nb.allPairs(pos, 0, len(pos), forces)
	}
	return energy + nb.cellPairs(cells, pos, 0, len(cells.heads), forces)
}
