package platforms

import (
	"fmt"

	"github.com/san-kum/mdbench/internal/compute"
	"github.com/san-kum/mdbench/internal/engine"
)

// kernels evaluates a system's forces with a compute backend.
type kernels struct {
	backend   compute.Backend
	bonds     []engine.HarmonicBond
	angles    []engine.HarmonicAngle
	torsions  []engine.PeriodicTorsion
	nonbonded []*compute.Nonbonded
}

func newKernels(sys *engine.System, backend compute.Backend) (*kernels, error) {
	if sys.UsesPeriodicBoundaryConditions() && !sys.Box.IsRectangular() {
		return nil, fmt.Errorf("%w: triclinic periodic box", engine.ErrUnsupported)
	}

	k := &kernels{backend: backend}
	for _, f := range sys.Forces {
		switch f := f.(type) {
		case *engine.HarmonicBondForce:
			k.bonds = append(k.bonds, f.Bonds...)
		case *engine.HarmonicAngleForce:
			k.angles = append(k.angles, f.Angles...)
		case *engine.PeriodicTorsionForce:
			k.torsions = append(k.torsions, f.Torsions...)
		case *engine.NonbondedForce:
			nb, err := compute.NewNonbonded(f)
			if err != nil {
				return nil, err
			}
			if err := nb.SetBox(sys.Box.Lengths()); err != nil {
				return nil, err
			}
			k.nonbonded = append(k.nonbonded, nb)
		case *engine.CMMotionRemover:
			// applied by the context between steps
		default:
			return nil, fmt.Errorf("%w: force %s", engine.ErrUnsupported, f.ForceName())
		}
	}
	return k, nil
}

func (k *kernels) CalcForces(pos []engine.Vec3, box engine.Box, forces []engine.Vec3) (float64, error) {
	for i := range forces {
		forces[i] = engine.Vec3{}
	}

	energy := compute.BondForces(k.bonds, pos, forces)
	energy += compute.AngleForces(k.angles, pos, forces)
	energy += compute.TorsionForces(k.torsions, pos, forces)
	for _, nb := range k.nonbonded {
		if err := nb.SetBox(box.Lengths()); err != nil {
			return 0, err
		}
		energy += k.backend.NonbondedForces(nb, pos, forces)
		energy += nb.DispersionEnergy(box.Volume())
	}
	return energy, nil
}

func (k *kernels) Close() error {
	k.backend.Cleanup()
	return nil
}
