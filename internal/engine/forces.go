package engine

import "fmt"

// Force is one potential term of a System. Platforms switch on the concrete
// type to build their kernels.
type Force interface {
	ForceName() string
	UsesPeriodicBoundaryConditions() bool
}

type HarmonicBond struct {
	P1, P2 int
	Length float64
	K      float64
}

// HarmonicBondForce is E = k/2 (r - r0)^2 per bond.
type HarmonicBondForce struct {
	Bonds []HarmonicBond
}

func (f *HarmonicBondForce) ForceName() string                    { return "HarmonicBondForce" }
func (f *HarmonicBondForce) UsesPeriodicBoundaryConditions() bool { return false }

func (f *HarmonicBondForce) AddBond(p1, p2 int, length, k float64) int {
	f.Bonds = append(f.Bonds, HarmonicBond{P1: p1, P2: p2, Length: length, K: k})
	return len(f.Bonds) - 1
}

type HarmonicAngle struct {
	P1, P2, P3 int
	Angle      float64
	K          float64
}

// HarmonicAngleForce is E = k/2 (theta - theta0)^2 with P2 at the vertex.
type HarmonicAngleForce struct {
	Angles []HarmonicAngle
}

func (f *HarmonicAngleForce) ForceName() string                    { return "HarmonicAngleForce" }
func (f *HarmonicAngleForce) UsesPeriodicBoundaryConditions() bool { return false }

func (f *HarmonicAngleForce) AddAngle(p1, p2, p3 int, angle, k float64) int {
	f.Angles = append(f.Angles, HarmonicAngle{P1: p1, P2: p2, P3: p3, Angle: angle, K: k})
	return len(f.Angles) - 1
}

type PeriodicTorsion struct {
	P1, P2, P3, P4 int
	Periodicity    int
	Phase          float64
	K              float64
}

// PeriodicTorsionForce is E = k (1 + cos(n phi - phi0)) per torsion.
type PeriodicTorsionForce struct {
	Torsions []PeriodicTorsion
}

func (f *PeriodicTorsionForce) ForceName() string                    { return "PeriodicTorsionForce" }
func (f *PeriodicTorsionForce) UsesPeriodicBoundaryConditions() bool { return false }

func (f *PeriodicTorsionForce) AddTorsion(p1, p2, p3, p4, periodicity int, phase, k float64) int {
	f.Torsions = append(f.Torsions, PeriodicTorsion{
		P1: p1, P2: p2, P3: p3, P4: p4,
		Periodicity: periodicity, Phase: phase, K: k,
	})
	return len(f.Torsions) - 1
}

type NonbondedMethod int

// Values match the "method" attribute of the XML serialization.
const (
	NoCutoff NonbondedMethod = iota
	CutoffNonPeriodic
	CutoffPeriodic
	Ewald
	PME
	LJPME
)

var nonbondedMethodNames = map[NonbondedMethod]string{
	NoCutoff:          "NoCutoff",
	CutoffNonPeriodic: "CutoffNonPeriodic",
	CutoffPeriodic:    "CutoffPeriodic",
	Ewald:             "Ewald",
	PME:               "PME",
	LJPME:             "LJPME",
}

func (m NonbondedMethod) String() string {
	if name, ok := nonbondedMethodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("NonbondedMethod(%d)", int(m))
}

// DefaultReactionFieldDielectric applies when the serialized force omits it.
const DefaultReactionFieldDielectric = 78.3

type NonbondedParticle struct {
	Charge  float64
	Sigma   float64
	Epsilon float64
}

// NonbondedException replaces the standard interaction of one particle pair.
// An exception with zero ChargeProd and Epsilon is a plain exclusion.
type NonbondedException struct {
	P1, P2     int
	ChargeProd float64
	Sigma      float64
	Epsilon    float64
}

// NonbondedForce is Lennard-Jones plus Coulomb between all particle pairs.
// Cutoff methods use a reaction field for the electrostatics.
//
// UseDispersionCorrection adds the isotropic Lennard-Jones energy beyond the
// cutoff to periodic systems. It changes the energy only, never the forces.
type NonbondedForce struct {
	Method                  NonbondedMethod
	Cutoff                  float64
	ReactionFieldDielectric float64
	UseDispersionCorrection bool
	Particles               []NonbondedParticle
	Exceptions              []NonbondedException
}

func NewNonbondedForce() *NonbondedForce {
	return &NonbondedForce{
		Method:                  NoCutoff,
		Cutoff:                  1.0,
		ReactionFieldDielectric: DefaultReactionFieldDielectric,
		UseDispersionCorrection: true,
	}
}

func (f *NonbondedForce) ForceName() string { return "NonbondedForce" }

func (f *NonbondedForce) UsesPeriodicBoundaryConditions() bool {
	return f.Method == CutoffPeriodic || f.Method == Ewald || f.Method == PME || f.Method == LJPME
}

func (f *NonbondedForce) AddParticle(charge, sigma, epsilon float64) int {
	f.Particles = append(f.Particles, NonbondedParticle{Charge: charge, Sigma: sigma, Epsilon: epsilon})
	return len(f.Particles) - 1
}

func (f *NonbondedForce) AddException(p1, p2 int, chargeProd, sigma, epsilon float64) int {
	f.Exceptions = append(f.Exceptions, NonbondedException{
		P1: p1, P2: p2, ChargeProd: chargeProd, Sigma: sigma, Epsilon: epsilon,
	})
	return len(f.Exceptions) - 1
}

// CMMotionRemover zeroes the center of mass velocity every Frequency steps.
type CMMotionRemover struct {
	Frequency int
}

func (f *CMMotionRemover) ForceName() string                    { return "CMMotionRemover" }
func (f *CMMotionRemover) UsesPeriodicBoundaryConditions() bool { return false }
