package engine

import (
	"encoding/xml"
	"fmt"
	"io"
)

type xmlVec struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
	Z float64 `xml:"z,attr"`
}

func (v xmlVec) vec() Vec3 { return Vec3{v.X, v.Y, v.Z} }

type xmlBox struct {
	A xmlVec `xml:"A"`
	B xmlVec `xml:"B"`
	C xmlVec `xml:"C"`
}

func (b *xmlBox) box() Box {
	return Box{b.A.vec(), b.B.vec(), b.C.vec()}
}

type xmlSystem struct {
	XMLName     xml.Name        `xml:"System"`
	Box         *xmlBox         `xml:"PeriodicBoxVectors"`
	Particles   []xmlParticle   `xml:"Particles>Particle"`
	Constraints []xmlConstraint `xml:"Constraints>Constraint"`
	Forces      []xmlForce      `xml:"Forces>Force"`
}

type xmlParticle struct {
	Mass float64 `xml:"mass,attr"`
}

type xmlConstraint struct {
	P1 int     `xml:"p1,attr"`
	P2 int     `xml:"p2,attr"`
	D  float64 `xml:"d,attr"`
}

type xmlForce struct {
	Type         string   `xml:"type,attr"`
	Method       int      `xml:"method,attr"`
	Cutoff       float64  `xml:"cutoff,attr"`
	RFDielectric *float64 `xml:"rfDielectric,attr"`
	Dispersion   *int     `xml:"dispersionCorrection,attr"`
	Frequency    int      `xml:"frequency,attr"`

	Bonds      []xmlBond          `xml:"Bonds>Bond"`
	Angles     []xmlAngle         `xml:"Angles>Angle"`
	Torsions   []xmlTorsion       `xml:"Torsions>Torsion"`
	Particles  []xmlNonbondedAtom `xml:"Particles>Particle"`
	Exceptions []xmlException     `xml:"Exceptions>Exception"`
}

type xmlBond struct {
	P1 int     `xml:"p1,attr"`
	P2 int     `xml:"p2,attr"`
	D  float64 `xml:"d,attr"`
	K  float64 `xml:"k,attr"`
}

type xmlAngle struct {
	P1 int     `xml:"p1,attr"`
	P2 int     `xml:"p2,attr"`
	P3 int     `xml:"p3,attr"`
	A  float64 `xml:"a,attr"`
	K  float64 `xml:"k,attr"`
}

type xmlTorsion struct {
	P1          int     `xml:"p1,attr"`
	P2          int     `xml:"p2,attr"`
	P3          int     `xml:"p3,attr"`
	P4          int     `xml:"p4,attr"`
	Periodicity int     `xml:"periodicity,attr"`
	Phase       float64 `xml:"phase,attr"`
	K           float64 `xml:"k,attr"`
}

type xmlNonbondedAtom struct {
	Q   float64 `xml:"q,attr"`
	Sig float64 `xml:"sig,attr"`
	Eps float64 `xml:"eps,attr"`
}

type xmlException struct {
	P1  int     `xml:"p1,attr"`
	P2  int     `xml:"p2,attr"`
	Q   float64 `xml:"q,attr"`
	Sig float64 `xml:"sig,attr"`
	Eps float64 `xml:"eps,attr"`
}

type xmlState struct {
	XMLName    xml.Name `xml:"State"`
	Time       float64  `xml:"time,attr"`
	StepCount  int64    `xml:"stepCount,attr"`
	Box        *xmlBox  `xml:"PeriodicBoxVectors"`
	Positions  []xmlVec `xml:"Positions>Position"`
	Velocities []xmlVec `xml:"Velocities>Velocity"`
}

// DeserializeSystem reads a System from its XML serialization.
func DeserializeSystem(r io.Reader) (*System, error) {
	var doc xmlSystem
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: system: %v", ErrMalformedInput, err)
	}

	sys := NewSystem()
	if doc.Box != nil {
		sys.Box = doc.Box.box()
	}
	for _, p := range doc.Particles {
		sys.AddParticle(p.Mass)
	}
	for _, c := range doc.Constraints {
		sys.AddConstraint(c.P1, c.P2, c.D)
	}
	for i, f := range doc.Forces {
		force, err := f.force()
		if err != nil {
			return nil, fmt.Errorf("%w: force %d: %v", ErrMalformedInput, i, err)
		}
		sys.AddForce(force)
	}

	if err := sys.Validate(); err != nil {
		return nil, err
	}
	return sys, nil
}

func (f *xmlForce) force() (Force, error) {
	switch f.Type {
	case "HarmonicBondForce":
		force := &HarmonicBondForce{}
		for _, b := range f.Bonds {
			force.AddBond(b.P1, b.P2, b.D, b.K)
		}
		return force, nil
	case "HarmonicAngleForce":
		force := &HarmonicAngleForce{}
		for _, a := range f.Angles {
			force.AddAngle(a.P1, a.P2, a.P3, a.A, a.K)
		}
		return force, nil
	case "PeriodicTorsionForce":
		force := &PeriodicTorsionForce{}
		for _, t := range f.Torsions {
			force.AddTorsion(t.P1, t.P2, t.P3, t.P4, t.Periodicity, t.Phase, t.K)
		}
		return force, nil
	case "NonbondedForce":
		if f.Method < int(NoCutoff) || f.Method > int(LJPME) {
			return nil, fmt.Errorf("unknown nonbonded method %d", f.Method)
		}
		force := NewNonbondedForce()
		force.Method = NonbondedMethod(f.Method)
		force.Cutoff = f.Cutoff
		if f.RFDielectric != nil {
			force.ReactionFieldDielectric = *f.RFDielectric
		}
		if f.Dispersion != nil {
			force.UseDispersionCorrection = *f.Dispersion != 0
		}
		for _, p := range f.Particles {
			force.AddParticle(p.Q, p.Sig, p.Eps)
		}
		for _, e := range f.Exceptions {
			force.AddException(e.P1, e.P2, e.Q, e.Sig, e.Eps)
		}
		return force, nil
	case "CMMotionRemover":
		return &CMMotionRemover{Frequency: f.Frequency}, nil
	case "":
		return nil, fmt.Errorf("force without type")
	default:
		return nil, fmt.Errorf("unknown force type %q", f.Type)
	}
}

// DeserializeState reads a State from its XML serialization. Positions are
// required; velocities are optional but must match the position count.
func DeserializeState(r io.Reader) (*State, error) {
	var doc xmlState
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: state: %v", ErrMalformedInput, err)
	}
	if len(doc.Positions) == 0 {
		return nil, fmt.Errorf("%w: state has no positions", ErrMalformedInput)
	}
	if len(doc.Velocities) != 0 && len(doc.Velocities) != len(doc.Positions) {
		return nil, fmt.Errorf("%w: state has %d positions and %d velocities", ErrMalformedInput, len(doc.Positions), len(doc.Velocities))
	}

	s := &State{
		Time:      doc.Time,
		StepCount: doc.StepCount,
		Types:     StatePositions,
	}
	if doc.Box != nil {
		s.Box = doc.Box.box()
	}
	s.Positions = make([]Vec3, len(doc.Positions))
	for i, p := range doc.Positions {
		s.Positions[i] = p.vec()
	}
	if len(doc.Velocities) > 0 {
		s.Types |= StateVelocities
		s.Velocities = make([]Vec3, len(doc.Velocities))
		for i, v := range doc.Velocities {
			s.Velocities[i] = v.vec()
		}
	}
	return s, nil
}
