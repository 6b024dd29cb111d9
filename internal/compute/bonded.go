package compute

import (
	"math"

	"github.com/san-kum/mdbench/internal/engine"
)

func BondForces(bonds []engine.HarmonicBond, pos []engine.Vec3, forces []engine.Vec3) float64 {
	energy := 0.0
	for _, b := range bonds {
		d := pos[b.P1].Sub(pos[b.P2])
		r := d.Norm()
		if r == 0 {
			continue
		}
		dr := r - b.Length
		energy += 0.5 * b.K * dr * dr
		f := d.Scale(-b.K * dr / r)
		forces[b.P1] = forces[b.P1].Add(f)
		forces[b.P2] = forces[b.P2].Sub(f)
	}
	return energy
}

func AngleForces(angles []engine.HarmonicAngle, pos []engine.Vec3, forces []engine.Vec3) float64 {
	energy := 0.0
	for _, a := range angles {
		v1 := pos[a.P1].Sub(pos[a.P2])
		v2 := pos[a.P3].Sub(pos[a.P2])
		r1, r2 := v1.Norm(), v2.Norm()
		if r1 == 0 || r2 == 0 {
			continue
		}
		cos := v1.Dot(v2) / (r1 * r2)
		cos = math.Max(-1, math.Min(1, cos))
		theta := math.Acos(cos)
		dtheta := theta - a.Angle
		energy += 0.5 * a.K * dtheta * dtheta

		sin := math.Sqrt(1 - cos*cos)
		if sin < 1e-8 {
			continue
		}
		dEdTheta := a.K * dtheta
		c := dEdTheta / sin
		f1 := v2.Scale(1 / (r1 * r2)).Sub(v1.Scale(cos / (r1 * r1))).Scale(c)
		f3 := v1.Scale(1 / (r1 * r2)).Sub(v2.Scale(cos / (r2 * r2))).Scale(c)
		forces[a.P1] = forces[a.P1].Add(f1)
		forces[a.P3] = forces[a.P3].Add(f3)
		forces[a.P2] = forces[a.P2].Sub(f1.Add(f3))
	}
	return energy
}

// TorsionForces uses the dihedral convention r_ij = x_i - x_j,
// r_kj = x_k - x_j, r_kl = x_k - x_l with phi signed by r_ij . (r_kj x r_kl).
func TorsionForces(torsions []engine.PeriodicTorsion, pos []engine.Vec3, forces []engine.Vec3) float64 {
	energy := 0.0
	for _, t := range torsions {
		rij := pos[t.P1].Sub(pos[t.P2])
		rkj := pos[t.P3].Sub(pos[t.P2])
		rkl := pos[t.P3].Sub(pos[t.P4])

		m := rij.Cross(rkj)
		n := rkj.Cross(rkl)
		m2, n2 := m.Dot(m), n.Dot(n)
		rkj2 := rkj.Dot(rkj)
		if m2 == 0 || n2 == 0 || rkj2 == 0 {
			continue
		}

		cos := m.Dot(n) / math.Sqrt(m2*n2)
		cos = math.Max(-1, math.Min(1, cos))
		phi := math.Acos(cos)
		if rij.Dot(n) < 0 {
			phi = -phi
		}

		arg := float64(t.Periodicity)*phi - t.Phase
		energy += t.K * (1 + math.Cos(arg))
		dEdPhi := -t.K * float64(t.Periodicity) * math.Sin(arg)

		nrkj := math.Sqrt(rkj2)
		fi := m.Scale(-dEdPhi * nrkj / m2)
		fl := n.Scale(dEdPhi * nrkj / n2)
		p := rij.Dot(rkj) / rkj2
		q := rkl.Dot(rkj) / rkj2
		s := fi.Scale(p).Sub(fl.Scale(q))
		fj := fi.Sub(s)
		fk := fl.Add(s)

		forces[t.P1] = forces[t.P1].Add(fi)
		forces[t.P2] = forces[t.P2].Sub(fj)
		forces[t.P3] = forces[t.P3].Sub(fk)
		forces[t.P4] = forces[t.P4].Add(fl)
	}
	return energy
}
