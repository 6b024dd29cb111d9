package compute

import (
	"fmt"
	"math"

	"github.com/san-kum/mdbench/internal/engine"
)

// Nonbonded is a NonbondedForce prepared for evaluation.
type Nonbonded struct {
	method   engine.NonbondedMethod
	cutoff   float64
	cutoff2  float64
	periodic bool
	box      engine.Vec3

	krf, crf float64

	// dispersion divided by the box volume is the long-range LJ energy
	dispersion float64

	params     []engine.NonbondedParticle
	exclusions map[uint64]struct{}
	exceptions []engine.NonbondedException
}

// NewNonbonded supports NoCutoff, CutoffNonPeriodic and CutoffPeriodic.
func NewNonbonded(f *engine.NonbondedForce) (*Nonbonded, error) {
	switch f.Method {
	case engine.NoCutoff, engine.CutoffNonPeriodic, engine.CutoffPeriodic:
	default:
		return nil, fmt.Errorf("%w: nonbonded method %s", engine.ErrUnsupported, f.Method)
	}

	nb := &Nonbonded{
		method:     f.Method,
		cutoff:     f.Cutoff,
		cutoff2:    f.Cutoff * f.Cutoff,
		periodic:   f.Method == engine.CutoffPeriodic,
		params:     f.Particles,
		exclusions: make(map[uint64]struct{}, len(f.Exceptions)),
	}
	if f.Method != engine.NoCutoff {
		eps := f.ReactionFieldDielectric
		nb.krf = (eps - 1) / ((2*eps + 1) * f.Cutoff * f.Cutoff * f.Cutoff)
		nb.crf = 3 * eps / ((2*eps + 1) * f.Cutoff)
	}
	if f.UseDispersionCorrection && nb.periodic {
		nb.dispersion = dispersionCoefficient(f.Particles, f.Cutoff)
	}
	for _, e := range f.Exceptions {
		nb.exclusions[pairKey(e.P1, e.P2)] = struct{}{}
		if e.ChargeProd != 0 || e.Epsilon != 0 {
			nb.exceptions = append(nb.exceptions, e)
		}
	}
	return nb, nil
}

// DispersionEnergy is the Lennard-Jones energy beyond the cutoff for a box of
// the given volume, assuming a uniform density. It is zero unless the force is
// periodic and asks for the correction.
func (nb *Nonbonded) DispersionEnergy(volume float64) float64 {
	if nb.dispersion == 0 || volume <= 0 {
		return 0
	}
	return nb.dispersion / volume
}

// dispersionCoefficient averages eps*sigma^12 and eps*sigma^6 over all
// particle pairs, grouping particles with equal parameters.
func dispersionCoefficient(particles []engine.NonbondedParticle, cutoff float64) float64 {
	type class struct {
		sigma, epsilon float64
		count          float64
	}
	var classes []class
	index := map[[2]float64]int{}
	for _, p := range particles {
		key := [2]float64{p.Sigma, p.Epsilon}
		i, ok := index[key]
		if !ok {
			i = len(classes)
			index[key] = i
			classes = append(classes, class{sigma: p.Sigma, epsilon: p.Epsilon})
		}
		classes[i].count++
	}

	var sum12, sum6 float64
	for i, a := range classes {
		for j := i; j < len(classes); j++ {
			b := classes[j]
			count := a.count * b.count
			if i == j {
				count = a.count * (a.count + 1) / 2
			}
			sigma := 0.5 * (a.sigma + b.sigma)
			epsilon := math.Sqrt(a.epsilon * b.epsilon)
			s6 := math.Pow(sigma, 6)
			sum12 += count * epsilon * s6 * s6
			sum6 += count * epsilon * s6
		}
	}
	n := float64(len(particles))
	if n == 0 {
		return 0
	}
	pairs := n * (n + 1) / 2
	sum12 /= pairs
	sum6 /= pairs
	return 8 * math.Pi * n * n * (sum12/(9*math.Pow(cutoff, 9)) - sum6/(3*math.Pow(cutoff, 3)))
}

// SetBox sets the rectangular box edge lengths used for the minimum image.
func (nb *Nonbonded) SetBox(lengths engine.Vec3) error {
	if nb.periodic {
		for _, l := range lengths {
			if l < 2*nb.cutoff {
				return fmt.Errorf("%w: box edge %g shorter than twice the cutoff %g", engine.ErrUnsupported, l, nb.cutoff)
			}
		}
	}
	nb.box = lengths
	return nil
}

func pairKey(i, j int) uint64 {
	if i > j {
		i, j = j, i
	}
	return uint64(i)<<32 | uint64(uint32(j))
}

func (nb *Nonbonded) excluded(i, j int) bool {
	_, ok := nb.exclusions[pairKey(i, j)]
	return ok
}

func (nb *Nonbonded) delta(pi, pj engine.Vec3) engine.Vec3 {
	d := pi.Sub(pj)
	if nb.periodic {
		for k := 0; k < 3; k++ {
			d[k] -= nb.box[k] * math.Round(d[k]/nb.box[k])
		}
	}
	return d
}

// interact computes the pair between i and j. The returned scale times d is
// the force on i.
func (nb *Nonbonded) interact(chargeProd, sigma, epsilon, r2 float64, cutoff bool) (scale, energy float64) {
	if epsilon != 0 {
		sr2 := sigma * sigma / r2
		sr6 := sr2 * sr2 * sr2
		energy += 4 * epsilon * (sr6*sr6 - sr6)
		scale += 24 * epsilon * (2*sr6*sr6 - sr6) / r2
	}
	if chargeProd != 0 {
		qq := engine.CoulombConstant * chargeProd
		r := math.Sqrt(r2)
		if cutoff {
			energy += qq * (1/r + nb.krf*r2 - nb.crf)
			scale += qq * (1/(r2*r) - 2*nb.krf)
		} else {
			energy += qq / r
			scale += qq / (r2 * r)
		}
	}
	return scale, energy
}

func (nb *Nonbonded) pair(i, j int, pos []engine.Vec3, forces []engine.Vec3) float64 {
	d := nb.delta(pos[i], pos[j])
	r2 := d.Dot(d)
	if nb.method != engine.NoCutoff && r2 > nb.cutoff2 {
		return 0
	}
	if r2 == 0 || nb.excluded(i, j) {
		return 0
	}
	pi, pj := nb.params[i], nb.params[j]
	sigma := 0.5 * (pi.Sigma + pj.Sigma)
	epsilon := math.Sqrt(pi.Epsilon * pj.Epsilon)
	scale, energy := nb.interact(pi.Charge*pj.Charge, sigma, epsilon, r2, nb.method != engine.NoCutoff)
	f := d.Scale(scale)
	forces[i] = forces[i].Add(f)
	forces[j] = forces[j].Sub(f)
	return energy
}

// ExceptionForces evaluates the exception pairs without cutoff or periodicity.
func (nb *Nonbonded) ExceptionForces(pos []engine.Vec3, forces []engine.Vec3) float64 {
	energy := 0.0
	for _, e := range nb.exceptions {
		d := pos[e.P1].Sub(pos[e.P2])
		r2 := d.Dot(d)
		if r2 == 0 {
			continue
		}
		scale, en := nb.interact(e.ChargeProd, e.Sigma, e.Epsilon, r2, false)
		f := d.Scale(scale)
		forces[e.P1] = forces[e.P1].Add(f)
		forces[e.P2] = forces[e.P2].Sub(f)
		energy += en
	}
	return energy
}

// allPairs handles the rows [start, end) of the i < j pair triangle.
func (nb *Nonbonded) allPairs(pos []engine.Vec3, start, end int, forces []engine.Vec3) float64 {
	energy := 0.0
	n := len(pos)
	for i := start; i < end; i++ {
		for j := i + 1; j < n; j++ {
			energy += nb.pair(i, j, pos, forces)
		}
	}
	return energy
}
