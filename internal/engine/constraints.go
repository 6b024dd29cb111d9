package engine

import (
	"fmt"
	"math"
)

// ShakeTolerance is the relative tolerance on squared constraint lengths.
const ShakeTolerance = 1e-5

const shakeMaxIterations = 150

// shake moves pos so every constraint holds, using ref as the direction of
// the correction. Constraints between two massless particles are skipped.
func shake(constraints []Constraint, masses []float64, ref, pos []Vec3, tol float64) error {
	invMass := func(i int) float64 {
		if masses[i] == 0 {
			return 0
		}
		return 1 / masses[i]
	}

	for iter := 0; iter < shakeMaxIterations; iter++ {
		converged := true
		for _, c := range constraints {
			w1, w2 := invMass(c.P1), invMass(c.P2)
			if w1+w2 == 0 {
				continue
			}
			d := pos[c.P1].Sub(pos[c.P2])
			d0 := c.Distance * c.Distance
			diff := d0 - d.Dot(d)
			if math.Abs(diff) <= 2*tol*d0 {
				continue
			}
			converged = false

			r := ref[c.P1].Sub(ref[c.P2])
			rd := r.Dot(d)
			if rd < 1e-6*d0 {
				return fmt.Errorf("%w: constraint %d-%d deviates too far", ErrConstraints, c.P1, c.P2)
			}
			g := diff / (2 * rd * (w1 + w2))
			pos[c.P1] = pos[c.P1].Add(r.Scale(g * w1))
			pos[c.P2] = pos[c.P2].Sub(r.Scale(g * w2))
		}
		if converged {
			return nil
		}
	}
	return fmt.Errorf("%w after %d iterations", ErrConstraints, shakeMaxIterations)
}
