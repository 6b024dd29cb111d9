package engine

import (
	"math"
	"sort"
)

// BoltzmannKJ is the Boltzmann constant in kJ/(mol K).
const BoltzmannKJ = 0.008314462618

// CoulombConstant is 1/(4 pi eps0) in kJ nm/(mol e^2).
const CoulombConstant = 138.935456

type Vec3 [3]float64

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v[0] * f, v[1] * f, v[2] * f}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vec3) IsValid() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Box holds the three periodic box vectors A, B and C.
type Box [3]Vec3

// DefaultBox is the 2 nm cube used when a system carries no box vectors.
var DefaultBox = Box{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}}

func (b Box) IsRectangular() bool {
	return b[0][1] == 0 && b[0][2] == 0 &&
		b[1][0] == 0 && b[1][2] == 0 &&
		b[2][0] == 0 && b[2][1] == 0
}

// Lengths returns the edge lengths of a rectangular box.
func (b Box) Lengths() Vec3 {
	return Vec3{b[0][0], b[1][1], b[2][2]}
}

func (b Box) Volume() float64 {
	return math.Abs(b[0].Dot(b[1].Cross(b[2])))
}

// Properties are platform specific options keyed by property name.
type Properties map[string]string

func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	c := make(Properties, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Keys returns the property names in sorted order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
