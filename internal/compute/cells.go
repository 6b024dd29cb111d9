package compute

import (
	"math"

	"github.com/san-kum/mdbench/internal/engine"
)

// cellList bins particles into cells at least one cutoff wide. heads[c] is
// the first particle of cell c and next chains the rest; -1 ends a chain.
type cellList struct {
	dims  [3]int
	wrap  bool
	heads []int
	next  []int
}

// forward half of the 26 neighbor offsets; with the cell itself this visits
// every neighboring cell pair exactly once
var halfShell = func() [][3]int {
	var offsets [][3]int
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				if dx > 0 || (dx == 0 && dy > 0) || (dx == 0 && dy == 0 && dz > 0) {
					offsets = append(offsets, [3]int{dx, dy, dz})
				}
			}
		}
	}
	return offsets
}()

// maxCellsPerParticle bounds the grid of sparse systems, where most cells
// would be empty.
const maxCellsPerParticle = 4

// buildCells returns nil when a cell list does not pay off: no cutoff, a
// periodic box with fewer than three cells along an axis, or a grid with more
// than maxCellsPerParticle cells per particle.
func (nb *Nonbonded) buildCells(pos []engine.Vec3) *cellList {
	if nb.method == engine.NoCutoff || len(pos) == 0 {
		return nil
	}

	var origin, extent engine.Vec3
	if nb.periodic {
		extent = nb.box
	} else {
		lo, hi := pos[0], pos[0]
		for _, p := range pos[1:] {
			for k := 0; k < 3; k++ {
				lo[k] = math.Min(lo[k], p[k])
				hi[k] = math.Max(hi[k], p[k])
			}
		}
		origin = lo
		extent = hi.Sub(lo)
	}

	limit := maxCellsPerParticle*len(pos) + 27
	cl := &cellList{wrap: nb.periodic}
	var size engine.Vec3
	total := 1
	for k := 0; k < 3; k++ {
		f := extent[k] / nb.cutoff
		// also rejects NaN and Inf extents
		if !(f <= float64(limit)) {
			return nil
		}
		d := int(f)
		if d < 1 {
			d = 1
		}
		if nb.periodic && d < 3 {
			return nil
		}
		if total > limit/d {
			return nil
		}
		cl.dims[k] = d
		size[k] = extent[k] / float64(d)
		if size[k] == 0 {
			size[k] = nb.cutoff
		}
		total *= d
	}

	cl.heads = make([]int, total)
	for c := range cl.heads {
		cl.heads[c] = -1
	}
	cl.next = make([]int, len(pos))
	for i, p := range pos {
		var idx [3]int
		for k := 0; k < 3; k++ {
			x := p[k] - origin[k]
			if nb.periodic {
				x -= extent[k] * math.Floor(x/extent[k])
			}
			idx[k] = int(x / size[k])
			if idx[k] >= cl.dims[k] {
				idx[k] = cl.dims[k] - 1
			}
			if idx[k] < 0 {
				idx[k] = 0
			}
		}
		c := cl.index(idx)
		cl.next[i] = cl.heads[c]
		cl.heads[c] = i
	}
	return cl
}

func (cl *cellList) index(idx [3]int) int {
	return (idx[0]*cl.dims[1]+idx[1])*cl.dims[2] + idx[2]
}

func (cl *cellList) coords(c int) [3]int {
	z := c % cl.dims[2]
	y := (c / cl.dims[2]) % cl.dims[1]
	x := c / (cl.dims[1] * cl.dims[2])
	return [3]int{x, y, z}
}

// neighbor returns the cell at offset o from c, or -1 outside a non-periodic grid.
func (cl *cellList) neighbor(c int, o [3]int) int {
	idx := cl.coords(c)
	for k := 0; k < 3; k++ {
		idx[k] += o[k]
		if cl.wrap {
			idx[k] = (idx[k] + cl.dims[k]) % cl.dims[k]
		} else if idx[k] < 0 || idx[k] >= cl.dims[k] {
			return -1
		}
	}
	return cl.index(idx)
}

// cellPairs handles the pairs owned by cells [start, end).
func (nb *Nonbonded) cellPairs(cl *cellList, pos []engine.Vec3, start, end int, forces []engine.Vec3) float64 {
	energy := 0.0
	for c := start; c < end; c++ {
		for i := cl.heads[c]; i >= 0; i = cl.next[i] {
			for j := cl.next[i]; j >= 0; j = cl.next[j] {
				energy += nb.pair(i, j, pos, forces)
			}
		}
		for _, o := range halfShell {
			n := cl.neighbor(c, o)
			if n < 0 {
				continue
			}
			for i := cl.heads[c]; i >= 0; i = cl.next[i] {
				for j := cl.heads[n]; j >= 0; j = cl.next[j] {
					energy += nb.pair(i, j, pos, forces)
				}
			}
		}
	}
	return energy
}
