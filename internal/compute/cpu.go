package compute

import (
	"runtime"

	"github.com/san-kum/mdbench/internal/engine"
	"golang.org/x/sync/errgroup"
)

// below this many particles the parallel backend runs serially
const parallelThreshold = 64

type ParallelBackend struct {
	workers int

	local  [][]engine.Vec3
	energy []float64
}

// NewParallelBackend uses runtime.NumCPU workers when workers <= 0.
func NewParallelBackend(workers int) *ParallelBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &ParallelBackend{workers: workers}
}

func (c *ParallelBackend) Workers() int { return c.workers }

func (c *ParallelBackend) Cleanup() {
	c.local = nil
	c.energy = nil
}

func (c *ParallelBackend) ensureBuffers(n int) {
	if len(c.local) != c.workers || len(c.local[0]) != n {
		c.local = make([][]engine.Vec3, c.workers)
		for w := range c.local {
			c.local[w] = make([]engine.Vec3, n)
		}
		c.energy = make([]float64, c.workers)
	}
	for w := range c.local {
		buf := c.local[w]
		for i := range buf {
			buf[i] = engine.Vec3{}
		}
		c.energy[w] = 0
	}
}

func (c *ParallelBackend) NonbondedForces(nb *Nonbonded, pos []engine.Vec3, forces []engine.Vec3) float64 {
	n := len(pos)
	if n < parallelThreshold || c.workers == 1 {
		return NewSerialBackend().NonbondedForces(nb, pos, forces)
	}

	energy := nb.ExceptionForces(pos, forces)
	cells := nb.buildCells(pos)

	units := n
	if cells != nil {
		units = len(cells.heads)
	}
	chunkSize := (units + c.workers - 1) / c.workers
	c.ensureBuffers(n)

	var g errgroup.Group
	g.SetLimit(c.workers)
	for w := 0; w < c.workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > units {
			end = units
		}
		if start >= end {
			continue
		}
		worker := w
		g.Go(func() error {
			if cells == nil {
				c.energy[worker] = nb.allPairs(pos, start, end, c.local[worker])
			} else {
				c.energy[worker] = nb.cellPairs(cells, pos, start, end, c.local[worker])
			}
			return nil
		})
	}
	// the pair kernels cannot fail, so Wait only joins the workers
	_ = g.Wait()

	for w := 0; w < c.workers; w++ {
		energy += c.energy[w]
		local := c.local[w]
		for i := range forces {
			forces[i] = forces[i].Add(local[i])
		}
	}
	return energy
}
