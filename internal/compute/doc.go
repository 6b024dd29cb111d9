// Package compute provides the force kernels behind the built-in platforms.
//
// Two backends evaluate the nonbonded pair sum:
//
//   - SerialBackend: single goroutine, used by the Reference platform
//   - ParallelBackend: cell ranges spread over a bounded worker group, used by
//     the CPU platform
//
// Both share the same pair kernel, so results agree up to summation order:
//
//	nb, err := compute.NewNonbonded(force)
//	nb.SetBox(box.Lengths())
//	energy := backend.NonbondedForces(nb, positions, forces)
//
// Bonded terms (bonds, angles, torsions) are cheap and always run serially.
package compute
