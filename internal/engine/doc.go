// Package engine is the public API of the molecular dynamics engine used by
// the benchmark driver.
//
// A run binds three things into a Context:
//
//   - System: particles, box vectors, constraints and forces
//   - Integrator: LangevinMiddleIntegrator or VerletIntegrator
//   - Platform: the compute backend that evaluates forces
//
// Systems and states are read from the engine's XML serialization:
//
//	system, err := engine.DeserializeSystem(r)
//	state, err := engine.DeserializeState(r)
//
// Platforms are looked up by name in a Registry. GPU platforms are not built
// in; they are loaded from a plugin directory with LoadPluginsFromDirectory.
//
// Units follow the usual MD conventions: nm, ps, amu, kJ/mol and K.
package engine
