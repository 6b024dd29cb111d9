// Package bench runs one timed molecular dynamics benchmark and writes its
// report.
//
// The driver only talks to the engine API: resolve a platform, deserialize
// the system and state, build the integrator and context, warm up, time the
// step loop and compute throughput in simulated nanoseconds per day.
package bench
