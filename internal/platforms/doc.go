// Package platforms implements the built-in engine platforms.
//
// Reference evaluates every force on a single goroutine. CPU spreads the
// nonbonded pair sum over a worker group sized by its Threads property. GPU
// platforms are not built in and come from plugins.
package platforms
