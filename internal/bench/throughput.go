package bench

import (
	"math"
	"time"
)

const secondsPerDay = 86400

// Throughput returns simulated nanoseconds per wall-clock day for steps of
// stepSize picoseconds run in elapsed.
func Throughput(stepSize float64, steps int, elapsed time.Duration) float64 {
	if steps == 0 {
		return 0
	}
	secs := elapsed.Seconds()
	if secs <= 0 {
		return math.Inf(1)
	}
	return 0.001 * stepSize * float64(steps) * secondsPerDay / secs
}
