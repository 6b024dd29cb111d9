package bench

import (
	"fmt"
	"io"
	"strconv"
	"time"
)

// report writes the plain-text benchmark report line by line so a failed run
// leaves what it got through.
type report struct {
	w   io.Writer
	err error
}

func (r *report) printf(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func (r *report) header(steps int, systemFile string) {
	r.printf("\nsteps=%d\n", steps)
	r.printf("\nBenchmark: %s\n", systemFile)
}

func (r *report) platform(name string) {
	r.printf("Using platform: %s\n", name)
}

func (r *report) throughput(nsPerDay float64, elapsed time.Duration) {
	r.printf("ns/day: %s\n", formatFloat(nsPerDay))
	r.printf("simulation time: %s seconds\n", formatFloat(elapsed.Seconds()))
}

func (r *report) completion(total time.Duration) {
	r.printf("simulation time to completion: %s seconds\n", formatFloat(total.Seconds()))
}
