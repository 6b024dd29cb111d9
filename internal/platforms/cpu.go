package platforms

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/san-kum/mdbench/internal/compute"
	"github.com/san-kum/mdbench/internal/engine"
)

const (
	CPUName = "CPU"

	// ThreadsProperty is the number of worker goroutines of the CPU platform.
	ThreadsProperty = "Threads"
)

type CPU struct {
	defaultThreads int
}

func NewCPU() *CPU {
	return &CPU{defaultThreads: runtime.NumCPU()}
}

func (c *CPU) Name() string            { return CPUName }
func (c *CPU) Speed() float64          { return 10 }
func (c *CPU) PropertyNames() []string { return []string{ThreadsProperty} }

func (c *CPU) DefaultPropertyValue(name string) string {
	if name == ThreadsProperty {
		return strconv.Itoa(c.defaultThreads)
	}
	return ""
}

func (c *CPU) CreateKernels(sys *engine.System, props engine.Properties) (engine.Kernels, error) {
	threads, err := strconv.Atoi(props[ThreadsProperty])
	if err != nil || threads < 1 {
		return nil, fmt.Errorf("%w: %s=%q must be a positive integer", engine.ErrInvalidProperty, ThreadsProperty, props[ThreadsProperty])
	}
	return newKernels(sys, compute.NewParallelBackend(threads))
}
