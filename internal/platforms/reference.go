package platforms

import (
	"github.com/san-kum/mdbench/internal/compute"
	"github.com/san-kum/mdbench/internal/engine"
)

const ReferenceName = "Reference"

type Reference struct{}

func NewReference() *Reference {
	return &Reference{}
}

func (r *Reference) Name() string                       { return ReferenceName }
func (r *Reference) Speed() float64                     { return 1 }
func (r *Reference) PropertyNames() []string            { return nil }
func (r *Reference) DefaultPropertyValue(string) string { return "" }

func (r *Reference) CreateKernels(sys *engine.System, _ engine.Properties) (engine.Kernels, error) {
	return newKernels(sys, compute.NewSerialBackend())
}
