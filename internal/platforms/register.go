package platforms

import (
	"github.com/san-kum/mdbench/internal/engine"
)

// Names of the GPU plugin platforms and their selector properties.
const (
	OpenCLName            = "OpenCL"
	PlatformIndexProperty = "OpenCLPlatformIndex"
	DeviceIndexProperty   = "DeviceIndex"
)

// Builtin returns the platforms compiled into the binary.
func Builtin() []engine.Platform {
	return []engine.Platform{NewReference(), NewCPU()}
}

// Register adds the built-in platforms to reg.
func Register(reg *engine.Registry) error {
	for _, p := range Builtin() {
		if err := reg.Register(p); err != nil {
			return err
		}
	}
	return nil
}
