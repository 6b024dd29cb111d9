package engine

import (
	"fmt"
	"sync"
)

// Platform is a compute backend able to evaluate the forces of a System.
type Platform interface {
	Name() string
	// Speed is a rough relative performance estimate; Reference is 1.
	Speed() float64
	PropertyNames() []string
	DefaultPropertyValue(name string) string
	// CreateKernels compiles the system's forces for this platform. Properties
	// are already validated and completed with defaults.
	CreateKernels(system *System, properties Properties) (Kernels, error)
}

// Kernels evaluate forces for one context.
type Kernels interface {
	// CalcForces overwrites forces and returns the potential energy.
	CalcForces(positions []Vec3, box Box, forces []Vec3) (float64, error)
	Close() error
}

// Registry holds the named platforms of a process.
type Registry struct {
	mu        sync.Mutex
	platforms map[string]Platform
	order     []string

	loadMu   sync.Mutex
	open     pluginOpener
	loaded   map[string][]string
	failures []PluginFailure
}

func NewRegistry() *Registry {
	return &Registry{
		platforms: make(map[string]Platform),
		open:      openGoPlugin,
		loaded:    make(map[string][]string),
	}
}

func (r *Registry) Register(p Platform) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, ok := r.platforms[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicatePlatform, name)
	}
	r.platforms[name] = p
	r.order = append(r.order, name)
	log.Debug("registered platform {{platform}}", "platform", name)
	return nil
}

func (r *Registry) PlatformByName(name string) (Platform, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.platforms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPlatformNotFound, name)
	}
	return p, nil
}

// Names returns platform names in registration order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

func (r *Registry) Platforms() []Platform {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := make([]Platform, 0, len(r.order))
	for _, name := range r.order {
		list = append(list, r.platforms[name])
	}
	return list
}

// resolveProperties checks property names against the platform and fills in
// defaults for the ones not given.
func resolveProperties(p Platform, props Properties) (Properties, error) {
	known := make(map[string]bool)
	for _, name := range p.PropertyNames() {
		known[name] = true
	}
	for _, name := range props.Keys() {
		if !known[name] {
			return nil, fmt.Errorf("%w: %q for platform %s", ErrIllegalProperty, name, p.Name())
		}
	}

	resolved := make(Properties, len(known))
	for _, name := range p.PropertyNames() {
		if v, ok := props[name]; ok {
			resolved[name] = v
		} else {
			resolved[name] = p.DefaultPropertyValue(name)
		}
	}
	return resolved, nil
}
