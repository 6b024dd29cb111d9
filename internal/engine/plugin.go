package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"plugin"
	"sort"
	"strings"
)

// PluginSymbol is the function every platform plugin exports.
const PluginSymbol = "RegisterPlatforms"

// PluginDirEnv overrides the default plugin directory.
const PluginDirEnv = "MDBENCH_PLUGIN_DIR"

// PluginFailure records a plugin that could not be loaded.
type PluginFailure struct {
	Path string
	Err  error
}

func (f PluginFailure) Error() string {
	return f.Path + ": " + f.Err.Error()
}

type pluginOpener func(path string) (func(*Registry) error, error)

func openGoPlugin(path string) (func(*Registry) error, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	sym, err := p.Lookup(PluginSymbol)
	if err != nil {
		return nil, err
	}
	switch fn := sym.(type) {
	case func(*Registry) error:
		return fn, nil
	case *func(*Registry) error:
		return *fn, nil
	default:
		return nil, fmt.Errorf("symbol %s has type %T", PluginSymbol, sym)
	}
}

// DefaultPluginsDirectory returns $MDBENCH_PLUGIN_DIR, or the plugins
// directory next to the running executable.
func DefaultPluginsDirectory() string {
	if dir := os.Getenv(PluginDirEnv); dir != "" {
		return dir
	}
	exe, err := os.Executable()
	if err != nil {
		return "plugins"
	}
	return filepath.Join(filepath.Dir(exe), "plugins")
}

// LoadPluginsFromDirectory loads every *.so plugin in dir and returns the paths
// that loaded. A missing directory loads nothing. Each directory is processed
// once per registry; later calls return the first result without reopening
// anything. Failures are recorded in PluginLoadFailures and never abort the
// scan.
func (r *Registry) LoadPluginsFromDirectory(dir string) ([]string, error) {
	key := filepath.Clean(dir)
	if abs, err := filepath.Abs(key); err == nil {
		key = abs
	}

	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	r.mu.Lock()
	if loaded, ok := r.loaded[key]; ok {
		r.mu.Unlock()
		return append([]string(nil), loaded...), nil
	}
	r.mu.Unlock()

	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading plugin directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".so") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	loaded := []string{}
	var failures []PluginFailure
	for _, path := range paths {
		register, err := r.open(path)
		if err == nil {
			err = register(r)
		}
		if err != nil {
			log.Warn("cannot load plugin {{plugin}}", "plugin", path, "error", err)
			failures = append(failures, PluginFailure{Path: path, Err: err})
			continue
		}
		log.Debug("loaded plugin {{plugin}}", "plugin", path)
		loaded = append(loaded, path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded[key] = loaded
	r.failures = append(r.failures, failures...)
	return append([]string(nil), loaded...), nil
}

func (r *Registry) PluginLoadFailures() []PluginFailure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]PluginFailure(nil), r.failures...)
}
