package bench

import (
	"sync"

	"github.com/san-kum/mdbench/internal/engine"
	"github.com/san-kum/mdbench/internal/platforms"
)

// Discovery describes what Initialize made available.
type Discovery struct {
	PluginDir string
	Platforms []string
	Plugins   []string
	Failures  []engine.PluginFailure
}

var (
	initMu      sync.Mutex
	initialized = map[*engine.Registry]*discoveryResult{}
)

type discoveryResult struct {
	discovery *Discovery
	err       error
}

// Initialize registers the built-in platforms on reg and loads the plugins in
// pluginDir. It runs once per registry: later calls return the first result,
// whatever pluginDir they pass.
func Initialize(reg *engine.Registry, pluginDir string) (*Discovery, error) {
	initMu.Lock()
	defer initMu.Unlock()

	if res, ok := initialized[reg]; ok {
		return res.discovery, res.err
	}

	d, err := discover(reg, pluginDir)
	initialized[reg] = &discoveryResult{discovery: d, err: err}
	return d, err
}

func discover(reg *engine.Registry, pluginDir string) (*Discovery, error) {
	if err := platforms.Register(reg); err != nil {
		return nil, err
	}
	if pluginDir == "" {
		pluginDir = engine.DefaultPluginsDirectory()
	}
	loaded, err := reg.LoadPluginsFromDirectory(pluginDir)
	if err != nil {
		return nil, err
	}
	d := &Discovery{
		PluginDir: pluginDir,
		Platforms: reg.Names(),
		Plugins:   loaded,
		Failures:  reg.PluginLoadFailures(),
	}
	log.Debug("platforms available: {{platforms}}", "platforms", d.Platforms, "plugins", len(loaded))
	return d, nil
}
