package modcheck

import (
	"errors"
	"runtime/debug"
)

// ErrNoBuildInfo is returned when the binary carries no module information.
var ErrNoBuildInfo = errors.New("build info not available")

// ModuleLister reports the modules linked into the running binary,
// keyed by module path with their versions as values.
type ModuleLister interface {
	Modules() (map[string]string, error)
}

// BuildInfo lists modules from runtime/debug.ReadBuildInfo.
type BuildInfo struct{}

// Modules returns the main module and every dependency. Replaced
// modules are reported under their original path with the
// replacement's version.
func (BuildInfo) Modules() (map[string]string, error) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrNoBuildInfo
	}

	mods := make(map[string]string, len(info.Deps)+1)
	mods[info.Main.Path] = info.Main.Version
	for _, dep := range info.Deps {
		v := dep.Version
		if dep.Replace != nil {
			v = dep.Replace.Version
		}
		mods[dep.Path] = v
	}
	return mods, nil
}

// StaticModules is a fixed module path to version map.
type StaticModules map[string]string

func (s StaticModules) Modules() (map[string]string, error) {
	return s, nil
}
