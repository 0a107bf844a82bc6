package modcheck

import (
	"fmt"

	"github.com/vertti/lxstarter/pkg/check"
)

// LibraryCheck verifies that the extraction SDK is linked in.
type LibraryCheck struct {
	Label  string       // display name, e.g. "Gemini SDK"
	Module string       // module path, e.g. google.golang.org/genai
	Lister ModuleLister // injected for testing
}

// Run executes the library check. Missing build info is a fault.
func (c *LibraryCheck) Run() (check.Result, error) {
	result := check.Result{Name: fmt.Sprintf("%s Installation", c.Label)}
	result.Infof("Checking %s installation...", c.Label)

	mods, err := c.Lister.Modules()
	if err != nil {
		return result, err
	}

	v, ok := mods[c.Module]
	if !ok {
		return result.Fail(fmt.Sprintf("%s not installed: module %s is not linked", c.Label, c.Module),
			fmt.Sprintf("%s not installed", c.Label)), nil
	}
	if v == "" || v == "(devel)" {
		v = "unknown"
	}
	result.Set(check.MetaLibraryVersion, v)
	result.Passf("%s %s installed", c.Label, v)
	return result.Done(), nil
}

// Dependency is a named module with optional alternative module paths
// that satisfy it, tried in order when the primary path is absent.
type Dependency struct {
	Name      string   `mapstructure:"name"`
	Module    string   `mapstructure:"module"`
	Fallbacks []string `mapstructure:"fallbacks"`
}

// Resolve returns the first of Module and Fallbacks present in mods.
func (d Dependency) Resolve(mods map[string]string) (path, version string, ok bool) {
	for _, p := range append([]string{d.Module}, d.Fallbacks...) {
		if v, found := mods[p]; found {
			return p, v, true
		}
	}
	return "", "", false
}

// DependencyCheck verifies that each critical dependency is linked in.
type DependencyCheck struct {
	Dependencies []Dependency
	Lister       ModuleLister // injected for testing
}

// Run executes the dependency check, recording one error per missing dependency.
func (c *DependencyCheck) Run() (check.Result, error) {
	result := check.Result{Name: "Dependencies"}
	result.Infof("Checking critical dependencies...")

	mods, err := c.Lister.Modules()
	if err != nil {
		return result, err
	}

	for _, dep := range c.Dependencies {
		path, v, ok := dep.Resolve(mods)
		if !ok {
			result.Error(fmt.Sprintf("  %s ✗", dep.Name), fmt.Sprintf("Missing dependency: %s", dep.Name))
			continue
		}
		if path != dep.Module {
			result.Passf("  %s ✓ (via %s %s)", dep.Name, path, v)
			continue
		}
		result.Passf("  %s ✓ %s", dep.Name, v)
	}

	return result.Done(), nil
}
