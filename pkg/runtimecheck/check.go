package runtimecheck

import (
	"fmt"

	"github.com/vertti/lxstarter/pkg/check"
	"github.com/vertti/lxstarter/pkg/version"
)

// Check verifies that a runtime version satisfies a constraint.
type Check struct {
	Label      string // display name, e.g. "Go" or "Python"
	Constraint string // semver constraint, e.g. ">= 3.11, < 4"
	Source     Source // injected for testing
}

// Run executes the runtime version check. An invalid constraint is a
// configuration fault and is returned as an error.
func (c *Check) Run() (check.Result, error) {
	result := check.Result{Name: fmt.Sprintf("%s Version", c.Label)}
	result.Infof("Checking %s version...", c.Label)

	raw, err := c.Source.Version()
	if err != nil {
		return result.Fail(fmt.Sprintf("%s version unavailable: %v", c.Label, err),
			fmt.Sprintf("%s not available", c.Label)), nil
	}

	v, err := version.Extract(raw)
	if err != nil {
		return result.Fail(fmt.Sprintf("could not parse %s version from %q", c.Label, raw),
			fmt.Sprintf("%s version unknown", c.Label)), nil
	}
	result.Set(check.MetaRuntimeVersion, v.String())

	ok, err := version.Satisfies(v, c.Constraint)
	if err != nil {
		return result, err
	}
	if !ok {
		return result.Fail(fmt.Sprintf("%s %s (requires %s)", c.Label, v, c.Constraint),
			fmt.Sprintf("%s version incompatible", c.Label)), nil
	}

	result.Passf("%s %s (compatible)", c.Label, v)
	return result.Done(), nil
}
