package envcheck

import (
	"fmt"
	"strings"

	"github.com/vertti/lxstarter/pkg/check"
)

// MarkerCheck looks for an isolated-environment marker such as an active
// conda environment. Absence or a mismatch is only ever a warning.
type MarkerCheck struct {
	Kind      string    // display name, e.g. "conda"
	PrefixVar string    // variable holding the environment path, e.g. CONDA_PREFIX
	NameVar   string    // variable holding the environment name, e.g. CONDA_DEFAULT_ENV
	Expected  string    // expected environment name
	Getter    EnvGetter // injected for testing
}

// Run executes the marker check. It always passes.
func (c *MarkerCheck) Run() (check.Result, error) {
	result := check.Result{Name: fmt.Sprintf("%s Environment", titleCase(c.Kind))}
	result.Infof("Checking %s environment...", c.Kind)

	prefix, _ := c.Getter.LookupEnv(c.PrefixVar)
	name, _ := c.Getter.LookupEnv(c.NameVar)

	switch {
	case prefix != "" && strings.Contains(prefix, c.Expected):
		if name == "" {
			name = c.Expected
		}
		result.Passf("Running in %s environment: %s", c.Kind, name)
	case prefix != "":
		result.Warn(fmt.Sprintf("Running in %s environment '%s', but expected '%s'", c.Kind, name, c.Expected),
			fmt.Sprintf("May not be in correct %s environment", c.Kind))
	default:
		result.Warn(fmt.Sprintf("Not running in a %s environment", c.Kind),
			fmt.Sprintf("Consider using %s environment for better isolation", c.Kind))
	}

	return result.Done(), nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
