package envcheck

import (
	"fmt"

	"github.com/vertti/lxstarter/pkg/check"
)

// Check verifies that an environment variable holds a usable value.
type Check struct {
	Name        string    // env var name
	Placeholder string    // value that counts as unset, e.g. "your-api-key-here"
	Match       string    // optional regex the value must match
	MaskValue   bool      // show first/last 3 chars only
	Getter      EnvGetter // injected for testing
}

// Run executes the environment variable check.
func (c *Check) Run() (check.Result, error) {
	result := check.Result{Name: fmt.Sprintf("env: %s", c.Name)}

	value, exists := c.Getter.LookupEnv(c.Name)
	if !exists || value == "" {
		return result.Fail(fmt.Sprintf("%s not found in environment", c.Name),
			fmt.Sprintf("%s not set", c.Name)), nil
	}

	if c.Placeholder != "" && value == c.Placeholder {
		return result.Fail(fmt.Sprintf("%s is still the placeholder value", c.Name),
			fmt.Sprintf("%s placeholder not replaced", c.Name)), nil
	}

	re, err := check.CompileRegex(c.Match)
	if err != nil {
		return result, fmt.Errorf("invalid regex pattern %q: %w", c.Match, err)
	}
	if re != nil && !re.MatchString(value) {
		return result.Fail(fmt.Sprintf("%s does not match pattern %q", c.Name, c.Match),
			fmt.Sprintf("%s has unexpected format", c.Name)), nil
	}

	result.Passf("%s found: %s", c.Name, c.formatValue(value))
	return result.Done(), nil
}

func (c *Check) formatValue(value string) string {
	if c.MaskValue {
		return maskValue(value)
	}
	return value
}

func maskValue(value string) string {
	if len(value) <= 6 {
		return "•••"
	}
	return value[:3] + "•••" + value[len(value)-3:]
}
