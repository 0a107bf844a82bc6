package netcheck

import (
	"context"
	"fmt"
	"time"

	"github.com/vertti/lxstarter/pkg/check"
)

// DefaultTimeout bounds a live connectivity probe.
const DefaultTimeout = 15 * time.Second

// Pinger verifies that a model provider is reachable with the configured key.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Check is the API connectivity stage. Unless Live is set it verifies
// nothing and reports SKIP; the example tasks exercise the API instead.
type Check struct {
	Live    bool
	Model   string        // model ID shown in output
	Hint    string        // command suggested when skipped
	Timeout time.Duration // default: DefaultTimeout
	Pinger  Pinger        // required when Live; injected for testing
}

// Run executes the connectivity stage.
func (c *Check) Run() (check.Result, error) {
	result := check.Result{Name: "API Connectivity"}
	result.Infof("Testing API connectivity...")

	if !c.Live {
		result.Infof("Skipped: connectivity is verified by running an example")
		if c.Hint != "" {
			result.Infof("  Run '%s' to test API (or pass --live)", c.Hint)
		}
		return result.Skip(), nil
	}

	if c.Pinger == nil {
		return result, fmt.Errorf("no provider configured for live connectivity check")
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	if err := c.Pinger.Ping(ctx); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return result.Fail(fmt.Sprintf("API did not respond within %s", timeout), "API connectivity timed out"), nil
		}
		return result.Fail(fmt.Sprintf("API connectivity failed: %v", err), "API connectivity failed"), nil
	}

	result.Passf("Model %s reachable (%s)", c.Model, time.Since(start).Round(time.Millisecond))
	return result.Done(), nil
}
