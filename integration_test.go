package lxstarter_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/vertti/lxstarter/pkg/check"
	"github.com/vertti/lxstarter/pkg/config"
	"github.com/vertti/lxstarter/pkg/credcheck"
	"github.com/vertti/lxstarter/pkg/envcheck"
	"github.com/vertti/lxstarter/pkg/filecheck"
	"github.com/vertti/lxstarter/pkg/modcheck"
	"github.com/vertti/lxstarter/pkg/runtimecheck"
	"github.com/vertti/lxstarter/pkg/validator"
)

// Integration tests verify Real* implementations work with actual system resources.
// Unit tests in each package cover edge cases; these tests verify end-to-end integration.

func TestIntegration_GoRuntime(t *testing.T) {
	c := runtimecheck.Check{Label: "Go", Constraint: ">= 1.24, < 2", Source: runtimecheck.GoRuntime{}}

	result, err := c.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != check.StatusPass {
		t.Errorf("Status = %v, want PASS (errors: %v)", result.Status, result.Errors)
	}
}

func TestIntegration_CommandRuntime(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}
	c := runtimecheck.Check{
		Label:      "Python",
		Constraint: ">= 3.11, < 4",
		Source: &runtimecheck.Command{
			Name:   "sh",
			Args:   []string{"-c", "echo Python 3.11.4"},
			Runner: &runtimecheck.RealRunner{},
		},
	}

	result, err := c.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != check.StatusPass {
		t.Errorf("Status = %v, want PASS (lines: %v)", result.Status, result.Lines)
	}
	if got := result.Metadata[check.MetaRuntimeVersion]; got != "3.11.4" {
		t.Errorf("version = %q, want 3.11.4", got)
	}
}

func TestIntegration_Env(t *testing.T) {
	t.Setenv("LXSTARTER_TEST_VAR", "test-value")

	c := envcheck.Check{
		Name:   "LXSTARTER_TEST_VAR",
		Getter: &envcheck.RealEnvGetter{},
	}

	result, err := c.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != check.StatusPass {
		t.Errorf("Status = %v, want PASS (errors: %v)", result.Status, result.Errors)
	}
}

func TestIntegration_Credentials(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("LANGEXTRACT_API_KEY=AIzaSyA1234567890abcdefghijklmnopqrstu\n"), 0o600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	c := credcheck.Check{Path: path, FS: &credcheck.RealFileSystem{}}

	result, err := c.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != check.StatusPass {
		t.Errorf("Status = %v, want PASS (errors: %v)", result.Status, result.Errors)
	}
}

func TestIntegration_OutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outputs")
	fs := &filecheck.RealFileSystem{}

	for i := range 2 {
		result, err := (&filecheck.DirCheck{Path: dir, FS: fs}).Run()
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
		if result.Status != check.StatusPass {
			t.Errorf("run %d: Status = %v, want PASS", i, result.Status)
		}
	}

	result, err := (&filecheck.WritableCheck{Dir: dir, FS: fs}).Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != check.StatusPass {
		t.Errorf("Status = %v, want PASS (errors: %v)", result.Status, result.Errors)
	}
	if _, err := os.Stat(filepath.Join(dir, "quick_test.txt")); !os.IsNotExist(err) {
		t.Errorf("probe file left behind: %v", err)
	}
}

func TestIntegration_BuildInfo(t *testing.T) {
	mods, err := modcheck.BuildInfo{}.Modules()
	if err != nil {
		t.Skipf("no build info: %v", err)
	}
	if len(mods) == 0 {
		t.Error("expected at least the main module")
	}
}

func TestIntegration_SetupStages(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()

	env := validator.RealEnvironment(dir, cfg.Runtime)
	report := (&validator.Runner{Stages: validator.SetupStages(&cfg, env)}).Run()

	if report.Total != 8 {
		t.Errorf("Total = %d, want 8", report.Total)
	}
	if report.Passed > report.Total {
		t.Errorf("Passed = %d exceeds Total = %d", report.Passed, report.Total)
	}
	if report.OK() {
		t.Error("an empty project must not validate")
	}
	if _, err := os.Stat(filepath.Join(dir, cfg.OutputDir)); err != nil {
		t.Errorf("output dir not created: %v", err)
	}
}
