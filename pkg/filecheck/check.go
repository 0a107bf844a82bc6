package filecheck

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/vertti/lxstarter/pkg/check"
)

// DirCheck ensures that a directory exists, creating it if absent.
// Running it again once the directory exists changes nothing.
type DirCheck struct {
	Path string     // directory to ensure, e.g. "outputs"
	Root string     // optional base for a relative Path; messages show Path as given
	FS   FileSystem // injected for testing
}

// Run executes the directory check. A failed mkdir is returned as a fault.
func (c *DirCheck) Run() (check.Result, error) {
	result := check.Result{Name: "Output Directory"}
	result.Infof("Checking output directory structure...")
	path := resolve(c.Root, c.Path)

	info, err := c.FS.Stat(path)
	switch {
	case err == nil && info.IsDir():
		result.Passf("%s/ directory exists", c.Path)
		return result.Done(), nil
	case err == nil:
		return result.Fail(fmt.Sprintf("%s exists but is not a directory", c.Path),
			fmt.Sprintf("%s is not a directory", c.Path)), nil
	case !errors.Is(err, fs.ErrNotExist):
		return result, fmt.Errorf("stat %s: %w", c.Path, err)
	}

	result.Infof("Creating %s/ directory...", c.Path)
	if err := c.FS.MkdirAll(path, 0o755); err != nil {
		return result, fmt.Errorf("create %s: %w", c.Path, err)
	}
	result.Passf("%s/ directory created", c.Path)
	return result.Done(), nil
}

// ExamplesCheck verifies that the example task files are present.
// A missing file is a warning; a missing directory is an error.
type ExamplesCheck struct {
	Dir   string     // e.g. "examples"
	Root  string     // optional base for a relative Dir
	Files []string   // names expected inside Dir
	FS    FileSystem // injected for testing
}

// Run executes the example files check.
func (c *ExamplesCheck) Run() (check.Result, error) {
	result := check.Result{Name: "Example Files"}
	result.Infof("Checking example files...")

	dir := resolve(c.Root, c.Dir)
	info, err := c.FS.Stat(dir)
	if err != nil || !info.IsDir() {
		return result.Fail(fmt.Sprintf("%s/ directory not found", c.Dir), "Missing examples directory"), nil
	}

	for _, name := range c.Files {
		if _, err := c.FS.Stat(filepath.Join(dir, name)); err == nil {
			result.Passf("  %s ✓", name)
			continue
		}
		result.Warn(fmt.Sprintf("  %s ✗", name), fmt.Sprintf("Missing example: %s", name))
	}

	return result.Done(), nil
}

// WritableCheck proves a directory is writable by creating and removing
// a probe file inside it. The directory is created first if needed.
type WritableCheck struct {
	Dir   string     // e.g. "outputs"
	Root  string     // optional base for a relative Dir
	Probe string     // probe file name, default "quick_test.txt"
	FS    FileSystem // injected for testing
}

// Run executes the writability check.
func (c *WritableCheck) Run() (check.Result, error) {
	result := check.Result{Name: "Output Capabilities"}
	result.Infof("Testing output capabilities...")

	dir := resolve(c.Root, c.Dir)
	if _, err := c.FS.Stat(dir); err != nil {
		if err := c.FS.MkdirAll(dir, 0o755); err != nil {
			return result.Fail(fmt.Sprintf("Cannot create %s/ directory: %v", c.Dir, err),
				fmt.Sprintf("Cannot create %s directory", c.Dir)), nil
		}
		result.Passf("Created %s/ directory", c.Dir)
	} else {
		result.Passf("%s/ directory exists", c.Dir)
	}

	probe := c.Probe
	if probe == "" {
		probe = "quick_test.txt"
	}
	path := filepath.Join(dir, probe)
	if err := c.FS.WriteFile(path, []byte("Quick test successful!"), 0o644); err != nil {
		return result.Fail(fmt.Sprintf("Cannot write to %s/ directory: %v", c.Dir, err),
			fmt.Sprintf("%s directory not writable", c.Dir)), nil
	}
	if err := c.FS.Remove(path); err != nil {
		shown := filepath.Join(c.Dir, probe)
		result.Warn(fmt.Sprintf("Could not remove %s: %v", shown, err), fmt.Sprintf("Leftover probe file %s", shown))
	}
	result.Passf("Can write to %s/ directory", c.Dir)
	return result.Done(), nil
}

// resolve joins a relative path onto root.
func resolve(root, p string) string {
	if root == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
