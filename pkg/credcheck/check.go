package credcheck

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/subosito/gotenv"

	"github.com/vertti/lxstarter/pkg/check"
)

// Defaults for a Gemini API key stored in .env.
const (
	DefaultKey         = "LANGEXTRACT_API_KEY"
	DefaultPlaceholder = "your-api-key-here"
	DefaultKeyPrefix   = "AIza"
	DefaultMinLength   = 35
)

// FileSystem abstracts file system operations for testability.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
}

// RealFileSystem implements FileSystem using the actual file system.
type RealFileSystem struct{}

func (r *RealFileSystem) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }
func (r *RealFileSystem) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

// Check verifies that a .env file holds a real API key. The file is
// only ever read.
type Check struct {
	Path        string // e.g. ".env"
	ExamplePath string // e.g. ".env.example", used for a hint only
	Root        string // optional base for relative paths; messages show them as given
	Key         string // variable name, default DefaultKey
	Placeholder string // default DefaultPlaceholder
	KeyPrefix   string // format heuristic, default DefaultKeyPrefix
	MinLength   int    // format heuristic, default DefaultMinLength
	FS          FileSystem
}

// Run executes the credential file check.
func (c *Check) Run() (check.Result, error) {
	c.applyDefaults()
	result := check.Result{Name: "API Key Configuration"}
	result.Infof("Checking %s file configuration...", c.Path)

	path := resolve(c.Root, c.Path)
	if _, err := c.FS.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return result.Fail(fmt.Sprintf("Error reading %s file: %v", c.Path, err),
				fmt.Sprintf("%s file error: %v", c.Path, err)), nil
		}
		if c.ExamplePath != "" {
			if _, exErr := c.FS.Stat(resolve(c.Root, c.ExamplePath)); exErr == nil {
				result.Error(fmt.Sprintf("%s file not found (but %s exists)", c.Path, c.ExamplePath),
					fmt.Sprintf("Missing %s file", c.Path))
				result.Infof("Copy %s to %s and add your API key (or run 'lxstarter init')", c.ExamplePath, c.Path)
				return result.Done(), nil
			}
		}
		return result.Fail(fmt.Sprintf("No %s file found", c.Path), fmt.Sprintf("Missing %s file", c.Path)), nil
	}

	data, err := c.FS.ReadFile(path)
	if err != nil {
		return result.Fail(fmt.Sprintf("Error reading %s file: %v", c.Path, err),
			fmt.Sprintf("%s file error: %v", c.Path, err)), nil
	}

	apiKey, found := Lookup(data, c.Key)
	if !found {
		return result.Fail(fmt.Sprintf("%s not found in %s", c.Key, c.Path), "API key not configured"), nil
	}
	if apiKey == "" || apiKey == c.Placeholder {
		return result.Fail("API key not set (still has placeholder value)", "API key placeholder not replaced"), nil
	}

	if LooksValid(apiKey, c.KeyPrefix, c.MinLength) {
		result.Passf("API key format looks valid")
	} else {
		result.Warn(fmt.Sprintf("API key format may be invalid (expected %s... format)", c.KeyPrefix),
			"API key format questionable")
	}
	return result.Done(), nil
}

func (c *Check) applyDefaults() {
	if c.Path == "" {
		c.Path = ".env"
	}
	if c.Key == "" {
		c.Key = DefaultKey
	}
	if c.Placeholder == "" {
		c.Placeholder = DefaultPlaceholder
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = DefaultKeyPrefix
	}
	if c.MinLength == 0 {
		c.MinLength = DefaultMinLength
	}
}

// resolve joins a relative path onto root.
func resolve(root, p string) string {
	if root == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// Lookup parses .env content and returns the value of key with
// surrounding quotes and whitespace removed. Invalid lines are skipped.
func Lookup(data []byte, key string) (string, bool) {
	env := gotenv.Parse(bytes.NewReader(data))
	v, ok := env[key]
	if !ok {
		return "", false
	}
	return strings.Trim(strings.TrimSpace(v), `"'`), true
}

// LooksValid applies the provider-specific key shape heuristic. It is
// not authoritative.
func LooksValid(key, prefix string, minLength int) bool {
	return strings.HasPrefix(key, prefix) && len(key) >= minLength
}
