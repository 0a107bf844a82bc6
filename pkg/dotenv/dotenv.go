// Package dotenv loads .env files into the process environment.
package dotenv

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/subosito/gotenv"
)

// Load reads path and sets every variable it defines that is not
// already set. A missing file is not an error; loaded reports whether
// the file existed.
func Load(path string) (loaded bool, err error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	env, err := gotenv.StrictParse(f)
	if err != nil {
		return true, fmt.Errorf("parse %s: %w", path, err)
	}
	for k, v := range env {
		if _, exists := os.LookupEnv(k); exists {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return true, fmt.Errorf("set %s: %w", k, err)
		}
	}
	return true, nil
}

// Read parses path without touching the process environment.
func Read(path string) (map[string]string, error) {
	env, err := gotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return env, nil
}

// SetKey returns content with key assigned to value. The first
// assignment of key, with or without an export prefix, is rewritten in
// place and the rest of the file is kept; otherwise the assignment is
// appended.
func SetKey(content []byte, key, value string) []byte {
	line := key + "=" + quote(value)
	lines := strings.Split(string(content), "\n")
	for i, l := range lines {
		t := strings.TrimPrefix(strings.TrimSpace(l), "export ")
		name, _, ok := strings.Cut(t, "=")
		if ok && strings.TrimSpace(name) == key {
			lines[i] = line
			return []byte(strings.Join(lines, "\n"))
		}
	}
	out := strings.TrimRight(string(content), "\n")
	if out != "" {
		out += "\n"
	}
	return []byte(out + line + "\n")
}

// quote wraps values gotenv would otherwise split or expand.
func quote(v string) string {
	if strings.ContainsAny(v, " \t#$\"'") {
		return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	return v
}
