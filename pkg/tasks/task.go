// Package tasks loads extraction tasks from YAML files.
package tasks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vertti/lxstarter/pkg/extract"
)

// ErrInvalid wraps schema violations.
var ErrInvalid = errors.New("invalid task")

// Task describes one extraction run.
type Task struct {
	Name        string                `yaml:"name"`
	Description string                `yaml:"description"`
	Prompt      string                `yaml:"prompt"`
	Model       string                `yaml:"model"`
	Examples    []extract.ExampleData `yaml:"examples"`
	Text        string                `yaml:"text"`
	Texts       []string              `yaml:"texts"`
	URL         string                `yaml:"url"`
	Options     extract.Options       `yaml:"options"`
	Show        int                   `yaml:"show"`      // extractions to print per document, 0 for all
	Output      string                `yaml:"output"`    // JSONL file name under the output dir
	Visualize   string                `yaml:"visualize"` // HTML file name under the output dir
}

// Inputs returns the inline texts of the task. URL tasks have none.
func (t *Task) Inputs() []string {
	if t.Text != "" {
		return []string{t.Text}
	}
	return t.Texts
}

// ExtractOptions merges the task's model into its options, falling back
// to defaultModel.
func (t *Task) ExtractOptions(defaultModel string) extract.Options {
	opts := t.Options
	switch {
	case t.Model != "":
		opts.ModelID = t.Model
	case opts.ModelID == "":
		opts.ModelID = defaultModel
	}
	return opts
}

// Parse validates data against the schema and decodes it.
func Parse(data []byte) (*Task, error) {
	if errs := Validate(data); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	var t Task
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return &t, nil
}

// Load reads and parses a task file.
func Load(path string) (*Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading task file: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Resolve finds a task by name in dir. name may be a path, a file name
// or a bare name without the .yaml extension.
func Resolve(dir, name string) (string, error) {
	candidates := []string{name}
	if !filepath.IsAbs(name) {
		candidates = append(candidates, filepath.Join(dir, name))
		if filepath.Ext(name) == "" {
			candidates = append(candidates, filepath.Join(dir, name+".yaml"), filepath.Join(dir, name+".yml"))
		}
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("task %q not found in %s", name, dir)
}

// List returns the task files in dir, sorted by name.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}
