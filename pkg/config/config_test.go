package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("", t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", cfg.ModelID)
	assert.Equal(t, "LANGEXTRACT_API_KEY", cfg.APIKeyVar)
	assert.Equal(t, "outputs", cfg.OutputDir)
	assert.Len(t, cfg.ExampleFiles, 4)
	assert.Equal(t, ">= 1.24, < 2", cfg.Runtime.Constraint)
	assert.Equal(t, "CONDA_PREFIX", cfg.Environment.PrefixVar)
	assert.Equal(t, 35, cfg.Credential.MinLength)
	require.Len(t, cfg.Dependencies, 7)
	assert.Equal(t, []string{"github.com/google/generative-ai-go"}, cfg.Dependencies[0].Fallbacks)
}

func TestLoad_FileOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	content := `model_id: gpt-4o-mini
runtime:
  label: Python
  constraint: ">= 3.11, < 4"
  command: ["python3", "--version"]
dependencies:
  - name: numpy
    module: example.com/numpy
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lxstarter.yaml"), []byte(content), 0o600))

	cfg, err := Load("", dir)

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.ModelID)
	assert.Equal(t, "Python", cfg.Runtime.Label)
	assert.Equal(t, []string{"python3", "--version"}, cfg.Runtime.Command)
	require.Len(t, cfg.Dependencies, 1)
	assert.Equal(t, "numpy", cfg.Dependencies[0].Name)
	assert.Equal(t, "outputs", cfg.OutputDir, "unset keys keep defaults")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LXSTARTER_MODEL_ID", "gemini-2.5-pro")
	t.Setenv("LXSTARTER_RUNTIME_CONSTRAINT", ">= 1.25")

	cfg, err := Load("", t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", cfg.ModelID)
	assert.Equal(t, ">= 1.25", cfg.Runtime.Constraint)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")

	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lxstarter.yaml"), []byte("model_id: [unclosed"), 0o600))

	_, err := Load("", dir)

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"empty model", func(c *Config) { c.ModelID = "" }, true},
		{"empty key var", func(c *Config) { c.APIKeyVar = "" }, true},
		{"empty constraint", func(c *Config) { c.Runtime.Constraint = "" }, true},
		{"empty library", func(c *Config) { c.Library.Module = "" }, true},
		{"dependency without module", func(c *Config) { c.Dependencies[0].Module = "" }, true},
		{"invalid key pattern", func(c *Config) { c.Credential.Pattern = "[" }, true},
		{"no key pattern", func(c *Config) { c.Credential.Pattern = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.Equal(t, tt.wantErr, err != nil, "Validate() = %v", err)
		})
	}
}
