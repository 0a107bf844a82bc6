// Package config loads lxstarter settings from defaults, an optional
// lxstarter.yaml and LXSTARTER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/vertti/lxstarter/pkg/check"
	"github.com/vertti/lxstarter/pkg/modcheck"
)

// EnvPrefix is the prefix for environment overrides, e.g. LXSTARTER_MODEL_ID.
const EnvPrefix = "LXSTARTER"

// Config is the full lxstarter configuration.
type Config struct {
	ModelID      string                `mapstructure:"model_id"`
	APIKeyVar    string                `mapstructure:"api_key_var"`
	EnvFile      string                `mapstructure:"env_file"`
	EnvExample   string                `mapstructure:"env_example"`
	OutputDir    string                `mapstructure:"output_dir"`
	ExamplesDir  string                `mapstructure:"examples_dir"`
	ExampleFiles []string              `mapstructure:"example_files"`
	Runtime      RuntimeConfig         `mapstructure:"runtime"`
	Environment  EnvMarkerConfig       `mapstructure:"environment"`
	Library      LibraryConfig         `mapstructure:"library"`
	Dependencies []modcheck.Dependency `mapstructure:"dependencies"`
	EnvLoader    string                `mapstructure:"env_loader"`
	Credential   CredentialConfig      `mapstructure:"credential"`
}

// RuntimeConfig selects which runtime the version check inspects.
// With an empty Command the Go runtime of this binary is checked.
type RuntimeConfig struct {
	Label      string   `mapstructure:"label"`
	Constraint string   `mapstructure:"constraint"`
	Command    []string `mapstructure:"command"`
}

// EnvMarkerConfig names the isolated-environment marker variables.
type EnvMarkerConfig struct {
	Kind      string `mapstructure:"kind"`
	PrefixVar string `mapstructure:"prefix_var"`
	NameVar   string `mapstructure:"name_var"`
	Expected  string `mapstructure:"expected"`
}

// LibraryConfig names the extraction SDK module.
type LibraryConfig struct {
	Label  string `mapstructure:"label"`
	Module string `mapstructure:"module"`
}

// CredentialConfig holds the API key heuristics.
type CredentialConfig struct {
	Placeholder string `mapstructure:"placeholder"`
	KeyPrefix   string `mapstructure:"key_prefix"`
	MinLength   int    `mapstructure:"min_length"`
	Pattern     string `mapstructure:"pattern"` // regex the loaded key must match
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ModelID:     "gemini-2.5-flash",
		APIKeyVar:   "LANGEXTRACT_API_KEY",
		EnvFile:     ".env",
		EnvExample:  ".env.example",
		OutputDir:   "outputs",
		ExamplesDir: "examples",
		ExampleFiles: []string{
			"basic_example.yaml",
			"medical_example.yaml",
			"visualization_example.yaml",
			"url_example.yaml",
		},
		Runtime: RuntimeConfig{
			Label:      "Go",
			Constraint: ">= 1.24, < 2",
		},
		Environment: EnvMarkerConfig{
			Kind:      "conda",
			PrefixVar: "CONDA_PREFIX",
			NameVar:   "CONDA_DEFAULT_ENV",
			Expected:  "langextract",
		},
		Library: LibraryConfig{
			Label:  "Gemini SDK",
			Module: "google.golang.org/genai",
		},
		Dependencies: []modcheck.Dependency{
			{Name: "genai", Module: "google.golang.org/genai", Fallbacks: []string{"github.com/google/generative-ai-go"}},
			{Name: "openai", Module: "github.com/openai/openai-go/v3"},
			{Name: "gotenv", Module: "github.com/subosito/gotenv", Fallbacks: []string{"github.com/joho/godotenv"}},
			{Name: "retry", Module: "github.com/avast/retry-go/v4"},
			{Name: "yaml", Module: "gopkg.in/yaml.v3"},
			{Name: "gjson", Module: "github.com/tidwall/gjson"},
			{Name: "stick", Module: "github.com/tyler-sommer/stick"},
		},
		Credential: CredentialConfig{
			Placeholder: "your-api-key-here",
			KeyPrefix:   "AIza",
			MinLength:   35,
			Pattern:     `^[A-Za-z0-9_-]+$`,
		},
		EnvLoader: "github.com/subosito/gotenv",
	}
}

// Load reads configuration. An explicit cfgFile must exist; otherwise
// lxstarter.yaml is looked up in dir and $HOME/.lxstarter and may be absent.
func Load(cfgFile, dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("lxstarter")
		v.SetConfigType("yaml")
		if dir != "" {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath("$HOME/.lxstarter")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every leaf key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("model_id", d.ModelID)
	v.SetDefault("api_key_var", d.APIKeyVar)
	v.SetDefault("env_file", d.EnvFile)
	v.SetDefault("env_example", d.EnvExample)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("examples_dir", d.ExamplesDir)
	v.SetDefault("example_files", d.ExampleFiles)
	v.SetDefault("runtime.label", d.Runtime.Label)
	v.SetDefault("runtime.constraint", d.Runtime.Constraint)
	v.SetDefault("runtime.command", d.Runtime.Command)
	v.SetDefault("environment.kind", d.Environment.Kind)
	v.SetDefault("environment.prefix_var", d.Environment.PrefixVar)
	v.SetDefault("environment.name_var", d.Environment.NameVar)
	v.SetDefault("environment.expected", d.Environment.Expected)
	v.SetDefault("library.label", d.Library.Label)
	v.SetDefault("library.module", d.Library.Module)
	v.SetDefault("dependencies", d.Dependencies)
	v.SetDefault("env_loader", d.EnvLoader)
	v.SetDefault("credential.placeholder", d.Credential.Placeholder)
	v.SetDefault("credential.key_prefix", d.Credential.KeyPrefix)
	v.SetDefault("credential.min_length", d.Credential.MinLength)
	v.SetDefault("credential.pattern", d.Credential.Pattern)
}

// Validate rejects settings that would make every run meaningless.
func (c *Config) Validate() error {
	switch {
	case c.ModelID == "":
		return errors.New("model_id must not be empty")
	case c.APIKeyVar == "":
		return errors.New("api_key_var must not be empty")
	case c.Runtime.Constraint == "":
		return errors.New("runtime.constraint must not be empty")
	case c.Library.Module == "":
		return errors.New("library.module must not be empty")
	}
	for i, d := range c.Dependencies {
		if d.Name == "" || d.Module == "" {
			return fmt.Errorf("dependencies[%d]: name and module are required", i)
		}
	}
	if _, err := check.CompileRegex(c.Credential.Pattern); err != nil {
		return fmt.Errorf("credential.pattern: %w", err)
	}
	return nil
}
