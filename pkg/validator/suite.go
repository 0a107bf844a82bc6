package validator

import (
	"github.com/vertti/lxstarter/pkg/check"
	"github.com/vertti/lxstarter/pkg/config"
	"github.com/vertti/lxstarter/pkg/credcheck"
	"github.com/vertti/lxstarter/pkg/envcheck"
	"github.com/vertti/lxstarter/pkg/filecheck"
	"github.com/vertti/lxstarter/pkg/modcheck"
	"github.com/vertti/lxstarter/pkg/netcheck"
	"github.com/vertti/lxstarter/pkg/runtimecheck"
)

// Environment carries everything the checks read from the outside
// world, so a suite never touches ambient state directly.
type Environment struct {
	Dir     string // project root; relative paths resolve against it
	Env     envcheck.EnvGetter
	Files   filecheck.FileSystem
	Creds   credcheck.FileSystem
	Modules modcheck.ModuleLister
	Runtime runtimecheck.Source
	Pinger  netcheck.Pinger // used only when Live
	Live    bool
}

// RealEnvironment reads the process environment, the file system under
// dir and this binary's build info.
func RealEnvironment(dir string, rt config.RuntimeConfig) Environment {
	var src runtimecheck.Source = runtimecheck.GoRuntime{}
	if len(rt.Command) > 0 {
		src = &runtimecheck.Command{Name: rt.Command[0], Args: rt.Command[1:], Runner: &runtimecheck.RealRunner{}}
	}
	return Environment{
		Dir:     dir,
		Env:     &envcheck.RealEnvGetter{},
		Files:   &filecheck.RealFileSystem{},
		Creds:   &credcheck.RealFileSystem{},
		Modules: modcheck.BuildInfo{},
		Runtime: src,
	}
}

// SetupStages returns the setup validation checks in their fixed order:
// runtime, environment marker, library, dependencies, credentials,
// output directory, example files, connectivity.
func SetupStages(cfg *config.Config, env Environment) []Stage {
	return []Stage{
		{
			Name: cfg.Runtime.Label + " Version",
			Checker: &runtimecheck.Check{
				Label:      cfg.Runtime.Label,
				Constraint: cfg.Runtime.Constraint,
				Source:     env.Runtime,
			},
		},
		{
			Name: "Environment",
			Checker: &envcheck.MarkerCheck{
				Kind:      cfg.Environment.Kind,
				PrefixVar: cfg.Environment.PrefixVar,
				NameVar:   cfg.Environment.NameVar,
				Expected:  cfg.Environment.Expected,
				Getter:    env.Env,
			},
		},
		{
			Name:    cfg.Library.Label + " Installation",
			Checker: &modcheck.LibraryCheck{Label: cfg.Library.Label, Module: cfg.Library.Module, Lister: env.Modules},
		},
		{
			Name:    "Dependencies",
			Checker: &modcheck.DependencyCheck{Dependencies: cfg.Dependencies, Lister: env.Modules},
		},
		{
			Name: "API Key Configuration",
			Checker: &credcheck.Check{
				Path:        cfg.EnvFile,
				ExamplePath: cfg.EnvExample,
				Root:        env.Dir,
				Key:         cfg.APIKeyVar,
				Placeholder: cfg.Credential.Placeholder,
				KeyPrefix:   cfg.Credential.KeyPrefix,
				MinLength:   cfg.Credential.MinLength,
				FS:          env.Creds,
			},
		},
		{
			Name:    "Output Directory",
			Checker: &filecheck.DirCheck{Path: cfg.OutputDir, Root: env.Dir, FS: env.Files},
		},
		{
			Name:    "Example Files",
			Checker: &filecheck.ExamplesCheck{Dir: cfg.ExamplesDir, Root: env.Dir, Files: cfg.ExampleFiles, FS: env.Files},
		},
		{
			Name: "API Connectivity",
			Checker: &netcheck.Check{
				Live:   env.Live,
				Model:  cfg.ModelID,
				Hint:   "lxstarter example basic_example",
				Pinger: env.Pinger,
			},
		},
	}
}

// QuickStages returns the smoke-test checks: the SDK and .env loader are
// linked, the API key is loaded into the environment, extraction
// succeeds against the live model and the output directory accepts
// writes. extraction is supplied by the caller
// since it needs a configured provider.
func QuickStages(cfg *config.Config, env Environment, extraction check.Checker) []Stage {
	imports := []modcheck.Dependency{{Name: cfg.Library.Label, Module: cfg.Library.Module}}
	for _, d := range cfg.Dependencies {
		if d.Module == cfg.EnvLoader {
			imports = append(imports, d)
		}
	}
	return []Stage{
		{Name: "Imports", Checker: &modcheck.DependencyCheck{Dependencies: imports, Lister: env.Modules}},
		{
			Name: "Environment Setup",
			Checker: &envcheck.Check{
				Name:        cfg.APIKeyVar,
				Placeholder: cfg.Credential.Placeholder,
				Match:       cfg.Credential.Pattern,
				MaskValue:   true,
				Getter:      env.Env,
			},
		},
		{Name: "Basic Extraction", Checker: extraction},
		{
			Name:    "Output Capabilities",
			Checker: &filecheck.WritableCheck{Dir: cfg.OutputDir, Root: env.Dir, FS: env.Files},
		},
	}
}
