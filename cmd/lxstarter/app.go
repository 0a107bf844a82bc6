package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vertti/lxstarter/pkg/config"
	"github.com/vertti/lxstarter/pkg/dotenv"
	"github.com/vertti/lxstarter/pkg/extract"
	"github.com/vertti/lxstarter/pkg/logging"
	"github.com/vertti/lxstarter/pkg/output"
	"github.com/vertti/lxstarter/pkg/project"
	"github.com/vertti/lxstarter/pkg/validator"
)

// ErrCheckFailed is returned when validation or an extraction run fails.
// The details have already been printed.
var ErrCheckFailed = errors.New("check failed")

// Swapped in tests.
var (
	newProvider    = extract.ProviderFor
	newEnvironment = validator.RealEnvironment
)

// retryDelay overrides the extractor's pause between attempts when set.
var retryDelay time.Duration

// app is the state shared by every subcommand.
type app struct {
	cfg *config.Config
	dir string
	log *slog.Logger
	out *output.Printer
}

func newApp(cmd *cobra.Command) (*app, error) {
	log := logging.New(cmd.ErrOrStderr(), rootVerbose)
	slog.SetDefault(log)

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	dir, err := project.Root(cwd, rootDir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(rootConfig, dir)
	if err != nil {
		return nil, err
	}
	log.Debug("project loaded", "dir", dir, "model", cfg.ModelID)

	return &app{cfg: cfg, dir: dir, log: log, out: &output.Printer{W: cmd.OutOrStdout()}}, nil
}

// path resolves p against the project directory.
func (a *app) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.dir, p)
}

// loadEnv loads the project's .env into the process environment.
func (a *app) loadEnv() bool {
	loaded, err := dotenv.Load(a.path(a.cfg.EnvFile))
	if err != nil {
		a.log.Warn("could not load env file", "path", a.cfg.EnvFile, "error", err)
	}
	return loaded
}

// apiKey returns the key for model. OpenAI models fall back to
// OPENAI_API_KEY when the configured variable is unset.
func (a *app) apiKey(model string) string {
	if k := os.Getenv(a.cfg.APIKeyVar); k != "" && k != a.cfg.Credential.Placeholder {
		return k
	}
	if !strings.HasPrefix(strings.ToLower(model), "gemini") {
		return os.Getenv("OPENAI_API_KEY")
	}
	return os.Getenv("GEMINI_API_KEY")
}

func (a *app) provider(ctx context.Context, model string) (extract.Provider, error) {
	a.loadEnv()
	key := a.apiKey(model)
	if key == "" {
		return nil, fmt.Errorf("%s not set: add it to %s or run 'lxstarter init'", a.cfg.APIKeyVar, a.cfg.EnvFile)
	}
	return newProvider(ctx, model, key)
}

func (a *app) extractor(ctx context.Context, model string) (*extract.Extractor, error) {
	p, err := a.provider(ctx, model)
	if err != nil {
		return nil, err
	}
	ex := extract.New(p, a.log)
	ex.Delay = retryDelay
	return ex, nil
}
