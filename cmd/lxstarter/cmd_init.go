package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vertti/lxstarter/pkg/credcheck"
	"github.com/vertti/lxstarter/pkg/dotenv"
)

var (
	initKey   string
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the project .env file with your API key",
	Long: "Writes the .env file from .env.example with the API key filled in and\n" +
		"creates the output directory. The key is prompted for unless --key is\n" +
		"given. An existing configured .env is only replaced with --force.",
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initKey, "key", "", "API key to store (prompted for when omitted)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "replace an already configured key")
	rootCmd.AddCommand(initCmd)
}

// promptKey is swapped in tests.
var promptKey = defaultPromptKey

func defaultPromptKey(in io.Reader, out io.Writer, keyVar string) (string, error) {
	var key string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(keyVar).
				Description("Get a Gemini key at https://aistudio.google.com/app/apikey").
				EchoMode(huh.EchoModePassword).
				Value(&key).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("API key is required")
					}
					return nil
				}),
		),
	).
		WithInput(in).
		WithOutput(out)

	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return strings.TrimSpace(key), nil
}

func runInit(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	envPath := a.path(a.cfg.EnvFile)

	existing, err := os.ReadFile(envPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		existing = nil
	case err != nil:
		return fmt.Errorf("reading %s: %w", envPath, err)
	case !initForce:
		if key, ok := credcheck.Lookup(existing, a.cfg.APIKeyVar); ok && key != "" && key != a.cfg.Credential.Placeholder {
			return fmt.Errorf("%s already sets %s; use --force to replace it", a.cfg.EnvFile, a.cfg.APIKeyVar)
		}
	}

	key := strings.TrimSpace(initKey)
	if key == "" {
		if key, err = promptKey(cmd.InOrStdin(), cmd.OutOrStdout(), a.cfg.APIKeyVar); err != nil {
			return err
		}
	}
	if key == a.cfg.Credential.Placeholder {
		return fmt.Errorf("%q is the placeholder, not a key", key)
	}

	base := existing
	if base == nil {
		base, err = a.envTemplate()
		if err != nil {
			return err
		}
	}
	if err := os.WriteFile(envPath, dotenv.SetKey(base, a.cfg.APIKeyVar, key), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", envPath, err)
	}
	a.out.Pass(fmt.Sprintf("Wrote %s to %s", a.cfg.APIKeyVar, envPath))

	if !credcheck.LooksValid(key, a.cfg.Credential.KeyPrefix, a.cfg.Credential.MinLength) {
		a.out.Warn(fmt.Sprintf("API key format may be invalid (expected %s... format)", a.cfg.Credential.KeyPrefix))
	}

	outDir := a.path(a.cfg.OutputDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}
	a.out.Pass(fmt.Sprintf("Output directory ready: %s", outDir))
	a.out.Info("Next: lxstarter validate")
	return nil
}

// envTemplate returns the example env file, or a one-line stand-in when
// the project has none.
func (a *app) envTemplate() ([]byte, error) {
	data, err := os.ReadFile(a.path(a.cfg.EnvExample))
	if errors.Is(err, fs.ErrNotExist) {
		return []byte(a.cfg.APIKeyVar + "=" + a.cfg.Credential.Placeholder + "\n"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", a.cfg.EnvExample, err)
	}
	return data, nil
}
