package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vertti/lxstarter/pkg/output"
	"github.com/vertti/lxstarter/pkg/validator"
)

var validateLive bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the project is ready to run extractions",
	Long: "Runs the setup checks in order: runtime version, environment, SDK,\n" +
		"dependencies, API key file, output directory, example tasks and API\n" +
		"connectivity. Exits non-zero when any check reports an error.",
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateLive, "live", false, "contact the model API instead of skipping the connectivity check")
	rootCmd.AddCommand(validateCmd)
}

// errPinger reports a provider that could not be created.
type errPinger struct{ err error }

func (p errPinger) Ping(context.Context) error { return p.err }

func runValidate(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	env := newEnvironment(a.dir, a.cfg.Runtime)
	if validateLive {
		env.Live = true
		if p, err := a.provider(cmd.Context(), a.cfg.ModelID); err != nil {
			env.Pinger = errPinger{err}
		} else {
			env.Pinger = p
		}
	}

	a.out.Header("lxstarter Setup Validation")
	r := &validator.Runner{Stages: validator.SetupStages(a.cfg, env), Reporter: a.out, Logger: a.log}
	report := r.Run()

	a.out.PrintSummary(output.Summary{
		Title:        "Validation Summary",
		RuntimeLabel: a.cfg.Runtime.Label,
		LibraryLabel: a.cfg.Library.Label,
		NextSteps: []string{
			"Run examples: lxstarter example basic_example",
			"Try the medical example: lxstarter example medical_example",
			"Generate visualizations: lxstarter example visualization_example",
		},
	}, report)

	if !report.OK() {
		return ErrCheckFailed
	}
	return nil
}
