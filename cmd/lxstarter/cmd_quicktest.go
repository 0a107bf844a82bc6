package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vertti/lxstarter/pkg/check"
	"github.com/vertti/lxstarter/pkg/extract"
	"github.com/vertti/lxstarter/pkg/validator"
)

const (
	quickText   = "Hello world! This is a test."
	quickPrompt = "Extract any greetings or test phrases"
)

var quickTimeout time.Duration

var quicktestCmd = &cobra.Command{
	Use:   "quicktest",
	Short: "Run a short end-to-end smoke test against the model API",
	Long: "Loads .env, checks the API key, runs one tiny extraction and writes a\n" +
		"probe file to the output directory. Succeeds when at most one test fails.",
	Args: cobra.NoArgs,
	RunE: runQuicktest,
}

func init() {
	quicktestCmd.Flags().DurationVar(&quickTimeout, "timeout", 2*time.Minute, "timeout for the extraction test")
	rootCmd.AddCommand(quicktestCmd)
}

func runQuicktest(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	loaded := a.loadEnv()
	a.log.Debug("env file", "path", a.cfg.EnvFile, "loaded", loaded)

	env := newEnvironment(a.dir, a.cfg.Runtime)
	stages := validator.QuickStages(a.cfg, env, basicExtraction(cmd.Context(), a))

	a.out.Header("lxstarter Quick Test")
	report := (&validator.Runner{Stages: stages, Reporter: a.out, Logger: a.log}).Run()
	a.out.PrintQuickSummary(report, []string{
		"lxstarter example basic_example",
		"lxstarter example medical_example",
		"lxstarter example visualization_example",
	})

	if !report.Within(1) {
		return ErrCheckFailed
	}
	return nil
}

// basicExtraction runs one tiny extraction against the configured model.
func basicExtraction(ctx context.Context, a *app) check.Checker {
	return check.Func(func() (check.Result, error) {
		result := check.Result{Name: "Basic Extraction"}
		result.Infof("Running extraction test with %s...", a.cfg.ModelID)

		ctx, cancel := context.WithTimeout(ctx, quickTimeout)
		defer cancel()

		ex, err := a.extractor(ctx, a.cfg.ModelID)
		if err != nil {
			return result.Fail(fmt.Sprintf("Extraction failed: %v", err), "Basic extraction failed"), nil
		}
		doc, err := ex.Extract(ctx, quickText, quickPrompt, nil, extract.Options{ModelID: a.cfg.ModelID})
		if err != nil {
			result.Error(fmt.Sprintf("Extraction failed: %v", err), "Basic extraction failed")
			if hint := extractionHint(err); hint != "" {
				result.Infof("  %s", hint)
			}
			return result.Done(), nil
		}

		result.Passf("Extraction completed successfully")
		if len(doc.Extractions) == 0 {
			result.Infof("No extractions found (this is normal for simple test)")
			return result.Done(), nil
		}
		first := doc.Extractions[0]
		result.Infof("Found %d extraction(s)", len(doc.Extractions))
		result.Infof("  Example: '%s' (%s)", first.Text, first.Class)
		return result.Done(), nil
	})
}

// extractionHint suggests a fix for common provider failures.
func extractionHint(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"), strings.Contains(msg, "authentication"),
		strings.Contains(msg, "unauthorized"), strings.Contains(msg, "permission"):
		return "Check your API key in .env file"
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "429"), strings.Contains(msg, "quota"):
		return "Rate limit hit - wait a moment and try again"
	case strings.Contains(msg, "network"), strings.Contains(msg, "dial"), strings.Contains(msg, "no such host"):
		return "Check your internet connection"
	}
	return ""
}
