// Package validator runs an ordered list of independent checks and folds
// their results into a Report. A check that returns an error or panics
// is recorded as a single error entry and the run continues.
package validator

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/vertti/lxstarter/pkg/check"
)

// Stage is a named step in a validation run.
type Stage struct {
	Name    string
	Checker check.Checker
}

// Reporter receives progress while a run is in flight.
type Reporter interface {
	StageStarted(name string)
	StageFinished(res check.Result)
}

// Runner executes stages in order.
type Runner struct {
	Stages   []Stage
	Reporter Reporter     // optional
	Logger   *slog.Logger // optional
}

// Run executes every stage exactly once, in order, and returns the report.
func (r *Runner) Run() *Report {
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}

	report := &Report{}
	for _, s := range r.Stages {
		if r.Reporter != nil {
			r.Reporter.StageStarted(s.Name)
		}

		start := time.Now()
		res := runStage(s)
		log.Debug("check finished", "check", s.Name, "status", res.Status,
			"errors", len(res.Errors), "warnings", len(res.Warnings), "elapsed", time.Since(start))

		report.add(res)
		if r.Reporter != nil {
			r.Reporter.StageFinished(res)
		}
	}
	return report
}

// runStage runs one stage, converting a returned error or a panic into
// a failed result carrying exactly one error entry.
func runStage(s Stage) (res check.Result) {
	defer func() {
		if p := recover(); p != nil {
			res = fault(s.Name, res, fmt.Errorf("panic: %v", p))
		}
	}()

	out, err := s.Checker.Run()
	if err != nil {
		return fault(s.Name, out, err)
	}
	if out.Name == "" {
		out.Name = s.Name
	}
	return out
}

// fault keeps whatever lines the check produced before failing but
// discards its findings, so the fault is the only error recorded.
func fault(name string, partial check.Result, err error) check.Result {
	res := check.Result{Name: name, Lines: partial.Lines, Metadata: partial.Metadata}
	return res.Fail(fmt.Sprintf("Check failed with exception: %v", err),
		fmt.Sprintf("%s check failed: %v", name, err))
}
