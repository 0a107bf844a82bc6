package validator

import "github.com/vertti/lxstarter/pkg/check"

// Report aggregates the outcome of one validation run.
type Report struct {
	Passed         int
	Total          int
	Errors         []string // fatal findings, in check order
	Warnings       []string // non-fatal findings, in check order
	RuntimeVersion string   // discovered runtime version, if any
	LibraryVersion string   // discovered SDK version, if any
	Results        []check.Result
}

// OK reports whether the run recorded no errors. Warnings and the
// passed count do not matter.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

// ExitCode is 0 when OK and 1 otherwise.
func (r *Report) ExitCode() int {
	if r.OK() {
		return 0
	}
	return 1
}

// Failed returns how many checks did not pass.
func (r *Report) Failed() int {
	return r.Total - r.Passed
}

func (r *Report) add(res check.Result) {
	r.Total++
	if res.OK() {
		r.Passed++
	}
	r.Errors = append(r.Errors, res.Errors...)
	r.Warnings = append(r.Warnings, res.Warnings...)
	if v := res.Metadata[check.MetaRuntimeVersion]; v != "" {
		r.RuntimeVersion = v
	}
	if v := res.Metadata[check.MetaLibraryVersion]; v != "" {
		r.LibraryVersion = v
	}
	r.Results = append(r.Results, res)
}

// Within reports whether at most maxFailed checks did not pass.
func (r *Report) Within(maxFailed int) bool {
	return r.Failed() <= maxFailed
}
