package check

import (
	"errors"
	"fmt"
	"regexp"
)

// Infof appends an INFO line.
func (r *Result) Infof(format string, args ...any) *Result {
	r.Lines = append(r.Lines, Line{Level: LevelInfo, Text: fmt.Sprintf(format, args...)})
	return r
}

// Passf appends a PASS line.
func (r *Result) Passf(format string, args ...any) *Result {
	r.Lines = append(r.Lines, Line{Level: LevelPass, Text: fmt.Sprintf(format, args...)})
	return r
}

// Warn appends a WARN line and records warning as a non-fatal finding.
func (r *Result) Warn(line, warning string) *Result {
	r.Lines = append(r.Lines, Line{Level: LevelWarn, Text: line})
	r.Warnings = append(r.Warnings, warning)
	return r
}

// Error appends a FAIL line and records msg as a fatal finding without
// finishing the check, so callers can keep collecting findings.
func (r *Result) Error(line, msg string) *Result {
	r.Lines = append(r.Lines, Line{Level: LevelFail, Text: line})
	r.Errors = append(r.Errors, msg)
	return r
}

// Fail records a fatal finding and marks the result as failed.
func (r *Result) Fail(line, msg string) Result {
	r.Error(line, msg)
	r.Status = StatusFail
	r.Err = errors.New(msg)
	return *r
}

// Failf is Fail with a formatted line used as both line and finding.
func (r *Result) Failf(format string, args ...any) Result {
	msg := fmt.Sprintf(format, args...)
	return r.Fail(msg, msg)
}

// Skip marks the result as informational.
func (r *Result) Skip() Result {
	r.Status = StatusSkip
	return *r
}

// Set stores a metadata value.
func (r *Result) Set(key, value string) *Result {
	if r.Metadata == nil {
		r.Metadata = make(map[string]string)
	}
	r.Metadata[key] = value
	return r
}

// Done derives the final status from the recorded findings.
func (r *Result) Done() Result {
	switch {
	case len(r.Errors) > 0:
		r.Status = StatusFail
		if r.Err == nil {
			r.Err = errors.New(r.Errors[0])
		}
	case len(r.Warnings) > 0:
		r.Status = StatusWarn
	default:
		r.Status = StatusPass
	}
	return *r
}

// CompileRegex compiles a regex pattern if non-empty, returning nil if pattern is empty.
func CompileRegex(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return regexp.Compile(pattern)
}
