package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vertti/lxstarter/pkg/check"
	"github.com/vertti/lxstarter/pkg/validator"
)

func noColor(t *testing.T) {
	t.Helper()
	oldRed, oldGreen, oldYellow, oldBlue, oldPurple, oldCyan, oldReset := red, green, yellow, blue, purple, cyan, reset
	red, green, yellow, blue, purple, cyan, reset = "", "", "", "", "", "", ""
	t.Cleanup(func() {
		red, green, yellow, blue, purple, cyan, reset = oldRed, oldGreen, oldYellow, oldBlue, oldPurple, oldCyan, oldReset
	})
}

func TestLineLevels(t *testing.T) {
	noColor(t)

	tests := []struct {
		level check.Level
		want  string
	}{
		{check.LevelInfo, "[INFO] msg\n"},
		{check.LevelPass, "[✓ PASS] msg\n"},
		{check.LevelWarn, "[⚠ WARN] msg\n"},
		{check.LevelFail, "[✗ FAIL] msg\n"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		p := &Printer{W: &buf}
		p.Line(check.Line{Level: tt.level, Text: "msg"})
		if buf.String() != tt.want {
			t.Errorf("Line(%v) = %q, want %q", tt.level, buf.String(), tt.want)
		}
	}
}

func TestLineWithColors(t *testing.T) {
	oldGreen, oldReset := green, reset
	defer func() { green, reset = oldGreen, oldReset }()
	green, reset = "[GREEN]", "[RESET]"

	var buf bytes.Buffer
	(&Printer{W: &buf}).Pass("ok")

	if got, want := buf.String(), "[GREEN][✓ PASS][RESET] ok\n"; got != want {
		t.Errorf("Pass() = %q, want %q", got, want)
	}
}

func TestHeaderWidth(t *testing.T) {
	noColor(t)

	var buf bytes.Buffer
	(&Printer{W: &buf}).Header("Setup Validation")
	want := "\n" + strings.Repeat("=", HeaderWidth) + "\nSetup Validation\n" + strings.Repeat("=", HeaderWidth) + "\n"
	if buf.String() != want {
		t.Errorf("Header() = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	(&Printer{W: &buf, Width: 10}).Header("x")
	if !strings.HasPrefix(buf.String(), "\n==========\n") {
		t.Errorf("Header() with Width=10 = %q", buf.String())
	}
}

func TestReporter(t *testing.T) {
	noColor(t)

	var buf bytes.Buffer
	p := &Printer{W: &buf}
	p.StageStarted("Output Directory")
	p.StageFinished(check.Result{Lines: []check.Line{
		{Level: check.LevelInfo, Text: "Checking output directory structure..."},
		{Level: check.LevelPass, Text: "outputs/ directory exists"},
	}})

	want := "\n--- Output Directory ---\n[INFO] Checking output directory structure...\n[✓ PASS] outputs/ directory exists\n"
	if buf.String() != want {
		t.Errorf("reporter output = %q, want %q", buf.String(), want)
	}
}

func TestPrintSummary(t *testing.T) {
	noColor(t)
	s := Summary{Title: "Validation Summary", RuntimeLabel: "Go", LibraryLabel: "Gemini SDK", NextSteps: []string{"lxstarter example basic_example"}}

	tests := []struct {
		name    string
		report  *validator.Report
		want    []string
		notWant []string
	}{
		{
			name:   "clean",
			report: &validator.Report{Passed: 8, Total: 8, RuntimeVersion: "1.25.1", LibraryVersion: "v1.15.0"},
			want: []string{
				"Go Version: 1.25.1\n", "Gemini SDK Version: v1.15.0\n", "Checks Passed: 8/8\n",
				"Perfect! Your setup is ready to go!", "Next steps:\n1. lxstarter example basic_example\n",
			},
			notWant: []string{"Errors (", "Warnings ("},
		},
		{
			name:    "warnings only",
			report:  &validator.Report{Passed: 8, Total: 8, Warnings: []string{"w1", "w2"}},
			want:    []string{"Warnings (2):\n  1. w1\n  2. w2\n", "Setup is functional with minor warnings"},
			notWant: []string{"Go Version", "Next steps"},
		},
		{
			name:   "errors",
			report: &validator.Report{Passed: 6, Total: 8, Errors: []string{"Missing .env file"}, Warnings: []string{"w"}},
			want:   []string{"Checks Passed: 6/8\n", "Errors (1):\n  1. Missing .env file\n", "Setup has critical issues that need fixing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			(&Printer{W: &buf}).PrintSummary(s, tt.report)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("summary missing %q, got:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("summary unexpectedly contains %q, got:\n%s", w, out)
				}
			}
		})
	}
}

func TestPrintQuickSummary(t *testing.T) {
	noColor(t)

	tests := []struct {
		passed, total int
		want          string
	}{
		{4, 4, "All tests passed!"},
		{3, 4, "Setup mostly working with minor issues."},
		{2, 4, "Setup has significant issues."},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		(&Printer{W: &buf}).PrintQuickSummary(&validator.Report{Passed: tt.passed, Total: tt.total}, nil)
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("PrintQuickSummary(%d/%d) missing %q, got:\n%s", tt.passed, tt.total, tt.want, buf.String())
		}
	}
}
