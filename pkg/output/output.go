// Package output renders check progress and validation summaries to a
// terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jwalton/go-supportscolor"
	"golang.org/x/term"

	"github.com/vertti/lxstarter/pkg/check"
	"github.com/vertti/lxstarter/pkg/validator"
)

var (
	red    = "\033[0;31m"
	green  = "\033[0;32m"
	yellow = "\033[1;33m"
	blue   = "\033[0;34m"
	purple = "\033[0;35m"
	cyan   = "\033[0;36m"
	reset  = "\033[0m"
)

func init() {
	if !supportscolor.Stdout().SupportsColor {
		red, green, yellow, blue, purple, cyan, reset = "", "", "", "", "", "", ""
	}
}

// HeaderWidth is the widest a header rule gets.
const HeaderWidth = 60

// Printer writes report lines to W. It implements validator.Reporter.
type Printer struct {
	W     io.Writer
	Width int // header rule width; 0 means HeaderWidth capped to the terminal
}

// New returns a Printer on stdout.
func New() *Printer {
	return &Printer{W: os.Stdout}
}

func (p *Printer) width() int {
	if p.Width > 0 {
		return p.Width
	}
	if f, ok := p.W.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 && w < HeaderWidth {
			return w
		}
	}
	return HeaderWidth
}

func (p *Printer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.W, format, args...)
}

// Info prints an [INFO] line.
func (p *Printer) Info(msg string) { p.printf("%s[INFO]%s %s\n", blue, reset, msg) }

// Pass prints a [PASS] line.
func (p *Printer) Pass(msg string) { p.printf("%s[✓ PASS]%s %s\n", green, reset, msg) }

// Warn prints a [WARN] line.
func (p *Printer) Warn(msg string) { p.printf("%s[⚠ WARN]%s %s\n", yellow, reset, msg) }

// Fail prints a [FAIL] line.
func (p *Printer) Fail(msg string) { p.printf("%s[✗ FAIL]%s %s\n", red, reset, msg) }

// Header prints a title between two rules.
func (p *Printer) Header(title string) {
	rule := strings.Repeat("=", p.width())
	p.printf("\n%s%s%s\n", purple, rule, reset)
	p.printf("%s%s%s\n", purple, title, reset)
	p.printf("%s%s%s\n", purple, rule, reset)
}

// Section prints a check heading.
func (p *Printer) Section(name string) {
	p.printf("\n%s--- %s ---%s\n", cyan, name, reset)
}

// Line prints a single result line at its level.
func (p *Printer) Line(l check.Line) {
	switch l.Level {
	case check.LevelPass:
		p.Pass(l.Text)
	case check.LevelWarn:
		p.Warn(l.Text)
	case check.LevelFail:
		p.Fail(l.Text)
	default:
		p.Info(l.Text)
	}
}

// StageStarted prints the section heading for a check.
func (p *Printer) StageStarted(name string) {
	p.Section(name)
}

// StageFinished prints the lines a check produced.
func (p *Printer) StageFinished(res check.Result) {
	for _, l := range res.Lines {
		p.Line(l)
	}
}

// Summary describes how a validation run is summarized.
type Summary struct {
	Title        string
	RuntimeLabel string   // e.g. "Go"
	LibraryLabel string   // e.g. "Gemini SDK"
	NextSteps    []string // shown only on a clean run
}

// PrintSummary prints versions, counts, numbered findings and a verdict.
func (p *Printer) PrintSummary(s Summary, r *validator.Report) {
	p.Header(s.Title)

	if r.RuntimeVersion != "" {
		p.printf("%s Version: %s\n", s.RuntimeLabel, r.RuntimeVersion)
	}
	if r.LibraryVersion != "" {
		p.printf("%s Version: %s\n", s.LibraryLabel, r.LibraryVersion)
	}
	p.printf("\nChecks Passed: %d/%d\n", r.Passed, r.Total)

	p.findings(red, "Errors", r.Errors)
	p.findings(yellow, "Warnings", r.Warnings)

	switch {
	case len(r.Errors) == 0 && len(r.Warnings) == 0:
		p.printf("\n%sPerfect! Your setup is ready to go!%s\n", green, reset)
		if len(s.NextSteps) > 0 {
			p.printf("\nNext steps:\n")
			for i, step := range s.NextSteps {
				p.printf("%d. %s\n", i+1, step)
			}
		}
	case len(r.Errors) == 0:
		p.printf("\n%sSetup is functional with minor warnings%s\n", yellow, reset)
		p.printf("Your setup should work fine. Address warnings when convenient.\n")
	default:
		p.printf("\n%sSetup has critical issues that need fixing%s\n", red, reset)
		p.printf("Please resolve the errors above before running extractions.\n")
	}
}

// PrintQuickSummary prints the smoke-test verdict. The run counts as
// mostly working when at most one check failed.
func (p *Printer) PrintQuickSummary(r *validator.Report, nextSteps []string) {
	p.printf("\n%s\n", strings.Repeat("=", 40))
	p.printf("Results: %d/%d tests passed\n", r.Passed, r.Total)

	switch {
	case r.Passed == r.Total:
		p.printf("%sAll tests passed! Your setup is ready.%s\n", green, reset)
		if len(nextSteps) > 0 {
			p.printf("\nNext steps:\n")
			for _, step := range nextSteps {
				p.printf("  • %s\n", step)
			}
		}
	case r.Within(1):
		p.printf("%sSetup mostly working with minor issues.%s\n", yellow, reset)
		p.printf("You can proceed but may want to fix the failing test.\n")
	default:
		p.printf("%sSetup has significant issues.%s\n", red, reset)
		p.printf("Please run 'lxstarter validate' for detailed diagnostics.\n")
	}
}

func (p *Printer) findings(color, label string, items []string) {
	if len(items) == 0 {
		return
	}
	p.printf("\n%s%s (%d):%s\n", color, label, len(items), reset)
	for i, item := range items {
		p.printf("  %d. %s\n", i+1, item)
	}
}
