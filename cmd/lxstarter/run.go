package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/vertti/lxstarter/pkg/annotated"
	"github.com/vertti/lxstarter/pkg/extract"
	"github.com/vertti/lxstarter/pkg/fetch"
	"github.com/vertti/lxstarter/pkg/visualize"
)

// previewWidth is the display width extraction texts are cut to.
const previewWidth = 60

// job is one extraction run and what to do with its results.
type job struct {
	Title    string
	Prompt   string
	Examples []extract.ExampleData
	Texts    []string
	URL      string
	Options  extract.Options
	Show     int    // extractions printed per document, 0 for all
	Output   string // JSONL name under the output dir
	HTML     string // HTML name under the output dir
	PDF      bool   // also print the HTML page to PDF
}

// fetchText is swapped in tests.
var fetchText = fetch.Text

func (a *app) runJob(ctx context.Context, j job) error {
	texts := j.Texts
	if j.URL != "" {
		a.out.Info(fmt.Sprintf("Downloading %s...", j.URL))
		text, err := fetchText(ctx, j.URL)
		if err != nil {
			return fmt.Errorf("fetching input: %w", err)
		}
		a.out.Pass(fmt.Sprintf("Downloaded %d characters", len([]rune(text))))
		texts = []string{text}
	}
	if len(texts) == 0 {
		return extract.ErrNoText
	}

	ex, err := a.extractor(ctx, j.Options.ModelID)
	if err != nil {
		return err
	}

	a.out.Info(fmt.Sprintf("Extracting from %d document(s) with %s...", len(texts), j.Options.ModelID))
	start := time.Now()
	docs, err := ex.ExtractAll(ctx, texts, j.Prompt, j.Examples, j.Options)
	if err != nil {
		a.out.Fail(fmt.Sprintf("Extraction failed: %v", err))
		if hint := extractionHint(err); hint != "" {
			a.out.Info(hint)
		}
		return ErrCheckFailed
	}
	a.out.Pass(fmt.Sprintf("Extraction finished in %s", time.Since(start).Round(time.Millisecond)))

	a.printDocs(docs, j.Show)

	if j.Output != "" {
		run := annotated.NewRun(j.Options.ModelID)
		path, err := annotated.Save(a.path(a.cfg.OutputDir), j.Output, run, docs)
		if err != nil {
			return err
		}
		a.log.Debug("results saved", "path", path, "run", run.ID)
		a.out.Pass(fmt.Sprintf("Results saved to %s", path))
	}
	if j.HTML != "" {
		path := filepath.Join(a.path(a.cfg.OutputDir), j.HTML)
		if err := a.writeVisualization(ctx, path, j.Title, docs, j.PDF, visualize.PDFOptions{}); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) printDocs(docs []*extract.AnnotatedDocument, show int) {
	for i, doc := range docs {
		a.out.Section(fmt.Sprintf("Document %d (%s)", i+1, doc.DocumentID))
		a.out.Info(fmt.Sprintf("Found %d extraction(s)", len(doc.Extractions)))

		exts := doc.Extractions
		if show > 0 && len(exts) > show {
			exts = exts[:show]
		}
		for _, e := range exts {
			line := fmt.Sprintf("  %s: %s", e.Class, preview(e.Text))
			if len(e.Attributes) > 0 {
				line += " " + formatAttributes(e.Attributes)
			}
			if e.Interval == nil {
				line += " (unaligned)"
			}
			a.out.Info(line)
		}
		if hidden := len(doc.Extractions) - len(exts); hidden > 0 {
			a.out.Info(fmt.Sprintf("  ... and %d more", hidden))
		}
	}

	counts := classCounts(docs)
	if len(counts) == 0 {
		return
	}
	a.out.Section("Extraction classes")
	for _, c := range counts {
		a.out.Info(fmt.Sprintf("%s: %d", c.class, c.n))
	}
}

func (a *app) writeVisualization(ctx context.Context, path, title string, docs []*extract.AnnotatedDocument, pdf bool, opts visualize.PDFOptions) error {
	page, err := visualize.NewRenderer().RenderAll(title, docs)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.out.Pass(fmt.Sprintf("Visualization saved to %s", path))

	if !pdf {
		return nil
	}
	data, err := visualize.ToPDF(ctx, page, opts)
	if err != nil {
		return err
	}
	pdfPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".pdf"
	if err := os.WriteFile(pdfPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", pdfPath, err)
	}
	a.out.Pass(fmt.Sprintf("PDF saved to %s", pdfPath))
	return nil
}

// preview flattens newlines and cuts s to previewWidth terminal cells.
func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return "'" + runewidth.Truncate(s, previewWidth, "...") + "'"
}

func formatAttributes(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + attrs[k]
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type classCount struct {
	class string
	n     int
}

// classCounts tallies extractions by class, most frequent first.
func classCounts(docs []*extract.AnnotatedDocument) []classCount {
	byClass := map[string]int{}
	for _, d := range docs {
		for _, e := range d.Extractions {
			byClass[e.Class]++
		}
	}
	out := make([]classCount, 0, len(byClass))
	for c, n := range byClass {
		out = append(out, classCount{c, n})
	}
	slices.SortFunc(out, func(x, y classCount) int {
		if x.n != y.n {
			return y.n - x.n
		}
		return strings.Compare(x.class, y.class)
	})
	return out
}
