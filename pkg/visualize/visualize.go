// Package visualize renders annotated documents as standalone HTML.
package visualize

import (
	"cmp"
	"fmt"
	"html"
	"slices"
	"sort"
	"strings"

	"github.com/tyler-sommer/stick"

	"github.com/vertti/lxstarter/pkg/extract"
)

var palette = []string{
	"#D2E3FC", "#C8E6C9", "#FEF0C3", "#F9DEDC", "#FFDDBE",
	"#EADDFF", "#C4E9E4", "#FCE4EC", "#E8EAED", "#DDE8E8",
}

// Segment is a run of source text, highlighted when Class is set.
type Segment struct {
	Text  string
	Class string
	Color string
	Title string
}

// Legend maps an extraction class to its highlight color.
type Legend struct {
	Class string
	Color string
	Count int
}

// Row is one line of the extraction table.
type Row struct {
	Index      int
	Class      string
	Color      string
	Text       string
	Position   string
	Attributes string
}

type docView struct {
	DocID     string
	Segments  []Segment
	Legend    []Legend
	Rows      []Row
	HasRows   bool
	Unaligned int
}

// Renderer turns documents into HTML pages.
type Renderer struct {
	env *stick.Env
}

// NewRenderer returns a Renderer. Every string reaching the template is
// HTML-escaped beforehand, so the template itself prints values raw.
func NewRenderer() *Renderer {
	return &Renderer{env: stick.New(nil)}
}

// Render produces one page for doc.
func Render(doc *extract.AnnotatedDocument) (string, error) {
	return NewRenderer().Render(doc)
}

// Render produces one page for doc.
func (r *Renderer) Render(doc *extract.AnnotatedDocument) (string, error) {
	return r.RenderAll("Extraction results", []*extract.AnnotatedDocument{doc})
}

// RenderAll produces one page showing every document in order.
func (r *Renderer) RenderAll(title string, docs []*extract.AnnotatedDocument) (string, error) {
	colors := colorsFor(docs)
	pages := make([]stick.Value, 0, len(docs))
	for _, d := range docs {
		pages = append(pages, build(d, colors))
	}

	var out strings.Builder
	err := r.env.Execute(pageTemplate, &out, map[string]stick.Value{
		"title": html.EscapeString(title),
		"docs":  pages,
	})
	if err != nil {
		return "", fmt.Errorf("render visualization: %w", err)
	}
	return out.String(), nil
}

// colorsFor assigns palette colors to classes in order of first appearance.
func colorsFor(docs []*extract.AnnotatedDocument) map[string]string {
	colors := make(map[string]string)
	for _, d := range docs {
		for _, e := range d.Extractions {
			if _, ok := colors[e.Class]; !ok {
				colors[e.Class] = palette[len(colors)%len(palette)]
			}
		}
	}
	return colors
}

func build(doc *extract.AnnotatedDocument, colors map[string]string) docView {
	p := docView{DocID: html.EscapeString(doc.DocumentID), HasRows: len(doc.Extractions) > 0}
	for _, seg := range Segments(doc, colors) {
		seg.Text = html.EscapeString(seg.Text)
		seg.Class = html.EscapeString(seg.Class)
		seg.Title = html.EscapeString(seg.Title)
		p.Segments = append(p.Segments, seg)
	}

	counts := make(map[string]int)
	var order []string
	for i, e := range doc.Extractions {
		if counts[e.Class] == 0 {
			order = append(order, e.Class)
		}
		counts[e.Class]++

		row := Row{
			Index:      i + 1,
			Class:      html.EscapeString(e.Class),
			Color:      colors[e.Class],
			Text:       html.EscapeString(e.Text),
			Position:   "unaligned",
			Attributes: html.EscapeString(formatAttrs(e.Attributes)),
		}
		if e.Interval != nil {
			row.Position = fmt.Sprintf("%d-%d", e.Interval.Start, e.Interval.End)
		} else {
			p.Unaligned++
		}
		p.Rows = append(p.Rows, row)
	}
	for _, c := range order {
		p.Legend = append(p.Legend, Legend{Class: html.EscapeString(c), Color: colors[c], Count: counts[c]})
	}
	return p
}

// Segments splits the document text at extraction boundaries. Unaligned
// extractions and spans overlapping an earlier one are not highlighted.
func Segments(doc *extract.AnnotatedDocument, colors map[string]string) []Segment {
	spans := make([]extract.Extraction, 0, len(doc.Extractions))
	for _, e := range doc.Extractions {
		if e.Interval != nil && e.Interval.Start >= 0 && e.Interval.End <= len(doc.Text) && e.Interval.Start < e.Interval.End {
			spans = append(spans, e)
		}
	}
	slices.SortStableFunc(spans, func(a, b extract.Extraction) int {
		return cmp.Compare(a.Interval.Start, b.Interval.Start)
	})

	var segs []Segment
	pos := 0
	for _, e := range spans {
		if e.Interval.Start < pos {
			continue
		}
		if e.Interval.Start > pos {
			segs = append(segs, Segment{Text: doc.Text[pos:e.Interval.Start]})
		}
		segs = append(segs, Segment{
			Text:  doc.Text[e.Interval.Start:e.Interval.End],
			Class: e.Class,
			Color: colors[e.Class],
			Title: titleFor(e),
		})
		pos = e.Interval.End
	}
	if pos < len(doc.Text) {
		segs = append(segs, Segment{Text: doc.Text[pos:]})
	}
	return segs
}

func titleFor(e extract.Extraction) string {
	if attrs := formatAttrs(e.Attributes); attrs != "" {
		return e.Class + ": " + attrs
	}
	return e.Class
}

func formatAttrs(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+attrs[k])
	}
	return strings.Join(parts, ", ")
}
