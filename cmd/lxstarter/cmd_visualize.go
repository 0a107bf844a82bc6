package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vertti/lxstarter/pkg/annotated"
	"github.com/vertti/lxstarter/pkg/visualize"
)

var (
	visualizeOut       string
	visualizeTitle     string
	visualizePDF       bool
	visualizeChrome    string
	visualizeNoSandbox bool
	visualizeTimeout   time.Duration
)

var visualizeCmd = &cobra.Command{
	Use:   "visualize <results.jsonl>",
	Short: "Render saved extraction results as an HTML page",
	Long: "Reads a results file written by 'example' or 'extract' (plain or .gz)\n" +
		"and renders every document with highlighted extractions. With --pdf the\n" +
		"page is also printed to PDF through headless Chrome.",
	Args: cobra.ExactArgs(1),
	RunE: runVisualize,
}

func init() {
	f := visualizeCmd.Flags()
	f.StringVarP(&visualizeOut, "out", "o", "", "HTML output path (default: next to the input with .html)")
	f.StringVar(&visualizeTitle, "title", "", "page title (default: the input file name)")
	f.BoolVar(&visualizePDF, "pdf", false, "also write a PDF next to the HTML file")
	f.StringVar(&visualizeChrome, "chrome", "", "Chrome or Chromium executable")
	f.BoolVar(&visualizeNoSandbox, "no-sandbox", false, "disable the Chrome sandbox (needed as root in containers)")
	f.DurationVar(&visualizeTimeout, "timeout", 60*time.Second, "timeout for PDF rendering")
	rootCmd.AddCommand(visualizeCmd)
}

func runVisualize(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	in := args[0]
	recs, err := annotated.Load(in)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return fmt.Errorf("%s contains no documents", in)
	}
	a.out.Info(fmt.Sprintf("Loaded %d document(s) from %s", len(recs), in))

	out := visualizeOut
	if out == "" {
		out = baseName(in) + ".html"
	}
	title := visualizeTitle
	if title == "" {
		title = filepath.Base(baseName(in))
	}

	return a.writeVisualization(cmd.Context(), out, title, annotated.Documents(recs), visualizePDF, visualize.PDFOptions{
		ChromePath: visualizeChrome,
		NoSandbox:  visualizeNoSandbox,
		Timeout:    visualizeTimeout,
	})
}

// baseName strips .jsonl, .jsonl.gz and similar extensions from path.
func baseName(path string) string {
	path = strings.TrimSuffix(path, ".gz")
	return strings.TrimSuffix(path, filepath.Ext(path))
}
