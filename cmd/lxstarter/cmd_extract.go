package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vertti/lxstarter/pkg/extract"
	"github.com/vertti/lxstarter/pkg/tasks"
)

var (
	extractText          string
	extractURL           string
	extractFile          string
	extractPrompt        string
	extractExamplesFrom  string
	extractModel         string
	extractMaxCharBuffer int
	extractMaxWorkers    int
	extractPasses        int
	extractTemperature   float64
	extractShow          int
	extractOutput        string
	extractHTML          string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract structured data from text, a file or a URL",
	Long: "Runs a single extraction. The input is one of --text, --url or --file.\n" +
		"Few-shot examples, and the prompt when --prompt is omitted, can be\n" +
		"borrowed from a task with --examples-from.",
	Example: "  lxstarter extract --text \"Alice met Bob in Paris\" --prompt \"Extract people and places\" --examples-from basic_example\n" +
		"  lxstarter extract --url https://www.gutenberg.org/files/1513/1513-0.txt --examples-from url_example --output romeo.jsonl.gz",
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	f := extractCmd.Flags()
	f.StringVar(&extractText, "text", "", "text to extract from")
	f.StringVar(&extractURL, "url", "", "download the input text from a URL")
	f.StringVar(&extractFile, "file", "", "read the input text from a file")
	f.StringVar(&extractPrompt, "prompt", "", "description of what to extract")
	f.StringVar(&extractExamplesFrom, "examples-from", "", "task whose few-shot examples (and prompt) to use")
	f.StringVar(&extractModel, "model", "", "model ID (default from config)")
	f.IntVar(&extractMaxCharBuffer, "max-char-buffer", extract.DefaultMaxCharBuffer, "maximum characters per chunk")
	f.IntVar(&extractMaxWorkers, "max-workers", extract.DefaultMaxWorkers, "parallel model calls")
	f.IntVar(&extractPasses, "passes", extract.DefaultPasses, "extraction passes over each chunk")
	f.Float64Var(&extractTemperature, "temperature", 0, "sampling temperature (provider default when unset)")
	f.IntVar(&extractShow, "show", 0, "extractions to print per document (0 for all)")
	f.StringVar(&extractOutput, "output", "", "write results to this JSONL file in the output dir (.gz to compress)")
	f.StringVar(&extractHTML, "html", "", "write a visualization to this HTML file in the output dir")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	if err := requireExactlyOne(
		flagValue{"--text", extractText},
		flagValue{"--url", extractURL},
		flagValue{"--file", extractFile},
	); err != nil {
		return err
	}
	for _, n := range []struct {
		name string
		v    int
	}{
		{"--max-char-buffer", extractMaxCharBuffer},
		{"--max-workers", extractMaxWorkers},
		{"--passes", extractPasses},
		{"--show", extractShow},
	} {
		if err := requirePositive(n.name, n.v); err != nil {
			return err
		}
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	j := job{
		Title:  "Extraction results",
		Prompt: extractPrompt,
		URL:    extractURL,
		Show:   extractShow,
		Output: extractOutput,
		HTML:   extractHTML,
		Options: extract.Options{
			ModelID:       a.cfg.ModelID,
			MaxCharBuffer: extractMaxCharBuffer,
			MaxWorkers:    extractMaxWorkers,
			Passes:        extractPasses,
		},
	}
	if extractModel != "" {
		j.Options.ModelID = extractModel
	}
	if cmd.Flags().Changed("temperature") {
		j.Options.Temperature = &extractTemperature
	}

	switch {
	case extractText != "":
		j.Texts = []string{extractText}
	case extractFile != "":
		data, err := os.ReadFile(extractFile)
		if err != nil {
			return fmt.Errorf("reading input file: %w", err)
		}
		j.Texts = []string{string(data)}
	}

	if extractExamplesFrom != "" {
		path, err := tasks.Resolve(a.path(a.cfg.ExamplesDir), extractExamplesFrom)
		if err != nil {
			return err
		}
		t, err := tasks.Load(path)
		if err != nil {
			return err
		}
		j.Examples = t.Examples
		if j.Prompt == "" {
			j.Prompt = t.Prompt
		}
	}
	if j.Prompt == "" {
		return fmt.Errorf("--prompt is required unless --examples-from provides one")
	}

	return a.runJob(cmd.Context(), j)
}
