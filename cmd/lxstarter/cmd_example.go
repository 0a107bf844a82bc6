package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vertti/lxstarter/pkg/tasks"
)

var (
	exampleModel string
	exampleShow  int
	examplePDF   bool
)

var exampleCmd = &cobra.Command{
	Use:   "example [name]",
	Short: "Run one of the bundled example tasks",
	Long: "Without arguments, lists the tasks in the examples directory. With a\n" +
		"name (basic_example, medical_example, ...) runs that task, prints the\n" +
		"extractions and writes the task's output files to the output directory.",
	Args: cobra.MaximumNArgs(1),
	RunE: runExample,
}

func init() {
	exampleCmd.Flags().StringVar(&exampleModel, "model", "", "override the task's model")
	exampleCmd.Flags().IntVar(&exampleShow, "show", -1, "extractions to print per document (0 for all, default from the task)")
	exampleCmd.Flags().BoolVar(&examplePDF, "pdf", false, "also print the visualization to PDF (needs Chrome)")
	rootCmd.AddCommand(exampleCmd)
}

func runExample(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	dir := a.path(a.cfg.ExamplesDir)

	if len(args) == 0 {
		return a.listTasks(dir)
	}

	path, err := tasks.Resolve(dir, args[0])
	if err != nil {
		return err
	}
	t, err := tasks.Load(path)
	if err != nil {
		return err
	}

	opts := t.ExtractOptions(a.cfg.ModelID)
	if exampleModel != "" {
		opts.ModelID = exampleModel
	}
	show := t.Show
	if exampleShow >= 0 {
		show = exampleShow
	}

	a.out.Header(t.Name)
	if t.Description != "" {
		a.out.Info(t.Description)
	}
	return a.runJob(cmd.Context(), job{
		Title:    t.Name,
		Prompt:   t.Prompt,
		Examples: t.Examples,
		Texts:    t.Inputs(),
		URL:      t.URL,
		Options:  opts,
		Show:     show,
		Output:   t.Output,
		HTML:     t.Visualize,
		PDF:      examplePDF,
	})
}

func (a *app) listTasks(dir string) error {
	paths, err := tasks.List(dir)
	if err != nil {
		return err
	}
	a.out.Section("Available examples")
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		t, err := tasks.Load(p)
		if err != nil {
			a.out.Warn(fmt.Sprintf("%s: %v", name, err))
			continue
		}
		a.out.Info(fmt.Sprintf("%-24s %s", name, t.Description))
	}
	return nil
}
