package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	rootConfig  string
	rootDir     string
	rootVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, ErrCheckFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lxstarter",
	Short: "Starter kit for LLM-based text extraction",
	Long: "lxstarter validates an extraction project setup, runs a quick smoke test,\n" +
		"and runs example extraction tasks against Gemini or OpenAI models.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfig, "config", "", "config file (default: lxstarter.yaml in the project dir)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "dir", "", "project directory (default: nearest directory with .env or lxstarter.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "enable debug logging")
}
