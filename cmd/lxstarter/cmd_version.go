package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/vertti/lxstarter/pkg/modcheck"
)

// sdkModules are reported by the version command when linked.
var sdkModules = []string{
	"google.golang.org/genai",
	"github.com/openai/openai-go/v3",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "lxstarter %s\n", Version)
		_, _ = fmt.Fprintf(out, "go %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)

		mods, err := modcheck.BuildInfo{}.Modules()
		if err != nil {
			return nil
		}
		for _, m := range sdkModules {
			if v, ok := mods[m]; ok {
				_, _ = fmt.Fprintf(out, "%s %s\n", m, v)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
