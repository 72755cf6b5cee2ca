package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags.
// Example: go build -ldflags="-X github.com/ethanolivertroy/version-checker/cmd.Version=1.0.0"
var (
	Version   = "dev"
	GitCommit = ""
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version-checker %s\n", Version)
			if GitCommit != "" {
				fmt.Fprintf(out, "  Git: %s\n", GitCommit)
			}
			fmt.Fprintf(out, "  Go:  %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
