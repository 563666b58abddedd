package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version of adminctl
	Version = "dev"
	// GitCommit is the git commit hash
	GitCommit = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

func newCLIVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cli-version",
		Short: "Show adminctl version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "adminctl version %s\n", Version)
			fmt.Fprintf(out, "commit: %s\n", GitCommit)
			fmt.Fprintf(out, "built: %s\n", BuildTime)
		},
	}
}
