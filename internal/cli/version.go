package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build metadata, overridable at link time with -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version information for atscore",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("atscore version %s\nGit commit: %s\nBuild date: %s\n",
			Version, GitCommit, BuildDate)
	},
}
