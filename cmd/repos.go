package cmd

import (
	"github.com/codeyear/codeyear/core"
	"github.com/codeyear/codeyear/internal/outwriter"
	"github.com/spf13/cobra"
)

// reposCmd lists the repositories a report run would cover.
var reposCmd = &cobra.Command{
	Use:   "repos [scan-root]",
	Short: "List Git repositories found under the scan root",
	Long: `Scan for Git repositories without analyzing them.

Use this to verify which repositories a report run would cover, and to tune
the --depth and --exclude settings before a full analysis.

Examples:
  # List repositories under ~/src
  codeyear repos ~/src

  # List repositories as JSON, scanning deeper
  codeyear repos --depth 5 --output json ~/src`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		paths, err := core.FindRepoPaths(rootCtx, cfg)
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteRepoList(paths, cfg)
	},
}
