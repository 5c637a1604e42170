package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/djangogen/internal/cmdtypes"
	"github.com/opmodel/djangogen/internal/exec"
	"github.com/opmodel/djangogen/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	return newVersionCmd(cfg, nil)
}

func newVersionCmd(cfg *cmdtypes.GlobalConfig, runner exec.Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show djangogen version information.

Displays:
  - djangogen version, commit, and build date
  - the external tools new runs, with the version each one reports`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			out := c.OutOrStdout()
			fmt.Fprintln(out, version.Get().String())

			r := runner
			if r == nil {
				r = exec.NewRealRunner(nil)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Tools:")
			for _, tool := range version.DetectTools(c.Context(), r, cfg.Settings) {
				fmt.Fprintf(out, "  %s\n", tool.String())
			}
			return nil
		},
	}
}
