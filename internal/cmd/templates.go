package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/djangogen/internal/cmdtypes"
	oerrors "github.com/opmodel/djangogen/internal/errors"
	"github.com/opmodel/djangogen/internal/output"
	"github.com/opmodel/djangogen/internal/templates"
)

// NewTemplatesCmd creates the templates command.
func NewTemplatesCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var match string

	c := &cobra.Command{
		Use:   "templates",
		Short: "List the project templates",
		Long: `List the files of the template set new renders from.

Names are shown as they are written into the project, without the .tmpl
suffix. The set is the built-in one unless --templates-dir or templates.dir
points elsewhere.

Examples:
  # Everything
  djangogen templates

  # Only settings modules
  djangogen templates --match 'settings/*.py'`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			set, err := templateSet(cfg)
			if err != nil {
				return oerrors.NewExitError(err, oerrors.ExitCodeFromError(err))
			}

			names, err := set.List(match)
			if err != nil {
				return oerrors.NewExitError(err, oerrors.ExitCodeFromError(err))
			}
			if len(names) == 0 {
				fmt.Fprintln(c.OutOrStdout(), "No templates match.")
				return nil
			}

			notes := make([]string, len(names))
			for i, name := range names {
				notes[i] = templates.Describe(name)
			}
			fmt.Fprintln(c.OutOrStdout(), output.RenderTemplateTable(names, notes))
			return nil
		},
	}

	c.Flags().StringVar(&match, "match", "", "Only list names matching a glob (doublestar syntax)")

	return c
}
