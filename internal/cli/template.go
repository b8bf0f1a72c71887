package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTemplateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Show category templates",
		Long: `Templates describe categories that init and "category create --template"
can create. Templates in templates.yaml in the config directory are added to
the built-in ones and replace built-ins of the same name.`,
	}
	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the available templates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.templates()
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), set.All())
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tICON\tSAMPLES\tFIELDS")
			for _, t := range set.All() {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", t.Name, t.Icon, len(t.Samples), strings.Join(t.Fields, ", "))
			}
			return tw.Flush()
		},
	})
	return cmd
}
