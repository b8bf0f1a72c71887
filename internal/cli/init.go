package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/notebook/internal/store"
	"github.com/mesh-intelligence/notebook/internal/templates"
	"github.com/mesh-intelligence/notebook/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	var sample bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the notebook database and the default categories",
		Long: `Init creates the configuration and data directories and one category per
template. Existing categories are left alone, so init can be run again after
adding templates. With --sample the Tasks, Contacts and Projects categories
are filled with example records.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.templates()
			if err != nil {
				return err
			}
			if !sample {
				set = set.WithoutSamples()
			}
			var created []types.Category
			err = a.withNotebook(true, func(nb *store.Notebook) error {
				var err error
				created, err = templates.Seed(nb, set)
				return err
			})
			if err != nil {
				return err
			}
			a.logger.Info("notebook initialised", "data_dir", a.dataDir, "created", len(created))

			if a.flags.jsonMode {
				if created == nil {
					created = []types.Category{}
				}
				return writeJSON(cmd.OutOrStdout(), created)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Notebook ready in %s\n", a.dataDir)
			for _, c := range created {
				fmt.Fprintf(out, "  created %s (%s)\n", c.Name, c.Icon)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&sample, "sample", false, "add example records to the default categories")
	return cmd
}
