package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/notebook/internal/store"
	"github.com/mesh-intelligence/notebook/pkg/types"
)

func newRecordCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "record",
		Aliases: []string{"rec"},
		Short:   "Add, edit and delete records",
		Long: `Records are written as field=value pairs. Fields may be given by id or by
label ("Due Date" and dueDate are the same field). Numbers become numeric
values and everything else is text. An empty value clears the field.`,
	}
	cmd.AddCommand(
		newRecordAddCmd(a),
		newRecordUpdateCmd(a),
		newRecordGetCmd(a),
		newRecordDeleteCmd(a),
	)
	return cmd
}

func newRecordAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "add <category> [field=value...]",
		Short:   "Add a record",
		Example: `  notebook record add Tasks title="Call plumber" priority=High "due date=2024-05-01"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cat types.Category
				rec types.Record
			)
			err := a.withNotebook(true, func(nb *store.Notebook) error {
				var err error
				if cat, err = categoryArg(nb, args[0]); err != nil {
					return err
				}
				values, err := parseAssignments(cat.Schema, args[1:])
				if err != nil {
					return err
				}
				rec, err = nb.Create(cat.ID, values)
				return err
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added record %s to %s\n", rec.ID, cat.Name)
			return nil
		},
	}
}

func newRecordUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "update <category> <id> field=value...",
		Aliases: []string{"edit"},
		Short:   "Change fields of a record",
		Long: `Update merges the given fields into the record; fields not named keep their
values. Use field= to clear a field.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rec types.Record
			err := a.withNotebook(true, func(nb *store.Notebook) error {
				cat, err := categoryArg(nb, args[0])
				if err != nil {
					return err
				}
				current, err := nb.Get(cat.ID, args[1])
				if err != nil {
					return err
				}
				changes, err := parseAssignments(cat.Schema, args[2:])
				if err != nil {
					return err
				}
				values := visibleValues(cat.Schema, current.Values)
				for k, v := range changes {
					values[k] = v
				}
				rec, err = nb.Update(cat.ID, current.ID, values)
				return err
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated record %s\n", rec.ID)
			return nil
		},
	}
}

func newRecordGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <category> <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cat types.Category
				rec types.Record
			)
			err := a.withNotebook(false, func(nb *store.Notebook) error {
				var err error
				if cat, err = categoryArg(nb, args[0]); err != nil {
					return err
				}
				rec, err = nb.Get(cat.ID, args[1])
				return err
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), types.Record{ID: rec.ID, Values: visibleValues(cat.Schema, rec.Values)})
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "ID\t%s\n", rec.ID)
			for _, f := range cat.Schema.Fields {
				v, _ := rec.Lookup(f)
				fmt.Fprintf(tw, "%s\t%s\n", types.FieldLabel(f), types.FormatValue(v))
			}
			return tw.Flush()
		},
	}
}

func newRecordDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <category> <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete records",
		Long:    `Delete removes the named records. Unknown ids are ignored.`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.withNotebook(true, func(nb *store.Notebook) error {
				cat, err := categoryArg(nb, args[0])
				if err != nil {
					return err
				}
				for _, id := range args[1:] {
					if err := nb.Delete(cat.ID, id); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string][]string{"deleted": args[1:]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d record(s)\n", len(args)-1)
			return nil
		},
	}
}

// visibleValues returns the values of fields in schema. Values kept under
// removed or renamed ids are left out.
func visibleValues(schema types.Schema, values types.Values) types.Values {
	out := make(types.Values, len(values))
	for _, f := range schema.Fields {
		if v, ok := values[f]; ok {
			out[f] = v
		}
	}
	return out
}
