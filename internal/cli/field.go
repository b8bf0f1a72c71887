package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/notebook/internal/store"
	"github.com/mesh-intelligence/notebook/pkg/types"
)

func newFieldCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field",
		Short: "Edit the columns of a category",
		Long: `Field commands change a category's schema. Records are not rewritten:
removing a field hides its values, and adding the same field back shows
them again.`,
	}
	cmd.AddCommand(
		newFieldListCmd(a),
		newFieldAddCmd(a),
		newFieldRemoveCmd(a),
		newFieldMoveCmd(a),
		newFieldRenameCmd(a),
	)
	return cmd
}

// schemaCmd runs a schema change against the named category and prints the
// resulting fields.
func (a *app) schemaCmd(cmd *cobra.Command, category string, save bool,
	change func(nb *store.Notebook, cat types.Category) (types.Schema, error)) error {
	var schema types.Schema
	err := a.withNotebook(save, func(nb *store.Notebook) error {
		cat, err := categoryArg(nb, category)
		if err != nil {
			return err
		}
		schema, err = change(nb, cat)
		return err
	})
	if err != nil {
		return err
	}
	if a.flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), schema)
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tID\tLABEL")
	for i, f := range schema.Fields {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, f, types.FieldLabel(f))
	}
	return tw.Flush()
}

func newFieldListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list <category>",
		Aliases: []string{"ls"},
		Short:   "List the fields of a category in display order",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.schemaCmd(cmd, args[0], false, func(_ *store.Notebook, cat types.Category) (types.Schema, error) {
				return cat.Schema, nil
			})
		},
	}
}

func newFieldAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <category> <label>",
		Short: "Append a field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.schemaCmd(cmd, args[0], true, func(nb *store.Notebook, cat types.Category) (types.Schema, error) {
				return nb.AddField(cat.ID, args[1])
			})
		},
	}
}

func newFieldRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <category> <field>",
		Aliases: []string{"rm"},
		Short:   "Remove a field from the schema; its values are kept",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.schemaCmd(cmd, args[0], true, func(nb *store.Notebook, cat types.Category) (types.Schema, error) {
				field, err := fieldArg(cat.Schema, args[1])
				if err != nil {
					return types.Schema{}, err
				}
				return nb.RemoveField(cat.ID, field)
			})
		},
	}
}

func newFieldMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <category> <field> <position>",
		Short: "Move a field to a 1-based position",
		Long: `Move places a field at the given position, counting from 1. A position
outside the schema leaves the order unchanged.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("position %q is not a number", args[2])
			}
			return a.schemaCmd(cmd, args[0], true, func(nb *store.Notebook, cat types.Category) (types.Schema, error) {
				field, err := fieldArg(cat.Schema, args[1])
				if err != nil {
					return types.Schema{}, err
				}
				return nb.MoveField(cat.ID, cat.Schema.Index(field), pos-1)
			})
		},
	}
}

func newFieldRenameCmd(a *app) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "rename <category> <field> <new-label>",
		Short: "Rename a field",
		Long: `Rename changes a field's id in place. By default existing values stay under
the old id and the renamed column starts empty; --migrate moves them to the
new id.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.schemaCmd(cmd, args[0], true, func(nb *store.Notebook, cat types.Category) (types.Schema, error) {
				field, err := fieldArg(cat.Schema, args[1])
				if err != nil {
					return types.Schema{}, err
				}
				return nb.RenameField(cat.ID, field, args[2], store.RenameOptions{MigrateData: migrate})
			})
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "move existing values to the new id")
	return cmd
}
