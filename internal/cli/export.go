package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/notebook/internal/sqlite"
	"github.com/mesh-intelligence/notebook/internal/store"
	"github.com/mesh-intelligence/notebook/pkg/types"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write the notebook to categories.jsonl and records.jsonl",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var snap types.Snapshot
			err := a.withNotebook(false, func(nb *store.Notebook) error {
				snap = nb.Snapshot()
				return nil
			})
			if err != nil {
				return err
			}
			if err := sqlite.ExportJSONL(args[0], snap); err != nil {
				return sysErr(fmt.Errorf("export: %w", err))
			}
			c := snapshotCounts(snap)
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d categories and %d records to %s\n", c.Categories, c.Records, args[0])
			return nil
		},
	}
}

func newRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <dir>",
		Short: "Replace the notebook with an exported copy",
		Long: `Restore reads categories.jsonl and records.jsonl from dir and replaces the
whole notebook with their contents. Malformed lines are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := sqlite.ImportJSONL(args[0])
			if err != nil {
				return sysErr(fmt.Errorf("restore: %w", err))
			}
			err = a.withNotebook(true, func(nb *store.Notebook) error {
				return nb.Restore(snap)
			})
			if err != nil {
				return err
			}
			c := snapshotCounts(snap)
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d categories and %d records\n", c.Categories, c.Records)
			return nil
		},
	}
}

type counts struct {
	Categories int `json:"categories"`
	Records    int `json:"records"`
}

func snapshotCounts(snap types.Snapshot) counts {
	c := counts{Categories: len(snap.Categories)}
	for _, cs := range snap.Categories {
		c.Records += len(cs.Records)
	}
	return c
}
