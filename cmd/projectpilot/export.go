package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/projectpilot/internal/store"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the seeded projects to a SQLite fixture database",
	Long: `Write the seeded snapshot to a SQLite file that can be used as a seed
source later (seed.source: sqlite).

Examples:
  projectpilot export --out fixtures.db`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "projectpilot.db", "fixture database path")
}

func runExport(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer e.Close()

	fx, err := store.OpenSQLiteFixtures(exportOut)
	if err != nil {
		return err
	}
	defer fx.Close()

	snap := e.store.Snapshot()
	if err := fx.Save(cmd.Context(), snap.Projects); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d projects to %s\n", len(snap.Projects), exportOut)
	return nil
}
