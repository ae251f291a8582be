package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javatree/store"
)

func newExportCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "export --db <file> [path...]",
		Short: "Save the class graph to a SQLite database",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, result, err := scan(cmd, args)
			if err != nil {
				return err
			}
			if err := store.Export(cmd.Context(), dbPath, result.Graph); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			extends, implements := result.Graph.EdgeCount()
			cmd.PrintErrf("wrote %d nodes, %d extends and %d implements edges to %s\n",
				result.Graph.Len(), extends, implements, dbPath)
			return nil
		},
	}

	addScanFlags(cmd)
	cmd.Flags().StringVar(&dbPath, "db", "javatree.db", "SQLite database to write")

	return cmd
}
