package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javatree/format"
)

func newTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table [path...]",
		Short: "Print an HTML table of every class declaration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, result, err := scan(cmd, args)
			if err != nil {
				return err
			}
			enc := format.NewTableEncoder(cmd.OutOrStdout(), formatOptions(cfg, args))
			if err := enc.Encode(result.Signatures); err != nil {
				return fmt.Errorf("write table: %w", err)
			}
			return nil
		},
	}

	addScanFlags(cmd)

	return cmd
}
