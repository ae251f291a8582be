package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/javatree/java/codebase"
)

func newLSPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			server := codebase.NewLSPServer(cfg, version)
			return server.RunStdio()
		},
	}

	addScanFlags(cmd)

	return cmd
}
