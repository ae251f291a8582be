package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/javatree/server"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp [path...]",
		Short: "Start the Model Context Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, c, _, err := scan(cmd, args)
			if err != nil {
				return err
			}
			watcher, err := watch(c)
			if err != nil {
				return err
			}
			defer watcher.Stop()

			return server.New(c, formatOptions(cfg, args), version).Run(cmd.Context())
		},
	}

	addScanFlags(cmd)

	return cmd
}
