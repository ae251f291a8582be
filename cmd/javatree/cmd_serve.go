package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javatree/ui"
)

func newServeCmd() *cobra.Command {
	var addr string
	var watchFiles bool

	cmd := &cobra.Command{
		Use:   "serve [path...]",
		Short: "Start the web UI server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, c, _, err := scan(cmd, args)
			if err != nil {
				return err
			}
			if watchFiles {
				watcher, err := watch(c)
				if err != nil {
					return err
				}
				defer watcher.Stop()
			}

			server, err := ui.NewServer(c, formatOptions(cfg, args))
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			displayAddr := addr
			if strings.HasPrefix(addr, ":") {
				displayAddr = "localhost" + addr
			}
			fmt.Printf("Starting server at http://%s\n", displayAddr)
			return http.ListenAndServe(addr, server)
		},
	}

	addScanFlags(cmd)
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "address to listen on")
	cmd.Flags().BoolVarP(&watchFiles, "watch", "w", false, "rescan when source files change")

	return cmd
}
