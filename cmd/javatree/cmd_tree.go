package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javatree/config"
	"github.com/dhamidi/javatree/format"
	"github.com/dhamidi/javatree/java/codebase"
)

func newTreeCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "tree [path...]",
		Short: "Print the class hierarchy below each root class",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, result, err := scan(cmd, args)
			if err != nil {
				return err
			}
			opts := formatOptions(cfg, args)
			opts.Root = root
			return runTree(cmd.OutOrStdout(), cfg, opts, result)
		},
	}

	addScanFlags(cmd)
	cmd.Flags().StringP("format", "f", config.FormatGraphics, "output format: "+strings.Join(config.Formats, ", "))
	cmd.Flags().BoolP("names", "n", false, "also print a tab separated list of all classes")
	cmd.Flags().Bool("no-tree", false, "do not print the tree")
	cmd.Flags().StringP("out-dir", "O", ".", "directory for split GraphViz files")
	cmd.Flags().BoolP("split", "Z", false, "write one GraphViz file per root tree")
	cmd.Flags().IntP("nodes-per-file", "N", 0, "start a new GraphViz file after about this many nodes")
	cmd.Flags().String("color", config.ColorAuto, "colour class names: auto, always or never")
	cmd.Flags().StringVar(&root, "root", "", "only print the tree below this class")

	return cmd
}

func runTree(w io.Writer, cfg config.Config, opts format.Options, result *codebase.Result) error {
	g := result.Graph

	if !cfg.NoTree {
		switch {
		case cfg.IsTree():
			opts.Color = format.ColorEnabled(cfg.Color, w)
			if err := format.NewTreeEncoder(w, format.Charsets[cfg.Format], opts).Encode(g); err != nil {
				return fmt.Errorf("write tree: %w", err)
			}
		case cfg.Format == config.FormatDTree:
			if err := format.NewDTreeEncoder(w, opts).Encode(g); err != nil {
				return fmt.Errorf("write dtree: %w", err)
			}
		case cfg.Format == config.FormatJSON:
			if err := format.NewJSONEncoder(w, opts).Encode(g); err != nil {
				return fmt.Errorf("write json: %w", err)
			}
		case cfg.Format == config.FormatDot:
			if cfg.OutDir != "" {
				if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
					return fmt.Errorf("create %s: %w", cfg.OutDir, err)
				}
			}
			enc := format.NewDotEncoder(w, opts, format.DotOptions{
				Split:        cfg.Split,
				NodesPerFile: cfg.NodesPerFile,
				OutDir:       cfg.OutDir,
				Imports:      cfg.Imports,
			})
			if err := enc.Encode(g); err != nil {
				return fmt.Errorf("write dot: %w", err)
			}
			for _, f := range enc.Files() {
				fmt.Fprintf(os.Stderr, "wrote %s\n", f)
			}
			if n := len(enc.Isolated()); n > 0 {
				fmt.Fprintf(os.Stderr, "%d packages without imports left out\n", n)
			}
		}
	}

	if cfg.Names {
		if err := format.NewNamesEncoder(w, opts).Encode(g); err != nil {
			return fmt.Errorf("write names: %w", err)
		}
	}
	return nil
}
