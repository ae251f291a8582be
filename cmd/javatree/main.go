package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/javatree/config"
	"github.com/dhamidi/javatree/format"
	"github.com/dhamidi/javatree/java/codebase"
)

const version = "0.3.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "javatree",
		Short:        "Print the class hierarchy of Java sources",
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "configuration file (default "+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "log more, repeat for debug output")

	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(newTableCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// addScanFlags registers the flags that control which files and classes a
// scan picks up.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("all", "A", false, "include classes that are not public")
	cmd.Flags().BoolP("imports", "I", false, "graph package imports instead of classes")
	cmd.Flags().String("import-prefix", "", "only follow imports starting with this prefix")
	cmd.Flags().StringSliceP("ignore", "V", nil, "skip paths matching this gitignore pattern (repeatable)")
	cmd.Flags().Bool("sort", false, "order roots alphabetically")
}

// loadConfig reads the configuration file and environment, then applies
// the flags set on the command line, configures logging and validates the
// result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbosity, _ = flags.GetCount("verbose")
	}
	if flags.Changed("all") {
		cfg.AllClasses, _ = flags.GetBool("all")
	}
	if flags.Changed("imports") {
		cfg.Imports, _ = flags.GetBool("imports")
	}
	if flags.Changed("import-prefix") {
		cfg.ImportPrefix, _ = flags.GetString("import-prefix")
	}
	if flags.Changed("ignore") {
		ignore, _ := flags.GetStringSlice("ignore")
		cfg.Ignore = append(cfg.Ignore, ignore...)
	}
	if flags.Changed("sort") {
		cfg.Sort, _ = flags.GetBool("sort")
	}
	if flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}
	if flags.Changed("names") {
		cfg.Names, _ = flags.GetBool("names")
	}
	if flags.Changed("no-tree") {
		cfg.NoTree, _ = flags.GetBool("no-tree")
	}
	if flags.Changed("color") {
		cfg.Color, _ = flags.GetString("color")
	}
	if flags.Changed("out-dir") {
		cfg.OutDir, _ = flags.GetString("out-dir")
	}
	if flags.Changed("split") {
		cfg.Split, _ = flags.GetBool("split")
	}
	if flags.Changed("nodes-per-file") {
		cfg.NodesPerFile, _ = flags.GetInt("nodes-per-file")
	}

	commonlog.Configure(cfg.Verbosity, nil)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// scan loads the configuration and scans paths, printing the summary line
// to stderr.
func scan(cmd *cobra.Command, paths []string) (config.Config, *codebase.Codebase, *codebase.Result, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, nil, nil, err
	}
	c := codebase.New(cfg, nil)
	result, err := c.Scan(paths...)
	if err != nil {
		return cfg, nil, nil, err
	}
	cmd.PrintErrf("%d files parsed, %d classes found\n", result.FilesParsed, result.ClassCount())
	return cfg, c, result, nil
}

func formatOptions(cfg config.Config, paths []string) format.Options {
	opts := format.Options{Sort: cfg.Sort}
	if len(paths) > 0 {
		opts.Title = format.Title(paths[0])
	}
	return opts
}

// watch starts a file watcher on the roots of c that logs every rescan.
func watch(c *codebase.Codebase) (*codebase.FileWatcher, error) {
	log := commonlog.GetLogger("javatree")
	watcher, err := codebase.NewFileWatcher(c)
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	watcher.OnRescan(func(r *codebase.Result, err error) {
		if err != nil {
			log.Errorf("rescan: %s", err)
			return
		}
		log.Infof("rescan: %d files parsed, %d classes found", r.FilesParsed, r.ClassCount())
	})
	if err := watcher.Start(); err != nil {
		return nil, fmt.Errorf("start watcher: %w", err)
	}
	return watcher, nil
}
