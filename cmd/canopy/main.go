// Command canopy loads scene documents and inspects the node trees they
// produce.
//
//	canopy dump scenes/main.json
//	canopy query scenes/main.json '$..children[?(@.type == "Sprite")]'
//	canopy watch scenes/main.json
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	root       string
	cacheSize  int
	atlases    []string
	debug      bool
}

// config loads the config file and applies flags that were set explicitly.
func (o *options) config(cmd *cobra.Command) (Config, error) {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = o.root
	}
	if flags.Changed("cache-size") {
		cfg.CacheSize = o.cacheSize
	}
	if flags.Changed("atlas") {
		cfg.Atlases = o.atlases
	}
	if flags.Changed("debug") {
		cfg.Debug = o.debug
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "canopy",
		Short:         "Load scene documents into node trees",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file (default ./"+defaultConfigFile+" if present)")
	pf.StringVarP(&opts.root, "root", "r", ".", "directory documents are read from")
	pf.IntVar(&opts.cacheSize, "cache-size", 0, "sub-graph cache size (0 for default)")
	pf.StringSliceVar(&opts.atlases, "atlas", nil, "atlas JSON file relative to root (repeatable)")
	pf.BoolVar(&opts.debug, "debug", false, "log debug output and tree shape warnings")

	root.AddCommand(newDumpCmd(opts), newQueryCmd(opts), newWatchCmd(opts))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "canopy:", err)
		os.Exit(1)
	}
}
