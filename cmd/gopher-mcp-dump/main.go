// gopher-mcp-dump runs a single dump operation against a configured set
// of adapters and exits: it republishes every document reachable from a
// source menu under a writable destination, then prints the result.
//
// Usage:
//
//	gopher-mcp-dump --config adapters.toml --source vault/docs --destination archive/snapshot
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackfish212/gopherengine/config"
	"github.com/jackfish212/gopherengine/format"
	"github.com/jackfish212/gopherengine/router"
	"github.com/jackfish212/gopherengine/store"
)

func main() {
	var (
		cfgPath     string
		source      string
		destination string
		maxDepth    int
		noSeed      bool
	)

	root := &cobra.Command{
		Use:   "gopher-mcp-dump",
		Short: "Dump a source menu tree into a writable destination namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd.Context(), dumpOptions{
				configPath:  cfgPath,
				source:      source,
				destination: destination,
				maxDepth:    maxDepth,
				noSeed:      noSeed,
			})
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to a TOML adapter configuration file")
	root.Flags().StringVar(&source, "source", "", "source path, namespace/selector")
	root.Flags().StringVar(&destination, "destination", "", "destination path, namespace/selector")
	root.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum menu depth to walk (default 3)")
	root.Flags().BoolVar(&noSeed, "no-seed", false, "skip seeding the local namespace")
	root.MarkFlagRequired("source")
	root.MarkFlagRequired("destination")

	if err := root.Execute(); err != nil {
		format.Error(os.Stderr, os.Stdout, err)
		os.Exit(1)
	}
}

type dumpOptions struct {
	configPath, source, destination string
	maxDepth                        int
	noSeed                          bool
}

func runDump(ctx context.Context, opts dumpOptions) error {
	s := store.New()
	if !opts.noSeed {
		s.SeedLocal()
	}

	r := router.New(s)

	if opts.configPath != "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		created, err := cfg.CreateAdapters()
		if err != nil {
			return err
		}
		for _, a := range created {
			if err := r.RegisterAdapter(ctx, a); err != nil {
				fmt.Fprintf(os.Stderr, "warning: adapter %q failed to sync: %v\n", a.Namespace(), err)
				continue
			}
		}
	}

	result, err := r.Dump(ctx, opts.source, opts.destination, opts.maxDepth)
	if err != nil {
		format.Error(os.Stderr, os.Stdout, err)
		os.Exit(1)
	}

	return format.Result(os.Stdout, result)
}
