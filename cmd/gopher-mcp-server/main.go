// gopher-mcp-server exposes the content router as an MCP JSON-RPC
// endpoint over HTTP, optionally behind TLS or mutual TLS.
//
// Usage:
//
//	gopher-mcp-server [flags]
//
// Flags:
//
//	--bind string        Listen address (default ":8070")
//	--config string       Path to a TOML adapter configuration file
//	--cert string          TLS certificate file
//	--key string           TLS private key file
//	--client-ca string      Client CA bundle; enables mutual TLS when set
//	--no-tls               Serve plain HTTP
//	--no-seed              Skip seeding the local namespace
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jackfish212/gopherengine/config"
	"github.com/jackfish212/gopherengine/mcpserver"
	"github.com/jackfish212/gopherengine/router"
	"github.com/jackfish212/gopherengine/store"
)

func main() {
	var (
		bind     string
		cert     string
		key      string
		clientCA string
		noTLS    bool
		noSeed   bool
		cfgPath  string
	)

	root := &cobra.Command{
		Use:   "gopher-mcp-server",
		Short: "Serve the content router over an MCP JSON-RPC endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), serverOptions{
				bind: bind, cert: cert, key: key, clientCA: clientCA,
				noTLS: noTLS, noSeed: noSeed, configPath: cfgPath,
			})
		},
	}

	root.Flags().StringVar(&bind, "bind", ":8070", "listen address")
	root.Flags().StringVar(&cfgPath, "config", "", "path to a TOML adapter configuration file")
	root.Flags().StringVar(&cert, "cert", "", "TLS certificate file")
	root.Flags().StringVar(&key, "key", "", "TLS private key file")
	root.Flags().StringVar(&clientCA, "client-ca", "", "client CA bundle; enables mutual TLS when set")
	root.Flags().BoolVar(&noTLS, "no-tls", false, "serve plain HTTP")
	root.Flags().BoolVar(&noSeed, "no-seed", false, "skip seeding the local namespace")

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := root.Execute(); err != nil {
		slog.Error("gopher-mcp-server: fatal", "error", err)
		os.Exit(1)
	}
}

type serverOptions struct {
	bind, cert, key, clientCA, configPath string
	noTLS, noSeed                         bool
}

func run(ctx context.Context, opts serverOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

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
				slog.Warn("adapter sync failed, continuing without it", "namespace", a.Namespace(), "error", err)
				continue
			}
			slog.Info("adapter registered", "namespace", a.Namespace())
		}
	}

	srv := mcpserver.New(r, "gopher-mcp-server", "0.1.0")

	httpCfg := mcpserver.HTTPConfig{Addr: opts.bind}
	if !opts.noTLS {
		httpCfg.CertFile = opts.cert
		httpCfg.KeyFile = opts.key
		httpCfg.ClientCAFile = opts.clientCA
	}

	slog.Info("gopher-mcp-server listening", "addr", opts.bind, "tls", !opts.noTLS)
	return mcpserver.Serve(ctx, srv, httpCfg)
}
