package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/inkstone-ai/quorum/internal/config"
	"github.com/inkstone-ai/quorum/internal/gen"
	"github.com/inkstone-ai/quorum/internal/mcptools"
	"github.com/inkstone-ai/quorum/internal/pool"
)

// runServeMCP exposes the consensus engine's tools to MCP clients over HTTP.
func runServeMCP(args []string) error {
	fs := flag.NewFlagSet("serve-mcp", flag.ContinueOnError)
	addr := fs.String("addr", "127.0.0.1:7800", "listen address for the MCP server")
	configDir := fs.String("config-dir", ".", "directory containing quorum.yml")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setupLogging(*verbose)

	cfg, err := config.Load(*configDir)
	if err != nil {
		return err
	}

	svc := mcptools.NewConsensusService(pool.New(cfg.Concurrency), gen.NewHTTPClient(), cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("serving consensus MCP tools", "addr", *addr, "endpoints", len(cfg.Endpoints))
	return mcptools.RunMCPServer(ctx, svc, *addr)
}
