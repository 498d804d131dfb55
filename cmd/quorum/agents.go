package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/inkstone-ai/quorum/internal/gen"
	"github.com/inkstone-ai/quorum/internal/task"
)

// runAgents hosts n stub generator agents on sequential local ports. Useful
// for exercising the full HTTP voting path without a provider account.
func runAgents(args []string) error {
	fs := flag.NewFlagSet("agents", flag.ContinueOnError)
	n := fs.Int("n", 3, "number of stub agents to host")
	basePort := fs.Int("base-port", 7801, "first listen port; agent i listens on base-port+i")
	kindFlag := fs.String("kind", "objective", "task class the stubs answer for")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setupLogging(*verbose)

	kind := task.Kind(*kindFlag)
	if !kind.Valid() {
		return fmt.Errorf("agents: unknown task kind %q", kind)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var servers []*gen.Server
	for i := 0; i < *n; i++ {
		name := fmt.Sprintf("stub-%d", i)
		card := gen.GeneratorCard{
			Name:    name,
			Model:   "stub",
			Version: version,
			Kinds:   []string{string(kind)},
		}
		srv := gen.NewServer(card, gen.NewStubGenerator(stubResponse(kind)))

		addr := fmt.Sprintf("127.0.0.1:%d", *basePort+i)
		if err := srv.Start(ctx, addr); err != nil {
			// Stop any agents that were already started.
			for j := len(servers) - 1; j >= 0; j-- {
				_ = servers[j].Stop(ctx)
			}
			return fmt.Errorf("start agent %s on %s: %w", name, addr, err)
		}
		servers = append(servers, srv)
		slog.Info("stub agent listening", "name", name, "addr", addr)
		fmt.Printf("  http://%s\n", addr)
	}

	<-ctx.Done()

	for j := len(servers) - 1; j >= 0; j-- {
		_ = servers[j].Stop(context.Background())
	}
	return nil
}
