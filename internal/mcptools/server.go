// Package mcptools exposes the consensus engine to MCP clients: margin and
// cost estimation, candidate screening, and full voting sessions as tools.
package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewConsensusMCPServer creates an MCP server with the consensus tools registered.
func NewConsensusMCPServer(svc *ConsensusService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "quorum-consensus",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "estimate_margin",
		Description: "Compute the minimum first-to-ahead-by-k vote margin that meets a target end-to-end success probability, given a per-step sample success probability and the number of task steps.",
	}, svc.EstimateMargin)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "estimate_cost",
		Description: "Estimate the expected number of samples per step and the total sampling cost of voting a multi-step task with a given margin. Derives the margin from the reliability target when k is omitted.",
	}, svc.EstimateCost)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "screen_candidate",
		Description: "Run red-flag screening on one raw candidate response: length budget, format contract, and domain-quality heuristics for the given task class.",
	}, svc.ScreenCandidate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_vote",
		Description: "Run one first-to-ahead-by-k voting session against the configured generator agents and return the winning candidate with its metrics.",
	}, svc.RunVote)

	return server
}

// RunMCPServer starts an HTTP server exposing the consensus MCP tools.
func RunMCPServer(ctx context.Context, svc *ConsensusService, addr string) error {
	server := NewConsensusMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
