package main

import (
	"fmt"
	"log/slog"
	"os"
)

// version is set by goreleaser at build time.
var version = "dev"

const usage = `quorum - reliable consensus generation engine

Usage:
  quorum vote      run one voting session against generator agents
  quorum estimate  derive the vote margin and cost for a reliability target
  quorum agents    host local stub generator agents
  quorum serve-mcp run the MCP tool server
  quorum version   print version and exit

Run 'quorum <command> -h' for command flags.
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return nil
	}

	switch args[0] {
	case "vote":
		return runVote(args[1:])
	case "estimate":
		return runEstimate(args[1:])
	case "agents":
		return runAgents(args[1:])
	case "serve-mcp":
		return runServeMCP(args[1:])
	case "version":
		fmt.Println(version)
		return nil
	case "-h", "--help", "help":
		fmt.Fprint(os.Stderr, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// setupLogging installs the process-wide logger. The engine itself stays
// silent; only the CLI and server surfaces log.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
