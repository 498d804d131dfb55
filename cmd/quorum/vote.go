package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/inkstone-ai/quorum/internal/config"
	"github.com/inkstone-ai/quorum/internal/export"
	"github.com/inkstone-ai/quorum/internal/gen"
	"github.com/inkstone-ai/quorum/internal/pool"
	"github.com/inkstone-ai/quorum/internal/task"
	"github.com/inkstone-ai/quorum/internal/voting"
)

func runVote(args []string) error {
	fs := flag.NewFlagSet("vote", flag.ContinueOnError)
	kindFlag := fs.String("kind", "objective", "task class: objective, citation, ranking, structured")
	topic := fs.String("topic", "", "subject the generators write about (required)")
	instructions := fs.String("instructions", "", "extra guidance appended to the prompt")
	count := fs.Int("count", 0, "expected number of items, when the class has one")
	k := fs.Int("k", 0, "vote margin override (default: derived or profile default)")
	maxRounds := fs.Int("max-rounds", 0, "draw budget override")
	steps := fs.Int("steps", 1, "task step count used for margin derivation")
	endpointsFlag := fs.String("endpoints", "", "comma-separated generator agent URLs")
	configDir := fs.String("config-dir", ".", "directory containing quorum.yml")
	reportPath := fs.String("report", "", "write a JSON session report to this path")
	mermaid := fs.Bool("mermaid", false, "print a Mermaid chart of the vote distribution")
	local := fs.Bool("local", false, "use an in-process stub generator instead of remote agents")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setupLogging(*verbose)

	if *topic == "" {
		return fmt.Errorf("vote: -topic is required")
	}
	kind := task.Kind(*kindFlag)
	if !kind.Valid() {
		return fmt.Errorf("vote: unknown task kind %q", *kindFlag)
	}

	cfg, err := config.Load(*configDir)
	if err != nil {
		return err
	}

	profile, err := cfg.ProfileFor(kind, *steps)
	if err != nil {
		return err
	}
	if *k > 0 {
		profile.K = *k
	}
	if *maxRounds > 0 {
		profile.MaxRounds = *maxRounds
	}

	orch, err := profile.Orchestrator()
	if err != nil {
		return err
	}
	defer orch.Close()

	codec, err := task.CodecFor(kind)
	if err != nil {
		return err
	}
	taskReq := task.Request{
		Kind:         kind,
		Topic:        *topic,
		Instructions: *instructions,
		Count:        *count,
	}
	prompt := codec.Render(taskReq)

	draw, err := selectDraw(cfg, *endpointsFlag, *local, kind)
	if err != nil {
		return err
	}

	req := pool.Request{
		Prompt: prompt.User,
		Meta: map[string]string{
			"system":     prompt.System,
			"kind":       string(kind),
			"max_tokens": strconv.Itoa(profile.MaxTokens),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pool.New(cfg.Concurrency)
	slog.Debug("starting voting session", "kind", kind, "k", profile.K, "maxRounds", profile.MaxRounds)

	go func() {
		for ev := range orch.Progress() {
			slog.Debug("round", "status", ev.Status, "round", ev.Round, "key", ev.Key, "msg", ev.Message)
		}
	}()

	winner, metrics, err := p.Run(ctx, "cli:"+string(kind), orch, req, draw)
	if errors.Is(err, voting.ErrNoConsensus) {
		return fmt.Errorf("no usable candidate emerged after %d draws; falling back is the caller's call: %w",
			metrics.TotalSamples, err)
	}
	if err != nil {
		return err
	}

	if !metrics.ConsensusAchieved {
		slog.Warn("round budget exhausted; winner is best-effort",
			"winnerVotes", metrics.WinnerVotes, "runnerUpVotes", metrics.RunnerUpVotes)
	}

	out, err := json.MarshalIndent(winner.Content, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	fmt.Printf("\nconfidence=%.2f rounds=%d samples=%d valid=%d invalid=%d winner=%d runnerUp=%d consensus=%v\n",
		winner.Confidence, metrics.VotingRounds, metrics.TotalSamples, metrics.ValidSamples,
		metrics.InvalidSamples, metrics.WinnerVotes, metrics.RunnerUpVotes, metrics.ConsensusAchieved)

	if *reportPath != "" || *mermaid {
		report := export.NewSessionReport(taskReq, orch.Config(), winner, metrics)
		if *reportPath != "" {
			if err := report.WriteJSON(*reportPath); err != nil {
				return err
			}
			slog.Info("wrote session report", "path", *reportPath)
		}
		if *mermaid {
			fmt.Println()
			fmt.Print(export.GenerateMermaid(report))
		}
	}
	return nil
}

// selectDraw picks the draw function: remote HTTP agents when endpoints are
// available, otherwise the in-process stub generator.
func selectDraw(cfg *config.ProjectConfig, endpointsFlag string, local bool, kind task.Kind) (pool.DrawFunc, error) {
	endpoints := cfg.Endpoints
	if endpointsFlag != "" {
		endpoints = strings.Split(endpointsFlag, ",")
	}

	if local || len(endpoints) == 0 {
		if !local {
			slog.Info("no generator endpoints configured; using in-process stub")
		}
		stub := gen.NewStubGenerator(stubResponse(kind))
		return func(ctx context.Context, req pool.Request) (voting.RawCandidate, error) {
			job, err := stub.HandleGenerate(ctx, gen.GenerateRequest{
				Prompt: req.Prompt,
				System: req.Meta["system"],
				Kind:   req.Meta["kind"],
			})
			if err != nil {
				return voting.RawCandidate{}, err
			}
			return voting.RawCandidate{Text: job.Output.Text}, nil
		}, nil
	}

	sampler, err := gen.NewSampler(gen.NewHTTPClient(), endpoints)
	if err != nil {
		return nil, err
	}
	return sampler.Draw, nil
}

// stubResponse returns a deterministic well-formed response for a task
// class, so local smoke runs reach consensus immediately.
func stubResponse(kind task.Kind) gen.GenerateFunc {
	return func(_ context.Context, req gen.GenerateRequest) (string, error) {
		switch kind {
		case task.KindObjective:
			return "Establish a validated understanding of the stated research topic\n" +
				"1. Characterize the current state of the field\n" +
				"2. Identify the principal open problems\n" +
				"3. Define measurable success criteria for addressing them\n", nil
		case task.KindCitation, task.KindRanking:
			return `["source-1", "source-2", "source-3"]`, nil
		default:
			return `{"answer": "stub"}`, nil
		}
	}
}
