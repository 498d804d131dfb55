package mcptools

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/inkstone-ai/quorum/internal/config"
	"github.com/inkstone-ai/quorum/internal/gen"
	"github.com/inkstone-ai/quorum/internal/pool"
	"github.com/inkstone-ai/quorum/internal/redflag"
	"github.com/inkstone-ai/quorum/internal/reliability"
	"github.com/inkstone-ai/quorum/internal/task"
	"github.com/inkstone-ai/quorum/internal/voting"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// --- MCP Tool Input/Output Types ---
// These structs define the JSON schema for each MCP tool. The MCP Go SDK
// auto-generates JSON schemas from struct tags.

// EstimateMarginInput is the input for the estimate_margin MCP tool.
type EstimateMarginInput struct {
	P      float64 `json:"p" jsonschema:"per-step probability that one sample is individually correct (must exceed 0.5)"`
	Steps  int     `json:"steps" jsonschema:"number of steps in the task"`
	Target float64 `json:"target" jsonschema:"target end-to-end success probability in (0,1)"`
}

// EstimateMarginOutput is the result of the estimate_margin MCP tool.
type EstimateMarginOutput struct {
	KMin     int    `json:"kMin,omitempty"`
	Feasible bool   `json:"feasible"`
	Reason   string `json:"reason,omitempty"`
}

// EstimateCostInput is the input for the estimate_cost MCP tool.
type EstimateCostInput struct {
	P             float64 `json:"p" jsonschema:"per-step probability that one sample is individually correct"`
	Steps         int     `json:"steps" jsonschema:"number of steps in the task"`
	CostPerSample float64 `json:"costPerSample" jsonschema:"price of one generator draw, in dollars"`
	K             int     `json:"k,omitempty" jsonschema:"vote margin; derived from target when omitted"`
	Target        float64 `json:"target,omitempty" jsonschema:"target success probability used to derive k when k is omitted"`
}

// EstimateCostOutput is the result of the estimate_cost MCP tool.
type EstimateCostOutput struct {
	K              int     `json:"k"`
	SamplesPerStep float64 `json:"samplesPerStep"`
	TotalCost      float64 `json:"totalCost"`
}

// ScreenCandidateInput is the input for the screen_candidate MCP tool.
type ScreenCandidateInput struct {
	Text      string `json:"text" jsonschema:"the raw candidate response to screen"`
	TaskKind  string `json:"taskKind" jsonschema:"task class: objective, citation, ranking, or structured"`
	MaxTokens int    `json:"maxTokens,omitempty" jsonschema:"token budget for the length check (default from the task profile)"`
}

// ScreenCandidateOutput is the result of the screen_candidate MCP tool.
type ScreenCandidateOutput struct {
	Flagged  bool     `json:"flagged"`
	Reasons  []string `json:"reasons,omitempty"`
	Severity string   `json:"severity"`
}

// RunVoteInput is the input for the run_vote MCP tool.
type RunVoteInput struct {
	TaskKind     string   `json:"taskKind" jsonschema:"task class: objective, citation, ranking, or structured"`
	Topic        string   `json:"topic" jsonschema:"the subject the generators should write about"`
	Instructions string   `json:"instructions,omitempty" jsonschema:"extra guidance appended to the prompt"`
	Count        int      `json:"count,omitempty" jsonschema:"expected number of items, when the class has one"`
	K            int      `json:"k,omitempty" jsonschema:"vote margin override"`
	MaxRounds    int      `json:"maxRounds,omitempty" jsonschema:"draw budget override"`
	Endpoints    []string `json:"endpoints,omitempty" jsonschema:"generator agent URLs; defaults to the configured set"`
}

// RunVoteOutput is the result of the run_vote MCP tool.
type RunVoteOutput struct {
	Winner     any            `json:"winner,omitempty"`
	Confidence float64        `json:"confidence"`
	Metrics    voting.Metrics `json:"metrics"`
	BestEffort bool           `json:"bestEffort"` // round budget exhausted without a margin-qualified winner
}

// ConsensusService holds the shared pool, generator client, and project
// configuration used by the MCP tool handlers.
type ConsensusService struct {
	pool   *pool.Pool
	client gen.Client
	cfg    *config.ProjectConfig
}

// NewConsensusService creates a ConsensusService.
func NewConsensusService(p *pool.Pool, client gen.Client, cfg *config.ProjectConfig) *ConsensusService {
	if cfg == nil {
		cfg = &config.ProjectConfig{}
	}
	return &ConsensusService{pool: p, client: client, cfg: cfg}
}

// EstimateMargin computes the minimum vote margin for a reliability target.
// An infeasible regime (p <= 0.5) is an ordinary output, not a tool error.
func (s *ConsensusService) EstimateMargin(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input EstimateMarginInput,
) (*mcp.CallToolResult, EstimateMarginOutput, error) {
	k, err := reliability.EstimateKMin(input.P, input.Steps, input.Target)
	if err != nil {
		if errors.Is(err, reliability.ErrInfeasible) {
			return nil, EstimateMarginOutput{Feasible: false, Reason: err.Error()}, nil
		}
		return nil, EstimateMarginOutput{}, err
	}
	return nil, EstimateMarginOutput{KMin: k, Feasible: true}, nil
}

// EstimateCost estimates the sampling cost of a voted task.
func (s *ConsensusService) EstimateCost(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input EstimateCostInput,
) (*mcp.CallToolResult, EstimateCostOutput, error) {
	k := input.K
	if k <= 0 {
		target := input.Target
		if target <= 0 {
			target = s.cfg.Model.Target
		}
		var err error
		k, err = reliability.EstimateKMin(input.P, input.Steps, target)
		if err != nil {
			return nil, EstimateCostOutput{}, fmt.Errorf("derive k: %w", err)
		}
	}

	perStep, err := reliability.ExpectedSamplesPerStep(input.P, k)
	if err != nil {
		return nil, EstimateCostOutput{}, err
	}
	total, err := reliability.EstimateCost(input.P, input.Steps, input.CostPerSample, k)
	if err != nil {
		return nil, EstimateCostOutput{}, err
	}
	return nil, EstimateCostOutput{K: k, SamplesPerStep: perStep, TotalCost: total}, nil
}

// ScreenCandidate runs red-flag detection on one response.
func (s *ConsensusService) ScreenCandidate(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ScreenCandidateInput,
) (*mcp.CallToolResult, ScreenCandidateOutput, error) {
	kind := task.Kind(input.TaskKind)
	if !kind.Valid() {
		return nil, ScreenCandidateOutput{}, fmt.Errorf("unknown task kind %q", input.TaskKind)
	}

	profile, err := s.cfg.ProfileFor(kind, 0)
	if err != nil {
		return nil, ScreenCandidateOutput{}, err
	}
	if input.MaxTokens > 0 {
		profile.MaxTokens = input.MaxTokens
	}

	det := redflag.New(profile.Checks...)
	res := det.Detect(input.Text, profile.DetectorContext())
	return nil, ScreenCandidateOutput{
		Flagged:  res.ShouldFlag,
		Reasons:  res.Reasons,
		Severity: res.Severity.String(),
	}, nil
}

// RunVote executes one full voting session against generator agents.
func (s *ConsensusService) RunVote(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RunVoteInput,
) (*mcp.CallToolResult, RunVoteOutput, error) {
	kind := task.Kind(input.TaskKind)
	if !kind.Valid() {
		return nil, RunVoteOutput{}, fmt.Errorf("unknown task kind %q", input.TaskKind)
	}

	endpoints := input.Endpoints
	if len(endpoints) == 0 {
		endpoints = s.cfg.Endpoints
	}
	sampler, err := gen.NewSampler(s.client, endpoints)
	if err != nil {
		return nil, RunVoteOutput{}, err
	}

	profile, err := s.cfg.ProfileFor(kind, 1)
	if err != nil {
		return nil, RunVoteOutput{}, err
	}
	if input.K > 0 {
		profile.K = input.K
	}
	if input.MaxRounds > 0 {
		profile.MaxRounds = input.MaxRounds
	}

	orch, err := profile.Orchestrator()
	if err != nil {
		return nil, RunVoteOutput{}, err
	}
	defer orch.Close()

	codec, err := task.CodecFor(kind)
	if err != nil {
		return nil, RunVoteOutput{}, err
	}
	prompt := codec.Render(task.Request{
		Kind:         kind,
		Topic:        input.Topic,
		Instructions: input.Instructions,
		Count:        input.Count,
	})

	req := pool.Request{
		Prompt: prompt.User,
		Meta: map[string]string{
			"system":     prompt.System,
			"kind":       string(kind),
			"max_tokens": strconv.Itoa(profile.MaxTokens),
		},
	}

	winner, metrics, err := s.pool.Run(ctx, "mcp:"+string(kind), orch, req, sampler.Draw)
	if err != nil {
		return nil, RunVoteOutput{}, err
	}

	return nil, RunVoteOutput{
		Winner:     winner.Content,
		Confidence: winner.Confidence,
		Metrics:    metrics,
		BestEffort: !metrics.ConsensusAchieved,
	}, nil
}
