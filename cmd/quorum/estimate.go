package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/inkstone-ai/quorum/internal/reliability"
)

func runEstimate(args []string) error {
	fs := flag.NewFlagSet("estimate", flag.ContinueOnError)
	p := fs.Float64("p", 0.9, "per-step sample success probability")
	steps := fs.Int("steps", 1, "number of task steps")
	target := fs.Float64("target", 0.95, "target end-to-end success probability")
	cost := fs.Float64("cost", 0.002, "cost per generator draw, in dollars")
	if err := fs.Parse(args); err != nil {
		return err
	}

	k, err := reliability.EstimateKMin(*p, *steps, *target)
	if errors.Is(err, reliability.ErrInfeasible) {
		fmt.Printf("infeasible: per-step probability %.3f is not above 0.5; no finite margin meets the target\n", *p)
		return nil
	}
	if err != nil {
		return err
	}

	perStep, err := reliability.ExpectedSamplesPerStep(*p, k)
	if err != nil {
		return err
	}
	total, err := reliability.EstimateCost(*p, *steps, *cost, k)
	if err != nil {
		return err
	}

	fmt.Printf("margin k:            %d\n", k)
	fmt.Printf("samples per step:    ~%.1f\n", perStep)
	fmt.Printf("total expected cost: $%.4f (%d steps at $%.4f/draw)\n", total, *steps, *cost)
	return nil
}
