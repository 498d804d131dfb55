// Package reliability derives voting parameters from a declared reliability
// target instead of hand-picked constants. Given a per-step success
// probability and a target end-to-end success probability, it computes the
// minimum first-to-ahead-by-k margin and an expected sampling cost.
package reliability

import (
	"errors"
	"fmt"
	"math"
)

// ErrInfeasible is returned when no finite margin can meet the target: with
// per-step success probability at or below one half, the majority is as
// likely to be wrong as right and voting cannot help.
var ErrInfeasible = errors.New("reliability: no finite margin for p <= 0.5")

// ErrBadParam marks an out-of-range model input.
var ErrBadParam = errors.New("reliability: invalid parameter")

// EstimateKMin computes the minimum vote margin k such that running the
// first-to-ahead-by-k protocol independently for each of steps steps yields
// aggregate success probability of at least target.
//
//	k_min = ceil( ln(target^(-1/steps) - 1) / ln((1-p)/p) )
//
// The result is floored at 1. Valid only in the majority-correct regime
// p > 0.5; otherwise ErrInfeasible.
func EstimateKMin(p float64, steps int, target float64) (int, error) {
	if err := validate(p, steps); err != nil {
		return 0, err
	}
	if target <= 0 || target >= 1 {
		return 0, fmt.Errorf("%w: target probability must be in (0,1), got %v", ErrBadParam, target)
	}
	if p <= 0.5 {
		return 0, fmt.Errorf("%w (p=%v)", ErrInfeasible, p)
	}

	num := math.Log(math.Pow(target, -1/float64(steps)) - 1)
	den := math.Log((1 - p) / p)
	k := int(math.Ceil(num / den))
	if k < 1 {
		k = 1
	}
	return k, nil
}

// ExpectedSamplesPerStep approximates how many draws one step needs before
// the margin-k race terminates. The leader's expected lead grows by 2p-1
// per valid draw, so reaching a lead of k takes about k/(2p-1) draws. This
// is an order-of-magnitude estimate, not a closed-form exact value.
func ExpectedSamplesPerStep(p float64, k int) (float64, error) {
	if p <= 0.5 || p >= 1 {
		return 0, fmt.Errorf("%w: p must be in (0.5,1), got %v", ErrBadParam, p)
	}
	if k < 1 {
		return 0, fmt.Errorf("%w: margin k must be positive, got %d", ErrBadParam, k)
	}
	return float64(k) / (2*p - 1), nil
}

// EstimateCost estimates the total sampling cost of a steps-step task voted
// with margin k at costPerSample per draw.
func EstimateCost(p float64, steps int, costPerSample float64, k int) (float64, error) {
	if err := validate(p, steps); err != nil {
		return 0, err
	}
	if costPerSample < 0 {
		return 0, fmt.Errorf("%w: cost per sample must be non-negative, got %v", ErrBadParam, costPerSample)
	}
	perStep, err := ExpectedSamplesPerStep(p, k)
	if err != nil {
		return 0, err
	}
	return float64(steps) * perStep * costPerSample, nil
}

func validate(p float64, steps int) error {
	if p <= 0 || p >= 1 {
		return fmt.Errorf("%w: per-step probability must be in (0,1), got %v", ErrBadParam, p)
	}
	if steps <= 0 {
		return fmt.Errorf("%w: step count must be positive, got %d", ErrBadParam, steps)
	}
	return nil
}
