package sales

import (
	"fmt"
	"math"
)

// Pattern shapes how a cost is spread over months
type Pattern string

const (
	PatternLinear      Pattern = "linear"
	PatternFrontloaded Pattern = "frontloaded"
	PatternBackloaded  Pattern = "backloaded"
	PatternBell        Pattern = "bell"
)

// DistributeCosts spreads total over months following the pattern.
// The last month absorbs float residue so the curve sums exactly to total.
func DistributeCosts(total float64, months int, pattern Pattern) ([]float64, error) {
	if months <= 0 {
		return []float64{}, nil
	}

	weights, err := patternWeights(months, pattern)
	if err != nil {
		return nil, err
	}

	sum := 0.0
	for _, w := range weights {
		sum += w
	}

	curve := make([]float64, months)
	allocated := 0.0
	for i := 0; i < months-1; i++ {
		curve[i] = total * weights[i] / sum
		allocated += curve[i]
	}
	curve[months-1] = total - allocated

	return curve, nil
}

func patternWeights(months int, pattern Pattern) ([]float64, error) {
	weights := make([]float64, months)
	n := float64(months)

	switch pattern {
	case PatternLinear:
		for i := range weights {
			weights[i] = 1
		}
	case PatternFrontloaded:
		for i := range weights {
			weights[i] = n - float64(i)
		}
	case PatternBackloaded:
		for i := range weights {
			weights[i] = float64(i) + 1
		}
	case PatternBell:
		// Gaussian centred mid-schedule, sigma = a quarter of the duration
		mid := (n - 1) / 2
		sigma := math.Max(n/4, 0.5)
		for i := range weights {
			d := float64(i) - mid
			weights[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		}
	default:
		return nil, fmt.Errorf("unknown distribution pattern %q", pattern)
	}

	return weights, nil
}
