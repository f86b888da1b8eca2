package popularity

import (
	"fmt"

	"github.com/Sumatoshi-tech/semverpop/pkg/alg/stats"
	"github.com/Sumatoshi-tech/semverpop/pkg/model"
)

// Spread summarizes one measurement across groups.
type Spread struct {
	Mean   float64 `json:"mean"   yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	Min    float64 `json:"min"    yaml:"min"`
	Max    float64 `json:"max"    yaml:"max"`
}

func spreadOf(values []float64) Spread {
	return Spread{
		Mean:   stats.Mean(values),
		Median: stats.Median(values),
		Min:    stats.Min(values),
		Max:    stats.Max(values),
	}
}

// Usage describes how many public methods of each package are never used.
type Usage struct {
	Methods Spread `json:"methods" yaml:"methods"`
	Unused  Spread `json:"unused"  yaml:"unused"`
	Ratio   Spread `json:"ratio"   yaml:"ratio"`
	// FewUnused counts packages with fewer than ten unused methods.
	FewUnused int `json:"few_unused" yaml:"few_unused"`
}

const fewUnusedThreshold = 10

// ZeroUsage summarizes the zero values of each group. Empty groups are
// ignored.
func ZeroUsage(groups [][]float64) (Usage, error) {
	var lens, zeros, ratios []float64

	u := Usage{}

	for _, g := range groups {
		if len(g) == 0 {
			continue
		}

		z := len(g) - len(stats.NonZero(g))
		lens = append(lens, float64(len(g)))
		zeros = append(zeros, float64(z))
		ratios = append(ratios, float64(z)/float64(len(g)))

		if z < fewUnusedThreshold {
			u.FewUnused++
		}
	}

	if len(lens) == 0 {
		return Usage{}, fmt.Errorf("%w: no usage data", model.ErrEmptyInput)
	}

	u.Methods = spreadOf(lens)
	u.Unused = spreadOf(zeros)
	u.Ratio = spreadOf(ratios)

	return u, nil
}
