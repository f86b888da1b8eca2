package popularity

import (
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/semverpop/pkg/alg/mapx"
	"github.com/Sumatoshi-tech/semverpop/pkg/alg/stats"
	"github.com/Sumatoshi-tech/semverpop/pkg/corpus"
	"github.com/Sumatoshi-tech/semverpop/pkg/model"
)

// DefaultDensityPoints is the grid size of the density curves.
const DefaultDensityPoints = 200

// Comparison contrasts the metric values of callables involved in breaking
// changes with those of every other callable.
type Comparison struct {
	// Breaking and Others hold the non-zero values.
	Breaking      []float64
	Others        []float64
	BreakingZeros int
	OthersZeros   int
	// Tests run Others against Breaking for every alternative.
	Tests           []stats.TTestResult
	BreakingDensity stats.Density
	OthersDensity   stats.Density
}

// Compare splits the samples into callables named by the breaking changes in
// bc and the rest. A non-empty universe restricts the rest to its ids.
// Samples marked "na" are ignored. A breaking callable counts once per
// occurrence in bc.
func Compare(bc []model.Artifact, samples map[string]corpus.Sample, universe []string, densityPoints int) (Comparison, error) {
	breakingIDs := make(map[string]struct{})

	var breaking []float64

	for _, art := range bc {
		for _, desc := range art.Callables {
			id := model.CallableID(desc)
			breakingIDs[id] = struct{}{}

			if smp, ok := samples[id]; ok && smp.Available {
				breaking = append(breaking, smp.Value)
			}
		}
	}

	var allowed map[string]struct{}
	if len(universe) > 0 {
		allowed = mapx.Set(universe)
	}

	var others []float64

	for id, smp := range samples {
		if _, isBreaking := breakingIDs[id]; isBreaking || !smp.Available {
			continue
		}

		if allowed != nil {
			if _, ok := allowed[id]; !ok {
				continue
			}
		}

		others = append(others, smp.Value)
	}

	slices.Sort(others)

	cmp := Comparison{
		Breaking: positive(breaking),
		Others:   positive(others),
	}
	cmp.BreakingZeros = len(breaking) - len(cmp.Breaking)
	cmp.OthersZeros = len(others) - len(cmp.Others)

	if len(cmp.Breaking) == 0 || len(cmp.Others) == 0 {
		return cmp, fmt.Errorf("%w: %d breaking and %d other non-zero samples",
			model.ErrEmptyInput, len(cmp.Breaking), len(cmp.Others))
	}

	for _, alt := range []stats.Alternative{stats.Greater, stats.Less, stats.TwoSided} {
		res, err := stats.TTestInd(cmp.Others, cmp.Breaking, alt)
		if err != nil {
			return cmp, fmt.Errorf("t-test %s: %w", alt, err)
		}

		cmp.Tests = append(cmp.Tests, res)
	}

	var err error

	if cmp.BreakingDensity, err = stats.GaussianKDE(cmp.Breaking, densityPoints); err != nil {
		return cmp, fmt.Errorf("breaking density: %w", err)
	}

	if cmp.OthersDensity, err = stats.GaussianKDE(cmp.Others, densityPoints); err != nil {
		return cmp, fmt.Errorf("other density: %w", err)
	}

	return cmp, nil
}

func positive(values []float64) []float64 {
	out := make([]float64, 0, len(values))

	for _, v := range values {
		if v > 0 {
			out = append(out, v)
		}
	}

	return out
}
