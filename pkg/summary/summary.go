// Package summary computes the headline numbers of a study run: shares of
// artifacts with violations, per-artifact violation percentages and their
// bands, release counts and method/violation trend points.
package summary

import (
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/semverpop/pkg/alg/stats"
	"github.com/Sumatoshi-tech/semverpop/pkg/model"
)

const percent = 100.0

// Share is a count and its percentage of a total.
type Share struct {
	Count   int     `json:"count"   yaml:"count"`
	Total   int     `json:"total"   yaml:"total"`
	Percent float64 `json:"percent" yaml:"percent"`
}

func newShare(count, total int) (Share, error) {
	if total == 0 {
		return Share{}, fmt.Errorf("%w: share of zero artifacts", model.ErrEmptyInput)
	}

	return Share{Count: count, Total: total, Percent: float64(count) / float64(total) * percent}, nil
}

// ShareWithViolations counts the artifacts with at least one violation.
func ShareWithViolations(arts []model.Artifact) (Share, error) {
	count := 0

	for _, art := range arts {
		if art.HasViolations() {
			count++
		}
	}

	return newShare(count, len(arts))
}

// ShareWithEither counts the coordinates with a violation on either side,
// as a share of the breaking-change collection.
func ShareWithEither(bc, aix []model.Artifact) (Share, error) {
	union := make(map[model.Coordinate]struct{})

	for _, side := range [][]model.Artifact{bc, aix} {
		for _, art := range side {
			if art.HasViolations() {
				union[art.Coordinate] = struct{}{}
			}
		}
	}

	return newShare(len(union), len(bc))
}

// ViolationPercentages returns violations/methods*100 for every artifact,
// sorted ascending.
func ViolationPercentages(arts []model.Artifact) ([]float64, error) {
	out := make([]float64, 0, len(arts))

	for _, art := range arts {
		if art.NumberMethods == 0 {
			return nil, fmt.Errorf("%w: %s has no methods", model.ErrEmptyInput, art.Coordinate)
		}

		out = append(out, float64(art.Violations)/float64(art.NumberMethods)*percent)
	}

	slices.Sort(out)

	return out, nil
}

// Ratios returns violations/methods for the artifacts whose ratio lies in
// the open interval (lo, hi), in input order.
func Ratios(arts []model.Artifact, lo, hi float64) ([]float64, error) {
	var out []float64

	for _, art := range arts {
		if art.NumberMethods == 0 {
			return nil, fmt.Errorf("%w: %s has no methods", model.ErrEmptyInput, art.Coordinate)
		}

		r := float64(art.Violations) / float64(art.NumberMethods)
		if r > lo && r < hi {
			out = append(out, r)
		}
	}

	return out, nil
}

// Band thresholds in percent.
const (
	bandLow   = 1.0
	bandTen   = 10.0
	bandMid   = 15.0
	bandMajor = 50.0
)

// Bands summarizes the non-zero violation percentages.
type Bands struct {
	NonZero      int     `json:"non_zero"       yaml:"non_zero"`
	BelowOne     int     `json:"below_one"      yaml:"below_one"`
	BelowFifteen int     `json:"below_fifteen"  yaml:"below_fifteen"`
	AtLeastTen   int     `json:"at_least_ten"   yaml:"at_least_ten"`
	AtLeastFifty int     `json:"at_least_fifty" yaml:"at_least_fifty"`
	MeanNonZero  float64 `json:"mean_non_zero"  yaml:"mean_non_zero"`
}

// Band classifies percentages; zeros are ignored. Fails when every
// percentage is zero.
func Band(percentages []float64) (Bands, error) {
	nonZero := stats.NonZero(percentages)
	if len(nonZero) == 0 {
		return Bands{}, fmt.Errorf("%w: no artifact has violations", model.ErrEmptyInput)
	}

	b := Bands{NonZero: len(nonZero), MeanNonZero: stats.Mean(nonZero)}

	for _, p := range nonZero {
		if p < bandLow {
			b.BelowOne++
		}

		if p < bandMid {
			b.BelowFifteen++
		}

		if p >= bandTen {
			b.AtLeastTen++
		}

		if p >= bandMajor {
			b.AtLeastFifty++
		}
	}

	return b, nil
}

// ArtifactsAbove counts the distinct coordinates whose violations exceed
// fraction of their method count.
func ArtifactsAbove(arts []model.Artifact, fraction float64) (Share, error) {
	above := make(map[model.Coordinate]struct{})

	for _, art := range arts {
		if float64(art.Violations) > float64(art.NumberMethods)*fraction {
			above[art.Coordinate] = struct{}{}
		}
	}

	return newShare(len(above), len(arts))
}

// Overlap counts artifacts with violations on each side and on either side.
type Overlap struct {
	Removals  int `json:"removals"  yaml:"removals"`
	Additions int `json:"additions" yaml:"additions"`
	Union     int `json:"union"     yaml:"union"`
}

// Intersect compares the coordinates with violations in removed and added.
func Intersect(removed, added []model.Artifact) Overlap {
	collect := func(arts []model.Artifact) map[model.Coordinate]struct{} {
		set := make(map[model.Coordinate]struct{})

		for _, art := range arts {
			if art.Violations != 0 {
				set[art.Coordinate] = struct{}{}
			}
		}

		return set
	}

	removals, additions := collect(removed), collect(added)
	union := len(removals)

	for c := range additions {
		if _, ok := removals[c]; !ok {
			union++
		}
	}

	return Overlap{Removals: len(removals), Additions: len(additions), Union: union}
}

// TrendPoint is one (methods, violations) observation with both positive.
type TrendPoint struct {
	Methods    float64
	Violations float64
}

// TrendPoints returns the artifacts with positive method and violation
// counts, in input order.
func TrendPoints(arts []model.Artifact) []TrendPoint {
	var out []TrendPoint

	for _, art := range arts {
		if art.NumberMethods > 0 && art.Violations > 0 {
			out = append(out, TrendPoint{Methods: float64(art.NumberMethods), Violations: float64(art.Violations)})
		}
	}

	return out
}
