// Package popularity relates violations to popularity metrics: the balance
// point of a fitted popularity curve, the comparison of callables involved in
// breaking changes against the rest, and the share of violating packages per
// popularity window.
package popularity

import (
	"fmt"
	"math"

	"github.com/Sumatoshi-tech/semverpop/pkg/alg/stats"
	"github.com/Sumatoshi-tech/semverpop/pkg/model"
)

// DefaultEpsilon is the tolerance on |left - right| area.
const DefaultEpsilon = 0.01

// Cutoff is the balance point of a sampled curve.
type Cutoff struct {
	Index     int     `json:"index"      yaml:"index"`
	X         float64 `json:"x"          yaml:"x"`
	Y         float64 `json:"y"          yaml:"y"`
	TotalArea float64 `json:"total_area" yaml:"total_area"`
	LeftArea  float64 `json:"left_area"  yaml:"left_area"`
	RightArea float64 `json:"right_area" yaml:"right_area"`
	// Fraction locates X within the sampled x range, in [0, 1].
	Fraction float64 `json:"fraction" yaml:"fraction"`
}

// BalancePoint returns the smallest index i in [1, n-1] where the trapezoid
// area over samples [0, i] and over samples [i, n-1] differ by less than eps.
// The boolean is false when no index qualifies.
func BalancePoint(xs, ys []float64, eps float64) (Cutoff, bool, error) {
	n := len(xs)
	if n != len(ys) {
		return Cutoff{}, false, fmt.Errorf("%w: %d x values, %d y values", model.ErrEmptyInput, n, len(ys))
	}

	if n < 2 {
		return Cutoff{}, false, fmt.Errorf("%w: %d samples", model.ErrEmptyInput, n)
	}

	total := stats.Trapezoid(xs, ys)
	span := xs[n-1] - xs[0]

	for i := 1; i < n; i++ {
		left := stats.Trapezoid(xs[:i+1], ys[:i+1])
		right := stats.Trapezoid(xs[i:], ys[i:])

		if math.Abs(left-right) >= eps {
			continue
		}

		c := Cutoff{
			Index:     i,
			X:         xs[i],
			Y:         ys[i],
			TotalArea: total,
			LeftArea:  left,
			RightArea: right,
		}

		if span != 0 {
			c.Fraction = (xs[i] - xs[0]) / span
		}

		return c, true, nil
	}

	return Cutoff{TotalArea: total}, false, nil
}
