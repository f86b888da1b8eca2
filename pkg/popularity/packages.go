package popularity

import (
	"fmt"

	"github.com/Sumatoshi-tech/semverpop/pkg/alg/stats"
	"github.com/Sumatoshi-tech/semverpop/pkg/model"
)

// Package analysis defaults.
const (
	DefaultWindows   = 130
	DefaultWindowFit = 2
)

// PackagePopularity returns, per coordinate, its distinct dependents as a
// share of all distinct dependents across coordinates.
func PackagePopularity(dependents map[model.Coordinate][]string) (map[model.Coordinate]float64, error) {
	all := make(map[string]struct{})
	distinct := make(map[model.Coordinate]int, len(dependents))

	for c, deps := range dependents {
		own := make(map[string]struct{}, len(deps))

		for _, d := range deps {
			own[d] = struct{}{}
			all[d] = struct{}{}
		}

		distinct[c] = len(own)
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("%w: no dependents", model.ErrEmptyInput)
	}

	out := make(map[model.Coordinate]float64, len(distinct))

	for c, n := range distinct {
		out[c] = float64(n) / float64(len(all))
	}

	return out, nil
}

// Window is the share of violating packages among packages whose
// popularity falls in [Lo, Hi).
type Window struct {
	Lo        float64 `json:"lo"        yaml:"lo"`
	Hi        float64 `json:"hi"        yaml:"hi"`
	All       int     `json:"all"       yaml:"all"`
	Violating int     `json:"violating" yaml:"violating"`
	Ratio     float64 `json:"ratio"     yaml:"ratio"`
}

// WindowRatios splits [0, max(all)] into n windows and reports the ratio of
// violating to all popularity values per window. The last window includes
// its upper bound. Windows without violating values, or holding exactly one
// package, are left out.
func WindowRatios(all, violating []float64, n int) ([]Window, error) {
	top := stats.Max(all)
	if len(all) == 0 || n <= 0 || top <= 0 {
		return nil, fmt.Errorf("%w: no positive popularity", model.ErrEmptyInput)
	}

	width := top / float64(n)

	var out []Window

	for i := range n {
		w := Window{Lo: float64(i) * width, Hi: float64(i+1) * width}
		last := i == n-1

		if last {
			w.Hi = top
		}

		w.All = countIn(all, w.Lo, w.Hi, last)
		w.Violating = countIn(violating, w.Lo, w.Hi, last)

		if w.Violating == 0 || w.All == 1 {
			continue
		}

		if w.All != 0 {
			w.Ratio = float64(w.Violating) / float64(w.All)
		}

		out = append(out, w)
	}

	return out, nil
}

func countIn(values []float64, lo, hi float64, closed bool) int {
	count := 0

	for _, v := range values {
		if v >= lo && (v < hi || (closed && v == hi)) {
			count++
		}
	}

	return count
}

// PackageReport relates package popularity to violations.
type PackageReport struct {
	All       []float64
	Violating []float64
	Windows   []Window
	// Coef fits Ratio over window Lo, lowest order first.
	Coef []float64
}

// Packages collects the popularity of every artifact, and of those with
// violations, then fits the per-window violating ratio. Artifacts without a
// popularity value count as zero.
func Packages(arts []model.Artifact, pop map[model.Coordinate]float64, windows, degree int) (PackageReport, error) {
	var rep PackageReport

	for _, art := range arts {
		v := pop[art.Coordinate]
		rep.All = append(rep.All, v)

		if art.HasViolations() {
			rep.Violating = append(rep.Violating, v)
		}
	}

	var err error

	if rep.Windows, err = WindowRatios(rep.All, rep.Violating, windows); err != nil {
		return rep, err
	}

	xs := make([]float64, len(rep.Windows))
	ys := make([]float64, len(rep.Windows))

	for i, w := range rep.Windows {
		xs[i], ys[i] = w.Lo, w.Ratio
	}

	if rep.Coef, err = stats.PolyFit(xs, ys, degree); err != nil {
		return rep, fmt.Errorf("fit window ratios: %w", err)
	}

	return rep, nil
}
