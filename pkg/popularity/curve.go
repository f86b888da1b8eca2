package popularity

import (
	"fmt"

	"github.com/Sumatoshi-tech/semverpop/pkg/alg/stats"
	"github.com/Sumatoshi-tech/semverpop/pkg/model"
)

// CurveConfig tunes MethodCurve.
type CurveConfig struct {
	// Bins is the number of contiguous bins every group is split into.
	Bins int
	// MinSamples drops groups with fewer non-zero values.
	MinSamples int
	// Degree of the fitted polynomial.
	Degree int
	// Points sampled along the fitted curve.
	Points int
	// Span is the x range [0, Span] the bins are mapped onto.
	Span    float64
	Epsilon float64
}

// Defaults for CurveConfig.
const (
	DefaultBins       = 1000
	DefaultMinSamples = 10
	DefaultDegree     = 3
	DefaultPoints     = 100
	DefaultSpan       = 5.0
)

// DefaultCurveConfig returns the settings used for method popularity curves.
func DefaultCurveConfig() CurveConfig {
	return CurveConfig{
		Bins:       DefaultBins,
		MinSamples: DefaultMinSamples,
		Degree:     DefaultDegree,
		Points:     DefaultPoints,
		Span:       DefaultSpan,
		Epsilon:    DefaultEpsilon,
	}
}

// Curve is a binned popularity profile with its polynomial fit.
type Curve struct {
	BinX      []float64
	BinY      []float64
	FitX      []float64
	FitY      []float64
	Coef      []float64
	Groups    int
	Cutoff    Cutoff
	HasCutoff bool
}

// MethodCurve bins every group of metric values by position, averages each
// bin across groups, fits a polynomial over the bin means and locates the
// balance point of the fitted curve. Zeros are dropped before binning.
func MethodCurve(groups [][]float64, cfg CurveConfig) (Curve, error) {
	if cfg.Bins < 2 || cfg.Points < 2 {
		return Curve{}, fmt.Errorf("%w: need at least two bins and points", model.ErrEmptyInput)
	}

	bins := make([][]float64, cfg.Bins)
	used := 0

	for _, g := range groups {
		values := stats.NonZero(g)
		if len(values) < cfg.MinSamples {
			continue
		}

		used++

		for i, part := range stats.Split(values, cfg.Bins) {
			bins[i] = append(bins[i], part...)
		}
	}

	if used == 0 {
		return Curve{}, fmt.Errorf("%w: no group has %d non-zero values", model.ErrEmptyInput, cfg.MinSamples)
	}

	step := cfg.Span / float64(cfg.Bins-1)
	c := Curve{Groups: used}

	for i, b := range bins {
		if len(b) == 0 {
			continue
		}

		c.BinX = append(c.BinX, float64(i)*step)
		c.BinY = append(c.BinY, stats.Mean(b))
	}

	coef, err := stats.PolyFit(c.BinX, c.BinY, cfg.Degree)
	if err != nil {
		return Curve{}, fmt.Errorf("fit method curve: %w", err)
	}

	c.Coef = coef
	c.FitX = stats.Linspace(stats.Min(c.BinX), stats.Max(c.BinX), cfg.Points)
	c.FitY = stats.PolyEvalAll(coef, c.FitX)

	c.Cutoff, c.HasCutoff, err = BalancePoint(c.FitX, c.FitY, cfg.Epsilon)
	if err != nil {
		return Curve{}, err
	}

	return c, nil
}
