package popularity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/semverpop/pkg/model"
	"github.com/Sumatoshi-tech/semverpop/pkg/popularity"
)

func TestMethodCurve_LinearProfile(t *testing.T) {
	t.Parallel()

	cfg := popularity.CurveConfig{Bins: 4, MinSamples: 2, Degree: 1, Points: 5, Span: 3, Epsilon: popularity.DefaultEpsilon}
	groups := [][]float64{
		{0, 1, 2, 3, 4},
		{1, 2, 3, 4},
		{5},
	}

	got, err := popularity.MethodCurve(groups, cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, got.Groups)
	assert.Equal(t, []float64{0, 1, 2, 3}, got.BinX)
	assert.Equal(t, []float64{1, 2, 3, 4}, got.BinY)
	require.Len(t, got.Coef, 2)
	assert.InDelta(t, 1.0, got.Coef[0], 1e-9)
	assert.InDelta(t, 1.0, got.Coef[1], 1e-9)
	require.Len(t, got.FitX, 5)
	assert.InDelta(t, 2.5, got.FitY[2], 1e-9)
	assert.False(t, got.HasCutoff)
}

func TestMethodCurve_SymmetricProfile(t *testing.T) {
	t.Parallel()

	cfg := popularity.CurveConfig{Bins: 5, MinSamples: 5, Degree: 2, Points: 5, Span: 4, Epsilon: popularity.DefaultEpsilon}
	groups := [][]float64{
		{1, 3, 4, 3, 1},
		{1, 3, 4, 3, 1},
	}

	got, err := popularity.MethodCurve(groups, cfg)
	require.NoError(t, err)
	require.True(t, got.HasCutoff)

	assert.Equal(t, 2, got.Cutoff.Index)
	assert.InDelta(t, 2.0, got.Cutoff.X, 1e-9)
}

func TestMethodCurve_SkipsEmptyBins(t *testing.T) {
	t.Parallel()

	cfg := popularity.CurveConfig{Bins: 6, MinSamples: 1, Degree: 1, Points: 3, Span: 5, Epsilon: popularity.DefaultEpsilon}

	got, err := popularity.MethodCurve([][]float64{{2, 4}}, cfg)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 1}, got.BinX)
	assert.Equal(t, []float64{2, 4}, got.BinY)
}

func TestMethodCurve_NoQualifyingGroup(t *testing.T) {
	t.Parallel()

	_, err := popularity.MethodCurve([][]float64{{0, 0, 1}}, popularity.DefaultCurveConfig())
	require.ErrorIs(t, err, model.ErrEmptyInput)
}

func TestDefaultCurveConfig(t *testing.T) {
	t.Parallel()

	cfg := popularity.DefaultCurveConfig()
	assert.Equal(t, 1000, cfg.Bins)
	assert.Equal(t, 10, cfg.MinSamples)
	assert.Equal(t, 3, cfg.Degree)
	assert.Equal(t, 100, cfg.Points)
	assert.InDelta(t, 5.0, cfg.Span, 0)
	assert.InDelta(t, 0.01, cfg.Epsilon, 0)
}
