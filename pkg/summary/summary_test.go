package summary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/semverpop/pkg/model"
	"github.com/Sumatoshi-tech/semverpop/pkg/summary"
)

var (
	coordA = model.Coordinate{GroupID: "org.a", ArtifactID: "alpha"}
	coordB = model.Coordinate{GroupID: "org.b", ArtifactID: "beta"}
	coordC = model.Coordinate{GroupID: "org.c", ArtifactID: "gamma"}
	coordD = model.Coordinate{GroupID: "org.d", ArtifactID: "delta"}
)

func art(c model.Coordinate, violations, methods int, callables ...string) model.Artifact {
	return model.Artifact{Coordinate: c, Violations: violations, NumberMethods: methods, Callables: callables}
}

func TestShareWithViolations(t *testing.T) {
	t.Parallel()

	got, err := summary.ShareWithViolations([]model.Artifact{
		art(coordA, 2, 10), art(coordB, 0, 10), art(coordC, 1, 3), art(coordD, 0, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, summary.Share{Count: 2, Total: 4, Percent: 50}, got)

	_, err = summary.ShareWithViolations(nil)
	require.ErrorIs(t, err, model.ErrEmptyInput)
}

func TestShareWithEither(t *testing.T) {
	t.Parallel()

	bc := []model.Artifact{art(coordA, 2, 10), art(coordB, 0, 10), art(coordC, 0, 3), art(coordD, 0, 1)}
	aix := []model.Artifact{art(coordA, 1, 10), art(coordB, 3, 10), art(coordC, 0, 3), art(coordD, 0, 1)}

	got, err := summary.ShareWithEither(bc, aix)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count)
	assert.InDelta(t, 50.0, got.Percent, 1e-9)
}

func TestViolationPercentages(t *testing.T) {
	t.Parallel()

	got, err := summary.ViolationPercentages([]model.Artifact{art(coordA, 5, 10), art(coordB, 0, 4), art(coordC, 1, 4)})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 25, 50}, got)

	_, err = summary.ViolationPercentages([]model.Artifact{art(coordA, 1, 0)})
	require.ErrorIs(t, err, model.ErrEmptyInput)
}

func TestRatios(t *testing.T) {
	t.Parallel()

	got, err := summary.Ratios([]model.Artifact{art(coordA, 5, 10), art(coordB, 0, 4), art(coordC, 1, 4)}, 0, 0.6)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.25}, got)
}

func TestBand(t *testing.T) {
	t.Parallel()

	got, err := summary.Band([]float64{0, 0, 0.5, 3, 12, 60})
	require.NoError(t, err)

	assert.Equal(t, 4, got.NonZero)
	assert.Equal(t, 1, got.BelowOne)
	assert.Equal(t, 3, got.BelowFifteen)
	assert.Equal(t, 2, got.AtLeastTen)
	assert.Equal(t, 1, got.AtLeastFifty)
	assert.InDelta(t, 18.875, got.MeanNonZero, 1e-9)

	_, err = summary.Band([]float64{0, 0})
	require.ErrorIs(t, err, model.ErrEmptyInput)
}

func TestArtifactsAbove(t *testing.T) {
	t.Parallel()

	got, err := summary.ArtifactsAbove([]model.Artifact{art(coordA, 2, 100), art(coordB, 1, 100), art(coordC, 0, 0)}, 0.01)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count)
}

func TestIntersect(t *testing.T) {
	t.Parallel()

	got := summary.Intersect(
		[]model.Artifact{art(coordA, 1, 1), art(coordB, 1, 1), art(coordC, 0, 1)},
		[]model.Artifact{art(coordB, 2, 1), art(coordC, 1, 1), art(coordD, 0, 1)},
	)

	assert.Equal(t, summary.Overlap{Removals: 2, Additions: 2, Union: 3}, got)
}

func TestTrendPoints(t *testing.T) {
	t.Parallel()

	got := summary.TrendPoints([]model.Artifact{art(coordA, 1, 10), art(coordB, 0, 10), art(coordC, 3, 0)})
	assert.Equal(t, []summary.TrendPoint{{Methods: 10, Violations: 1}}, got)
}
