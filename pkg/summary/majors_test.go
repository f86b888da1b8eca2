package summary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/semverpop/pkg/model"
	"github.com/Sumatoshi-tech/semverpop/pkg/summary"
)

func major(c model.Coordinate, version, violations, methods int) model.Major {
	return model.Major{Coordinate: c, MajorVersion: version, Violations: violations, NumberMethods: methods}
}

func TestAverageViolationRatio(t *testing.T) {
	t.Parallel()

	majors := []model.Major{
		major(coordA, 1, 2, 10),
		major(coordA, 2, 2, 30),
		major(coordB, 1, 0, 50),
		major(coordC, 1, 1, 10),
	}

	got, err := summary.AverageViolationRatio(majors)
	require.NoError(t, err)
	// alpha: 4 / 20 = 0.2; gamma: 1 / 10 = 0.1.
	assert.InDelta(t, 15.0, got, 1e-9)

	_, err = summary.AverageViolationRatio([]model.Major{major(coordB, 1, 0, 5)})
	require.ErrorIs(t, err, model.ErrEmptyInput)
}

func TestMixedMajors(t *testing.T) {
	t.Parallel()

	got := summary.MixedMajors([]model.Major{
		major(coordA, 1, 0, 1),
		major(coordB, 1, 3, 1),
		major(coordA, 2, 1, 1),
		major(coordB, 2, 1, 1),
		major(coordC, 1, 0, 1),
	})

	assert.Equal(t, []model.Coordinate{coordA}, got)
}

func TestViolatingReleases(t *testing.T) {
	t.Parallel()

	got, err := summary.ViolatingReleases([]model.Artifact{
		art(coordA, 3, 10, "x/1.1.0//a.B.c()V", "y/1.1.0//a.B.d()V", "z/1.2.0//a.B.e()V"),
		art(coordB, 1, 10, "x/1.1.0//a.B.c()V"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	_, err = summary.ViolatingReleases([]model.Artifact{art(coordA, 1, 1, "broken")})
	require.ErrorIs(t, err, model.ErrMalformedCallable)
}

func TestReleaseCount(t *testing.T) {
	t.Parallel()

	arts := []model.Artifact{art(coordA, 0, 1)}
	releases := []model.Release{
		{Coordinate: coordA, Version: "1.0.0"},
		{Coordinate: coordA, Version: "1.1.0"},
		{Coordinate: coordA, Version: "1.1.1"},
		{Coordinate: coordA, Version: "2.0"},
		{Coordinate: coordB, Version: "1.0.1"},
	}

	assert.Equal(t, 3, summary.ReleaseCount(arts, releases, summary.BreakingSide))
	assert.Equal(t, 2, summary.ReleaseCount(arts, releases, summary.ExtensionSide))
}

func TestReleaseShare(t *testing.T) {
	t.Parallel()

	arts := []model.Artifact{art(coordA, 1, 10, "x/1.1.1//a.B.c()V")}
	releases := []model.Release{
		{Coordinate: coordA, Version: "1.0.0"},
		{Coordinate: coordA, Version: "1.1.0"},
		{Coordinate: coordA, Version: "1.1.1"},
	}

	got, err := summary.ReleaseShare(arts, releases, summary.BreakingSide)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, got.Percent, 1e-9)

	_, err = summary.ReleaseShare(arts, nil, summary.BreakingSide)
	require.ErrorIs(t, err, model.ErrEmptyInput)
}
