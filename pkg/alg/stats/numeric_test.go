package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrapezoid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		xs, ys   []float64
		expected float64
	}{
		{name: "empty", xs: nil, ys: nil, expected: 0},
		{name: "single_point", xs: []float64{1}, ys: []float64{3}, expected: 0},
		{name: "triangle", xs: []float64{0, 1, 2, 3, 4}, ys: []float64{0, 1, 2, 1, 0}, expected: 4},
		{name: "uneven_spacing", xs: []float64{0, 1, 3}, ys: []float64{2, 2, 2}, expected: 6},
		{name: "negative_area", xs: []float64{0, 2}, ys: []float64{-1, -1}, expected: -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.InDelta(t, tt.expected, Trapezoid(tt.xs, tt.ys), 1e-9)
		})
	}
}

func TestLinspace(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Linspace(0, 1, 0))
	assert.Equal(t, []float64{2}, Linspace(2, 5, 1))

	got := Linspace(0, 5, 11)
	require.Len(t, got, 11)
	assert.InDelta(t, 0.5, got[1], 1e-12)
	assert.InDelta(t, 5.0, got[10], 0)
}

func TestPolyFit_RecoversCubic(t *testing.T) {
	t.Parallel()

	want := []float64{1, -2, 0.5, 0.25}
	xs := Linspace(0, 5, 40)
	ys := PolyEvalAll(want, xs)

	got, err := PolyFit(xs, ys, 3)
	require.NoError(t, err)
	require.Len(t, got, 4)

	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-6)
	}
}

func TestPolyFit_LeastSquaresLine(t *testing.T) {
	t.Parallel()

	got, err := PolyFit([]float64{0, 1, 2, 3}, []float64{1, 3, 2, 4}, 1)
	require.NoError(t, err)

	assert.InDelta(t, 1.3, got[0], 1e-9)
	assert.InDelta(t, 0.8, got[1], 1e-9)
}

func TestPolyFit_Errors(t *testing.T) {
	t.Parallel()

	_, err := PolyFit([]float64{1, 2}, []float64{1}, 1)
	require.ErrorIs(t, err, ErrLengthMismatch)

	_, err = PolyFit([]float64{1, 2}, []float64{1, 2}, 2)
	require.ErrorIs(t, err, ErrTooFewSamples)

	_, err = PolyFit([]float64{1, 1, 1}, []float64{1, 2, 3}, 1)
	require.ErrorIs(t, err, ErrSingular)
}

func TestPolyEval(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0, PolyEval(nil, 3), 0)
	assert.InDelta(t, 1+2*3+3*9, PolyEval([]float64{1, 2, 3}, 3), 1e-12)
}

func TestScottBandwidth(t *testing.T) {
	t.Parallel()

	got := ScottBandwidth([]float64{-1, 0, 1})
	assert.InDelta(t, math.Pow(3, -0.2), got, 1e-12)
}

func TestGaussianKDE(t *testing.T) {
	t.Parallel()

	samples := []float64{-2, -1, -1, 0, 0, 0, 1, 1, 2}

	got, err := GaussianKDE(samples, 41)
	require.NoError(t, err)
	require.Len(t, got.X, 41)
	require.Len(t, got.Y, 41)

	assert.InDelta(t, -2, got.X[0], 1e-12)
	assert.InDelta(t, 2, got.X[40], 1e-12)

	for i := range 20 {
		assert.InDelta(t, got.Y[i], got.Y[40-i], 1e-12, "symmetric samples give a symmetric curve")
	}

	assert.Equal(t, got.Y[20], Max(got.Y))
	assert.Less(t, Trapezoid(got.X, got.Y), 1.0)
	assert.Greater(t, Trapezoid(got.X, got.Y), 0.7)
}

func TestGaussianKDE_Errors(t *testing.T) {
	t.Parallel()

	_, err := GaussianKDE([]float64{1}, 10)
	require.ErrorIs(t, err, ErrTooFewSamples)

	_, err = GaussianKDE([]float64{3, 3, 3}, 10)
	require.ErrorIs(t, err, ErrDegenerate)
}

func TestTTestInd(t *testing.T) {
	t.Parallel()

	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 3, 4, 5, 6}

	tests := []struct {
		name string
		alt  Alternative
		p    float64
	}{
		{name: "two_sided", alt: TwoSided, p: 0.34659},
		{name: "less", alt: Less, p: 0.17330},
		{name: "greater", alt: Greater, p: 0.82670},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := TTestInd(a, b, tt.alt)
			require.NoError(t, err)

			assert.InDelta(t, -1.0, got.Statistic, 1e-9)
			assert.InDelta(t, 8.0, got.DF, 0)
			assert.InDelta(t, tt.p, got.PValue, 1e-3)
			assert.Equal(t, tt.alt, got.Alternative)
		})
	}
}

func TestTTestInd_Errors(t *testing.T) {
	t.Parallel()

	_, err := TTestInd([]float64{1}, []float64{1, 2}, TwoSided)
	require.ErrorIs(t, err, ErrTooFewSamples)

	_, err = TTestInd([]float64{1, 1}, []float64{1, 1}, TwoSided)
	require.ErrorIs(t, err, ErrDegenerate)

	_, err = TTestInd([]float64{1, 2}, []float64{1, 3}, Alternative(9))
	require.ErrorIs(t, err, ErrUnknownAlternative)
}

func TestRegIncBeta(t *testing.T) {
	t.Parallel()

	for _, x := range []float64{0.1, 0.3, 0.5, 0.9} {
		assert.InDelta(t, x, regIncBeta(1, 1, x), 1e-10)
		assert.InDelta(t, x*x*x, regIncBeta(3, 1, x), 1e-10)
		assert.InDelta(t, 1-math.Pow(1-x, 2), regIncBeta(1, 2, x), 1e-10)
	}

	assert.Zero(t, regIncBeta(2, 2, 0))
	assert.InDelta(t, 1.0, regIncBeta(2, 2, 1), 0)
}

func TestSplit(t *testing.T) {
	t.Parallel()

	parts := Split([]float64{1, 2, 3, 4, 5, 6, 7}, 3)
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5}, {6, 7}}, parts)

	sparse := Split([]float64{1, 2}, 4)
	require.Len(t, sparse, 4)
	assert.Equal(t, []float64{1}, sparse[0])
	assert.Equal(t, []float64{2}, sparse[1])
	assert.Empty(t, sparse[2])
	assert.Empty(t, sparse[3])

	assert.Nil(t, Split([]float64{1}, 0))
}

func TestHistogram(t *testing.T) {
	t.Parallel()

	got := Histogram([]float64{0, 0.5, 1, 9.9, 10, 11, -1}, 10, 0, 10)
	assert.Equal(t, []int{2, 1, 0, 0, 0, 0, 0, 0, 0, 2}, got)

	assert.Equal(t, []int{0, 0}, Histogram([]float64{1}, 2, 5, 5))
	assert.Nil(t, Histogram(nil, 0, 0, 1))
}
