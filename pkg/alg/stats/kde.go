package stats

import (
	"fmt"
	"math"
)

// scottExponent is the Scott's rule exponent for one dimension.
const scottExponent = -1.0 / 5

// ScottBandwidth returns the Gaussian kernel width for samples under Scott's
// rule: n^(-1/5) times the sample standard deviation.
func ScottBandwidth(samples []float64) float64 {
	return math.Pow(float64(len(samples)), scottExponent) * SampleStdDev(samples)
}

// Density is a density curve sampled on a grid.
type Density struct {
	X         []float64
	Y         []float64
	Bandwidth float64
}

// GaussianKDE estimates the density of samples with a Gaussian kernel and
// evaluates it at points evenly spaced over [min, max] of the samples.
func GaussianKDE(samples []float64, points int) (Density, error) {
	if len(samples) < 2 || points < 1 {
		return Density{}, fmt.Errorf("%w: %d samples", ErrTooFewSamples, len(samples))
	}

	bw := ScottBandwidth(samples)
	if bw == 0 {
		return Density{}, fmt.Errorf("%w: zero variance", ErrDegenerate)
	}

	xs := Linspace(Min(samples), Max(samples), points)
	ys := make([]float64, len(xs))
	norm := 1 / (float64(len(samples)) * bw * math.Sqrt(2*math.Pi))

	for i, x := range xs {
		var acc float64

		for _, s := range samples {
			z := (x - s) / bw
			acc += math.Exp(-z * z / 2)
		}

		ys[i] = acc * norm
	}

	return Density{X: xs, Y: ys, Bandwidth: bw}, nil
}
