package stats

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownAlternative is returned for an Alternative outside the defined set.
var ErrUnknownAlternative = errors.New("unknown alternative")

// Alternative selects the alternative hypothesis of a t-test.
type Alternative int

// Alternative hypotheses on mean(a) - mean(b).
const (
	TwoSided Alternative = iota
	Greater
	Less
)

// String returns the scipy-style name of the alternative.
func (a Alternative) String() string {
	switch a {
	case Greater:
		return "greater"
	case Less:
		return "less"
	case TwoSided:
		return "two-sided"
	}

	return fmt.Sprintf("alternative(%d)", int(a))
}

// TTestResult holds the outcome of an independent two-sample t-test.
type TTestResult struct {
	Statistic   float64
	DF          float64
	PValue      float64
	Alternative Alternative
}

// TTestInd runs Student's t-test for two independent samples with pooled
// variance.
func TTestInd(a, b []float64, alt Alternative) (TTestResult, error) {
	na, nb := float64(len(a)), float64(len(b))
	if len(a) < 2 || len(b) < 2 {
		return TTestResult{}, fmt.Errorf("%w: %d and %d samples", ErrTooFewSamples, len(a), len(b))
	}

	df := na + nb - 2
	pooled := ((na-1)*Variance(a, 1) + (nb-1)*Variance(b, 1)) / df
	se := math.Sqrt(pooled * (1/na + 1/nb))

	if se == 0 {
		return TTestResult{}, fmt.Errorf("%w: zero pooled variance", ErrDegenerate)
	}

	t := (Mean(a) - Mean(b)) / se

	var p float64

	switch alt {
	case Greater:
		p = studentSF(t, df)
	case Less:
		p = studentSF(-t, df)
	case TwoSided:
		p = 2 * studentSF(math.Abs(t), df)
	default:
		return TTestResult{}, fmt.Errorf("%w: %s", ErrUnknownAlternative, alt)
	}

	return TTestResult{Statistic: t, DF: df, PValue: Clamp(p, 0, 1), Alternative: alt}, nil
}

// studentSF is the survival function of Student's t distribution.
func studentSF(t, df float64) float64 {
	tail := 0.5 * regIncBeta(df/2, 0.5, df/(df+t*t))
	if t < 0 {
		return 1 - tail
	}

	return tail
}

// regIncBeta is the regularized incomplete beta function I_x(a, b).
func regIncBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}

	if x >= 1 {
		return 1
	}

	lgab, _ := math.Lgamma(a + b)
	lga, _ := math.Lgamma(a)
	lgb, _ := math.Lgamma(b)
	front := math.Exp(lgab - lga - lgb + a*math.Log(x) + b*math.Log1p(-x))

	if x < (a+1)/(a+b+2) {
		return front * betaContinuedFraction(a, b, x) / a
	}

	return 1 - front*betaContinuedFraction(b, a, 1-x)/b
}

const (
	betaMaxIter = 300
	betaEpsilon = 3e-14
	betaTiny    = 1e-300
)

// betaContinuedFraction evaluates the continued fraction of the incomplete
// beta function with the modified Lentz method.
func betaContinuedFraction(a, b, x float64) float64 {
	nonZero := func(v float64) float64 {
		if math.Abs(v) < betaTiny {
			return betaTiny
		}

		return v
	}

	qab, qap, qam := a+b, a+1, a-1
	c := 1.0
	d := 1 / nonZero(1-qab*x/qap)
	h := d

	for m := 1; m <= betaMaxIter; m++ {
		fm := float64(m)
		m2 := 2 * fm

		aa := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = 1 / nonZero(1+aa*d)
		c = nonZero(1 + aa/c)
		h *= d * c

		aa = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = 1 / nonZero(1+aa*d)
		c = nonZero(1 + aa/c)
		step := d * c
		h *= step

		if math.Abs(step-1) < betaEpsilon {
			break
		}
	}

	return h
}
