package stats

// Trapezoid integrates ys over xs with the composite trapezoidal rule.
// Returns 0 for fewer than two samples. Extra elements of the longer slice
// are ignored.
func Trapezoid(xs, ys []float64) float64 {
	n := min(len(xs), len(ys))

	var area float64

	for i := 1; i < n; i++ {
		area += (xs[i] - xs[i-1]) * (ys[i] + ys[i-1]) / 2
	}

	return area
}

// Linspace returns n evenly spaced values over [start, stop], both included.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}

	out := make([]float64, n)
	if n == 1 {
		out[0] = start

		return out
	}

	step := (stop - start) / float64(n-1)

	for i := range out {
		out[i] = start + float64(i)*step
	}

	out[n-1] = stop

	return out
}
