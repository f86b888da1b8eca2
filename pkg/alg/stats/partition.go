package stats

// Split partitions values into n contiguous parts whose lengths differ by at
// most one; the first len(values)%n parts are the longer ones. Parts may be
// empty when n exceeds len(values). The parts alias values.
func Split(values []float64, n int) [][]float64 {
	if n <= 0 {
		return nil
	}

	size, rem := len(values)/n, len(values)%n
	parts := make([][]float64, n)

	for i := range parts {
		start := i*size + min(i, rem)
		end := (i+1)*size + min(i+1, rem)
		parts[i] = values[start:end:end]
	}

	return parts
}

// Histogram counts values into bins equal-width bins over [lo, hi]. The last
// bin is closed on the right; values outside the range are ignored.
func Histogram(values []float64, bins int, lo, hi float64) []int {
	if bins <= 0 {
		return nil
	}

	counts := make([]int, bins)
	if hi <= lo {
		return counts
	}

	width := (hi - lo) / float64(bins)

	for _, v := range values {
		if v < lo || v > hi {
			continue
		}

		idx := min(int((v-lo)/width), bins-1)
		counts[idx]++
	}

	return counts
}
