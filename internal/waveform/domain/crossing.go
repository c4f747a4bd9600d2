package waveform

// risingCrossings scans forward for rising-edge crossings of level: the
// value passes from below the level to at-or-above it between consecutive
// samples, and the transition is locally ascending. Falling edges are
// skipped so a full cycle lies between consecutive crossings.
func risingCrossings(values []float64, level float64) []int {
	var crossings []int
	for i := 0; i+1 < len(values); i++ {
		if values[i] < level && values[i+1] >= level && values[i+1] > values[i] {
			crossings = append(crossings, i+1)
		}
	}
	return crossings
}

// levelCrossings returns every index where the series changes sign around
// level, in either direction. A sample exactly at the level carries sign
// zero, so a capture starting right on the level still yields a crossing at
// its first step away from it.
func levelCrossings(values []float64, level float64) []int {
	var crossings []int
	prev := sign(values[0] - level)
	for i := 1; i < len(values); i++ {
		cur := sign(values[i] - level)
		if cur != prev {
			crossings = append(crossings, i)
		}
		prev = cur
	}
	return crossings
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// meanSpacing returns the mean index distance between consecutive crossings,
// averaged over every detected cycle.
func meanSpacing(crossings []int) float64 {
	first := crossings[0]
	last := crossings[len(crossings)-1]
	return float64(last-first) / float64(len(crossings)-1)
}
