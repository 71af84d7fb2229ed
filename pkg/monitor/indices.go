package monitor

// crisisQuotient computes CRQ over a full loss window: the mean of the
// positive consecutive differences, scaled and clipped into [0, 1]. Only
// upward loss movement counts; a monotone non-increasing window yields 0.
func crisisQuotient(window []float64, scale float64) float64 {
	var sum float64
	var n int
	for i := 1; i < len(window); i++ {
		if d := window[i] - window[i-1]; d > 0 {
			sum += d
			n++
		}
	}
	if n == 0 {
		return 0.0
	}
	crq := (sum / float64(n)) * scale
	if crq > 1.0 {
		crq = 1.0
	}
	return crq
}

// suspendedCoherence computes SCP over a full validation window: how far
// the newest value has fallen from the window maximum, mapped through the
// sensitivity factor into [0, 1]. A value at its recent peak scores 1.0;
// a drop of 1/sensitivity or more scores 0.0.
func suspendedCoherence(window []float64, sensitivity float64) float64 {
	peak := window[0]
	for _, v := range window[1:] {
		if v > peak {
			peak = v
		}
	}
	drop := peak - window[len(window)-1]
	scp := 1.0 - drop*sensitivity
	if scp < 0.0 {
		scp = 0.0
	}
	return scp
}
