package climate

// Bin is one histogram bin of a distribution summary.
type Bin struct {
	Center  float64 `json:"center"`
	Density float64 `json:"density"`
}

// DistributionSummary describes the empirical shape of a window's mean
// temperatures: a density-normalized histogram plus the low/median/high
// percentile cutoffs marking the "really cold" and "really hot" boundaries.
// For a window with spread, the density integrates to 1. A zero-spread window
// degenerates to a single spike carrying the full mass (BinWidth 0).
type DistributionSummary struct {
	Bins     []Bin   `json:"bins"`
	BinWidth float64 `json:"bin_width"`
	Low      float64 `json:"low"`
	Median   float64 `json:"median"`
	High     float64 `json:"high"`
}

// EstimateDistribution builds a fixed-bin-count histogram over the window's
// mean temperatures, normalized so that different sample sizes stay visually
// comparable. lowPct/highPct are the extreme-percentile cutoffs to cache
// alongside the shape (typically 5 and 95).
func EstimateDistribution(w Window, binCount int, lowPct, highPct float64) (DistributionSummary, error) {
	values := w.Values()
	if len(values) == 0 {
		return DistributionSummary{}, &EmptyWindowError{
			DayOfYear: w.TargetDayOfYear,
			HalfWidth: w.HalfWidth,
		}
	}

	summary := DistributionSummary{
		Low:    Percentile(values, lowPct),
		Median: Percentile(values, 50),
		High:   Percentile(values, highPct),
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	if hi == lo {
		// All values identical: a single spike at the common value.
		summary.Bins = []Bin{{Center: lo, Density: 1}}
		summary.BinWidth = 0
		return summary, nil
	}

	width := (hi - lo) / float64(binCount)
	counts := make([]int, binCount)
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= binCount {
			// The maximum lands exactly on the upper edge.
			idx = binCount - 1
		}
		counts[idx]++
	}

	norm := float64(len(values)) * width
	summary.Bins = make([]Bin, binCount)
	summary.BinWidth = width
	for i, c := range counts {
		summary.Bins[i] = Bin{
			Center:  lo + (float64(i)+0.5)*width,
			Density: float64(c) / norm,
		}
	}

	return summary, nil
}
