package climate

import (
	"math"
	"sort"
)

// PercentileResult carries the rank of a candidate value against a reference
// distribution. Rank and Value are nil exactly when the candidate observation
// is missing; this is a first-class state that must propagate to an unknown
// classification, never be coerced to a default rank.
type PercentileResult struct {
	Rank  *float64 `json:"rank"`
	Value *float64 `json:"value"`
}

// Defined reports whether the result carries a usable rank.
func (r PercentileResult) Defined() bool {
	return r.Rank != nil
}

// RankOf computes the inclusive percentile rank of candidate within the
// window's mean-temperature distribution:
//
//	rank = 100 * count(values <= candidate) / count(values)
//
// Ties rank inclusively. A nil candidate yields an undefined result.
func RankOf(candidate *float64, w Window) PercentileResult {
	if candidate == nil {
		return PercentileResult{}
	}

	values := w.Values()
	if len(values) == 0 {
		return PercentileResult{Value: candidate}
	}

	atOrBelow := 0
	for _, v := range values {
		if v <= *candidate {
			atOrBelow++
		}
	}

	rank := 100 * float64(atOrBelow) / float64(len(values))
	return PercentileResult{Rank: &rank, Value: candidate}
}

// Percentile computes the p-th percentile of values using linear
// interpolation between the two nearest order statistics. NaN for an empty
// input; callers guard against that via ExtractWindow.
func Percentile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return values[0]
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}

	pos := p / 100 * float64(n-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
