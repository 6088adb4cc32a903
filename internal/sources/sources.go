// Package sources adapts connector records and engine profiles into
// the normalized per-source signal records the aggregation engines
// consume. Connectors that score their own records pass through;
// derived sources (short interest, options, fundamentals, insider,
// analyst) compute their scores here.
package sources

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
