package momentum

import (
	"fmt"
	"math"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/pkg/logger"
)

// Bearish signal tags emitted by the extractor.
const (
	TagDeclining         = "declining"
	TagOverbought        = "overbought"
	TagExtremeOverbought = "extreme_overbought"
	TagBelowMA20         = "below_ma20"
	TagBelowMA50         = "below_ma50"
	TagDeathCrossProxy   = "death_cross_proxy"
	TagHighVolumeDecline = "high_volume_decline"
	TagBreakdown         = "breakdown"
)

// minBearishScore is the floor below which a profile is not worth
// flagging as a short setup.
const minBearishScore = 10.0

// BearishExtractor reads already-computed momentum profiles and
// scores how broken the chart is. It never recomputes indicators.
type BearishExtractor struct {
	logger *logger.Logger
}

// NewBearishExtractor creates a new bearish extractor.
func NewBearishExtractor(log *logger.Logger) *BearishExtractor {
	return &BearishExtractor{logger: log}
}

// Extract scores one profile on the bearish scale. It returns nil
// when the chart is not bearish enough to surface (score below 10).
func (b *BearishExtractor) Extract(p *contracts.MomentumProfile) *contracts.SourceSignal {
	score := 0.0
	var tags []string

	if p.Change1M < 0 {
		score += math.Min(math.Abs(p.Change1M)*1.5, 30)
		tags = append(tags, TagDeclining)
	}

	if p.RSI > 70 {
		score += math.Min((p.RSI-70)*1.5, 20)
		tags = append(tags, TagOverbought)
		if p.RSI > 80 {
			score += 5
			tags = append(tags, TagExtremeOverbought)
		}
	}

	if !p.AboveMA20 {
		score += 10
		tags = append(tags, TagBelowMA20)
	}
	if !p.AboveMA50 {
		score += 10
		tags = append(tags, TagBelowMA50)
	}

	// Proxy only: no actual MA crossover history is kept.
	if !p.AboveMA50 && p.Change5D < 0 {
		score += 10
		tags = append(tags, TagDeathCrossProxy)
	}

	if p.VolumeRatio > 1.5 && p.Change1D < 0 {
		score += math.Min((p.VolumeRatio-1)*5, 15)
		tags = append(tags, TagHighVolumeDecline)
	}

	if !p.AboveMA20 && !p.AboveMA50 {
		score += 5
		tags = append(tags, TagBreakdown)
	}

	score = clamp(score, 0, 100)
	if score < minBearishScore {
		return nil
	}

	var notes []string
	if p.RSI > 70 {
		notes = append(notes, fmt.Sprintf("RSI %.0f", p.RSI))
	}
	if p.Change1M < -5 {
		notes = append(notes, fmt.Sprintf("%+.1f%% 1M", p.Change1M))
	}
	if !p.AboveMA50 {
		notes = append(notes, "below MA50")
	}
	if p.VolumeRatio > 1.5 && p.Change1D < 0 {
		notes = append(notes, fmt.Sprintf("vol %.1fx on down day", p.VolumeRatio))
	}
	if len(notes) == 0 {
		notes = []string{"Mild bearish signals"}
	}

	b.logger.WithFields(map[string]interface{}{
		"ticker": p.Ticker,
		"score":  score,
		"tags":   tags,
	}).Debug("Extracted bearish signal")

	return &contracts.SourceSignal{
		Ticker: p.Ticker,
		Score:  score,
		Tags:   tags,
		Notes:  notes,
		Stats: map[string]float64{
			"change_1m":    p.Change1M,
			"rsi":          p.RSI,
			"volume_ratio": p.VolumeRatio,
		},
	}
}
