package perplexity

import (
	"context"
	"sort"
	"strings"

	"github.com/wonny/trendscan/internal/tickers"
)

// Discovery is one ticker surfaced by the AI news scan.
type Discovery struct {
	Ticker    string   `json:"ticker"`
	Mentions  int      `json:"mentions"` // queries that surfaced the ticker
	Sentiment string   `json:"sentiment"`
	Catalyst  bool     `json:"has_catalyst"`
	Summary   string   `json:"summary"`
	Sources   []string `json:"sources,omitempty"`
	Score     float64  `json:"score"` // 0-100
}

var positiveWords = []string{
	"surge", "soar", "gain", "rally", "beat", "record", "strong",
	"positive", "growth", "up",
}

var negativeWords = []string{
	"drop", "fall", "decline", "miss", "weak", "negative", "down",
	"concern", "warning",
}

var catalystKeywords = []string{
	"earnings", "beat", "revenue", "guidance", "fda", "approval",
	"contract", "partnership", "acquisition", "merger", "buyback",
	"dividend", "split", "upgrade", "analyst", "target", "announcement",
}

const snippetLen = 200

// Scan runs every discovery query and aggregates the tickers the
// model surfaced. A failed query is skipped.
func (c *Client) Scan(ctx context.Context, queries []string) []Discovery {
	if len(queries) == 0 {
		queries = DiscoveryQueries
	}

	type mention struct {
		count    int
		snippets []string
		sources  []string
	}
	mentionsByTicker := make(map[string]*mention)
	var allContent []string

	for _, query := range queries {
		answer, err := c.Query(ctx, query)
		if err != nil {
			c.logger.WithError(err).Warn("Perplexity query failed")
			continue
		}
		allContent = append(allContent, answer.Content)

		snippet := answer.Content
		if len(snippet) > snippetLen {
			snippet = snippet[:snippetLen]
		}

		for _, ticker := range tickers.Extract(answer.Content) {
			entry := mentionsByTicker[ticker]
			if entry == nil {
				entry = &mention{}
				mentionsByTicker[ticker] = entry
			}
			entry.count++
			entry.snippets = append(entry.snippets, snippet)
			entry.sources = append(entry.sources, answer.Citations...)
		}
	}

	combined := strings.Join(allContent, " ")

	discoveries := make([]Discovery, 0, len(mentionsByTicker))
	for ticker, entry := range mentionsByTicker {
		// Prefer ticker-specific context over the combined transcript.
		context := ""
		for _, snippet := range entry.snippets {
			if strings.Contains(snippet, ticker) {
				context += snippet + " "
			}
		}
		if context == "" {
			context = combined
		}

		sentiment := classifySentiment(context)
		catalyst := hasCatalyst(context)

		summary := ""
		if len(entry.snippets) > 0 {
			summary = entry.snippets[0]
		}

		discoveries = append(discoveries, Discovery{
			Ticker:    ticker,
			Mentions:  entry.count,
			Sentiment: sentiment,
			Catalyst:  catalyst,
			Summary:   summary,
			Sources:   entry.sources,
			Score:     discoveryScore(entry.count, sentiment, catalyst),
		})
	}

	sort.Slice(discoveries, func(i, j int) bool {
		if discoveries[i].Score != discoveries[j].Score {
			return discoveries[i].Score > discoveries[j].Score
		}
		return discoveries[i].Ticker < discoveries[j].Ticker
	})

	c.logger.WithField("tickers", len(discoveries)).Info("Perplexity scan complete")
	return discoveries
}

// classifySentiment buckets text into five keyword-count levels.
func classifySentiment(text string) string {
	lower := strings.ToLower(text)

	var pos, neg int
	for _, word := range positiveWords {
		if strings.Contains(lower, word) {
			pos++
		}
	}
	for _, word := range negativeWords {
		if strings.Contains(lower, word) {
			neg++
		}
	}

	switch {
	case pos > neg+1:
		return "very_positive"
	case pos > neg:
		return "positive"
	case neg > pos+1:
		return "very_negative"
	case neg > pos:
		return "negative"
	default:
		return "neutral"
	}
}

func hasCatalyst(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range catalystKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// discoveryScore builds the 0-100 score: base 50, +5 per mention
// capped at +20, sentiment adjustment, +15 catalyst.
func discoveryScore(mentions int, sentiment string, catalyst bool) float64 {
	score := 50.0

	bonus := float64(mentions) * 5
	if bonus > 20 {
		bonus = 20
	}
	score += bonus

	switch sentiment {
	case "very_positive":
		score += 15
	case "positive":
		score += 10
	case "negative":
		score -= 5
	case "very_negative":
		score -= 10
	}

	if catalyst {
		score += 15
	}

	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}
