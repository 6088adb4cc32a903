package sources

import (
	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/internal/external/perplexity"
	"github.com/wonny/trendscan/internal/external/quiver"
	"github.com/wonny/trendscan/internal/external/reddit"
	"github.com/wonny/trendscan/internal/external/rssnews"
)

// RedditSignals passes through the connector's mention scores.
func RedditSignals(mentions []reddit.Mention) []contracts.SourceSignal {
	records := make([]contracts.SourceSignal, 0, len(mentions))
	for _, m := range mentions {
		records = append(records, contracts.SourceSignal{
			Ticker: m.Ticker,
			Score:  m.Score,
			Stats: map[string]float64{
				contracts.StatMentions:  float64(m.Mentions),
				contracts.StatSentiment: m.SentimentScore,
			},
		})
	}
	return records
}

// NewsSignals passes through the connector's per-ticker news scores.
func NewsSignals(items []rssnews.TickerNews) []contracts.SourceSignal {
	records := make([]contracts.SourceSignal, 0, len(items))
	for _, item := range items {
		records = append(records, contracts.SourceSignal{
			Ticker: item.Ticker,
			Score:  item.Score,
			Stats: map[string]float64{
				contracts.StatArticles:  float64(item.ArticleCount),
				contracts.StatSentiment: item.SentimentScore,
			},
		})
	}
	return records
}

// NegativeNewsSignals extracts the bearish slice of the news scan:
// only tickers whose coverage skews negative qualify.
func NegativeNewsSignals(items []rssnews.TickerNews) []contracts.SourceSignal {
	var records []contracts.SourceSignal
	for _, item := range items {
		if item.Sentiment != "negative" {
			continue
		}
		records = append(records, contracts.SourceSignal{
			Ticker: item.Ticker,
			Score:  item.Score,
			Tags:   []string{"negative_news"},
			Stats: map[string]float64{
				contracts.StatArticles: float64(item.ArticleCount),
			},
		})
	}
	return records
}

// PerplexitySignals maps AI discovery records, tagging named
// catalysts for the summary builder.
func PerplexitySignals(discoveries []perplexity.Discovery) []contracts.SourceSignal {
	records := make([]contracts.SourceSignal, 0, len(discoveries))
	for _, d := range discoveries {
		rec := contracts.SourceSignal{
			Ticker: d.Ticker,
			Score:  d.Score,
			Stats: map[string]float64{
				contracts.StatMentions: float64(d.Mentions),
			},
		}
		if d.Catalyst {
			rec.Tags = append(rec.Tags, contracts.TagCatalyst)
		}
		records = append(records, rec)
	}
	return records
}

// CongressSignals maps congressional trading activity, tagging the
// trade direction.
func CongressSignals(activities []quiver.Activity) []contracts.SourceSignal {
	records := make([]contracts.SourceSignal, 0, len(activities))
	for _, a := range activities {
		rec := contracts.SourceSignal{
			Ticker: a.Ticker,
			Score:  a.Score,
		}
		switch a.Signal {
		case quiver.SignalBuying:
			rec.Tags = append(rec.Tags, contracts.TagCongressBuying)
		case quiver.SignalSelling:
			rec.Tags = append(rec.Tags, contracts.TagCongressSelling)
		}
		records = append(records, rec)
	}
	return records
}

// CongressSellingSignals extracts the bearish slice: only tickers
// congress members are net selling qualify.
func CongressSellingSignals(activities []quiver.Activity) []contracts.SourceSignal {
	var records []contracts.SourceSignal
	for _, a := range activities {
		if a.Signal != quiver.SignalSelling {
			continue
		}
		records = append(records, contracts.SourceSignal{
			Ticker: a.Ticker,
			Score:  a.Score,
			Tags:   []string{contracts.TagCongressSelling},
		})
	}
	return records
}
