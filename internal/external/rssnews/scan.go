package rssnews

import (
	"context"
	"sort"
	"strings"

	"github.com/wonny/trendscan/internal/sentiment"
	"github.com/wonny/trendscan/internal/tickers"
)

// Headline is one article kept for a ticker's report entry.
type Headline struct {
	Title     string `json:"title"`
	Sentiment string `json:"sentiment"`
	Category  string `json:"category"`
	Source    string `json:"source"`
}

// TickerNews is the aggregated news view of one ticker.
type TickerNews struct {
	Ticker         string     `json:"ticker"`
	ArticleCount   int        `json:"article_count"`
	Positive       int        `json:"positive_count"`
	Negative       int        `json:"negative_count"`
	Neutral        int        `json:"neutral_count"`
	SentimentScore float64    `json:"sentiment_score"` // [-1, 1]
	Sentiment      string     `json:"sentiment"`
	TopCategory    string     `json:"top_category"`
	Headlines      []Headline `json:"headlines"`
	Score          float64    `json:"score"` // 0-100
}

const (
	maxHeadlinesPerTicker = 3
	dedupPrefixLen        = 50
)

// Scan fetches every feed and aggregates ticker mentions. A feed that
// fails is skipped; duplicate headlines are counted once.
func (c *Client) Scan(ctx context.Context, feeds []Feed) []TickerNews {
	var articles []Article
	for _, feed := range feeds {
		fetched, err := c.FetchFeed(ctx, feed)
		if err != nil {
			c.logger.WithError(err).WithField("feed", feed.Name).Warn("Feed fetch failed")
			continue
		}
		articles = append(articles, fetched...)
	}
	return Aggregate(articles)
}

// Aggregate dedups articles and folds them into per-ticker signals,
// sorted by article count descending.
func Aggregate(articles []Article) []TickerNews {
	type tally struct {
		count, positive, negative, neutral int
		categories                         map[string]int
		headlines                          []Headline
	}
	tallies := make(map[string]*tally)
	seenTitles := make(map[string]bool)

	for _, article := range articles {
		titleKey := strings.ToLower(article.Title)
		if len(titleKey) > dedupPrefixLen {
			titleKey = titleKey[:dedupPrefixLen]
		}
		if seenTitles[titleKey] {
			continue
		}
		seenTitles[titleKey] = true

		text := article.Text()
		found := tickers.ExtractWithHint(text, article.TickerHint)
		if len(found) == 0 {
			continue
		}

		label := sentiment.Analyze(text)
		category := Categorize(text)

		for _, ticker := range found {
			entry := tallies[ticker]
			if entry == nil {
				entry = &tally{categories: make(map[string]int)}
				tallies[ticker] = entry
			}
			entry.count++
			entry.categories[category]++
			switch label {
			case sentiment.Bullish:
				entry.positive++
			case sentiment.Bearish:
				entry.negative++
			default:
				entry.neutral++
			}
			if len(entry.headlines) < maxHeadlinesPerTicker {
				entry.headlines = append(entry.headlines, Headline{
					Title:     article.Title,
					Sentiment: newsLabel(label),
					Category:  category,
					Source:    article.Source,
				})
			}
		}
	}

	news := make([]TickerNews, 0, len(tallies))
	for ticker, entry := range tallies {
		news = append(news, buildTickerNews(ticker, entry.count,
			entry.positive, entry.negative, entry.neutral, entry.categories, entry.headlines))
	}

	sort.Slice(news, func(i, j int) bool {
		if news[i].ArticleCount != news[j].ArticleCount {
			return news[i].ArticleCount > news[j].ArticleCount
		}
		return news[i].Ticker < news[j].Ticker
	})

	return news
}

func buildTickerNews(ticker string, count, positive, negative, neutral int,
	categories map[string]int, headlines []Headline) TickerNews {

	total := positive + negative + neutral
	sentimentScore := 0.0
	if total > 0 {
		sentimentScore = float64(positive-negative) / float64(total)
	}

	label := "neutral"
	if sentimentScore > 0.2 {
		label = "positive"
	} else if sentimentScore < -0.2 {
		label = "negative"
	}

	score := float64(count)*15 + sentimentScore*20
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return TickerNews{
		Ticker:         ticker,
		ArticleCount:   count,
		Positive:       positive,
		Negative:       negative,
		Neutral:        neutral,
		SentimentScore: sentimentScore,
		Sentiment:      label,
		TopCategory:    topCategory(categories),
		Headlines:      headlines,
		Score:          score,
	}
}

func newsLabel(label sentiment.Label) string {
	switch label {
	case sentiment.Bullish:
		return "positive"
	case sentiment.Bearish:
		return "negative"
	default:
		return "neutral"
	}
}

// topCategory picks the most frequent category; ties break lexically
// so the result is stable across runs.
func topCategory(categories map[string]int) string {
	best, bestCount := "general", 0
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if categories[name] > bestCount {
			best, bestCount = name, categories[name]
		}
	}
	return best
}
