package reddit

import (
	"context"
	"sort"

	"github.com/wonny/trendscan/internal/sentiment"
	"github.com/wonny/trendscan/internal/tickers"
)

// Mention is the aggregated view of one ticker across subreddits.
type Mention struct {
	Ticker         string   `json:"ticker"`
	Mentions       int      `json:"mentions"`
	Bullish        int      `json:"bullish_count"`
	Bearish        int      `json:"bearish_count"`
	Neutral        int      `json:"neutral_count"`
	SentimentScore float64  `json:"sentiment_score"` // [-1, 1]
	Sentiment      string   `json:"sentiment"`
	Subreddits     []string `json:"subreddits"`
	Score          float64  `json:"score"` // 0-100
}

const defaultPostsPerListing = 100

// Scan fetches every configured subreddit and aggregates ticker
// mentions. A subreddit that fails entirely is skipped. postsPer
// bounds each listing fetch; zero or negative uses the default.
func (c *Client) Scan(ctx context.Context, subreddits []string, postsPer int) []Mention {
	if postsPer <= 0 {
		postsPer = defaultPostsPerListing
	}
	type tally struct {
		mentions, bullish, bearish, neutral int
		subreddits                          map[string]bool
	}
	tallies := make(map[string]*tally)

	for _, subreddit := range subreddits {
		posts, err := c.FetchPosts(ctx, subreddit, postsPer)
		if err != nil {
			c.logger.WithError(err).WithField("subreddit", subreddit).Warn("Subreddit scan failed")
			continue
		}

		for _, post := range posts {
			text := post.Text()
			found := tickers.Extract(text)
			if len(found) == 0 {
				continue
			}
			label := sentiment.Analyze(text)

			for _, ticker := range found {
				entry := tallies[ticker]
				if entry == nil {
					entry = &tally{subreddits: make(map[string]bool)}
					tallies[ticker] = entry
				}
				entry.mentions++
				entry.subreddits[post.Subreddit] = true
				switch label {
				case sentiment.Bullish:
					entry.bullish++
				case sentiment.Bearish:
					entry.bearish++
				default:
					entry.neutral++
				}
			}
		}
	}

	mentions := make([]Mention, 0, len(tallies))
	for ticker, entry := range tallies {
		mentions = append(mentions, buildMention(ticker, entry.mentions,
			entry.bullish, entry.bearish, entry.neutral, setToSorted(entry.subreddits)))
	}

	// Most mentioned first; ticker breaks ties.
	sort.Slice(mentions, func(i, j int) bool {
		if mentions[i].Mentions != mentions[j].Mentions {
			return mentions[i].Mentions > mentions[j].Mentions
		}
		return mentions[i].Ticker < mentions[j].Ticker
	})

	c.logger.WithField("tickers", len(mentions)).Info("Reddit scan complete")
	return mentions
}

func buildMention(ticker string, mentions, bullish, bearish, neutral int, subreddits []string) Mention {
	total := bullish + bearish + neutral
	sentimentScore := 0.0
	if total > 0 {
		sentimentScore = float64(bullish-bearish) / float64(total)
	}

	label := string(sentiment.Neutral)
	if sentimentScore > 0.2 {
		label = string(sentiment.Bullish)
	} else if sentimentScore < -0.2 {
		label = string(sentiment.Bearish)
	}

	score := float64(mentions)*10 + sentimentScore*20
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return Mention{
		Ticker:         ticker,
		Mentions:       mentions,
		Bullish:        bullish,
		Bearish:        bearish,
		Neutral:        neutral,
		SentimentScore: sentimentScore,
		Sentiment:      label,
		Subreddits:     subreddits,
		Score:          score,
	}
}

func setToSorted(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
