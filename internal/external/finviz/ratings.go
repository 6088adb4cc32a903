package finviz

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Analyst rating actions parsed from headlines.
const (
	ActionUpgrade      = "upgrade"
	ActionDowngrade    = "downgrade"
	ActionInitiation   = "initiation"
	ActionPTRaise      = "pt_raise"
	ActionPTLower      = "pt_lower"
	ActionRatingChange = "rating_change"
	ActionBuyRating    = "buy_rating"
)

// Rating is one parsed analyst action.
type Rating struct {
	Ticker      string  `json:"ticker"`
	Action      string  `json:"action"`
	Sentiment   string  `json:"sentiment"` // bullish, bearish, neutral
	Firm        string  `json:"firm,omitempty"`
	PriceTarget float64 `json:"price_target,omitempty"`
	Headline    string  `json:"headline"`
	Score       float64 `json:"score"` // 0-100
}

var ratingKeywords = []string{
	"upgrade", "downgrade", "initiate", "reiterate", "raise", "lower",
	"target", "rating", "buy", "sell", "overweight", "underweight",
	"outperform", "underperform",
}

// headlineSkipWords look like tickers but never are.
var headlineSkipWords = map[string]bool{
	"A": true, "I": true, "AT": true, "TO": true, "BY": true, "ON": true,
	"IN": true, "IT": true, "OR": true, "AN": true, "AS": true, "PT": true,
	"CEO": true, "CFO": true, "IPO": true, "FDA": true, "SEC": true,
	"NYSE": true, "USA": true,
}

var analystFirms = []string{
	"morgan stanley", "goldman", "jpmorgan", "jp morgan", "bank of america",
	"bofa", "citigroup", "citi", "wells fargo", "barclays", "credit suisse",
	"ubs", "deutsche bank", "hsbc", "rbc", "td securities", "jefferies",
	"raymond james", "piper sandler", "wedbush", "needham", "oppenheimer",
	"bernstein", "cowen", "stifel", "truist", "mizuho", "bmo", "canaccord",
}

var (
	headlineTickerRe = regexp.MustCompile(`\b([A-Z]{1,5})\b`)
	priceTargetRe    = regexp.MustCompile(`\$(\d+(?:\.\d+)?)`)
)

// ParseHeadline extracts a rating action from a news headline.
// Returns nil when the headline is not an analyst action.
func ParseHeadline(headline string) *Rating {
	lower := strings.ToLower(headline)

	isRating := false
	for _, kw := range ratingKeywords {
		if strings.Contains(lower, kw) {
			isRating = true
			break
		}
	}
	if !isRating {
		return nil
	}

	ticker := ""
	for _, match := range headlineTickerRe.FindAllStringSubmatch(headline, -1) {
		candidate := match[1]
		if headlineSkipWords[candidate] || len(candidate) < 2 {
			continue
		}
		ticker = candidate
		break
	}
	if ticker == "" {
		return nil
	}

	action, sentiment := classifyAction(lower)

	rating := &Rating{
		Ticker:    ticker,
		Action:    action,
		Sentiment: sentiment,
		Headline:  headline,
		Score:     RatingScore(action, sentiment),
	}

	if m := priceTargetRe.FindStringSubmatch(headline); m != nil {
		rating.PriceTarget, _ = strconv.ParseFloat(m[1], 64)
	}
	for _, firm := range analystFirms {
		if strings.Contains(lower, firm) {
			rating.Firm = titleCase(firm)
			break
		}
	}

	return rating
}

func classifyAction(lower string) (action, sentiment string) {
	switch {
	case strings.Contains(lower, "upgrade"):
		return ActionUpgrade, "bullish"
	case strings.Contains(lower, "downgrade"):
		return ActionDowngrade, "bearish"
	case strings.Contains(lower, "initiate") || strings.Contains(lower, "initiation"):
		sentiment = "neutral"
		for _, w := range []string{"buy", "overweight", "outperform"} {
			if strings.Contains(lower, w) {
				sentiment = "bullish"
			}
		}
		for _, w := range []string{"sell", "underweight", "underperform"} {
			if strings.Contains(lower, w) {
				sentiment = "bearish"
			}
		}
		return ActionInitiation, sentiment
	case strings.Contains(lower, "raise") && strings.Contains(lower, "target"):
		return ActionPTRaise, "bullish"
	case strings.Contains(lower, "lower") && strings.Contains(lower, "target"):
		return ActionPTLower, "bearish"
	default:
		return ActionRatingChange, "neutral"
	}
}

// RatingScore maps an analyst action to a 0-100 score around the
// neutral 50 base.
func RatingScore(action, sentiment string) float64 {
	score := 50.0

	switch action {
	case ActionUpgrade:
		score += 25
	case ActionInitiation:
		if sentiment == "bullish" {
			score += 20
		} else if sentiment == "bearish" {
			score -= 15
		}
	case ActionPTRaise:
		score += 15
	case ActionDowngrade:
		score -= 15
	case ActionPTLower:
		score -= 10
	case ActionBuyRating:
		score += 15
	}

	switch sentiment {
	case "bullish":
		score += 5
	case "bearish":
		score -= 5
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

const maxNewsRows = 100

// FetchRatingHeadlines scrapes the news page and keeps the analyst
// action headlines.
func (c *Client) FetchRatingHeadlines(ctx context.Context) ([]Rating, error) {
	doc, err := c.fetchDocument(ctx, "/news.ashx")
	if err != nil {
		return nil, err
	}

	var ratings []Rating
	rows := 0

	doc.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return true
		}
		rows++

		headline := strings.TrimSpace(cells.Eq(cells.Length() - 1).Text())
		if rating := ParseHeadline(headline); rating != nil {
			ratings = append(ratings, *rating)
		}
		return rows < maxNewsRows
	})

	c.logger.WithField("ratings", len(ratings)).Debug("Finviz rating headlines fetched")
	return ratings, nil
}
