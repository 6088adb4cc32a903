// Package rssnews collects financial headlines from RSS feeds and
// aggregates per-ticker news signals. No API keys required.
package rssnews

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/wonny/trendscan/pkg/httputil"
	"github.com/wonny/trendscan/pkg/logger"
)

// Feed is one RSS source.
type Feed struct {
	URL  string `yaml:"url" json:"url"`
	Name string `yaml:"name" json:"name"`
}

// DefaultFeeds cover broad market, sector, and commodity news.
var DefaultFeeds = []Feed{
	{URL: "https://www.cnbc.com/id/15839069/device/rss/rss.html", Name: "CNBC Markets"},
	{URL: "https://news.google.com/rss/search?q=stocks+market+when:1d&hl=en-US&gl=US&ceid=US:en", Name: "Google News Stocks"},
	{URL: "https://news.google.com/rss/search?q=semiconductor+chip+stocks+when:1d&hl=en-US&gl=US&ceid=US:en", Name: "Google News Semis"},
	{URL: "https://news.google.com/rss/search?q=energy+oil+stocks+when:1d&hl=en-US&gl=US&ceid=US:en", Name: "Google News Energy"},
}

// Article is one fetched headline.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Source      string `json:"source"`

	// TickerHint marks articles fetched for a specific ticker; the
	// extractor trusts it without a blacklist gate.
	TickerHint string `json:"ticker_hint,omitempty"`
}

// Text returns the searchable text of the article.
func (a Article) Text() string {
	return a.Title + " " + a.Description
}

// rssDocument is the RSS 2.0 envelope.
type rssDocument struct {
	Channel struct {
		Items []struct {
			Title       string `xml:"title"`
			Description string `xml:"description"`
			Link        string `xml:"link"`
		} `xml:"item"`
	} `xml:"channel"`
}

// Client fetches RSS feeds.
// ⭐ SSOT: news feed fetches go through this client only.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
}

// NewClient creates a new RSS news client.
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{httpClient: httpClient, logger: log}
}

const maxDescriptionLen = 200

// FetchFeed returns the articles of one feed.
func (c *Client) FetchFeed(ctx context.Context, feed Feed) ([]Article, error) {
	resp, err := c.httpClient.Get(ctx, feed.URL)
	if err != nil {
		return nil, fmt.Errorf("rss fetch %s: %w", feed.Name, err)
	}
	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("rss fetch %s: %w", feed.Name, err)
	}

	var doc rssDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("rss parse %s: %w", feed.Name, err)
	}

	articles := make([]Article, 0, len(doc.Channel.Items))
	for _, item := range doc.Channel.Items {
		title := strings.TrimSpace(item.Title)
		if len(title) <= 5 {
			continue
		}
		desc := strings.TrimSpace(item.Description)
		if len(desc) > maxDescriptionLen {
			desc = desc[:maxDescriptionLen]
		}
		articles = append(articles, Article{
			Title:       title,
			Description: desc,
			Link:        strings.TrimSpace(item.Link),
			Source:      feed.Name,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"feed":     feed.Name,
		"articles": len(articles),
	}).Debug("RSS feed fetched")
	return articles, nil
}
