// Package reddit reads public subreddit listings and aggregates stock
// ticker mentions. No OAuth: the public .json endpoints are enough for
// read-only listing access.
package reddit

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wonny/trendscan/pkg/httputil"
	"github.com/wonny/trendscan/pkg/logger"
)

// Client handles communication with the public Reddit listing API.
// ⭐ SSOT: Reddit fetches go through this client only.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Reddit client. Reddit requires a descriptive
// User-Agent; the HTTP client must carry one.
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    "https://www.reddit.com",
	}
}

// WithBaseURL points the client at a different host, e.g. old.reddit
// or a caching proxy. Returns the client for chaining.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// Post is one subreddit submission.
type Post struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Score     int    `json:"score"`
	Comments  int    `json:"comments"`
	Subreddit string `json:"subreddit"`
}

// Text returns the searchable text of the post.
func (p Post) Text() string {
	return p.Title + " " + p.Body
}

// listingResponse is the Reddit listing envelope.
type listingResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				Title       string `json:"title"`
				Selftext    string `json:"selftext"`
				Score       int    `json:"score"`
				NumComments int    `json:"num_comments"`
				Subreddit   string `json:"subreddit"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// FetchListing returns one page of a subreddit listing.
// listing is "hot" or "new".
func (c *Client) FetchListing(ctx context.Context, subreddit, listing string, limit int) ([]Post, error) {
	u := fmt.Sprintf("%s/r/%s/%s.json?limit=%d&raw_json=1",
		c.baseURL, url.PathEscape(subreddit), listing, limit)

	var resp listingResponse
	if err := c.httpClient.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("reddit r/%s %s: %w", subreddit, listing, err)
	}

	posts := make([]Post, 0, len(resp.Data.Children))
	for _, child := range resp.Data.Children {
		posts = append(posts, Post{
			Title:     child.Data.Title,
			Body:      child.Data.Selftext,
			Score:     child.Data.Score,
			Comments:  child.Data.NumComments,
			Subreddit: child.Data.Subreddit,
		})
	}
	return posts, nil
}

// FetchPosts returns the hot and new listings of one subreddit. A
// failed listing degrades to the posts of the other.
func (c *Client) FetchPosts(ctx context.Context, subreddit string, limit int) ([]Post, error) {
	var posts []Post
	var lastErr error

	for _, listing := range []string{"hot", "new"} {
		page, err := c.FetchListing(ctx, subreddit, listing, limit)
		if err != nil {
			lastErr = err
			c.logger.WithError(err).WithField("subreddit", subreddit).Debug("Listing fetch failed")
			continue
		}
		posts = append(posts, page...)
	}

	if len(posts) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return posts, nil
}
