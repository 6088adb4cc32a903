// Package finviz scrapes the public Finviz pages: sector groups,
// screener scans, quote snapshots, insider trades, and news headlines.
package finviz

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/trendscan/pkg/httputil"
	"github.com/wonny/trendscan/pkg/logger"
)

// Client handles communication with Finviz.
// ⭐ SSOT: Finviz page fetches go through this client only.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Finviz client. Finviz blocks default Go user
// agents, so the HTTP client should carry browser agents.
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    "https://finviz.com",
	}
}

// WithBaseURL points the client at a different host, e.g. the elite
// mirror. Returns the client for chaining.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// fetchDocument GETs a Finviz path and parses it into a goquery document.
func (c *Client) fetchDocument(ctx context.Context, path string) (*goquery.Document, error) {
	url := c.baseURL + path

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("finviz fetch %s: %w", path, err)
	}

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("finviz fetch %s: %w", path, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("finviz parse %s: %w", path, err)
	}
	return doc, nil
}

// parsePercent parses "12.34%" to 12.34. Returns 0, false for "-" or
// malformed cells.
func parsePercent(text string) (float64, bool) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" || cleaned == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseNumber parses "1,234.5", "3.4K", "12.1M", "1.2B" to a float.
func parseNumber(text string) (float64, bool) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimPrefix(cleaned, "$")
	if cleaned == "" || cleaned == "-" {
		return 0, false
	}

	mult := 1.0
	switch {
	case strings.HasSuffix(cleaned, "K"):
		mult = 1e3
		cleaned = strings.TrimSuffix(cleaned, "K")
	case strings.HasSuffix(cleaned, "M"):
		mult = 1e6
		cleaned = strings.TrimSuffix(cleaned, "M")
	case strings.HasSuffix(cleaned, "B"):
		mult = 1e9
		cleaned = strings.TrimSuffix(cleaned, "B")
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v * mult, true
}
