package reddit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wonny/trendscan/pkg/config"
	"github.com/wonny/trendscan/pkg/httputil"
	"github.com/wonny/trendscan/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingJSON(posts ...string) string {
	children := make([]string, len(posts))
	for i, p := range posts {
		children[i] = fmt.Sprintf(`{"data":{"title":%q,"selftext":"","score":100,"num_comments":25,"subreddit":"wallstreetbets"}}`, p)
	}
	return fmt.Sprintf(`{"data":{"children":[%s]}}`, strings.Join(children, ","))
}

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{Env: "development", LogLevel: "error"}
	log := logger.New(cfg)

	client := NewClient(httputil.New(cfg, log).DisableRetry(), log)
	client.baseURL = srv.URL
	return client
}

func TestFetchListing(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/r/wallstreetbets/hot.json")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(listingJSON("$NVDA calls printing", "Quiet day")))
	}))

	posts, err := client.FetchListing(context.Background(), "wallstreetbets", "hot", 100)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "$NVDA calls printing", posts[0].Title)
	assert.Equal(t, "wallstreetbets", posts[0].Subreddit)
	assert.Equal(t, 100, posts[0].Score)
}

func TestFetchPosts_OneListingFailureDegrades(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "new.json") {
			http.Error(w, "blocked", http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(listingJSON("Buying $TSLA")))
	}))

	posts, err := client.FetchPosts(context.Background(), "stocks", 100)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestScan_AggregatesMentions(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(r.URL.Path, "hot.json") {
			_, _ = w.Write([]byte(listingJSON(
				"$NVDA to the moon, loading calls",
				"$NVDA breakout rally continues",
				"Thinking about $AMD",
			)))
			return
		}
		_, _ = w.Write([]byte(listingJSON("$NVDA rocket incoming")))
	}))

	mentions := client.Scan(context.Background(), []string{"wallstreetbets"}, 0)
	require.Len(t, mentions, 2)

	nvda := mentions[0]
	assert.Equal(t, "NVDA", nvda.Ticker)
	assert.Equal(t, 3, nvda.Mentions)
	assert.Equal(t, 3, nvda.Bullish)
	assert.Equal(t, "bullish", nvda.Sentiment)
	assert.InDelta(t, 1.0, nvda.SentimentScore, 1e-9)
	// 3 mentions * 10 + 1.0 * 20 = 50.
	assert.InDelta(t, 50.0, nvda.Score, 1e-9)
	assert.Equal(t, []string{"wallstreetbets"}, nvda.Subreddits)

	amd := mentions[1]
	assert.Equal(t, "AMD", amd.Ticker)
	assert.Equal(t, 1, amd.Mentions)
	assert.Equal(t, 1, amd.Neutral)
}

func TestScan_ScoreCapsAt100(t *testing.T) {
	// 12 bullish posts: 12*10 + 20 > 100.
	posts := make([]string, 12)
	for i := range posts {
		posts[i] = fmt.Sprintf("$GME squeeze rally post %d", i)
	}
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(r.URL.Path, "hot.json") {
			_, _ = w.Write([]byte(listingJSON(posts...)))
			return
		}
		_, _ = w.Write([]byte(listingJSON()))
	}))

	mentions := client.Scan(context.Background(), []string{"wallstreetbets"}, 0)
	require.Len(t, mentions, 1)
	assert.Equal(t, 100.0, mentions[0].Score)
}

func TestScan_FailedSubredditSkipped(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))

	mentions := client.Scan(context.Background(), []string{"wallstreetbets", "stocks"}, 0)
	assert.Empty(t, mentions)
}
