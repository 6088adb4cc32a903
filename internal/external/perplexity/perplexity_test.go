package perplexity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wonny/trendscan/pkg/config"
	"github.com/wonny/trendscan/pkg/httputil"
	"github.com/wonny/trendscan/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{Env: "development", LogLevel: "error"}
	log := logger.New(cfg)

	return NewClient(httputil.New(cfg, log).DisableRetry(), log, config.PerplexityConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "sonar",
	})
}

func chatJSON(content string, citations ...string) string {
	cites, _ := json.Marshal(citations)
	body, _ := json.Marshal(content)
	return fmt.Sprintf(`{"choices":[{"message":{"content":%s}}],"citations":%s}`, body, cites)
}

func TestQuery(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sonar", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatJSON("Nvidia (NVDA) is trending.", "https://example.com/a")))
	}))

	answer, err := client.Query(context.Background(), "What stocks are trending?")
	require.NoError(t, err)
	assert.Equal(t, "Nvidia (NVDA) is trending.", answer.Content)
	assert.Equal(t, []string{"https://example.com/a"}, answer.Citations)
}

func TestQuery_HTTPError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))

	_, err := client.Query(context.Background(), "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestScan(t *testing.T) {
	responses := []string{
		chatJSON("Nvidia (NVDA) surged on a record earnings beat. Strong growth ahead."),
		chatJSON("NVDA and Palantir (PLTR) saw unusual volume today."),
	}
	calls := 0
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(responses[calls%len(responses)]))
		calls++
	}))

	discoveries := client.Scan(context.Background(), []string{"q1", "q2"})
	require.Len(t, discoveries, 2)

	nvda := discoveries[0]
	assert.Equal(t, "NVDA", nvda.Ticker)
	assert.Equal(t, 2, nvda.Mentions)
	assert.True(t, nvda.Catalyst)
	// 50 + 10 (2 mentions) + 15 (very_positive) + 15 (catalyst) = 90.
	assert.Equal(t, "very_positive", nvda.Sentiment)
	assert.InDelta(t, 90.0, nvda.Score, 1e-9)

	assert.Equal(t, "PLTR", discoveries[1].Ticker)
	assert.Equal(t, 1, discoveries[1].Mentions)
}

func TestScan_FailedQuerySkipped(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))

	discoveries := client.Scan(context.Background(), []string{"q1"})
	assert.Empty(t, discoveries)
}

func TestDiscoveryScore_Bounds(t *testing.T) {
	// Mention bonus caps at +20.
	assert.Equal(t, 100.0, discoveryScore(10, "very_positive", true))
	assert.Equal(t, 55.0, discoveryScore(1, "neutral", false))
	assert.Equal(t, 45.0, discoveryScore(1, "very_negative", false))
}

func TestClassifySentiment(t *testing.T) {
	assert.Equal(t, "very_positive", classifySentiment("surge rally record quarter"))
	assert.Equal(t, "negative", classifySentiment("shares drop on weak guidance despite growth"))
	assert.Equal(t, "neutral", classifySentiment("the company held its annual meeting"))
}
