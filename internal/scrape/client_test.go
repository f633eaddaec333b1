package scrape

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhaveles/airbnboptimizer/internal/config"
)

func newTestScrapeClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.ScrapeConfig{
		BaseURL:        srv.URL,
		APIToken:       "tok-test",
		ActorID:        "actorX",
		TimeoutSeconds: 5,
	})
}

func TestStartJob(t *testing.T) {
	client := newTestScrapeClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/acts/actorX/runs", r.URL.Path)
		assert.Equal(t, "tok-test", r.URL.Query().Get("token"))

		var input map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		assert.Equal(t, float64(1), input["maxItems"], "one submit must cost one scrape unit")
		urls, ok := input["startUrls"].([]any)
		require.True(t, ok)
		require.Len(t, urls, 1)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{
				"id":               "runABC",
				"status":           "RUNNING",
				"defaultDatasetId": "dsXYZ",
			},
		})
	})

	job, err := client.StartJob(context.Background(), "https://www.airbnb.com/rooms/123")
	require.NoError(t, err)
	assert.Equal(t, Job{RunID: "runABC", DatasetID: "dsXYZ"}, job)
}

func TestStartJobIncompleteResponse(t *testing.T) {
	client := newTestScrapeClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": "runABC"}})
	})

	_, err := client.StartJob(context.Background(), "https://www.airbnb.com/rooms/123")
	assert.ErrorContains(t, err, "incomplete run")
}

func TestGetRunStatus(t *testing.T) {
	client := newTestScrapeClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/actor-runs/runABC", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"id": "runABC", "status": "SUCCEEDED"},
		})
	})

	status, err := client.GetRunStatus(context.Background(), "runABC")
	require.NoError(t, err)
	assert.Equal(t, RunStatusSucceeded, status)
}

func TestGetDatasetItems(t *testing.T) {
	client := newTestScrapeClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datasets/dsXYZ/items", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Write([]byte(`[{"name":"Cozy Loft","city":"Berlin"}]`))
	})

	items, raw, err := client.GetDatasetItems(context.Background(), "dsXYZ")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Cozy Loft", items[0].Name)
	assert.JSONEq(t, `[{"name":"Cozy Loft","city":"Berlin"}]`, string(raw))
}

func TestRunStatusHelpers(t *testing.T) {
	assert.True(t, RunActive(RunStatusReady))
	assert.True(t, RunActive(RunStatusRunning))
	assert.False(t, RunActive(RunStatusSucceeded))

	assert.True(t, RunFailed(RunStatusFailed))
	assert.True(t, RunFailed(RunStatusAborted))
	assert.True(t, RunFailed(RunStatusTimedOut))
	assert.False(t, RunFailed(RunStatusSucceeded))
	assert.False(t, RunFailed(RunStatusRunning))
}
