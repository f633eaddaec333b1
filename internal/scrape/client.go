package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mhaveles/airbnboptimizer/internal/config"
	"github.com/mhaveles/airbnboptimizer/internal/pkg/httpretry"
)

// Client talks to the scrape vendor's REST API.
type Client struct {
	baseURL    string
	token      string
	actorID    string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a scrape client from configuration.
func NewClient(cfg config.ScrapeConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.APIToken,
		actorID: cfg.ActorID,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: cfg.Timeout(),
		}, 3),
	}
}

// NewClientWithDoer creates a client with a custom HTTP doer, for tests.
func NewClientWithDoer(cfg config.ScrapeConfig, doer httpretry.HTTPDoer) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.APIToken,
		actorID:    cfg.ActorID,
		httpClient: doer,
	}
}

type runEnvelope struct {
	Data struct {
		ID               string `json:"id"`
		Status           string `json:"status"`
		DefaultDatasetID string `json:"defaultDatasetId"`
	} `json:"data"`
}

// StartJob launches an actor run for the given listing URL. The run is
// capped to a single item and a 60s scrape so one submit costs one unit.
func (c *Client) StartJob(ctx context.Context, listingURL string) (Job, error) {
	input := map[string]any{
		"addMoreHostInfo": true,
		"calendarMonths":  0,
		"currency":        "USD",
		"extraData":       true,
		"maxReviews":      10,
		"proxyConfiguration": map[string]any{
			"useApifyProxy": true,
		},
		"startUrls": []map[string]string{{"url": listingURL}},
		"maxItems":  1,
		"timeoutMs": int((60 * time.Second).Milliseconds()),
	}
	body, err := json.Marshal(input)
	if err != nil {
		return Job{}, fmt.Errorf("marshaling run input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/acts/%s/runs?token=%s", c.baseURL, c.actorID, url.QueryEscape(c.token))
	respBody, status, err := c.doRequest(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return Job{}, err
	}
	if status < 200 || status >= 300 {
		return Job{}, fmt.Errorf("scrape start failed (%d): %s", status, respBody)
	}

	var env runEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return Job{}, fmt.Errorf("parsing run response: %w", err)
	}
	if env.Data.ID == "" || env.Data.DefaultDatasetID == "" {
		return Job{}, fmt.Errorf("scrape start returned incomplete run: %s", respBody)
	}
	return Job{RunID: env.Data.ID, DatasetID: env.Data.DefaultDatasetID}, nil
}

// GetRunStatus returns the vendor status string for a run.
func (c *Client) GetRunStatus(ctx context.Context, runID string) (string, error) {
	endpoint := fmt.Sprintf("%s/actor-runs/%s?token=%s", c.baseURL, url.PathEscape(runID), url.QueryEscape(c.token))
	respBody, status, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("scrape run status failed (%d): %s", status, respBody)
	}

	var env runEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return "", fmt.Errorf("parsing run status: %w", err)
	}
	return env.Data.Status, nil
}

// GetDatasetItems fetches the scraped items from a completed run's dataset.
// The raw bytes come back too so callers can archive the payload verbatim.
func (c *Client) GetDatasetItems(ctx context.Context, datasetID string) ([]Item, []byte, error) {
	endpoint := fmt.Sprintf("%s/datasets/%s/items?token=%s&format=json", c.baseURL, url.PathEscape(datasetID), url.QueryEscape(c.token))
	respBody, status, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, err
	}
	if status < 200 || status >= 300 {
		return nil, nil, fmt.Errorf("scrape dataset fetch failed (%d): %s", status, respBody)
	}

	var items []Item
	if err := json.Unmarshal(respBody, &items); err != nil {
		return nil, nil, fmt.Errorf("parsing dataset items: %w", err)
	}
	return items, respBody, nil
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("scrape request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	return respBody, resp.StatusCode, nil
}
