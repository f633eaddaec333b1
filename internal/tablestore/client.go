package tablestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mhaveles/airbnboptimizer/internal/config"
	"github.com/mhaveles/airbnboptimizer/internal/domain"
	"github.com/mhaveles/airbnboptimizer/internal/pkg/httpretry"
)

// Client is a REST client for the hosted record store.
type Client struct {
	baseURL    string
	apiKey     string
	baseID     string
	table      string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a new record store client.
func NewClient(cfg config.TableStoreConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		baseID:  cfg.BaseID,
		table:   cfg.TableName,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: cfg.Timeout(),
		}, 3),
	}
}

// recordEnvelope is the wire shape of a single record.
type recordEnvelope struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type recordList struct {
	Records []recordEnvelope `json:"records"`
}

func (c *Client) tableURL() string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(c.table))
}

// doRequest makes an HTTP request to the record store API.
func (c *Client) doRequest(ctx context.Context, method, fullURL string, payload any) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	return respBody, resp.StatusCode, nil
}

// Find returns a single record by its opaque identifier.
func (c *Client) Find(ctx context.Context, id string) (*Record, error) {
	body, status, err := c.doRequest(ctx, http.MethodGet, c.tableURL()+"/"+id, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("record store error (status %d): %s", status, string(body))
	}

	var env recordEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parsing record: %w", err)
	}
	return &Record{ID: env.ID, Fields: env.Fields}, nil
}

// Create inserts a new record and returns it with its store-issued id.
func (c *Client) Create(ctx context.Context, fields map[string]any) (*Record, error) {
	payload := map[string]any{
		"records": []map[string]any{{"fields": fields}},
	}
	body, status, err := c.doRequest(ctx, http.MethodPost, c.tableURL(), payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("record store error (status %d): %s", status, string(body))
	}

	var list recordList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("parsing create response: %w", err)
	}
	if len(list.Records) == 0 {
		return nil, fmt.Errorf("record store returned no records on create")
	}
	rec := list.Records[0]
	return &Record{ID: rec.ID, Fields: rec.Fields}, nil
}

// Update merges fields into an existing record.
func (c *Client) Update(ctx context.Context, id string, fields map[string]any) (*Record, error) {
	payload := map[string]any{"fields": fields}
	body, status, err := c.doRequest(ctx, http.MethodPatch, c.tableURL()+"/"+id, payload)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("record store error (status %d): %s", status, string(body))
	}

	var env recordEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parsing record: %w", err)
	}
	return &Record{ID: env.ID, Fields: env.Fields}, nil
}

// FindByCheckoutSession looks up the record holding the given checkout
// session id via a filter formula, capped at one result.
func (c *Client) FindByCheckoutSession(ctx context.Context, sessionID string) (*Record, error) {
	formula := fmt.Sprintf("{%s} = '%s'", domain.FieldCheckoutSessionID, escapeFormulaValue(sessionID))
	params := url.Values{}
	params.Set("filterByFormula", formula)
	params.Set("maxRecords", "1")

	body, status, err := c.doRequest(ctx, http.MethodGet, c.tableURL()+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("record store error (status %d): %s", status, string(body))
	}

	var list recordList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("parsing list response: %w", err)
	}
	if len(list.Records) == 0 {
		return nil, ErrNotFound
	}
	rec := list.Records[0]
	return &Record{ID: rec.ID, Fields: rec.Fields}, nil
}

// escapeFormulaValue prevents session ids from breaking out of the quoted
// formula literal.
func escapeFormulaValue(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
