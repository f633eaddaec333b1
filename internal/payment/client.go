package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mhaveles/airbnboptimizer/internal/config"
	"github.com/mhaveles/airbnboptimizer/internal/pkg/httpretry"
)

// Client talks to the checkout provider's REST API.
type Client struct {
	baseURL    string
	secretKey  string
	siteURL    string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a payment client from configuration. siteURL is the
// public site the checkout redirects back to.
func NewClient(cfg config.PaymentConfig, siteURL string) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		siteURL:   siteURL,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: cfg.Timeout(),
		}, 3),
	}
}

// NewClientWithDoer creates a client with a custom HTTP doer, for tests.
func NewClientWithDoer(cfg config.PaymentConfig, siteURL string, doer httpretry.HTTPDoer) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		secretKey:  cfg.SecretKey,
		siteURL:    siteURL,
		httpClient: doer,
	}
}

// Session is a created hosted checkout session.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateSession opens a one-time payment session for a record. The record
// id rides in session metadata so the completion webhook can find the
// listing; email, when present, pre-fills the checkout form.
func (c *Client) CreateSession(ctx context.Context, priceID, recordID, email string) (Session, error) {
	form := url.Values{}
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("mode", "payment")
	form.Set("success_url", c.siteURL+"/payment-success?session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", c.siteURL+"/results?recordId="+url.QueryEscape(recordID))
	form.Set("metadata[recordId]", recordID)
	if email != "" {
		form.Set("customer_email", email)
	}

	endpoint := c.baseURL + "/checkout/sessions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Session{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("checkout session request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Session{}, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Session{}, fmt.Errorf("checkout session failed (%d): %s", resp.StatusCode, body)
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return Session{}, fmt.Errorf("parsing session response: %w", err)
	}
	if session.URL == "" {
		return Session{}, fmt.Errorf("checkout session returned no URL: %s", body)
	}
	return session, nil
}
