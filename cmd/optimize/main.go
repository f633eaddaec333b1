// Command optimize drives the optimizer API from the terminal: submit a
// listing URL, poll until the free analysis is ready, and print it.
// With -record it resumes polling an existing record instead.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/mhaveles/airbnboptimizer/internal/config"
	"github.com/mhaveles/airbnboptimizer/internal/pollclient"
)

type client struct {
	baseURL string
	http    *http.Client
}

func (c *client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (%d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// newPoller builds the status poller from the poll section of the
// config file. Without one (or with unusable bounds) it falls back to
// the stock free-stage poller.
func newPoller(configPath string) *pollclient.Poller {
	cfg, err := config.Load(configPath)
	if err != nil {
		return pollclient.NewFreePoller()
	}
	p, err := pollclient.New(cfg.Poll.Interval(), cfg.Poll.MaxAttempts, cfg.Poll.Timeout())
	if err != nil {
		return pollclient.NewFreePoller()
	}
	return p
}

func main() {
	baseURL := flag.String("server", "http://localhost:8080", "optimizer API base URL")
	listingURL := flag.String("url", "", "Airbnb listing URL to optimize")
	recordID := flag.String("record", "", "existing record id to resume polling")
	email := flag.String("email", "", "email to attach to the submission")
	configPath := flag.String("config", "config/config.yaml", "config file with poll tuning")
	flag.Parse()

	if *listingURL == "" && *recordID == "" {
		fmt.Fprintln(os.Stderr, "usage: optimize -url <listing url> [-email <addr>] | -record <recXXX>")
		os.Exit(2)
	}

	c := &client{baseURL: *baseURL, http: http.DefaultClient}
	ctx := context.Background()

	rec := *recordID
	if rec == "" {
		var norm struct {
			NormalizedURL string `json:"normalizedUrl"`
		}
		if err := c.postJSON(ctx, "/api/normalize-url", map[string]string{"url": *listingURL}, &norm); err != nil {
			log.Fatalf("normalize: %v", err)
		}
		fmt.Printf("Listing: %s\n", norm.NormalizedURL)

		var submitted struct {
			RecordID string `json:"recordId"`
		}
		payload := map[string]string{"airbnbUrl": norm.NormalizedURL}
		if *email != "" {
			payload["email"] = *email
			payload["email_source"] = "CLI"
		}
		if err := c.postJSON(ctx, "/api/analyze", payload, &submitted); err != nil {
			log.Fatalf("submit: %v", err)
		}
		rec = submitted.RecordID
		fmt.Printf("Record:  %s\n", rec)
	}

	fmt.Println("Waiting for analysis...")
	poller := newPoller(*configPath)
	err := poller.Run(ctx, func(ctx context.Context) (bool, error) {
		var status struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		if err := c.getJSON(ctx, "/api/poll-status?recordId="+rec, &status); err != nil {
			return false, err
		}
		switch status.Status {
		case "complete", "analyzed":
			return true, nil
		case "error":
			return false, fmt.Errorf("analysis failed: %s", status.Message)
		default:
			fmt.Printf("  %s\n", status.Status)
			return false, nil
		}
	})
	if err != nil {
		log.Fatalf("poll: %v", err)
	}

	var record struct {
		Recommendations    string `json:"recommendations"`
		PremiumDescription string `json:"premiumDescription"`
	}
	if err := c.getJSON(ctx, "/api/get-record?recordId="+rec, &record); err != nil {
		log.Fatalf("fetch record: %v", err)
	}

	fmt.Println("\n--- Freemium Analysis ---")
	fmt.Println(record.Recommendations)
	if record.PremiumDescription != "" {
		fmt.Println("\n--- Premium Description ---")
		fmt.Println(record.PremiumDescription)
	}
}
