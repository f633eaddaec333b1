package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mhaveles/airbnboptimizer/internal/domain"
	"github.com/mhaveles/airbnboptimizer/internal/pkg/logger"
)

// SubmitInput is a new listing submission. Email and EmailSource are
// optional; UTM params captured on the landing page ride along into the
// record for attribution.
type SubmitInput struct {
	ListingURL  string
	Email       string
	EmailSource string
	UTM         map[string]string
}

// Submit creates the listing record in status scraping and launches the
// scrape job for it. Returns the new record id for the client to poll.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (string, error) {
	if strings.TrimSpace(in.ListingURL) == "" {
		return "", fmt.Errorf("%w: empty listing URL", ErrInvalidURL)
	}

	fields := map[string]any{
		domain.FieldListingURL:   in.ListingURL,
		domain.FieldStatus:       string(domain.StatusScraping),
		domain.FieldDateCaptured: time.Now().UTC().Format("2006-01-02"),
	}
	if in.Email != "" {
		fields[domain.FieldEmail] = in.Email
	}
	if in.EmailSource != "" {
		fields[domain.FieldEmailSource] = in.EmailSource
	}
	for key, val := range in.UTM {
		if strings.HasPrefix(key, "utm_") && val != "" {
			fields[key] = val
		}
	}

	// The record exists before the scrape launches so the returned id
	// always resolves, even if the vendor call fails.
	rec, err := s.store.Create(ctx, fields)
	if err != nil {
		return "", fmt.Errorf("creating listing record: %w", err)
	}

	job, err := s.scraper.StartJob(ctx, in.ListingURL)
	if err != nil {
		if _, uerr := s.store.Update(ctx, rec.ID, map[string]any{
			domain.FieldStatus: string(domain.StatusError),
		}); uerr != nil {
			logger.Warn("failed to mark record after scrape start failure", "record_id", rec.ID, "error", uerr.Error())
		}
		return "", fmt.Errorf("starting scrape: %w", err)
	}

	if _, err := s.store.Update(ctx, rec.ID, map[string]any{
		domain.FieldRunID:     job.RunID,
		domain.FieldDatasetID: job.DatasetID,
	}); err != nil {
		return "", fmt.Errorf("storing scrape job ids: %w", err)
	}

	logger.Info("listing submitted",
		"record_id", rec.ID,
		"run_id", job.RunID,
		"has_email", in.Email != "",
	)
	return rec.ID, nil
}
