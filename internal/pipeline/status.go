package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/mhaveles/airbnboptimizer/internal/domain"
	"github.com/mhaveles/airbnboptimizer/internal/pkg/logger"
	"github.com/mhaveles/airbnboptimizer/internal/scrape"
)

// StatusResult is the outcome of one free-pipeline poll step.
type StatusResult struct {
	Status   string `json:"status"`
	RecordID string `json:"recordId,omitempty"`
	Message  string `json:"message,omitempty"`
}

// PollStatus advances the free pipeline by one step. In status scraping
// it checks the scrape run and, on success, persists the mapped fields;
// in status scraped it runs the freemium analysis. Later statuses are
// reported without further work.
func (s *Service) PollStatus(ctx context.Context, recordID string) (StatusResult, error) {
	if !domain.ValidRecordID(recordID) {
		return StatusResult{}, ErrInvalidRecordID
	}

	rec, err := s.store.Find(ctx, recordID)
	if err != nil {
		return StatusResult{}, err
	}
	listing := domain.ListingFromFields(rec.ID, rec.Fields)

	switch listing.Status {
	case domain.StatusScraping:
		return s.stepScraping(ctx, listing)

	case domain.StatusScraped:
		return s.stepAnalyze(ctx, listing)

	case domain.StatusAnalyzed, domain.StatusPaidTriggered,
		domain.StatusPaidAnalyzing, domain.StatusPaidCompleted:
		// The free pipeline is done; paid progress is polled elsewhere.
		return StatusResult{Status: "complete", RecordID: recordID}, nil

	case domain.StatusError:
		return StatusResult{Status: "error", Message: "Analysis failed"}, nil

	default:
		status := string(listing.Status)
		if status == "" {
			status = "unknown"
		}
		return StatusResult{Status: status}, nil
	}
}

// stepScraping checks the scrape run, and on success maps and persists
// the scraped listing.
func (s *Service) stepScraping(ctx context.Context, listing *domain.Listing) (StatusResult, error) {
	if listing.RunID == "" {
		return StatusResult{Status: "error", Message: "No scrape run ID found"}, nil
	}

	runStatus, err := s.scraper.GetRunStatus(ctx, listing.RunID)
	if err != nil {
		return StatusResult{}, fmt.Errorf("checking scrape run: %w", err)
	}

	if scrape.RunActive(runStatus) {
		return StatusResult{Status: "scraping"}, nil
	}

	if runStatus != scrape.RunStatusSucceeded {
		if err := s.setStatus(ctx, listing, domain.StatusError, nil); err != nil {
			return StatusResult{}, err
		}
		return StatusResult{
			Status:  "error",
			Message: fmt.Sprintf("Scraper %s", strings.ToLower(runStatus)),
		}, nil
	}

	items, raw, err := s.scraper.GetDatasetItems(ctx, listing.DatasetID)
	if err != nil {
		return StatusResult{}, fmt.Errorf("fetching scrape results: %w", err)
	}
	if len(items) == 0 {
		if err := s.setStatus(ctx, listing, domain.StatusError, nil); err != nil {
			return StatusResult{}, err
		}
		return StatusResult{Status: "error", Message: "Scraper returned no results"}, nil
	}

	s.archiver.Store(ctx, listing.ID, raw)

	fields := scrape.MapItem(items[0])
	if err := s.setStatus(ctx, listing, domain.StatusScraped, fields); err != nil {
		return StatusResult{}, err
	}
	extras := scrape.ExtractPromptExtras(items[0])
	logger.Info("listing scraped",
		"record_id", listing.ID,
		"run_id", listing.RunID,
		"listing_id", extras.ListingID,
	)
	return StatusResult{Status: "scraped"}, nil
}

// stepAnalyze runs the freemium analysis over the persisted fields.
func (s *Service) stepAnalyze(ctx context.Context, listing *domain.Listing) (StatusResult, error) {
	analysis, err := s.analyst.RunFreemiumAnalysis(ctx, listing)
	if err != nil {
		return StatusResult{}, err
	}

	fields := map[string]any{domain.FieldFreemiumAnalysis: analysis}
	if err := s.setStatus(ctx, listing, domain.StatusAnalyzed, fields); err != nil {
		return StatusResult{}, err
	}
	logger.Info("freemium analysis completed", "record_id", listing.ID)
	return StatusResult{Status: "analyzed", RecordID: listing.ID}, nil
}

// setStatus persists a status transition together with extra fields,
// refusing moves the status machine does not allow.
func (s *Service) setStatus(ctx context.Context, listing *domain.Listing, to domain.Status, extra map[string]any) error {
	if !domain.CanTransition(listing.Status, to) {
		return fmt.Errorf("illegal status transition %q -> %q for record %s", listing.Status, to, listing.ID)
	}
	fields := map[string]any{domain.FieldStatus: string(to)}
	for k, v := range extra {
		fields[k] = v
	}
	if _, err := s.store.Update(ctx, listing.ID, fields); err != nil {
		return fmt.Errorf("updating record %s: %w", listing.ID, err)
	}
	return nil
}

// GetRecord returns the typed listing for a record id.
func (s *Service) GetRecord(ctx context.Context, recordID string) (*domain.Listing, error) {
	if !domain.ValidRecordID(recordID) {
		return nil, ErrInvalidRecordID
	}
	rec, err := s.store.Find(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return domain.ListingFromFields(rec.ID, rec.Fields), nil
}
