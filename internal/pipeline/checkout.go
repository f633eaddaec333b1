package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/mhaveles/airbnboptimizer/internal/domain"
	"github.com/mhaveles/airbnboptimizer/internal/payment"
	"github.com/mhaveles/airbnboptimizer/internal/pkg/logger"
	"github.com/mhaveles/airbnboptimizer/internal/tablestore"
)

// CreateCheckout opens a hosted checkout session for a record and
// returns the URL to redirect the buyer to. An empty priceID falls back
// to the configured default price.
func (s *Service) CreateCheckout(ctx context.Context, priceID, recordID, emailAddr string) (string, error) {
	if !domain.ValidRecordID(recordID) {
		return "", ErrInvalidRecordID
	}
	if priceID == "" {
		priceID = s.cfg.PriceID
	}

	session, err := s.checkout.CreateSession(ctx, priceID, recordID, emailAddr)
	if err != nil {
		return "", fmt.Errorf("creating checkout session: %w", err)
	}

	logger.Info("checkout session created", "record_id", recordID, "session_id", session.ID)
	return session.URL, nil
}

// WebhookResult reports what a processed webhook delivery did.
type WebhookResult struct {
	Handled   bool
	RecordID  string
	SessionID string
}

// HandleCheckoutCompleted processes a verified webhook event. Completed
// checkouts mark the record paid and store the session id; everything
// else is acknowledged untouched. Redeliveries re-apply the same update,
// which the status machine permits.
func (s *Service) HandleCheckoutCompleted(ctx context.Context, event payment.Event) (WebhookResult, error) {
	if event.Type != payment.EventCheckoutCompleted {
		return WebhookResult{}, nil
	}

	session := event.Data.Object
	recordID := session.RecordID()
	if recordID == "" {
		return WebhookResult{}, fmt.Errorf("%w: no record id in session metadata", ErrInvalidRecordID)
	}

	if err := s.eventLog.Record(ctx, event); err != nil {
		if errors.Is(err, payment.ErrDuplicateEvent) {
			logger.Warn("webhook event redelivered", "event_id", event.ID, "record_id", recordID)
		} else {
			// The event log is observability, not a gate.
			logger.Warn("failed to record webhook event", "event_id", event.ID, "error", err.Error())
		}
	}

	rec, err := s.store.Find(ctx, recordID)
	if err != nil {
		return WebhookResult{}, err
	}
	listing := domain.ListingFromFields(rec.ID, rec.Fields)

	// A redelivery can arrive after the paid pipeline has already moved
	// on; acknowledge it without touching the record, or the provider
	// retries a delivery that can never succeed.
	switch listing.Status {
	case domain.StatusPaidAnalyzing, domain.StatusPaidCompleted:
		logger.Info("webhook redelivered after paid progress",
			"record_id", recordID, "session_id", session.ID, "status", string(listing.Status))
		return WebhookResult{Handled: true, RecordID: recordID, SessionID: session.ID}, nil
	}

	fields := map[string]any{domain.FieldCheckoutSessionID: session.ID}
	if err := s.setStatus(ctx, listing, domain.StatusPaidTriggered, fields); err != nil {
		return WebhookResult{}, err
	}

	logger.Info("checkout completed", "record_id", recordID, "session_id", session.ID)
	return WebhookResult{Handled: true, RecordID: recordID, SessionID: session.ID}, nil
}

// DescriptionLookup is the result of polling by checkout session id.
type DescriptionLookup struct {
	Found          bool
	HasDescription bool
	RecordID       string
	Description    string
	Email          string
}

// PollDescription looks up a record by its checkout session id and
// reports whether the paid description is ready. Used by the
// payment-success page, which only knows the session id.
func (s *Service) PollDescription(ctx context.Context, sessionID string) (DescriptionLookup, error) {
	rec, err := s.store.FindByCheckoutSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, tablestore.ErrNotFound) {
			return DescriptionLookup{}, nil
		}
		return DescriptionLookup{}, err
	}

	listing := domain.ListingFromFields(rec.ID, rec.Fields)
	if listing.PaidDescription == "" {
		return DescriptionLookup{Found: true, RecordID: rec.ID}, nil
	}
	return DescriptionLookup{
		Found:          true,
		HasDescription: true,
		RecordID:       rec.ID,
		Description:    listing.PaidDescription,
		Email:          listing.Email,
	}, nil
}
