package pipeline

import (
	"context"
	"time"

	"github.com/mhaveles/airbnboptimizer/internal/domain"
	"github.com/mhaveles/airbnboptimizer/internal/pkg/logger"
)

// DescriptionResult is the outcome of one paid-pipeline poll step.
type DescriptionResult struct {
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
	Message     string `json:"message,omitempty"`
}

// GenerateDescription advances the paid pipeline by one step. Each call
// makes at most one model call: status paid_webhook2_triggered runs the
// analyzer and stores its brief; paid_description_analyzing runs the
// writer, stores the description, and emails it. Concurrent pollers on
// the same record are serialized by a per-record lock so each model call
// happens once.
func (s *Service) GenerateDescription(ctx context.Context, recordID string) (DescriptionResult, error) {
	if !domain.ValidRecordID(recordID) {
		return DescriptionResult{}, ErrInvalidRecordID
	}

	if lock := s.lockFor(recordID); lock != nil {
		ok, err := lock.Acquire(ctx)
		if err != nil {
			return DescriptionResult{}, err
		}
		if !ok {
			return DescriptionResult{}, ErrLocked
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("failed to release description lock", "record_id", recordID, "error", err.Error())
			}
		}()
	}

	rec, err := s.store.Find(ctx, recordID)
	if err != nil {
		return DescriptionResult{}, err
	}
	listing := domain.ListingFromFields(rec.ID, rec.Fields)

	switch listing.Status {
	case domain.StatusAnalyzed:
		// The payment webhook has not arrived yet.
		return DescriptionResult{Status: "waiting_for_payment"}, nil

	case domain.StatusPaidTriggered:
		brief, err := s.analyst.RunAnalyzer(ctx, listing)
		if err != nil {
			return DescriptionResult{}, err
		}
		fields := map[string]any{domain.FieldDescriptionPrompt: brief}
		if err := s.setStatus(ctx, listing, domain.StatusPaidAnalyzing, fields); err != nil {
			return DescriptionResult{}, err
		}
		logger.Info("paid brief generated", "record_id", recordID)
		return DescriptionResult{Status: "analyzing"}, nil

	case domain.StatusPaidAnalyzing:
		if listing.DescriptionPrompt == "" {
			return DescriptionResult{Status: "error", Message: "Analyzer output missing"}, nil
		}

		description, err := s.analyst.RunWriter(ctx, listing.DescriptionPrompt, listing)
		if err != nil {
			return DescriptionResult{}, err
		}
		fields := map[string]any{domain.FieldPaidDescription: description}
		if err := s.setStatus(ctx, listing, domain.StatusPaidCompleted, fields); err != nil {
			return DescriptionResult{}, err
		}
		logger.Info("paid description completed", "record_id", recordID)

		s.deliverDescription(ctx, listing, description)

		return DescriptionResult{Status: "complete", Description: description}, nil

	case domain.StatusPaidCompleted:
		return DescriptionResult{Status: "complete", Description: listing.PaidDescription}, nil

	default:
		return DescriptionResult{
			Status:  "unknown",
			Message: "Unexpected status: " + string(listing.Status),
		}, nil
	}
}

// deliverDescription emails the finished description. Delivery failures
// are logged and swallowed; the buyer still sees the description on the
// success page. A successful send is stamped on the record.
func (s *Service) deliverDescription(ctx context.Context, listing *domain.Listing, description string) {
	if listing.Email == "" {
		return
	}
	if err := s.emailer.SendDescription(ctx, listing.Email, description); err != nil {
		logger.Error("failed to send description email", "record_id", listing.ID, "error", err.Error())
		return
	}
	_, err := s.store.Update(ctx, listing.ID, map[string]any{
		domain.FieldEmailSentAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		logger.Warn("failed to stamp email sent time", "record_id", listing.ID, "error", err.Error())
	}
}
