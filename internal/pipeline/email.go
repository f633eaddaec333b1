package pipeline

import (
	"context"
	"regexp"
	"time"

	"github.com/mhaveles/airbnboptimizer/internal/domain"
	"github.com/mhaveles/airbnboptimizer/internal/pkg/logger"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether addr passes the submission format check.
func ValidEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}

// SaveEmail attaches a contact email to an existing record. The record
// must exist; the email must pass the format check.
func (s *Service) SaveEmail(ctx context.Context, recordID, addr string) error {
	if !ValidEmail(addr) {
		return ErrInvalidEmail
	}
	if !domain.ValidRecordID(recordID) {
		return ErrInvalidRecordID
	}

	// Find first so a bad id surfaces as not-found, not as a write error.
	if _, err := s.store.Find(ctx, recordID); err != nil {
		return err
	}

	_, err := s.store.Update(ctx, recordID, map[string]any{
		domain.FieldEmail:           addr,
		domain.FieldEmailSource:     "Results Page",
		domain.FieldEmailCapturedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	logger.Info("email captured", "record_id", recordID, "email", addr)
	return nil
}
