// Package tablestore talks to the external tabular record store that holds
// listing records. The store is schemaless: every record is an opaque
// "rec"-prefixed identifier plus a loose field map.
package tablestore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no record matches the given identifier or
// lookup key.
var ErrNotFound = errors.New("record not found")

// Record is a single row in the listing table.
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Store is the data access contract for listing records.
// Implementations must be safe for concurrent use.
type Store interface {
	// Find returns a single record. Returns ErrNotFound if it doesn't exist.
	Find(ctx context.Context, id string) (*Record, error)

	// Create inserts a new record with the given fields and returns it with
	// its store-issued identifier.
	Create(ctx context.Context, fields map[string]any) (*Record, error)

	// Update merges the given fields into an existing record.
	Update(ctx context.Context, id string, fields map[string]any) (*Record, error)

	// FindByCheckoutSession returns the record whose checkout session field
	// matches sessionID. Returns ErrNotFound when no record matches.
	FindByCheckoutSession(ctx context.Context, sessionID string) (*Record, error)
}
