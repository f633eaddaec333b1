package pipeline

import "errors"

var (
	// ErrInvalidRecordID is returned when an id does not look like a
	// store-issued record id.
	ErrInvalidRecordID = errors.New("invalid record id")

	// ErrInvalidEmail is returned when an email address fails validation.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidURL is returned when a listing URL cannot be normalized
	// to a canonical room URL.
	ErrInvalidURL = errors.New("invalid listing URL")

	// ErrLocked is returned when another request is already driving the
	// paid pipeline for the same record.
	ErrLocked = errors.New("record is locked by another request")
)
