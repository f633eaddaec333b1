// Package domain defines the listing record entity and its lifecycle.
//
// The record store itself is schemaless, so this package is the single
// source of truth for field names and for the status state machine. Status
// is always an explicit stored value; no stage may infer a state from the
// presence or absence of other fields.
package domain
