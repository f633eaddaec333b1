// Package pipeline orchestrates the listing optimization flow: submit a
// listing URL, scrape it, run the free analysis, take payment, generate
// the premium description, and email it. Every operation performs at
// most one heavy vendor call and persists its outcome to the record
// store before returning; the client's poller drives the flow forward by
// calling again. Progress is tracked solely by the record's Status
// field.
package pipeline
