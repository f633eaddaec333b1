// Package scrape drives the third-party listing scrape service. A scrape
// is an asynchronous job: StartJob launches an actor run and returns the
// run and dataset ids, GetRunStatus reports progress, and GetDatasetItems
// fetches the scraped listing once the run has succeeded. MapItem converts
// the raw vendor payload into the tabular record fields.
package scrape
