// Package ingest loads scraped content records into the graph.
//
// The Pipeline fans record inserts out over a worker pool and
// deduplicates re-scraped URLs by content fingerprint, so repeated
// scraper runs never double-populate the graph.
package ingest
