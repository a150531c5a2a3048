// Package respond assembles structured answers for classified queries.
//
// The Responder keys five response builders off the query intent. Each
// builder issues a search with its own query rewrite and result limit,
// filters the hits by node kind into a typed payload (download links,
// API documentation, resolved FAQ pairs), and attaches the originating
// sources plus canned follow-up suggestions.
package respond
