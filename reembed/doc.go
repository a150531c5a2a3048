// Package reembed recomputes graph node embeddings, typically after a
// change of embedding model or provider.
//
// Nodes are processed in batches with retry and exponential backoff on
// embedding calls, progress reporting, and vector normalization so the
// resulting embeddings stay compatible with cosine similarity search.
package reembed
