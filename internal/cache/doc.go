// Package cache provides a bounded, TTL-expiring, in-memory cache for AI
// generation results.
//
// Entries are keyed by a SHA-256 fingerprint of the provider name, model,
// whitespace-trimmed prompt, and ordered conversation context. Eviction is
// strictly FIFO by insertion time (never LRU), capacity is bounded by
// maxItems, and expiry is checked lazily on read with an optional background
// sweep for memory hygiene. A disabled cache turns every Get into a miss and
// every Set into a no-op while keeping Stats and Clear operable.
package cache
