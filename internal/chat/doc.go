// Package chat runs AI generation requests through the response cache.
//
// The engine derives a cache key from the provider, model, prompt, and
// conversation context, serves hits directly, and only calls the external
// provider on a miss. Successful generations are written back to the cache
// and recorded in the usage tracker.
package chat
