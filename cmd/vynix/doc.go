// Vynix is a branching AI chat backend with a bounded response cache.
//
// It generates chat responses through LM Studio, OpenAI, Google, Groq, or
// OpenRouter, serving repeated requests for the same prompt and conversation
// context from an in-memory, TTL-expiring cache.
//
// Usage:
//
//	vynix chat "explain goroutines"     # one-shot generation
//	vynix serve                         # run the HTTP API
//	vynix cache stats                   # inspect a running server's cache
//	vynix cache clear                   # reset the cache
//	vynix usage                         # token usage per provider/model
//
// See https://github.com/hariganeshs/Vynix for full documentation.
package main
