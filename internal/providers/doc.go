// Package providers contains thin adapters to external LLM chat APIs.
//
// Supported providers: lmstudio (local, OpenAI-compatible), openai, google
// (Gemini API), groq, and openrouter. All OpenAI-compatible backends share a
// single client implementation. Requests retry with exponential backoff on
// rate limits and upstream 5xx responses; authentication failures are
// surfaced immediately as typed errors.
package providers
