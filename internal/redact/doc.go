// Package redact strips likely secrets from prompt text before it is sent to
// hosted LLM providers or used to derive cache keys. Detection is heuristic,
// based on regex patterns for common API key, token, and credential formats.
package redact
