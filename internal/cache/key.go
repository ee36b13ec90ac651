package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
)

// Message is one prior conversation turn supplied as context for a request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request identifies a generation request for caching purposes. A nil Model
// means the caller did not choose a model and the provider default applies;
// this keys differently from an explicit empty-string model.
type Request struct {
	Provider string
	Model    *string
	Prompt   string
	Context  []Message
}

// noContextSentinel stands in for an empty context so that "no context" can
// never collide with a non-empty context that hashes to the same digest.
const noContextSentinel = "none"

// contextFingerprint reduces an ordered context to a short stable digest.
// Missing roles default to "user"; missing content to the empty string.
func contextFingerprint(context []Message) string {
	if len(context) == 0 {
		return noContextSentinel
	}
	parts := make([]string, 0, len(context))
	for _, m := range context {
		role := m.Role
		if role == "" {
			role = "user"
		}
		parts = append(parts, role+":"+m.Content)
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%x", sum)[:16]
}

// compositeKey is the canonical record hashed into a cache key. Field order
// is fixed by the struct definition, so serialization is deterministic. A nil
// Model serializes as JSON null, which is distinct from "".
type compositeKey struct {
	Provider    string  `json:"provider"`
	Model       *string `json:"model"`
	Prompt      string  `json:"prompt"`
	ContextHash string  `json:"contextHash"`
}

// Key derives the cache key for a request: a SHA-256 hex digest over the
// provider, model, whitespace-trimmed prompt, and context fingerprint.
func Key(req Request) string {
	composite := compositeKey{
		Provider:    req.Provider,
		Model:       req.Model,
		Prompt:      strings.TrimSpace(req.Prompt),
		ContextHash: contextFingerprint(req.Context),
	}
	// Marshal of a flat struct of strings cannot fail.
	data, _ := json.Marshal(composite)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum)
}
