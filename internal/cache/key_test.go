package cache

import "testing"

func strptr(s string) *string { return &s }

func TestKey_Deterministic(t *testing.T) {
	req := Request{
		Provider: "openai",
		Model:    strptr("gpt-4.1-mini"),
		Prompt:   "explain goroutines",
		Context: []Message{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
		},
	}

	k1 := Key(req)
	k2 := Key(req)
	if k1 != k2 {
		t.Errorf("Key not deterministic: %q != %q", k1, k2)
	}
	if len(k1) != 64 { // SHA-256 hex
		t.Errorf("Key length = %d, want 64", len(k1))
	}
}

func TestKey_ContextSensitive(t *testing.T) {
	base := Request{Provider: "openai", Model: strptr("gpt-4.1-mini"), Prompt: "x"}

	empty := base
	withCtx := base
	withCtx.Context = []Message{{Role: "user", Content: "earlier turn"}}
	otherCtx := base
	otherCtx.Context = []Message{{Role: "user", Content: "different turn"}}

	if Key(empty) == Key(withCtx) {
		t.Error("Empty context should key differently than non-empty context")
	}
	if Key(withCtx) == Key(otherCtx) {
		t.Error("Different contexts should produce different keys")
	}

	// Order matters.
	ab := base
	ab.Context = []Message{{Role: "user", Content: "a"}, {Role: "assistant", Content: "b"}}
	ba := base
	ba.Context = []Message{{Role: "assistant", Content: "b"}, {Role: "user", Content: "a"}}
	if Key(ab) == Key(ba) {
		t.Error("Reordered context should produce a different key")
	}
}

func TestKey_TrimsPromptWhitespace(t *testing.T) {
	a := Request{Provider: "groq", Prompt: "  hello  "}
	b := Request{Provider: "groq", Prompt: "hello"}
	if Key(a) != Key(b) {
		t.Error("Prompts differing only in surrounding whitespace should share a key")
	}

	c := Request{Provider: "groq", Prompt: "hello there"}
	if Key(b) == Key(c) {
		t.Error("Different prompts should produce different keys")
	}
}

func TestKey_ProviderAndModelSensitive(t *testing.T) {
	a := Request{Provider: "openai", Model: strptr("gpt-4.1-mini"), Prompt: "x"}
	b := Request{Provider: "groq", Model: strptr("gpt-4.1-mini"), Prompt: "x"}
	c := Request{Provider: "openai", Model: strptr("o3-mini"), Prompt: "x"}

	if Key(a) == Key(b) {
		t.Error("Different providers should produce different keys")
	}
	if Key(a) == Key(c) {
		t.Error("Different models should produce different keys")
	}
}

func TestKey_NilModelDistinctFromEmpty(t *testing.T) {
	absent := Request{Provider: "p", Model: nil, Prompt: "x"}
	empty := Request{Provider: "p", Model: strptr(""), Prompt: "x"}
	if Key(absent) == Key(empty) {
		t.Error("Absent model should key differently than empty-string model")
	}
}

func TestKey_RoleDefaultsToUser(t *testing.T) {
	explicit := Request{Provider: "p", Prompt: "x", Context: []Message{{Role: "user", Content: "a"}}}
	implicit := Request{Provider: "p", Prompt: "x", Context: []Message{{Content: "a"}}}
	if Key(explicit) != Key(implicit) {
		t.Error("Missing role should default to user")
	}
}

func TestContextFingerprint(t *testing.T) {
	if got := contextFingerprint(nil); got != noContextSentinel {
		t.Errorf("contextFingerprint(nil) = %q, want %q", got, noContextSentinel)
	}

	fp := contextFingerprint([]Message{{Role: "user", Content: "a"}})
	if len(fp) != 16 {
		t.Errorf("fingerprint length = %d, want 16", len(fp))
	}
	if fp == noContextSentinel {
		t.Error("Non-empty context should not produce the sentinel")
	}
}
