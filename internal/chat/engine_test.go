package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/hariganeshs/Vynix/internal/cache"
	"github.com/hariganeshs/Vynix/internal/config"
	"github.com/hariganeshs/Vynix/internal/providers"
	"github.com/hariganeshs/Vynix/internal/usage"
)

type stubChatter struct {
	calls int
	resp  providers.ChatResponse
	err   error
}

func (s *stubChatter) Chat(ctx context.Context, req providers.ChatRequest) (providers.ChatResponse, error) {
	s.calls++
	if s.err != nil {
		return providers.ChatResponse{}, s.err
	}
	return s.resp, nil
}

func (s *stubChatter) Name() string { return "stub" }

type memRecorder struct {
	records []usage.Record
}

func (m *memRecorder) Record(_ context.Context, rec usage.Record) error {
	m.records = append(m.records, rec)
	return nil
}

func newTestEngine(stub *stubChatter, cfg config.Config, rec Recorder) *Engine {
	e := New(cfg, cache.New(cache.Options{}), rec)
	e.newProvider = func(provider, model string) (providers.Chatter, error) {
		return stub, nil
	}
	return e
}

func baseConfig() config.Config {
	cfg := config.Default()
	cfg.Privacy.RedactSecrets = false
	return cfg
}

func TestEngine_MissThenCachedHit(t *testing.T) {
	stub := &stubChatter{resp: providers.ChatResponse{ID: "r1", Content: "answer", TokensUsed: 7, Model: "llama3.2"}}
	rec := &memRecorder{}
	e := newTestEngine(stub, baseConfig(), rec)

	req := Request{Provider: "lmstudio", Prompt: "what is a mutex?"}

	res, err := e.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if res.Cached {
		t.Error("First call should not be cached")
	}
	if res.Payload.Content != "answer" {
		t.Errorf("Content = %q, want %q", res.Payload.Content, "answer")
	}
	if stub.calls != 1 {
		t.Fatalf("Provider calls = %d, want 1", stub.calls)
	}

	res, err = e.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if !res.Cached {
		t.Error("Second identical call should be served from cache")
	}
	if stub.calls != 1 {
		t.Errorf("Provider calls = %d, want 1 (hit must not reach the provider)", stub.calls)
	}

	if len(rec.records) != 2 {
		t.Fatalf("Usage records = %d, want 2", len(rec.records))
	}
	if rec.records[0].Cached || !rec.records[1].Cached {
		t.Error("Usage records should mark the hit as cached")
	}
}

func TestEngine_ContextChangesMiss(t *testing.T) {
	stub := &stubChatter{resp: providers.ChatResponse{Content: "x"}}
	e := newTestEngine(stub, baseConfig(), nil)

	a := Request{Provider: "lmstudio", Prompt: "q"}
	b := Request{Provider: "lmstudio", Prompt: "q", Context: []cache.Message{{Role: "user", Content: "earlier"}}}

	if _, err := e.Generate(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Generate(context.Background(), b); err != nil {
		t.Fatal(err)
	}
	if stub.calls != 2 {
		t.Errorf("Provider calls = %d, want 2 (different context must not hit)", stub.calls)
	}
}

func TestEngine_DisabledCacheAlwaysGenerates(t *testing.T) {
	stub := &stubChatter{resp: providers.ChatResponse{Content: "x"}}
	cfg := baseConfig()
	e := New(cfg, cache.New(cache.Options{Disabled: true}), nil)
	e.newProvider = func(provider, model string) (providers.Chatter, error) { return stub, nil }

	req := Request{Provider: "lmstudio", Prompt: "q"}
	for i := 0; i < 2; i++ {
		res, err := e.Generate(context.Background(), req)
		if err != nil {
			t.Fatal(err)
		}
		if res.Cached {
			t.Error("Disabled cache should never report a hit")
		}
	}
	if stub.calls != 2 {
		t.Errorf("Provider calls = %d, want 2", stub.calls)
	}
}

func TestEngine_FailedGenerationNotCached(t *testing.T) {
	stub := &stubChatter{err: errors.New("upstream exploded")}
	e := newTestEngine(stub, baseConfig(), nil)

	req := Request{Provider: "lmstudio", Prompt: "q"}
	if _, err := e.Generate(context.Background(), req); err == nil {
		t.Fatal("Expected generation error")
	}

	// A later successful call must be a miss, not a poisoned hit.
	stub.err = nil
	stub.resp = providers.ChatResponse{Content: "ok"}
	res, err := e.Generate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached {
		t.Error("Failed attempt must not have written a cache entry")
	}
	if res.Payload.Content != "ok" {
		t.Errorf("Content = %q, want %q", res.Payload.Content, "ok")
	}
}

func TestEngine_GeneratesIDWhenMissing(t *testing.T) {
	stub := &stubChatter{resp: providers.ChatResponse{Content: "no id from provider"}}
	e := newTestEngine(stub, baseConfig(), nil)

	res, err := e.Generate(context.Background(), Request{Provider: "lmstudio", Prompt: "q"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Payload.ID == "" {
		t.Error("Engine should assign an ID when the provider omits one")
	}
}

func TestEngine_RedactionAppliesBeforeCaching(t *testing.T) {
	stub := &stubChatter{resp: providers.ChatResponse{Content: "x"}}
	cfg := baseConfig()
	cfg.Privacy.RedactSecrets = true
	e := newTestEngine(stub, cfg, nil)

	// Two prompts differing only in the secret value should redact to the
	// same text and share a cache entry.
	a := Request{Provider: "openai", Prompt: "my key is sk-ant-REDACTED, help"}
	b := Request{Provider: "openai", Prompt: "my key is sk-ant-REDACTED, help"}

	if _, err := e.Generate(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	res, err := e.Generate(context.Background(), b)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Cached {
		t.Error("Redacted-identical prompts should share a cache entry")
	}
	if stub.calls != 1 {
		t.Errorf("Provider calls = %d, want 1", stub.calls)
	}
}

func TestEngine_ModelFallsBackToRequested(t *testing.T) {
	stub := &stubChatter{resp: providers.ChatResponse{Content: "x"}}
	e := newTestEngine(stub, baseConfig(), nil)

	model := "llama3.2"
	res, err := e.Generate(context.Background(), Request{Provider: "lmstudio", Model: &model, Prompt: "q"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Payload.Model != "llama3.2" {
		t.Errorf("Model = %q, want requested model fallback", res.Payload.Model)
	}
}
