package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hariganeshs/Vynix/internal/cache"
	"github.com/hariganeshs/Vynix/internal/chat"
	"github.com/hariganeshs/Vynix/internal/config"
	"github.com/hariganeshs/Vynix/internal/usage"
)

type stubEngine struct {
	lastReq chat.Request
	result  chat.Result
	err     error
}

func (s *stubEngine) Generate(_ context.Context, req chat.Request) (chat.Result, error) {
	s.lastReq = req
	if s.err != nil {
		return chat.Result{}, s.err
	}
	return s.result, nil
}

type stubUsage struct {
	summaries []usage.Summary
}

func (s *stubUsage) Summary(context.Context) ([]usage.Summary, error) {
	return s.summaries, nil
}

func newTestServer(engine *stubEngine, c *cache.Cache) *Server {
	cfg := config.Default()
	return New(cfg, engine, c, &stubUsage{}, zap.NewNop())
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandleChat(t *testing.T) {
	engine := &stubEngine{
		result: chat.Result{
			Payload: cache.Payload{ID: "r1", Content: "hi", Tokens: 3, Provider: "lmstudio", Model: "llama3.2"},
			Cached:  true,
			Elapsed: 2 * time.Millisecond,
		},
	}
	s := newTestServer(engine, cache.New(cache.Options{}))

	w := postJSON(t, s, "/api/chat", map[string]any{
		"prompt":  "hello",
		"context": []map[string]string{{"role": "user", "content": "earlier"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp chatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Content != "hi" || !resp.Cached {
		t.Errorf("Unexpected response: %+v", resp)
	}

	// Provider defaults from config when omitted.
	if engine.lastReq.Provider != "lmstudio" {
		t.Errorf("Provider = %q, want config default", engine.lastReq.Provider)
	}
	if len(engine.lastReq.Context) != 1 {
		t.Errorf("Context length = %d, want 1", len(engine.lastReq.Context))
	}
}

func TestHandleChat_ModelAbsentVsEmpty(t *testing.T) {
	engine := &stubEngine{result: chat.Result{Payload: cache.Payload{Content: "x"}}}
	s := newTestServer(engine, cache.New(cache.Options{}))

	postJSON(t, s, "/api/chat", map[string]any{"prompt": "p"})
	if engine.lastReq.Model != nil {
		t.Error("Omitted model should arrive as nil when config has no default")
	}

	postJSON(t, s, "/api/chat", map[string]any{"prompt": "p", "model": ""})
	if engine.lastReq.Model == nil || *engine.lastReq.Model != "" {
		t.Error("Explicit empty model should arrive as a non-nil empty string")
	}
}

func TestHandleChat_Validation(t *testing.T) {
	s := newTestServer(&stubEngine{}, cache.New(cache.Options{}))

	w := postJSON(t, s, "/api/chat", map[string]any{"provider": "lmstudio"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d for missing prompt, want 400", w.Code)
	}
}

func TestHandleChat_GenerationError(t *testing.T) {
	engine := &stubEngine{err: errors.New("provider down")}
	s := newTestServer(engine, cache.New(cache.Options{}))

	w := postJSON(t, s, "/api/chat", map[string]any{"prompt": "p"})
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestCacheEndpoints(t *testing.T) {
	c := cache.New(cache.Options{MaxItems: 10})
	s := newTestServer(&stubEngine{}, c)

	c.Set(cache.Request{Provider: "p", Prompt: "q"}, cache.Payload{Content: "x"})

	w := get(t, s, "/api/cache/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d", w.Code)
	}
	var stats cache.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalEntries != 1 {
		t.Errorf("TotalEntries = %d, want 1", stats.TotalEntries)
	}
	if stats.MaxItems != 10 {
		t.Errorf("MaxItems = %d, want 10", stats.MaxItems)
	}

	if w := postJSON(t, s, "/api/cache/clear", nil); w.Code != http.StatusOK {
		t.Fatalf("clear status = %d", w.Code)
	}
	if n := c.GetStats().TotalEntries; n != 0 {
		t.Errorf("TotalEntries = %d after clear, want 0", n)
	}

	if w := postJSON(t, s, "/api/cache/cleanup", nil); w.Code != http.StatusOK {
		t.Errorf("cleanup status = %d", w.Code)
	}
}

func TestHealthAndModels(t *testing.T) {
	s := newTestServer(&stubEngine{}, cache.New(cache.Options{}))

	if w := get(t, s, "/healthz"); w.Code != http.StatusOK {
		t.Errorf("healthz status = %d", w.Code)
	}
	w := get(t, s, "/api/models")
	if w.Code != http.StatusOK {
		t.Fatalf("models status = %d", w.Code)
	}
	var body struct {
		Providers []string `json:"providers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Providers) != 5 {
		t.Errorf("Providers = %v, want 5 entries", body.Providers)
	}
}

func TestHandleUsage(t *testing.T) {
	s := newTestServer(&stubEngine{}, cache.New(cache.Options{}))
	w := get(t, s, "/api/usage")
	if w.Code != http.StatusOK {
		t.Fatalf("usage status = %d", w.Code)
	}
	if body := w.Body.String(); body == "null\n" {
		t.Error("Empty usage should encode as [], not null")
	}
}
