package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hariganeshs/Vynix/internal/cache"
	"github.com/hariganeshs/Vynix/internal/config"
	"github.com/hariganeshs/Vynix/internal/providers"
	"github.com/hariganeshs/Vynix/internal/redact"
	"github.com/hariganeshs/Vynix/internal/usage"
)

// Request describes one generation call. A nil Model leaves model selection
// to the provider; Context carries the prior turns of the conversation branch
// in order.
type Request struct {
	Provider string
	Model    *string
	Prompt   string
	Context  []cache.Message
}

// Result is the outcome of a generation call.
type Result struct {
	Payload cache.Payload
	Cached  bool
	Elapsed time.Duration
}

// Recorder receives usage records. *usage.Tracker satisfies it; a nil
// Recorder disables tracking.
type Recorder interface {
	Record(ctx context.Context, rec usage.Record) error
}

// Engine performs AI generation with the response cache in front of the
// provider call. The cache is consulted synchronously before generation and
// written synchronously after a successful generation; a failed generation
// never touches the cache. Concurrent identical requests are not
// de-duplicated: both may reach the provider and the second write wins.
type Engine struct {
	cfg   config.Config
	cache *cache.Cache
	usage Recorder

	// newProvider is swappable in tests.
	newProvider func(provider, model string) (providers.Chatter, error)
}

// New creates an Engine. tracker may be nil.
func New(cfg config.Config, c *cache.Cache, tracker Recorder) *Engine {
	return &Engine{
		cfg:         cfg,
		cache:       c,
		usage:       tracker,
		newProvider: providers.New,
	}
}

// Generate returns a response for the prompt, served from the cache when a
// valid entry exists and generated by the provider otherwise.
func (e *Engine) Generate(ctx context.Context, req Request) (Result, error) {
	start := time.Now()

	prompt := req.Prompt
	history := req.Context
	if e.cfg.Privacy.RedactSecrets {
		// Redaction runs before key derivation so caching sees the same
		// text the provider sees.
		prompt = redact.Secrets(prompt)
		history = redactHistory(history)
	}

	creq := cache.Request{
		Provider: req.Provider,
		Model:    req.Model,
		Prompt:   prompt,
		Context:  history,
	}

	if payload, ok := e.cache.Get(creq); ok {
		e.record(ctx, payload, true)
		return Result{Payload: payload, Cached: true, Elapsed: time.Since(start)}, nil
	}

	model := ""
	if req.Model != nil {
		model = *req.Model
	}
	provider, err := e.newProvider(req.Provider, model)
	if err != nil {
		return Result{}, fmt.Errorf("creating provider: %w", err)
	}

	resp, err := provider.Chat(ctx, providers.ChatRequest{
		Messages: buildMessages(history, prompt),
	})
	if err != nil {
		return Result{}, fmt.Errorf("provider chat: %w", err)
	}

	payload := cache.Payload{
		ID:       resp.ID,
		Content:  resp.Content,
		Tokens:   resp.TokensUsed,
		Provider: req.Provider,
		Model:    resp.Model,
	}
	if payload.ID == "" {
		payload.ID = uuid.New().String()
	}
	if payload.Model == "" && req.Model != nil {
		payload.Model = *req.Model
	}

	e.cache.Set(creq, payload)
	e.record(ctx, payload, false)

	return Result{Payload: payload, Cached: false, Elapsed: time.Since(start)}, nil
}

func (e *Engine) record(ctx context.Context, payload cache.Payload, cached bool) {
	if e.usage == nil {
		return
	}
	// Usage tracking is best-effort; a failed write never fails the chat.
	_ = e.usage.Record(ctx, usage.Record{
		Provider:  payload.Provider,
		Model:     payload.Model,
		Tokens:    payload.Tokens,
		Cached:    cached,
		CreatedAt: time.Now(),
	})
}

func buildMessages(history []cache.Message, prompt string) []providers.Message {
	messages := make([]providers.Message, 0, len(history)+1)
	for _, m := range history {
		role := m.Role
		if role == "" {
			role = "user"
		}
		messages = append(messages, providers.Message{Role: role, Content: m.Content})
	}
	return append(messages, providers.Message{Role: "user", Content: prompt})
}

func redactHistory(history []cache.Message) []cache.Message {
	if len(history) == 0 {
		return history
	}
	out := make([]cache.Message, len(history))
	for i, m := range history {
		out[i] = cache.Message{Role: m.Role, Content: redact.Secrets(m.Content)}
	}
	return out
}
