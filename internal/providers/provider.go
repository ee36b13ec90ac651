package providers

import (
	"context"
	"fmt"
)

// Message is a single chat turn sent to a provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest contains the data sent to an LLM for generation.
type ChatRequest struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// ChatResponse contains the normalized response from an LLM.
type ChatResponse struct {
	ID         string
	Content    string
	TokensUsed int
	Model      string
}

// Chatter is the provider abstraction interface.
type Chatter interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	Name() string
}

// Names lists the known provider identifiers.
var Names = []string{"lmstudio", "openai", "google", "groq", "openrouter"}

// New creates a provider by name. An empty model selects the provider's
// default model where one exists.
func New(provider, model string) (Chatter, error) {
	switch provider {
	case "lmstudio":
		return NewLMStudio(model)
	case "openai":
		return NewOpenAI(model)
	case "google", "gemini":
		return NewGoogle(model)
	case "groq":
		return NewGroq(model)
	case "openrouter":
		return NewOpenRouter(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
