package providers

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

const (
	defaultOpenRouterURL   = "https://openrouter.ai/api/v1/chat/completions"
	defaultOpenRouterModel = "openrouter/auto"
)

// NewOpenRouter creates a provider for OpenRouter's OpenAI-compatible API.
func NewOpenRouter(model string) (Chatter, error) {
	key := os.Getenv("OPENROUTER_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable is not set")
	}
	baseURL := os.Getenv("VYNIX_OPENROUTER_BASE_URL")
	if baseURL == "" {
		baseURL = defaultOpenRouterURL
	}
	if model == "" {
		model = defaultOpenRouterModel
	}
	return &compatClient{
		name:    "openrouter",
		apiKey:  key,
		model:   model,
		baseURL: baseURL,
		headers: map[string]string{
			"X-Title": "vynix",
		},
		client: &http.Client{Timeout: 120 * time.Second},
	}, nil
}
