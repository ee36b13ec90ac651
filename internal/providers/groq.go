package providers

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

const (
	defaultGroqURL   = "https://api.groq.com/openai/v1/chat/completions"
	defaultGroqModel = "llama-3.3-70b-versatile"
)

// NewGroq creates a provider for Groq's OpenAI-compatible API.
func NewGroq(model string) (Chatter, error) {
	key := os.Getenv("GROQ_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("GROQ_API_KEY environment variable is not set")
	}
	baseURL := os.Getenv("VYNIX_GROQ_BASE_URL")
	if baseURL == "" {
		baseURL = defaultGroqURL
	}
	if model == "" {
		model = defaultGroqModel
	}
	return &compatClient{
		name:    "groq",
		apiKey:  key,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}, nil
}
