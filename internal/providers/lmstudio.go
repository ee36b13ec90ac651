package providers

import (
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultLMStudioURL = "http://localhost:1234"

// NewLMStudio creates a provider for a local LM Studio server (OpenAI-compatible
// API). No API key is required by default; the model may be empty, in which
// case the server uses whichever model it has loaded.
func NewLMStudio(model string) (Chatter, error) {
	baseURL := os.Getenv("LMSTUDIO_HOST")
	if baseURL == "" {
		baseURL = defaultLMStudioURL
	}

	// Normalize URL: strip trailing /, /v1, /v1/chat/completions
	baseURL = strings.TrimRight(baseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, "/v1/chat/completions")
	baseURL = strings.TrimSuffix(baseURL, "/v1")

	// Optional API key for servers configured to require one
	apiKey := os.Getenv("VYNIX_LMSTUDIO_API_KEY")

	return &compatClient{
		name:    "lmstudio",
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL + "/v1/chat/completions",
		client:  &http.Client{Timeout: 300 * time.Second},
	}, nil
}
