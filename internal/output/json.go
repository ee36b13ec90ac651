package output

import (
	"encoding/json"
	"io"

	"github.com/hariganeshs/Vynix/internal/chat"
)

// JSONWriter outputs the result as indented JSON.
type JSONWriter struct{}

type jsonResult struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Tokens    int    `json:"tokens"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Cached    bool   `json:"cached"`
	ElapsedMs int64  `json:"elapsedMs"`
}

func (j *JSONWriter) Write(w io.Writer, result chat.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonResult{
		ID:        result.Payload.ID,
		Content:   result.Payload.Content,
		Tokens:    result.Payload.Tokens,
		Provider:  result.Payload.Provider,
		Model:     result.Payload.Model,
		Cached:    result.Cached,
		ElapsedMs: result.Elapsed.Milliseconds(),
	})
}
