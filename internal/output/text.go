package output

import (
	"fmt"
	"io"

	"github.com/hariganeshs/Vynix/internal/chat"
)

// TextWriter outputs a human-readable response.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, result chat.Result) error {
	if _, err := fmt.Fprintln(w, result.Payload.Content); err != nil {
		return err
	}

	source := "generated"
	if result.Cached {
		source = "cache"
	}
	_, err := fmt.Fprintf(w, "\n[%s/%s · %d tokens · %s · %dms]\n",
		result.Payload.Provider, result.Payload.Model,
		result.Payload.Tokens, source, result.Elapsed.Milliseconds())
	return err
}
