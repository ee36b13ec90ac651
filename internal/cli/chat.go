package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hariganeshs/Vynix/internal/cache"
	"github.com/hariganeshs/Vynix/internal/chat"
	"github.com/hariganeshs/Vynix/internal/config"
	"github.com/hariganeshs/Vynix/internal/output"
	"github.com/hariganeshs/Vynix/internal/providers"
	"github.com/hariganeshs/Vynix/internal/usage"
)

var (
	flagProvider    string
	flagModel       string
	flagFormat      string
	flagOut         string
	flagNoCache     bool
	flagContextFile string
)

var chatCmd = &cobra.Command{
	Use:   "chat [prompt]",
	Short: "Generate a one-shot chat response",
	Long:  "Generates a response for the given prompt (or stdin when omitted), consulting the response cache first. Prior turns can be supplied as a JSON context file.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return
		}

		prompt, err := readPrompt(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return
		}

		history, err := readContextFile(flagContextFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return
		}

		store := cache.New(cache.Options{
			MaxItems: cfg.Cache.MaxItems,
			TTL:      cfg.Cache.TTL(),
			Disabled: cfg.Cache.Disabled,
		})

		var tracker chat.Recorder
		if t, err := usage.New(cfg.UsageDB); err == nil {
			defer t.Close()
			tracker = t
		}

		engine := chat.New(cfg, store, tracker)

		var model *string
		if cfg.Model != "" {
			model = &cfg.Model
		}

		result, err := engine.Generate(context.Background(), chat.Request{
			Provider: cfg.Provider,
			Model:    model,
			Prompt:   prompt,
			Context:  history,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if providers.IsAuthError(err) {
				exitCode = ExitAuthError
			} else {
				exitCode = ExitRuntimeError
			}
			return
		}

		format := flagFormat
		if format == "" {
			format = "text"
		}
		if err := output.WriteResult(result, format, flagOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			exitCode = ExitRuntimeError
		}
	},
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagNoCache {
		m["noCache"] = "true"
	}
	return m
}

func readPrompt(args []string) (string, error) {
	if len(args) == 1 && args[0] != "" {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading prompt from stdin: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("no prompt given (pass as argument or on stdin)")
	}
	return prompt, nil
}

// readContextFile loads prior conversation turns from a JSON file containing
// an array of {role, content} objects.
func readContextFile(path string) ([]cache.Message, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading context file: %w", err)
	}
	var history []cache.Message
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parsing context file: %w", err)
	}
	return history, nil
}

func init() {
	chatCmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (lmstudio, openai, google, groq, openrouter)")
	chatCmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	chatCmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json)")
	chatCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	chatCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Bypass the response cache")
	chatCmd.Flags().StringVar(&flagContextFile, "context", "", "JSON file with prior conversation turns")
}
