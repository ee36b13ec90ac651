package cli

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// resetFlags resets all package-level flag variables to their zero values.
func resetFlags() {
	flagProvider = ""
	flagModel = ""
	flagFormat = ""
	flagOut = ""
	flagNoCache = false
	flagContextFile = ""
	flagListen = ""
	flagServerURL = ""
}

func TestBuildOverrides(t *testing.T) {
	resetFlags()
	flagProvider = "groq"
	flagNoCache = true

	m := buildOverrides()
	if m["provider"] != "groq" {
		t.Errorf("provider override = %q, want %q", m["provider"], "groq")
	}
	if m["noCache"] != "true" {
		t.Errorf("noCache override = %q, want %q", m["noCache"], "true")
	}
	if _, ok := m["model"]; ok {
		t.Error("Unset flags should not appear in overrides")
	}
}

func TestReadContextFile(t *testing.T) {
	resetFlags()

	path := filepath.Join(t.TempDir(), "context.json")
	content := `[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	history, err := readContextFile(path)
	if err != nil {
		t.Fatalf("readContextFile error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[1].Role != "assistant" {
		t.Errorf("Role = %q, want %q", history[1].Role, "assistant")
	}

	if _, err := readContextFile(""); err != nil {
		t.Errorf("Empty path should be a no-op, got %v", err)
	}
	if _, err := readContextFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing context file")
	}
}

func TestAdminRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte(`{"totalEntries":0}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
		}
	}))
	defer server.Close()

	body, err := adminRequest(http.MethodGet, server.URL+"/ok")
	if err != nil {
		t.Fatalf("adminRequest error: %v", err)
	}
	if string(body) != `{"totalEntries":0}` {
		t.Errorf("body = %q", body)
	}

	if _, err := adminRequest(http.MethodPost, server.URL+"/fail"); err == nil {
		t.Error("Expected error for non-200 response")
	}
}
