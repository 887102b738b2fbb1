package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"zomaksho/internal/config"
)

func TestOpenRouter_Complete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer or-key" {
			t.Errorf("unexpected Authorization header %q", auth)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"[]"}}]}`))
	}))
	defer srv.Close()

	client := NewOpenRouter("or-key", srv.URL, 5*time.Second)
	out, err := client.Complete(context.Background(), "openai/gpt-3.5-turbo", "persona", "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "[]" {
		t.Errorf("expected content [], got %q", out)
	}

	if got.Model != "openai/gpt-3.5-turbo" {
		t.Errorf("unexpected model %q", got.Model)
	}
	if len(got.Messages) != 2 ||
		got.Messages[0].Role != "system" || got.Messages[0].Content != "persona" ||
		got.Messages[1].Role != "user" || got.Messages[1].Content != "prompt" {
		t.Errorf("unexpected messages %+v", got.Messages)
	}
}

func TestOpenRouter_FailuresAreGatewayErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"non-2xx": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		},
		"malformed body": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":`))
		},
		"no choices": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		},
	}

	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			_, err := NewOpenRouter("key", srv.URL, time.Second).Complete(context.Background(), "m", "s", "u")
			if !errors.Is(err, ErrGateway) {
				t.Fatalf("expected ErrGateway, got %v", err)
			}
		})
	}
}

func TestOpenRouter_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewOpenRouter("key", url, time.Second).Complete(context.Background(), "m", "s", "u")
	if !errors.Is(err, ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}
}

func TestOpenRouter_NoRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, _ = NewOpenRouter("key", srv.URL, time.Second).Complete(context.Background(), "m", "s", "u")
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected exactly one request, got %d", n)
	}
}

func TestOpenRouter_MissingKey(t *testing.T) {
	_, err := NewOpenRouter("", "http://127.0.0.1:0", time.Second).Complete(context.Background(), "m", "s", "u")
	if !errors.Is(err, ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}
}

func TestGeminiClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/gemini-1.5-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "g-key" {
			t.Errorf("missing api key header")
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "persona" {
			t.Errorf("system instruction not forwarded")
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"[{\"name\":\"Dosa\"}]"}]}}]}`))
	}))
	defer srv.Close()

	out, err := NewGeminiClient("g-key", srv.URL, time.Second).
		Complete(context.Background(), "gemini-1.5-flash", "persona", "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `[{"name":"Dosa"}]` {
		t.Errorf("unexpected output %q", out)
	}
}

func TestGeminiClient_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := NewGeminiClient("g-key", srv.URL, time.Second).Complete(context.Background(), "m", "", "u")
	if !errors.Is(err, ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}
}

func TestNew_SelectsProvider(t *testing.T) {
	c, err := New(config.LLMConfig{Provider: config.ProviderGemini, APIKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.(*GeminiClient); !ok {
		t.Errorf("expected *GeminiClient, got %T", c)
	}

	if _, err := New(config.LLMConfig{Provider: "other"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}
