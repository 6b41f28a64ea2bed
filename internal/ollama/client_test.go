package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GodReaper/PrashnaRachnaAI/internal/config"
)

// fakeServer simulates an Ollama instance with a fixed set of installed
// models and a set of model names that pull successfully.
type fakeServer struct {
	installed []string
	pullable  map[string]bool
	pulled    []string
	chatReqs  []chatRequest
	chatReply string
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		type entry struct {
			Name string `json:"name"`
		}
		var models []entry
		for _, name := range f.installed {
			models = append(models, entry{Name: name})
		}
		json.NewEncoder(w).Encode(map[string]any{"models": models})
	})
	mux.HandleFunc("/api/pull", func(w http.ResponseWriter, r *http.Request) {
		var req pullRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.pulled = append(f.pulled, req.Name)
		if !f.pullable[req.Name] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "downloading"})
		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.chatReqs = append(f.chatReqs, req)
		json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: f.chatReply},
		})
	})
	return mux
}

func newTestClient(t *testing.T, fake *fakeServer) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	return NewClient(config.OllamaConfig{
		BaseURL:        srv.URL,
		DefaultModel:   "deepseek-r1:1.5b",
		FallbackModel:  "llama3.2:1b",
		Temperature:    0.7,
		MaxTokens:      2000,
		TimeoutSeconds: 5,
	})
}

func TestListModels(t *testing.T) {
	fake := &fakeServer{installed: []string{"deepseek-r1:1.5b", "nomic-embed-text:latest"}}
	client := newTestClient(t, fake)

	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d: %v", len(models), models)
	}
	if models[0] != "deepseek-r1:1.5b" {
		t.Errorf("unexpected first model %q", models[0])
	}
}

func TestHasModel_MatchesTagSuffix(t *testing.T) {
	fake := &fakeServer{installed: []string{"llama3.2:1b"}}
	client := newTestClient(t, fake)

	if !client.HasModel(context.Background(), "llama3.2") {
		t.Error("expected bare name to match tagged model")
	}
	if !client.HasModel(context.Background(), "llama3.2:1b") {
		t.Error("expected exact tagged name to match")
	}
	if client.HasModel(context.Background(), "mistral") {
		t.Error("unexpected match for absent model")
	}
}

func TestEnsureModel_PrimaryPresent(t *testing.T) {
	fake := &fakeServer{installed: []string{"deepseek-r1:1.5b"}}
	client := newTestClient(t, fake)

	model, err := client.EnsureModel(context.Background(), "")
	if err != nil {
		t.Fatalf("EnsureModel: %v", err)
	}
	if model != "deepseek-r1:1.5b" {
		t.Errorf("expected default model, got %q", model)
	}
	if len(fake.pulled) != 0 {
		t.Errorf("unexpected pulls: %v", fake.pulled)
	}
}

func TestEnsureModel_PullsMissingPrimary(t *testing.T) {
	fake := &fakeServer{
		installed: []string{"llama3.2:1b"},
		pullable:  map[string]bool{"deepseek-r1:1.5b": true},
	}
	client := newTestClient(t, fake)

	model, err := client.EnsureModel(context.Background(), "deepseek-r1:1.5b")
	if err != nil {
		t.Fatalf("EnsureModel: %v", err)
	}
	if model != "deepseek-r1:1.5b" {
		t.Errorf("expected primary after pull, got %q", model)
	}
	if len(fake.pulled) != 1 || fake.pulled[0] != "deepseek-r1:1.5b" {
		t.Errorf("unexpected pull sequence: %v", fake.pulled)
	}
}

func TestEnsureModel_FallsBackToInstalledFallback(t *testing.T) {
	fake := &fakeServer{installed: []string{"llama3.2:1b"}}
	client := newTestClient(t, fake)

	model, err := client.EnsureModel(context.Background(), "deepseek-r1:1.5b")
	if err != nil {
		t.Fatalf("EnsureModel: %v", err)
	}
	if model != "llama3.2:1b" {
		t.Errorf("expected fallback, got %q", model)
	}
}

func TestEnsureModel_PullsFallbackWhenBothMissing(t *testing.T) {
	fake := &fakeServer{pullable: map[string]bool{"llama3.2:1b": true}}
	client := newTestClient(t, fake)

	model, err := client.EnsureModel(context.Background(), "deepseek-r1:1.5b")
	if err != nil {
		t.Fatalf("EnsureModel: %v", err)
	}
	if model != "llama3.2:1b" {
		t.Errorf("expected pulled fallback, got %q", model)
	}
}

func TestEnsureModel_FailsWithModelNotFound(t *testing.T) {
	fake := &fakeServer{}
	client := newTestClient(t, fake)

	_, err := client.EnsureModel(context.Background(), "deepseek-r1:1.5b")
	if !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}

func TestEnsureModel_ServerDownIsProviderUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(config.OllamaConfig{BaseURL: srv.URL, TimeoutSeconds: 1})

	_, err := client.EnsureModel(context.Background(), "any")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestComplete_SendsSystemAndOptions(t *testing.T) {
	fake := &fakeServer{
		installed: []string{"deepseek-r1:1.5b"},
		chatReply: `{"questions": []}`,
	}
	client := newTestClient(t, fake)

	completion, err := client.Complete(context.Background(), CompleteRequest{
		Prompt:         "generate questions",
		System:         "you are a question generator",
		WantStructured: true,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if completion.Content != `{"questions": []}` {
		t.Errorf("unexpected content %q", completion.Content)
	}
	if completion.Model != "deepseek-r1:1.5b" {
		t.Errorf("unexpected model %q", completion.Model)
	}

	if len(fake.chatReqs) != 1 {
		t.Fatalf("expected 1 chat request, got %d", len(fake.chatReqs))
	}
	req := fake.chatReqs[0]
	if req.Stream {
		t.Error("expected non-streaming request")
	}
	if req.Format != "json" {
		t.Errorf("expected json format, got %q", req.Format)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
		t.Errorf("unexpected messages: %+v", req.Messages)
	}
	if req.Options["temperature"] != 0.7 {
		t.Errorf("unexpected temperature: %v", req.Options["temperature"])
	}
	if req.Options["num_predict"] != float64(2000) {
		t.Errorf("unexpected num_predict: %v", req.Options["num_predict"])
	}
}

func TestComplete_OverridesDefaults(t *testing.T) {
	fake := &fakeServer{
		installed: []string{"mistral:7b"},
		chatReply: "ok",
	}
	client := newTestClient(t, fake)

	completion, err := client.Complete(context.Background(), CompleteRequest{
		Model:       "mistral:7b",
		Prompt:      "p",
		Temperature: 0.2,
		MaxTokens:   512,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if completion.Model != "mistral:7b" {
		t.Errorf("unexpected model %q", completion.Model)
	}

	req := fake.chatReqs[0]
	if req.Format != "" {
		t.Errorf("expected no format constraint, got %q", req.Format)
	}
	if req.Options["temperature"] != 0.2 {
		t.Errorf("unexpected temperature: %v", req.Options["temperature"])
	}
}
