package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"voice-assistant/internal/infra/ollama"
)

func TestClient_Reply(t *testing.T) {
	var gotReq map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": " It is sunny today. "},
		})
	}))
	defer server.Close()

	client := ollama.NewClientWithURL(server.URL, "/api/chat", "llama2")

	reply, err := client.Reply(context.Background(), "what's the weather")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply != "It is sunny today." {
		t.Errorf("reply: got %q", reply)
	}

	if gotReq["model"] != "llama2" {
		t.Errorf("model: got %v", gotReq["model"])
	}
	if stream, ok := gotReq["stream"].(bool); !ok || stream {
		t.Errorf("stream: got %v, want false", gotReq["stream"])
	}
	msgs, ok := gotReq["messages"].([]any)
	if !ok || len(msgs) != 1 {
		t.Fatalf("messages: got %v", gotReq["messages"])
	}
	first := msgs[0].(map[string]any)
	if first["role"] != "user" || first["content"] != "what's the weather" {
		t.Errorf("message: got %v", first)
	}
}

func TestClient_Reply_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": "  "},
		})
	}))
	defer server.Close()

	client := ollama.NewClientWithURL(server.URL, "", "")
	if _, err := client.Reply(context.Background(), "hi"); err == nil {
		t.Fatal("expected error for empty reply")
	}
}

func TestClient_Reply_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": "ok"},
		})
	}))
	defer server.Close()

	client := ollama.NewClientWithURL(server.URL, "", "")

	reply, err := client.Reply(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply != "ok" {
		t.Errorf("reply: got %q", reply)
	}
	if calls.Load() != 3 {
		t.Errorf("calls: got %d, want 3", calls.Load())
	}
}

func TestClient_Reachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := ollama.NewClientWithURL(server.URL, "", "")
	if !client.Reachable(context.Background()) {
		t.Error("expected server to be reachable")
	}

	server.Close()
	if client.Reachable(context.Background()) {
		t.Error("expected closed server to be unreachable")
	}
}
