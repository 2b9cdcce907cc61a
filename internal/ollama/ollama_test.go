// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestClient points a client at a mock server.
func newTestClient(url string) *Client {
	return NewClientWithConfig(&ClientConfig{
		BaseURL:      url,
		DefaultModel: "test-model",
	})
}

// =============================================================================
// HEALTH CHECK TESTS
// =============================================================================

func TestCheckRunning_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if err := client.CheckRunning(context.Background()); err != nil {
		t.Errorf("CheckRunning() error = %v", err)
	}
}

func TestCheckRunning_Down(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Shut down immediately so the connection is refused.

	client := newTestClient(server.URL)
	err := client.CheckRunning(context.Background())
	if !errors.Is(err, ErrNotRunning) {
		t.Errorf("CheckRunning() error = %v, want ErrNotRunning", err)
	}
}

// =============================================================================
// MODEL TESTS
// =============================================================================

func TestListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %q, want /api/tags", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"models":[{"name":"llama3.2","size":2147483648},{"name":"qwen2.5"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("len(models) = %d, want 2", len(models))
	}
	if models[0].Name != "llama3.2" {
		t.Errorf("models[0].Name = %q", models[0].Name)
	}
	if got := models[0].FormatSize(); !strings.HasSuffix(got, "GB") {
		t.Errorf("FormatSize() = %q, want GB suffix", got)
	}
}

func TestDeleteModel_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.DeleteModel(context.Background(), "ghost")
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("DeleteModel() error = %v, want ErrModelNotFound", err)
	}
}

func TestPullModel_Progress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pull" {
			t.Errorf("path = %q, want /api/pull", r.URL.Path)
		}
		w.Write([]byte(`{"status":"pulling manifest"}` + "\n" +
			`{"status":"downloading","digest":"sha256:abc","total":100,"completed":50}` + "\n" +
			`{"status":"success"}` + "\n"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	var updates []PullProgress
	err := client.PullModel(context.Background(), "llama3.2", func(p PullProgress) {
		updates = append(updates, p)
	})
	if err != nil {
		t.Fatalf("PullModel() error = %v", err)
	}
	if len(updates) != 3 {
		t.Fatalf("len(updates) = %d, want 3", len(updates))
	}
	if updates[1].Percent() != 50 {
		t.Errorf("Percent() = %f, want 50", updates[1].Percent())
	}
	if updates[2].Status != "success" {
		t.Errorf("final status = %q", updates[2].Status)
	}
}

// =============================================================================
// GENERATION TESTS
// =============================================================================

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q, want /api/generate", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"test-model","response":"hello back","done":true,"eval_count":5,"eval_duration":1000000000}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Prompt: "hello",
		System: "be nice",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Response != "hello back" {
		t.Errorf("Response = %q", resp.Response)
	}
	if resp.TokensPerSecond() != 5 {
		t.Errorf("TokensPerSecond() = %f, want 5", resp.TokensPerSecond())
	}
}

func TestGenerate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"model blew up"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	if err == nil || !strings.Contains(err.Error(), "model blew up") {
		t.Errorf("Generate() error = %v, want API error message", err)
	}
}

func TestGenerateStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model":"test-model","response":"Hel"}` + "\n" +
			`{"response":"lo"}` + "\n" +
			`{"response":"","done":true,"eval_count":2,"prompt_eval_count":7}` + "\n"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	var content strings.Builder
	var final StreamChunk
	err := client.GenerateStream(context.Background(), GenerateRequest{Prompt: "hi"}, func(chunk StreamChunk) {
		content.WriteString(chunk.Content)
		if chunk.Done {
			final = chunk
		}
	})
	if err != nil {
		t.Fatalf("GenerateStream() error = %v", err)
	}
	if content.String() != "Hello" {
		t.Errorf("accumulated content = %q, want Hello", content.String())
	}
	if !final.Done || final.CompletionTokens != 2 || final.PromptTokens != 7 {
		t.Errorf("final chunk = %+v", final)
	}
}

func TestGenerateStream_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"a"}` + "\n"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := newTestClient(server.URL)
	err := client.GenerateStream(ctx, GenerateRequest{Prompt: "hi"}, func(chunk StreamChunk) {
		cancel()
	})
	if err == nil {
		t.Error("GenerateStream() should fail after cancellation")
	}
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q, want /api/chat", r.URL.Path)
		}
		w.Write([]byte(`{"model":"test-model","message":{"role":"assistant","content":"42"},"done":true}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Chat(context.Background(), "", []Message{NewUserMessage("meaning of life?")}, nil)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp.Message.Content != "42" {
		t.Errorf("Message.Content = %q", resp.Message.Content)
	}
}

func TestChatStreamChan_DeliversError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)
	ch := client.ChatStreamChan(context.Background(), "m", []Message{NewUserMessage("x")}, nil)

	var sawErr bool
	for chunk := range ch {
		if chunk.Error != nil {
			sawErr = true
		}
	}
	if !sawErr {
		t.Error("expected an error chunk from closed server")
	}
}

// =============================================================================
// EMBEDDINGS TESTS
// =============================================================================

func TestEmbeddings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("path = %q, want /api/embeddings", r.URL.Path)
		}
		w.Write([]byte(`{"embedding":[0.1,0.2,0.3]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	vec, err := client.Embeddings(context.Background(), "", "some text")
	if err != nil {
		t.Fatalf("Embeddings() error = %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("len(vec) = %d, want 3", len(vec))
	}
}
