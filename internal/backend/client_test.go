// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestClient(url string, token string) *Client {
	return NewClient(Config{
		BaseURL: url,
		Tokens:  StaticToken(token),
	})
}

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"data":{"token":"tok123","refreshToken":"ref456","user":{"id":"u1","name":"Ana","email":"ana@example.com"}}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	auth, err := client.Login(context.Background(), "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if auth.Token != "tok123" {
		t.Errorf("expected token tok123, got %q", auth.Token)
	}
	if auth.User.Name != "Ana" {
		t.Errorf("expected user Ana, got %q", auth.User.Name)
	}
}

func TestBearerHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true,"data":{"id":"u1","name":"Ana","email":"ana@example.com"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "tok123")
	if _, err := client.Profile(context.Background()); err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestNoCredential(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1", "")
	_, err := client.Profile(context.Background())
	if !errors.Is(err, ErrNoCredential) {
		t.Errorf("expected ErrNoCredential, got %v", err)
	}
}

func TestUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "stale")
	_, err := client.ListHubs(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestEnvelopeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"email already in use"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	_, err := client.Register(context.Background(), "Ana", "ana@example.com", "secret")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Message != "email already in use" {
		t.Errorf("unexpected message: %q", apiErr.Message)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "tok")
	hubs, err := client.ListHubs(context.Background())
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if hubs == nil {
		t.Error("expected empty slice, got nil decode target untouched")
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestNoRetryOnBadRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"bad input"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "tok")
	if _, err := client.CreateChat(context.Background(), "hub_general", ""); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("4xx should not be retried, got %d attempts", calls.Load())
	}
}

func TestCreateChatPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		w.Write([]byte(`{"success":true,"data":{"id":"chat_remote1","title":"","hubId":"hub_general","messages":[]}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "tok")
	chat, err := client.CreateChat(context.Background(), "hub_general", "agent_companion")
	if err != nil {
		t.Fatalf("CreateChat failed: %v", err)
	}
	if chat.ID != "chat_remote1" {
		t.Errorf("unexpected chat id %q", chat.ID)
	}
}

func TestMalformedEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "tok")
	_, err := client.ListAgents(context.Background())
	if !errors.Is(err, ErrBadEnvelope) {
		t.Errorf("expected ErrBadEnvelope, got %v", err)
	}
}
