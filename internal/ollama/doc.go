// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for a local Ollama-compatible
// model server.
//
// The client covers the endpoints mangaba consumes: health/status, model
// listing, non-streaming and streaming generation, chat with history,
// model pull with progress, model deletion, and embeddings.
//
// Streaming responses are newline-delimited JSON; the StreamReader parses
// them incrementally and hands chunks to a caller-supplied callback. All
// blocking operations accept a context.Context; there is no other
// cancellation path.
//
// # Usage
//
//	client := ollama.NewClient()
//	if err := client.CheckRunning(ctx); err != nil {
//	    // Ollama is unreachable
//	}
//	resp, err := client.Generate(ctx, ollama.GenerateRequest{
//	    Model:  "llama3",
//	    Prompt: "hello",
//	})
package ollama
