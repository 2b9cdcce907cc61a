// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend implements the client for the Mangaba REST API.
//
// Every response is expected in the `{success, data, message}` envelope;
// any deviation (bad status, malformed JSON, success=false) is reported as
// an error so callers can fall back to local behavior. Authenticated calls
// carry a bearer credential obtained from a TokenSource.
//
// The client rate-limits outgoing requests, bounds response bodies, and
// retries transient failures with exponential backoff.
package backend
