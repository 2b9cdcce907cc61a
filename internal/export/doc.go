// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export converts chats to shareable formats: Markdown with
// YAML frontmatter, plain JSON, and a standalone styled HTML page.
package export
