// Package server implements the MCP (Model Context Protocol) server that
// exposes the image editor over stdio.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Editor Session (one session per server process):
//   - image_editor_load: Load an image file
//   - image_editor_configure: Set width, height, format, quality
//   - image_editor_apply: Resize to the target size
//   - image_editor_download: Convert and save the processed image
//   - image_editor_status: Report the session state
//   - image_editor_preview: Original or processed image as PNG
//   - image_editor_reset: Drop the loaded image
//
// Stateless Utilities:
//   - image_dimensions: Get image size and format
//   - image_crop: Extract a rectangular region
//
// # Ordering
//
// Requests are handled one at a time in arrival order, so session actions
// never overlap.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Short user-facing description, e.g. "Please upload an image first."
//   - data: The underlying Go error string
//
// A failed tool call never changes the session.
package server
