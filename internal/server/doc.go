// Package server implements the MCP (Model Context Protocol) server for
// heuristic text region detection.
//
// This package provides a JSON-RPC 2.0 server that exposes the detection
// pipeline and its supporting image operations through the MCP protocol,
// enabling MCP-compatible clients to locate probable text in images without
// running OCR.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Region Operations:
//   - image_crop: Extract rectangular region
//
// Text Region Detection:
//   - detect_text_regions: Find probable text rectangles with confidences
//   - detection_overlay: Render detected rectangles onto the image
//   - detection_crop: Crop one detected region out of the image
//
// Color Operations:
//   - region_dominant_color: Dominant color of a region
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
