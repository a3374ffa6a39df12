// Package server implements the MCP (Model Context Protocol) server for the BMP
// engine.
//
// This package provides a JSON-RPC 2.0 server that exposes the codec, geometry,
// photometric, filter and compare packages as MCP tools.
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
// File Information:
//   - bmp_load: Header metadata
//   - bmp_sample_color: Color at a pixel
//
// Geometry:
//   - bmp_crop, bmp_autocrop, bmp_add_alpha, bmp_flip, bmp_rotate
//
// Photometric:
//   - bmp_grayscale, bmp_histogram, bmp_binarize, bmp_otsu
//
// Filters:
//   - bmp_filter (mean, box, median, gaussian), bmp_convolve
//
// Comparison:
//   - bmp_compare, bmp_find
//
// Tools that produce an image return it as base64-encoded BMP together with its
// width, height and bit count, and also write it to "output" when given.
//
// # Image Caching
//
// Decoded files are cached by path (unless disabled in the configuration). Cached
// buffers are shared, so every mutating tool transforms a clone. Writing to an
// output path evicts that path from the cache.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
package server
