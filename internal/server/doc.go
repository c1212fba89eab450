// Package server implements the MCP (Model Context Protocol) server for image tinting.
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
//   - image_tint: Silhouette-tint an image and return a PNG data URI
//   - image_parse_color: Validate and describe a #RRGGBB color
//   - image_dimensions: Get the decoded width and height of an image
//
// Sources may be data URIs, file paths, file:// URIs or http(s) URLs,
// subject to the schemes enabled in the configuration.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses with:
//   - code: -32602 for malformed arguments (including bad colors),
//     -32000 for load or processing failures
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	conf, _ := config.Load()
//	srv := server.New(conf.Loader(), conf.Encoder(), server.WithDebug(conf.Debug()))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
