package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ironsheep/image-tint-mcp/internal/convert"
	"github.com/ironsheep/image-tint-mcp/internal/imaging"
)

// tintWait bounds how long a tools/call waits for a tint to finish.
const tintWait = 2 * time.Minute

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_tint").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tint results carry a second, image content item with the PNG payload so
// clients can render it directly.
//
// Malformed colors return a JSON-RPC error with code -32602; other tool
// failures use -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if errors.Is(err, imaging.ErrInvalidColorFormat) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	content := []map[string]interface{}{
		{
			"type": "text",
			"text": mustMarshalJSON(result),
		},
	}
	if res, ok := result.(*convert.Result); ok {
		if data, ok := base64Payload(res.URI); ok {
			content = append(content, map[string]interface{}{
				"type":     "image",
				"data":     data,
				"mimeType": res.MimeType,
			})
		}
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": content,
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_tint":
		return s.handleImageTint(args)
	case "image_parse_color":
		return s.handleImageParseColor(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// base64Payload returns the payload of a base64 data URI.
func base64Payload(uri string) (string, bool) {
	header, data, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return "", false
	}
	return data, true
}

type imageTintArgs struct {
	URI    string `json:"uri"`
	Color  string `json:"color"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleImageTint(args json.RawMessage) (interface{}, error) {
	var a imageTintArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	// Reject a bad color before probing the source.
	if _, err := imaging.ParseColor(a.Color); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), tintWait)
	defer cancel()

	if a.Width == 0 || a.Height == 0 {
		dims, err := imaging.GetDimensions(ctx, s.loader, a.URI)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", convert.ErrImageLoadFailed, err)
		}
		if a.Width == 0 {
			a.Width = dims.Width
		}
		if a.Height == 0 {
			a.Height = dims.Height
		}
	}

	desc := convert.Descriptor{URI: a.URI, Width: a.Width, Height: a.Height}
	return s.converter.Run(ctx, desc, a.Color)
}

type imageParseColorArgs struct {
	Color string `json:"color"`
}

func (s *Server) handleImageParseColor(args json.RawMessage) (interface{}, error) {
	var a imageParseColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.DescribeColor(a.Color)
}

type imageDimensionsArgs struct {
	URI string `json:"uri"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageDimensionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(context.Background(), s.loader, a.URI)
}
