package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_tint",
			Description: "Recolor an image as a silhouette: every pixel takes the given color while keeping its original transparency. Returns the result as a PNG data URI.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"uri": map[string]interface{}{
						"type":        "string",
						"description": "Source image: data URI, file path, file:// URI or http(s) URL",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Tint color in #RRGGBB form",
						"pattern":     "^#[0-9A-Fa-f]{6}$",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Output width in pixels. Defaults to the decoded image width",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Output height in pixels. Defaults to the decoded image height",
					},
				},
				"required": []string{"uri", "color"},
			},
		},
		{
			Name:        "image_parse_color",
			Description: "Validate a #RRGGBB color and return it as hex, RGB and HSL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Color in #RRGGBB form",
					},
				},
				"required": []string{"color"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the decoded width and height of an image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"uri": map[string]interface{}{
						"type":        "string",
						"description": "Image data URI, file path, file:// URI or http(s) URL",
					},
				},
				"required": []string{"uri"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
