package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Editor Session
		{
			Name:        "image_editor_load",
			Description: "Load an image file into the editor. Replaces any loaded image, discards the processed result and sets the target size to the image's natural size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_editor_configure",
			Description: "Set output options: target width and height in pixels, output format (png or jpeg) and JPEG quality (0.0 to 1.0).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Target width in pixels (must be > 0 when applied)",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Target height in pixels (must be > 0 when applied)",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "jpeg"},
						"description": "Output format for downloads",
					},
					"quality": map[string]interface{}{
						"type":        "number",
						"description": "JPEG quality from 0.0 to 1.0. Default 0.92",
						"default":     0.92,
					},
				},
			},
		},
		{
			Name:        "image_editor_apply",
			Description: "Resize the loaded image to the target size. Aspect ratio is not preserved. Replaces the previous processed result.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Optional target width; defaults to the configured width",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Optional target height; defaults to the configured height",
					},
				},
			},
		},
		{
			Name:        "image_editor_download",
			Description: "Convert the processed result to the output format and save it as <name>-edited.<ext> in the output directory.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "jpeg"},
						"description": "Optional output format; defaults to the configured format",
					},
					"quality": map[string]interface{}{
						"type":        "number",
						"description": "Optional JPEG quality from 0.0 to 1.0",
					},
				},
			},
		},
		{
			Name:        "image_editor_status",
			Description: "Report the editor state, the loaded image, the output options and the processed result size.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "image_editor_preview",
			Description: "Return the original or processed image as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"which": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"original", "processed"},
						"description": "Which image to return. Default processed",
						"default":     "processed",
					},
				},
			},
		},
		{
			Name:        "image_editor_reset",
			Description: "Drop the loaded image and processed result. Output options are kept.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Stateless Utilities
		{
			Name:        "image_dimensions",
			Description: "Get the width, height and format of an image file without loading it into the editor.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_crop",
			Description: "Copy a rectangular region of an image file, without scaling, and return it as base64-encoded PNG. Does not touch the editor.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Region width in pixels",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Region height in pixels",
					},
				},
				"required": []string{"path", "x", "y", "width", "height"},
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
