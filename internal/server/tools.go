package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema fragment shared by every tool.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// detectionProperties are the schema fragments for the detection options
// shared by detect_text_regions, detection_overlay, and detection_crop.
func detectionProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"strategy": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"rays", "window"},
			"description": "Detection heuristic: 'rays' (default) casts luminosity rays, 'window' compares sliding-window statistics",
		},
		"horizontal_spacing": map[string]interface{}{
			"type":        "integer",
			"description": "Sample grid column step in pixels (default 8)",
		},
		"vertical_spacing": map[string]interface{}{
			"type":        "integer",
			"description": "Sample grid row step in pixels (default 4)",
		},
		"ray_interval": map[string]interface{}{
			"type":        "integer",
			"description": "Pixel stride between ray samples (default 1)",
		},
		"ray_steps": map[string]interface{}{
			"type":        "integer",
			"description": "Samples per ray (default 8)",
		},
		"ray_aspect": map[string]interface{}{
			"type":        "integer",
			"description": "Horizontal stretch of ray directions (default 2)",
		},
		"interior_bias": map[string]interface{}{
			"type":        "number",
			"description": "Weight on horizontal collisions in the interior score (default 1)",
		},
		"left_edge_bias": map[string]interface{}{
			"type":        "number",
			"description": "Bias on the leftward growth walk (default 0)",
		},
		"right_edge_bias": map[string]interface{}{
			"type":        "number",
			"description": "Bias on the rightward growth walk (default 0)",
		},
		"minimum_interior": map[string]interface{}{
			"type":        "number",
			"description": "Interior score floor for seed points (default 0.5)",
		},
		"minimum_confidence": map[string]interface{}{
			"type":        "number",
			"description": "Confidence floor for reported regions, 0-1 (default 0.1)",
		},
		"window_radius": map[string]interface{}{
			"type":        "integer",
			"description": "Sliding window half-extent in pixels, window strategy only (default 6)",
		},
		"window_depth": map[string]interface{}{
			"type":        "integer",
			"description": "Windows per direction, window strategy only (default 4, minimum 3)",
		},
		"max_dimension": map[string]interface{}{
			"type":        "integer",
			"description": "Downscale images whose longer side exceeds this before detecting (0 = no scaling)",
		},
		"blur_sigma": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian pre-blur sigma to suppress pixel noise (0 = no blur)",
		},
		"annotate_colors": map[string]interface{}{
			"type":        "boolean",
			"description": "Fill each region's dominant color as #RRGGBB",
			"default":     false,
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, color depth, and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Region Operations
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region from an image and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},

		// Text Region Detection
		{
			Name:        "detect_text_regions",
			Description: "Detect regions of the image likely to contain text using luminosity heuristics (no OCR). Returns rectangles with confidence scores.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectionProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "detection_overlay",
			Description: "Run text region detection and return the image with detected regions outlined, optionally labeled with confidence percentages.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(detectionProperties(), map[string]interface{}{
					"outline_color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as hex (default #FF0000)",
						"default":     "#FF0000",
					},
					"show_confidence": map[string]interface{}{
						"type":        "boolean",
						"description": "Label each region with its confidence percentage",
						"default":     false,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "detection_crop",
			Description: "Run text region detection and crop out one detected region by index (regions are ordered strongest first).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(detectionProperties(), map[string]interface{}{
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "Which detected region to crop (0-based, default 0)",
						"default":     0,
					},
					"padding": map[string]interface{}{
						"type":        "integer",
						"description": "Extra pixels around the region (default 0)",
						"default":     0,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for the crop. Default 1.0",
						"default":     1.0,
					},
				}),
				"required": []string{"path"},
			},
		},

		// Color Operations
		{
			Name:        "region_dominant_color",
			Description: "Get the dominant color of an image region as hex, RGB, and HSL, with its coverage percentage.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"region": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
						"description": "Optional region to analyze. If omitted, analyzes entire image.",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// mergeProperties combines a shared property set with tool-specific additions.
func mergeProperties(base, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
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
