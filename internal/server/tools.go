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
		// Image Information and Color Picking
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and whether it has alpha. The decoded image is cached for later tools.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
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
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the color at a pixel as hex, BGRA and 8-bit HSV. Use it to find a reference color for blob_select_color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_dominant_hues",
			Description: "List the most common hues among saturated, bright pixels, as candidate reference colors.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of hues to return. Default 5",
						"default":     5,
					},
					"region": map[string]interface{}{
						"type":        "object",
						"description": "Optional region of interest. x1,y1 inclusive; x2,y2 exclusive",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
					},
				},
				"required": []string{"path"},
			},
		},

		// Blob Detection
		{
			Name:        "blob_select_color",
			Description: "Select the reference color to track and return its hue range and spectrum preview. Give exactly one of hex, bgr, or path with x and y (the mean color of a 9x9 square around the point is used).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"hex": map[string]interface{}{
						"type":        "string",
						"description": "Color as #RRGGBB",
					},
					"bgr": map[string]interface{}{
						"type":        "array",
						"description": "Color as 3 (B, G, R) or 4 (B, G, R, A) channel values 0-255",
						"items":       map[string]interface{}{"type": "number"},
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Image to pick the color from",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate to pick at",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate to pick at",
					},
					"hue_spread": map[string]interface{}{
						"type":        "integer",
						"description": "Hue half-width on the 0-255 hue circle. Default 25",
					},
					"saturation_spread": map[string]interface{}{
						"type":        "integer",
						"description": "Saturation half-width. Default 50",
					},
				},
			},
		},
		{
			Name:        "blob_status",
			Description: "Report whether a color is selected, the current hue range and detector parameters.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "blob_process",
			Description: "Find the blobs of the selected color in an image and return their outlines, areas, bounds, centroids and shape class. Returns no contours until a color is selected.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"region": map[string]interface{}{
						"type":        "object",
						"description": "Optional region of interest. x1,y1 inclusive; x2,y2 exclusive",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "blob_mask",
			Description: "Return the cleaned binary mask from the last processed image as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "blob_spectrum",
			Description: "Return the spectrum preview of the selected hue range as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "blob_overlay",
			Description: "Process an image and return it with blob outlines drawn, the selected color swatch at the top-left and the spectrum beside it, as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"region": map[string]interface{}{
						"type":        "object",
						"description": "Optional region of interest. x1,y1 inclusive; x2,y2 exclusive",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
					},
					"contour_color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as #RRGGBB. Default #FF0000",
						"default":     "#FF0000",
					},
					"number_contours": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw each contour's index. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},

		// Video
		{
			Name:        "video_info",
			Description: "Probe a video file for its size, frame rate, frame count and duration. Requires ffprobe.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the video file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "blob_process_video",
			Description: "Sample frames from a video with ffmpeg and report per-frame blob counts and areas for the selected color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the video file",
					},
					"fps": map[string]interface{}{
						"type":        "number",
						"description": "Frames sampled per second. Default from config (2)",
					},
					"max_width": map[string]interface{}{
						"type":        "integer",
						"description": "Scale frames down to this width. Default from config (640)",
					},
					"max_frames": map[string]interface{}{
						"type":        "integer",
						"description": "Stop after this many frames. Default from config (100)",
					},
				},
				"required": []string{"path"},
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
