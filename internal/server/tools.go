package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

func propDefault(typ, description string, def interface{}) map[string]interface{} {
	p := prop(typ, description)
	p["default"] = def
	return p
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

var (
	pathProp   = prop("string", "Absolute path to a 24- or 32-bit uncompressed BMP file")
	outputProp = prop("string", "Optional path to also write the resulting BMP to")
)

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// File Information
		{
			Name:        "bmp_load",
			Description: "Load a BMP file and return its header information: dimensions, row order, bit depth, stride and file size. The decoded pixels are cached for subsequent calls.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProp,
			}, "path"),
		},
		{
			Name:        "bmp_sample_color",
			Description: "Get the color of a single pixel as hex, BGR components, alpha and luma.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProp,
				"x":    prop("integer", "X coordinate (0 = leftmost column)"),
				"y":    prop("integer", "Y coordinate (0 = top row)"),
			}, "path", "x", "y"),
		},

		// Geometry
		{
			Name:        "bmp_crop",
			Description: "Crop a rectangle from a BMP. Right and bottom edges are clamped to the image. The result is always 24-bit and is returned as base64-encoded BMP.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":   pathProp,
				"x1":     prop("integer", "Left edge X coordinate (0-based, inclusive)"),
				"y1":     prop("integer", "Top edge Y coordinate (0-based, inclusive)"),
				"x2":     prop("integer", "Right edge X coordinate (exclusive)"),
				"y2":     prop("integer", "Bottom edge Y coordinate (exclusive)"),
				"scale":  propDefault("number", "Optional scale factor applied after cropping (Lanczos resampling)", 1.0),
				"output": outputProp,
			}, "path", "x1", "y1", "x2", "y2"),
		},
		{
			Name:        "bmp_autocrop",
			Description: "Trim a uniform background border. The background defaults to the color of the top-left pixel. An image with no foreground is returned unchanged.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":       pathProp,
				"background": prop("string", "Background color as #RRGGBB"),
				"output":     outputProp,
			}, "path"),
		},
		{
			Name:        "bmp_add_alpha",
			Description: "Convert a 24-bit BMP to 32-bit. New alpha bytes are zero; 32-bit input is returned unchanged.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":   pathProp,
				"output": outputProp,
			}, "path"),
		},
		{
			Name:        "bmp_flip",
			Description: "Mirror a BMP left to right.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":   pathProp,
				"output": outputProp,
			}, "path"),
		},
		{
			Name:        "bmp_rotate",
			Description: "Rotate a BMP around its centre using nearest-pixel inverse mapping. Uncovered pixels get the fill color. With expand the canvas doubles in both dimensions.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":   pathProp,
				"angle":  prop("number", "Rotation angle in degrees"),
				"expand": propDefault("boolean", "Double the canvas so rotated corners are kept", false),
				"fill":   prop("string", "Fill color as #RRGGBB (default from server configuration)"),
				"output": outputProp,
			}, "path", "angle"),
		},

		// Photometric
		{
			Name:        "bmp_grayscale",
			Description: "Convert a BMP to grayscale using luma weights 0.30 R + 0.59 G + 0.11 B.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":   pathProp,
				"output": outputProp,
			}, "path"),
		},
		{
			Name:        "bmp_histogram",
			Description: "Count the 256 byte values of one channel. Optionally render the histogram as a 256-pixel-wide bar chart.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProp,
				"channel": map[string]interface{}{
					"type":        "string",
					"description": "Channel to count",
					"enum":        []string{"gray", "blue", "green", "red", "alpha"},
					"default":     "gray",
				},
				"render": propDefault("boolean", "Also return a chart image", false),
				"color":  propDefault("string", "Bar color for the chart as #RRGGBB", "#FFFFFF"),
				"output": outputProp,
			}, "path"),
		},
		{
			Name:        "bmp_binarize",
			Description: "Convert a BMP to pure black and white. Pixels whose channel mean is at least the threshold become white. Without a threshold, Otsu's method chooses one.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":      pathProp,
				"threshold": prop("integer", "Threshold 0-255 (default: Otsu)"),
				"output":    outputProp,
			}, "path"),
		},
		{
			Name:        "bmp_otsu",
			Description: "Compute Otsu's threshold for a BMP without modifying it.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProp,
			}, "path"),
		},

		// Filters
		{
			Name:        "bmp_filter",
			Description: "Apply a smoothing filter. Borders are sampled by reflection. Alpha is preserved.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProp,
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Filter to apply",
					"enum":        []string{"mean", "box", "median", "gaussian"},
				},
				"radius": propDefault("integer", "Window radius for box and median filters (0-2047)", 1),
				"sigma":  propDefault("number", "Standard deviation for the gaussian filter", 1.0),
				"output": outputProp,
			}, "path", "type"),
		},
		{
			Name:        "bmp_convolve",
			Description: "Convolve a BMP with an arbitrary odd square kernel. Channel sums are truncated and wrap around outside 0-255.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProp,
				"size": prop("integer", "Kernel side length (odd)"),
				"weights": map[string]interface{}{
					"type":        "array",
					"description": "size*size weights in row-major order",
					"items":       map[string]interface{}{"type": "number"},
				},
				"output": outputProp,
			}, "path", "size", "weights"),
		},

		// Comparison
		{
			Name:        "bmp_compare",
			Description: "Compare two same-sized BMPs: exact pixel equality, count of differing pixels and CIEDE2000 color distance.",
			InputSchema: objectSchema(map[string]interface{}{
				"path1": prop("string", "Absolute path to the first BMP"),
				"path2": prop("string", "Absolute path to the second BMP"),
			}, "path1", "path2"),
		},
		{
			Name:        "bmp_find",
			Description: "Search for an exact copy of a needle image inside a haystack image and return the first match's top-left corner.",
			InputSchema: objectSchema(map[string]interface{}{
				"haystack": prop("string", "Absolute path to the BMP to search"),
				"needle":   prop("string", "Absolute path to the BMP to look for"),
			}, "haystack", "needle"),
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
