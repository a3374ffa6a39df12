package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"math"
	"os"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/bmp-tools-mcp/internal/bitmap"
	"github.com/ironsheep/bmp-tools-mcp/internal/codec"
	"github.com/ironsheep/bmp-tools-mcp/internal/compare"
	"github.com/ironsheep/bmp-tools-mcp/internal/filter"
	"github.com/ironsheep/bmp-tools-mcp/internal/geometry"
	"github.com/ironsheep/bmp-tools-mcp/internal/logging"
	"github.com/ironsheep/bmp-tools-mcp/internal/photometric"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "bmp_load", "bmp_rotate").
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
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		logging.Warn("tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads bitmaps through the cache, cloning before any transform
//  4. Calls the engine package for the operation
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// File Information
	case "bmp_load":
		return s.handleLoad(args)
	case "bmp_sample_color":
		return s.handleSampleColor(args)

	// Geometry
	case "bmp_crop":
		return s.handleCrop(args)
	case "bmp_autocrop":
		return s.handleAutocrop(args)
	case "bmp_add_alpha":
		return s.handleAddAlpha(args)
	case "bmp_flip":
		return s.handleFlip(args)
	case "bmp_rotate":
		return s.handleRotate(args)

	// Photometric
	case "bmp_grayscale":
		return s.handleGrayscale(args)
	case "bmp_histogram":
		return s.handleHistogram(args)
	case "bmp_binarize":
		return s.handleBinarize(args)
	case "bmp_otsu":
		return s.handleOtsu(args)

	// Filters
	case "bmp_filter":
		return s.handleFilter(ctx, args)
	case "bmp_convolve":
		return s.handleConvolve(ctx, args)

	// Comparison
	case "bmp_compare":
		return s.handleCompare(args)
	case "bmp_find":
		return s.handleFind(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// ImageResult describes a bitmap produced by a tool.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	BitCount    int    `json:"bit_count"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	OutputPath  string `json:"output_path,omitempty"`
}

// imageResult encodes b as a BMP and, when output is set, also writes it there.
// Writing evicts output from the cache so later loads see the new file.
func (s *Server) imageResult(b *bitmap.Buffer, output string) (*ImageResult, error) {
	data, err := codec.EncodeBytes(b)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bitmap: %w", err)
	}
	if output != "" {
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", output, err)
		}
		s.cache.Evict(output)
		logging.Debug("wrote %d bytes to %s", len(data), output)
	}
	return &ImageResult{
		Width:       b.Width(),
		Height:      b.Height(),
		BitCount:    b.BitsPerPixel(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/bmp",
		OutputPath:  output,
	}, nil
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func parseColorArg(name, hex string, fallback bitmap.BGRColor) (bitmap.BGRColor, error) {
	if hex == "" {
		return fallback, nil
	}
	c, err := bitmap.ParseHexColor(hex)
	if err != nil {
		return bitmap.BGRColor{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return c, nil
}

// === File Information Handlers ===

type pathArgs struct {
	Path   string `json:"path"`
	Output string `json:"output,omitempty"`
}

func (s *Server) handleLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if !s.cfg.CacheImages {
		f, err := os.Open(a.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open bitmap: %w", err)
		}
		defer f.Close()
		info, err := codec.ReadInfo(bufio.NewReader(f))
		if err != nil {
			return nil, fmt.Errorf("failed to read header of %s: %w", a.Path, err)
		}
		if stat, err := f.Stat(); err == nil {
			info.FileSize = stat.Size()
		}
		return info, nil
	}
	return s.cache.LoadInfo(a.Path)
}

type sampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// ColorResult is the color of one pixel.
type ColorResult struct {
	X     int             `json:"x"`
	Y     int             `json:"y"`
	Hex   string          `json:"hex"`
	BGR   bitmap.BGRColor `json:"bgr"`
	Alpha uint8           `json:"alpha"`
	Luma  uint8           `json:"luma"`
}

func (s *Server) handleSampleColor(args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	b, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	if !image.Pt(a.X, a.Y).In(b.Bounds()) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside %dx%d image", a.X, a.Y, b.Width(), b.Height())
	}
	c := b.At(a.X, a.Y)
	return &ColorResult{
		X:     a.X,
		Y:     a.Y,
		Hex:   c.Hex(),
		BGR:   c,
		Alpha: b.Alpha(a.X, a.Y),
		Luma:  photometric.Luma(c),
	}, nil
}

// === Geometry Handlers ===

type cropArgs struct {
	Path   string  `json:"path"`
	X1     int     `json:"x1"`
	Y1     int     `json:"y1"`
	X2     int     `json:"x2"`
	Y2     int     `json:"y2"`
	Scale  float64 `json:"scale"`
	Output string  `json:"output,omitempty"`
}

func (s *Server) handleCrop(args json.RawMessage) (interface{}, error) {
	var a cropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	if a.Scale < 0 {
		return nil, fmt.Errorf("scale must be positive, got %v", a.Scale)
	}
	b, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	cropped, err := geometry.CropRect(b, a.X1, a.Y1, a.X2, a.Y2)
	if err != nil {
		return nil, err
	}

	if a.Scale != 1.0 {
		newWidth, newHeight, err := scaledSize(cropped, a.Scale)
		if err != nil {
			return nil, err
		}
		scaled := imaging.Resize(cropped.ToImage(), newWidth, newHeight, imaging.Lanczos)
		if cropped, err = bitmap.FromImage(scaled, false); err != nil {
			return nil, fmt.Errorf("failed to scale crop: %w", err)
		}
	}
	return s.imageResult(cropped, a.Output)
}

// scaledSize returns the dimensions of b scaled by scale, at least 1x1. Sizes whose
// NRGBA intermediate would exceed bitmap.MaxBufferBytes are rejected before any
// allocation happens.
func scaledSize(b *bitmap.Buffer, scale float64) (int, int, error) {
	w := math.Max(math.Floor(float64(b.Width())*scale), 1)
	h := math.Max(math.Floor(float64(b.Height())*scale), 1)
	if size := 4 * w * h; size > bitmap.MaxBufferBytes {
		n := int64(math.MaxInt64)
		if size < math.MaxInt64 {
			n = int64(size)
		}
		return 0, 0, &bitmap.AllocationError{Op: "scale crop", Size: n}
	}
	return int(w), int(h), nil
}

type autocropArgs struct {
	Path       string `json:"path"`
	Background string `json:"background,omitempty"`
	Output     string `json:"output,omitempty"`
}

// AutocropResult reports the detected foreground and the cropped image.
type AutocropResult struct {
	Background string `json:"background"`
	Found      bool   `json:"foreground_found"`
	X1         int    `json:"x1"`
	Y1         int    `json:"y1"`
	X2         int    `json:"x2"`
	Y2         int    `json:"y2"`
	*ImageResult
}

func (s *Server) handleAutocrop(args json.RawMessage) (interface{}, error) {
	var a autocropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	b, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	// The top-left pixel is the background unless told otherwise.
	bg, err := parseColorArg("background", a.Background, b.At(0, 0))
	if err != nil {
		return nil, err
	}

	rect, found := geometry.ForegroundBounds(b, bg)
	out, err := geometry.AutocropByColor(b, bg)
	if err != nil {
		return nil, err
	}
	if !found {
		rect = b.Bounds()
	}
	img, err := s.imageResult(out, a.Output)
	if err != nil {
		return nil, err
	}
	return &AutocropResult{
		Background:  bg.Hex(),
		Found:       found,
		X1:          rect.Min.X,
		Y1:          rect.Min.Y,
		X2:          rect.Max.X,
		Y2:          rect.Max.Y,
		ImageResult: img,
	}, nil
}

func (s *Server) handleAddAlpha(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	b, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := geometry.AddAlpha(b)
	if err != nil {
		return nil, err
	}
	return s.imageResult(out, a.Output)
}

func (s *Server) handleFlip(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	b, err := s.loadCopy(a.Path)
	if err != nil {
		return nil, err
	}
	if err := geometry.HorizontalFlip(b); err != nil {
		return nil, err
	}
	return s.imageResult(b, a.Output)
}

type rotateArgs struct {
	Path   string  `json:"path"`
	Angle  float64 `json:"angle"`
	Expand bool    `json:"expand"`
	Fill   string  `json:"fill,omitempty"`
	Output string  `json:"output,omitempty"`
}

func (s *Server) handleRotate(args json.RawMessage) (interface{}, error) {
	var a rotateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	fill, err := parseColorArg("fill", a.Fill, s.cfg.Fill())
	if err != nil {
		return nil, err
	}
	b, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := geometry.Rotate(b, a.Angle, a.Expand, fill)
	if err != nil {
		return nil, err
	}
	return s.imageResult(out, a.Output)
}

// === Photometric Handlers ===

func (s *Server) handleGrayscale(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	b, err := s.loadCopy(a.Path)
	if err != nil {
		return nil, err
	}
	if err := photometric.Grayscale(b); err != nil {
		return nil, err
	}
	return s.imageResult(b, a.Output)
}

type histogramArgs struct {
	Path    string `json:"path"`
	Channel string `json:"channel,omitempty"`
	Render  bool   `json:"render"`
	Color   string `json:"color,omitempty"`
	Output  string `json:"output,omitempty"`
}

// HistogramResult holds 256 bucket counts and, on request, a rendered chart.
type HistogramResult struct {
	Channel string       `json:"channel"`
	Bins    [256]int     `json:"bins"`
	Total   int          `json:"total"`
	Min     int          `json:"min"`
	Max     int          `json:"max"`
	Chart   *ImageResult `json:"chart,omitempty"`
}

var channelOffsets = map[string]int{"blue": 0, "green": 1, "red": 2, "alpha": 3}

func (s *Server) handleHistogram(args json.RawMessage) (interface{}, error) {
	var a histogramArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	channel := strings.ToLower(a.Channel)
	if channel == "" {
		channel = "gray"
	}
	b, err := s.loadCopy(a.Path)
	if err != nil {
		return nil, err
	}

	var hist [256]int
	if channel == "gray" {
		hist, err = photometric.GrayHistogram(b)
	} else {
		offset, ok := channelOffsets[channel]
		if !ok {
			return nil, fmt.Errorf("unknown channel %q (use gray, blue, green, red or alpha)", a.Channel)
		}
		hist, err = photometric.Histogram(b, offset)
	}
	if err != nil {
		return nil, err
	}

	result := &HistogramResult{Channel: channel, Bins: hist, Min: -1, Max: -1}
	for v, n := range hist {
		result.Total += n
		if n > 0 {
			if result.Min < 0 {
				result.Min = v
			}
			result.Max = v
		}
	}

	if a.Render {
		clr, err := parseColorArg("color", a.Color, bitmap.BGRColor{B: 0xff, G: 0xff, R: 0xff})
		if err != nil {
			return nil, err
		}
		chart, err := photometric.RenderHistogram(hist, clr)
		if err != nil {
			return nil, err
		}
		if result.Chart, err = s.imageResult(chart, a.Output); err != nil {
			return nil, err
		}
	}
	return result, nil
}

type binarizeArgs struct {
	Path      string `json:"path"`
	Threshold *int   `json:"threshold,omitempty"`
	Output    string `json:"output,omitempty"`
}

// ThresholdResult reports the threshold used and, for binarize, the result image.
type ThresholdResult struct {
	Threshold int  `json:"threshold"`
	Automatic bool `json:"automatic"`
	*ImageResult
}

func (s *Server) handleBinarize(args json.RawMessage) (interface{}, error) {
	var a binarizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	b, err := s.loadCopy(a.Path)
	if err != nil {
		return nil, err
	}

	result := &ThresholdResult{}
	if a.Threshold != nil {
		result.Threshold = *a.Threshold
	} else {
		result.Threshold = photometric.OtsuThreshold(b)
		result.Automatic = true
	}
	if err := photometric.Binarize(b, result.Threshold); err != nil {
		return nil, err
	}
	if result.ImageResult, err = s.imageResult(b, a.Output); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Server) handleOtsu(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	b, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	return &ThresholdResult{Threshold: photometric.OtsuThreshold(b), Automatic: true}, nil
}

// === Filter Handlers ===

type filterArgs struct {
	Path   string   `json:"path"`
	Type   string   `json:"type"`
	Radius *int     `json:"radius,omitempty"`
	Sigma  *float64 `json:"sigma,omitempty"`
	Output string   `json:"output,omitempty"`
}

func (s *Server) handleFilter(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a filterArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	radius := 1
	if a.Radius != nil {
		radius = *a.Radius
	}
	sigma := 1.0
	if a.Sigma != nil {
		sigma = *a.Sigma
	}

	b, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}

	var out *bitmap.Buffer
	switch strings.ToLower(a.Type) {
	case "mean":
		out, err = s.engine.MeanFilter(ctx, b)
	case "box":
		out, err = s.engine.BoxFilter(ctx, b, radius)
	case "median":
		out, err = s.engine.MedianFilter(ctx, b, radius)
	case "gaussian":
		out, err = s.engine.GaussianBlur(ctx, b, sigma)
	default:
		return nil, fmt.Errorf("unknown filter type %q (use mean, box, median or gaussian)", a.Type)
	}
	if err != nil {
		return nil, err
	}
	return s.imageResult(out, a.Output)
}

type convolveArgs struct {
	Path    string    `json:"path"`
	Size    int       `json:"size"`
	Weights []float64 `json:"weights"`
	Output  string    `json:"output,omitempty"`
}

func (s *Server) handleConvolve(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a convolveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	k, err := filter.NewKernel(a.Size, a.Weights)
	if err != nil {
		return nil, err
	}
	b, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := s.engine.Convolve(ctx, b, k)
	if err != nil {
		return nil, err
	}
	return s.imageResult(out, a.Output)
}

// === Comparison Handlers ===

type compareArgs struct {
	Path1 string `json:"path1"`
	Path2 string `json:"path2"`
}

// CompareResult combines exact equality with the perceptual difference report.
type CompareResult struct {
	PixelEqual bool `json:"pixel_equal"`
	*compare.Report
}

func (s *Server) handleCompare(args json.RawMessage) (interface{}, error) {
	var a compareArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	b1, err := s.load(a.Path1)
	if err != nil {
		return nil, err
	}
	b2, err := s.load(a.Path2)
	if err != nil {
		return nil, err
	}
	report, err := compare.Diff(b1, b2)
	if err != nil {
		return nil, err
	}
	return &CompareResult{PixelEqual: compare.PixelEqual(b1, b2), Report: report}, nil
}

type findArgs struct {
	Haystack string `json:"haystack"`
	Needle   string `json:"needle"`
}

// FindResult locates a needle image inside a haystack image.
type FindResult struct {
	Found  bool `json:"found"`
	X      int  `json:"x"`
	Y      int  `json:"y"`
	Width  int  `json:"width"`
	Height int  `json:"height"`
}

func (s *Server) handleFind(args json.RawMessage) (interface{}, error) {
	var a findArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	hay, err := s.load(a.Haystack)
	if err != nil {
		return nil, err
	}
	needle, err := s.load(a.Needle)
	if err != nil {
		return nil, err
	}
	x, y, found := compare.FindSubImage(hay, needle)
	return &FindResult{Found: found, X: x, Y: y, Width: needle.Width(), Height: needle.Height()}, nil
}
