package server

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/ironsheep/text-region-mcp/internal/detection"
	"github.com/ironsheep/text-region-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "detect_text_regions").
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
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
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
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/detection function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_crop":
		return s.handleImageCrop(args)
	case "detect_text_regions":
		return s.handleDetectTextRegions(args)
	case "detection_overlay":
		return s.handleDetectionOverlay(args)
	case "detection_crop":
		return s.handleDetectionCrop(args)
	case "region_dominant_color":
		return s.handleRegionDominantColor(args)
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

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Region Operation Handlers ===

type imageCropArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, a.X1, a.Y1, a.X2, a.Y2, a.Scale)
}

// === Detection Handlers ===

// detectTextRegionsArgs flattens the detection config alongside the
// preprocessing options; unset config fields use the detector defaults.
type detectTextRegionsArgs struct {
	Path           string  `json:"path"`
	MaxDimension   int     `json:"max_dimension"`
	BlurSigma      float64 `json:"blur_sigma"`
	AnnotateColors bool    `json:"annotate_colors"`

	detection.Config
}

// runDetection loads, preprocesses, and detects, then maps results back to
// source image coordinates when preprocessing scaled the image down.
func (s *Server) runDetection(a detectTextRegionsArgs) (image.Image, *detection.Result, error) {
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, err
	}

	opts := imaging.PrepareOptions{MaxDimension: a.MaxDimension, BlurSigma: a.BlurSigma}
	buf, err := imaging.Prepare(img, opts)
	if err != nil {
		return nil, nil, err
	}

	result, err := detection.Detect(buf, a.Config)
	if err != nil {
		return nil, nil, err
	}

	if factor := imaging.ScaleFactor(img, opts); factor != 1 {
		scaleRectangles(result.Rectangles, factor)
	}
	if a.AnnotateColors {
		imaging.AnnotateColors(img, result.Rectangles)
	}

	return img, result, nil
}

func (s *Server) handleDetectTextRegions(args json.RawMessage) (interface{}, error) {
	var a detectTextRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, result, err := s.runDetection(a)
	return result, err
}

// scaleRectangles maps detection coordinates back onto the unscaled image.
func scaleRectangles(rects []detection.Rectangle, factor float64) {
	round := func(v int) int { return int(float64(v)*factor + 0.5) }
	for i := range rects {
		r := &rects[i]
		r.X = round(r.X)
		r.Y = round(r.Y)
		r.Width = round(r.Width)
		r.Height = round(r.Height)
		r.Grown.X1 = round(r.Grown.X1)
		r.Grown.Y1 = round(r.Grown.Y1)
		r.Grown.X2 = round(r.Grown.X2)
		r.Grown.Y2 = round(r.Grown.Y2)
	}
}

type detectionOverlayArgs struct {
	detectTextRegionsArgs

	OutlineColor   string `json:"outline_color"`
	ShowConfidence bool   `json:"show_confidence"`
}

func (s *Server) handleDetectionOverlay(args json.RawMessage) (interface{}, error) {
	var a detectionOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutlineColor == "" {
		a.OutlineColor = "#FF0000"
	}

	img, result, err := s.runDetection(a.detectTextRegionsArgs)
	if err != nil {
		return nil, err
	}
	return imaging.DrawDetections(img, result.Rectangles, a.OutlineColor, a.ShowConfidence)
}

type detectionCropArgs struct {
	detectTextRegionsArgs

	Index   int     `json:"index"`
	Padding int     `json:"padding"`
	Scale   float64 `json:"scale"`
}

func (s *Server) handleDetectionCrop(args json.RawMessage) (interface{}, error) {
	var a detectionCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	img, result, err := s.runDetection(a.detectTextRegionsArgs)
	if err != nil {
		return nil, err
	}
	if a.Index < 0 || a.Index >= len(result.Rectangles) {
		return nil, fmt.Errorf("detection index %d out of range: %d regions found", a.Index, len(result.Rectangles))
	}
	return imaging.CropDetection(img, result.Rectangles[a.Index], a.Padding, a.Scale)
}

// === Color Handlers ===

type regionDominantColorArgs struct {
	Path   string `json:"path"`
	Region *struct {
		X1 int `json:"x1"`
		Y1 int `json:"y1"`
		X2 int `json:"x2"`
		Y2 int `json:"y2"`
	} `json:"region,omitempty"`
}

func (s *Server) handleRegionDominantColor(args json.RawMessage) (interface{}, error) {
	var a regionDominantColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	var region *imaging.Region
	if a.Region != nil {
		region = &imaging.Region{X1: a.Region.X1, Y1: a.Region.Y1, X2: a.Region.X2, Y2: a.Region.Y2}
	}
	return imaging.DominantColor(img, region)
}
