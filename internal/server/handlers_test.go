package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/text-region-mcp/internal/detection"
	"github.com/ironsheep/text-region-mcp/internal/imaging"
)

// createTestImageFile writes a solid-color PNG to a temp directory and
// returns its path.
func createTestImageFile(t *testing.T, width, height int, c color.RGBA) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}

	return path
}

// createTexturedImageFile writes a PNG with a high-contrast checkerboard
// block inside a uniform gray background, giving the detector something
// to find.
func createTexturedImageFile(t *testing.T, width, height, bx1, by1, bx2, by2 int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	gray := color.RGBA{128, 128, 128, 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, gray)
		}
	}
	for y := by1; y < by2; y++ {
		for x := bx1; x < bx2; x++ {
			v := uint8(0)
			if (x+y)%2 == 0 {
				v = 255
			}
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}

	path := filepath.Join(t.TempDir(), "textured.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}

	return path
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := New()

	_, err := s.executeTool("nonexistent_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Fatal("Expected error for unknown tool")
	}
	if !strings.Contains(err.Error(), "unknown tool") {
		t.Errorf("Error should mention unknown tool: %v", err)
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := New()

	_, err := s.executeTool("image_load", json.RawMessage(`{invalid json`))
	if err == nil {
		t.Fatal("Expected error for invalid JSON arguments")
	}
}

func TestHandleImageLoad(t *testing.T) {
	s := New()
	path := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	args, _ := json.Marshal(map[string]string{"path": path})
	result, err := s.executeTool("image_load", args)
	if err != nil {
		t.Fatalf("image_load failed: %v", err)
	}

	info, ok := result.(*imaging.ImageInfo)
	if !ok {
		t.Fatalf("Result type: got %T, want *imaging.ImageInfo", result)
	}

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("Dimensions: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
}

func TestHandleImageLoad_MissingFile(t *testing.T) {
	s := New()

	args, _ := json.Marshal(map[string]string{"path": "/nonexistent/image.png"})
	_, err := s.executeTool("image_load", args)
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestHandleImageDimensions(t *testing.T) {
	s := New()
	path := createTestImageFile(t, 64, 48, color.RGBA{0, 255, 0, 255})

	args, _ := json.Marshal(map[string]string{"path": path})
	result, err := s.executeTool("image_dimensions", args)
	if err != nil {
		t.Fatalf("image_dimensions failed: %v", err)
	}

	dims, ok := result.(*imaging.DimensionsResult)
	if !ok {
		t.Fatalf("Result type: got %T, want *imaging.DimensionsResult", result)
	}

	if dims.Width != 64 || dims.Height != 48 {
		t.Errorf("Dimensions: got %dx%d, want 64x48", dims.Width, dims.Height)
	}
}

func TestHandleImageCrop(t *testing.T) {
	s := New()
	path := createTestImageFile(t, 100, 100, color.RGBA{0, 0, 255, 255})

	args, _ := json.Marshal(map[string]interface{}{
		"path": path,
		"x1":   10, "y1": 20, "x2": 50, "y2": 60,
	})
	result, err := s.executeTool("image_crop", args)
	if err != nil {
		t.Fatalf("image_crop failed: %v", err)
	}

	crop, ok := result.(*imaging.CropResult)
	if !ok {
		t.Fatalf("Result type: got %T, want *imaging.CropResult", result)
	}

	if crop.Width != 40 || crop.Height != 40 {
		t.Errorf("Crop dimensions: got %dx%d, want 40x40", crop.Width, crop.Height)
	}
	if crop.ImageBase64 == "" {
		t.Error("ImageBase64 should not be empty")
	}
}

func TestHandleImageCrop_DefaultScale(t *testing.T) {
	s := New()
	path := createTestImageFile(t, 50, 50, color.RGBA{0, 0, 255, 255})

	// Scale omitted entirely; should default to 1.0 rather than collapse to zero
	args, _ := json.Marshal(map[string]interface{}{
		"path": path,
		"x1":   0, "y1": 0, "x2": 20, "y2": 20,
	})
	result, err := s.executeTool("image_crop", args)
	if err != nil {
		t.Fatalf("image_crop failed: %v", err)
	}

	crop := result.(*imaging.CropResult)
	if crop.Width != 20 || crop.Height != 20 {
		t.Errorf("Crop dimensions: got %dx%d, want 20x20", crop.Width, crop.Height)
	}
}

func TestHandleImageCrop_OutOfBounds(t *testing.T) {
	s := New()
	path := createTestImageFile(t, 50, 50, color.RGBA{0, 0, 255, 255})

	args, _ := json.Marshal(map[string]interface{}{
		"path": path,
		"x1":   0, "y1": 0, "x2": 100, "y2": 100,
	})
	_, err := s.executeTool("image_crop", args)
	if err == nil {
		t.Fatal("Expected error for out-of-bounds crop")
	}
}

func TestHandleDetectTextRegions_Uniform(t *testing.T) {
	s := New()
	path := createTestImageFile(t, 80, 80, color.RGBA{200, 200, 200, 255})

	args, _ := json.Marshal(map[string]string{"path": path})
	result, err := s.executeTool("detect_text_regions", args)
	if err != nil {
		t.Fatalf("detect_text_regions failed: %v", err)
	}

	res, ok := result.(*detection.Result)
	if !ok {
		t.Fatalf("Result type: got %T, want *detection.Result", result)
	}

	// A featureless image yields no regions, but that is not an error
	if res.Count != 0 {
		t.Errorf("Count: got %d, want 0 for uniform image", res.Count)
	}
}

func TestHandleDetectTextRegions_Textured(t *testing.T) {
	s := New()
	path := createTexturedImageFile(t, 96, 96, 30, 30, 60, 50)

	args, _ := json.Marshal(map[string]string{"path": path})
	result, err := s.executeTool("detect_text_regions", args)
	if err != nil {
		t.Fatalf("detect_text_regions failed: %v", err)
	}

	res := result.(*detection.Result)
	if res.Count == 0 {
		t.Fatal("Expected at least one region for textured image")
	}
	if res.Count != len(res.Rectangles) {
		t.Errorf("Count %d does not match %d rectangles", res.Count, len(res.Rectangles))
	}
}

func TestHandleDetectTextRegions_WindowStrategy(t *testing.T) {
	s := New()
	path := createTestImageFile(t, 120, 120, color.RGBA{200, 200, 200, 255})

	args, _ := json.Marshal(map[string]interface{}{
		"path":     path,
		"strategy": "window",
	})
	result, err := s.executeTool("detect_text_regions", args)
	if err != nil {
		t.Fatalf("detect_text_regions failed: %v", err)
	}

	res := result.(*detection.Result)
	if res.Count != 0 {
		t.Errorf("Count: got %d, want 0 for uniform image", res.Count)
	}
}

func TestHandleDetectionOverlay(t *testing.T) {
	s := New()
	path := createTexturedImageFile(t, 96, 96, 30, 30, 60, 50)

	args, _ := json.Marshal(map[string]string{"path": path})
	result, err := s.executeTool("detection_overlay", args)
	if err != nil {
		t.Fatalf("detection_overlay failed: %v", err)
	}

	overlay, ok := result.(*imaging.OverlayResult)
	if !ok {
		t.Fatalf("Result type: got %T, want *imaging.OverlayResult", result)
	}

	if overlay.Width != 96 || overlay.Height != 96 {
		t.Errorf("Dimensions: got %dx%d, want 96x96", overlay.Width, overlay.Height)
	}
	if overlay.ImageBase64 == "" {
		t.Error("ImageBase64 should not be empty")
	}
	if overlay.Count == 0 {
		t.Error("Expected at least one region drawn")
	}
}

func TestHandleDetectionOverlay_Uniform(t *testing.T) {
	s := New()
	path := createTestImageFile(t, 80, 80, color.RGBA{200, 200, 200, 255})

	args, _ := json.Marshal(map[string]string{"path": path})
	result, err := s.executeTool("detection_overlay", args)
	if err != nil {
		t.Fatalf("detection_overlay failed: %v", err)
	}

	overlay := result.(*imaging.OverlayResult)
	if overlay.Count != 0 {
		t.Errorf("Count: got %d, want 0", overlay.Count)
	}
	if overlay.ImageBase64 == "" {
		t.Error("Overlay should still return the image when nothing is found")
	}
}

func TestHandleDetectionCrop(t *testing.T) {
	s := New()
	path := createTexturedImageFile(t, 96, 96, 30, 30, 60, 50)

	args, _ := json.Marshal(map[string]interface{}{
		"path":  path,
		"index": 0,
	})
	result, err := s.executeTool("detection_crop", args)
	if err != nil {
		t.Fatalf("detection_crop failed: %v", err)
	}

	crop, ok := result.(*imaging.CropResult)
	if !ok {
		t.Fatalf("Result type: got %T, want *imaging.CropResult", result)
	}

	if crop.Width <= 0 || crop.Height <= 0 {
		t.Errorf("Crop dimensions should be positive: got %dx%d", crop.Width, crop.Height)
	}
	if crop.ImageBase64 == "" {
		t.Error("ImageBase64 should not be empty")
	}
}

func TestHandleDetectionCrop_IndexOutOfRange(t *testing.T) {
	s := New()
	// Nothing to detect here, so any index is out of range
	path := createTestImageFile(t, 80, 80, color.RGBA{200, 200, 200, 255})

	args, _ := json.Marshal(map[string]interface{}{
		"path":  path,
		"index": 0,
	})
	_, err := s.executeTool("detection_crop", args)
	if err == nil {
		t.Fatal("Expected error when index exceeds region count")
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Errorf("Error should mention range: %v", err)
	}
}

func TestHandleRegionDominantColor(t *testing.T) {
	s := New()
	path := createTestImageFile(t, 50, 50, color.RGBA{255, 0, 0, 255})

	args, _ := json.Marshal(map[string]string{"path": path})
	result, err := s.executeTool("region_dominant_color", args)
	if err != nil {
		t.Fatalf("region_dominant_color failed: %v", err)
	}

	info, ok := result.(*imaging.ColorInfo)
	if !ok {
		t.Fatalf("Result type: got %T, want *imaging.ColorInfo", result)
	}

	if info.Hex != "#ff0000" {
		t.Errorf("Hex: got %s, want #ff0000", info.Hex)
	}
	if info.Percentage < 99.0 {
		t.Errorf("Percentage: got %f, want ~100", info.Percentage)
	}
}

func TestHandleRegionDominantColor_WithRegion(t *testing.T) {
	s := New()

	// Left half red, right half blue
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if x < 20 {
				img.Set(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				img.Set(x, y, color.RGBA{0, 0, 255, 255})
			}
		}
	}
	path := filepath.Join(t.TempDir(), "halves.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("Failed to encode test image: %v", err)
	}
	f.Close()

	args, _ := json.Marshal(map[string]interface{}{
		"path":   path,
		"region": map[string]int{"x1": 20, "y1": 0, "x2": 40, "y2": 40},
	})
	result, err := s.executeTool("region_dominant_color", args)
	if err != nil {
		t.Fatalf("region_dominant_color failed: %v", err)
	}

	info := result.(*imaging.ColorInfo)
	if info.Hex != "#0000ff" {
		t.Errorf("Hex: got %s, want #0000ff", info.Hex)
	}
}

func TestHandleToolsCall_ContentWrapping(t *testing.T) {
	s := New()
	path := createTestImageFile(t, 30, 30, color.RGBA{255, 0, 0, 255})

	params, _ := json.Marshal(ToolCallParams{
		Name:      "image_dimensions",
		Arguments: json.RawMessage(`{"path":"` + path + `"}`),
	})
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	}

	resp := s.handleToolsCall(req)

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	content, ok := result["content"].([]map[string]interface{})
	if !ok {
		t.Fatal("Result should contain content list")
	}
	if len(content) != 1 {
		t.Fatalf("Content length: got %d, want 1", len(content))
	}
	if content[0]["type"] != "text" {
		t.Errorf("Content type: got %v, want text", content[0]["type"])
	}

	text, ok := content[0]["text"].(string)
	if !ok || !strings.Contains(text, "\"width\"") {
		t.Errorf("Content text should contain JSON dimensions: %v", content[0]["text"])
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`{not valid`),
	}

	resp := s.handleToolsCall(req)

	if resp.Error == nil {
		t.Fatal("Expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestHandleToolsCall_ToolFailure(t *testing.T) {
	s := New()
	params, _ := json.Marshal(ToolCallParams{
		Name:      "image_load",
		Arguments: json.RawMessage(`{"path":"/nonexistent/image.png"}`),
	})
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	}

	resp := s.handleToolsCall(req)

	if resp.Error == nil {
		t.Fatal("Expected error for failing tool")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}
