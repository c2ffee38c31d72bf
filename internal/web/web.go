// Package web exposes the text region detector over HTTP for callers that
// are not MCP clients.
//
// POST /detect accepts an image three ways, selected by Content-Type:
//   - application/json: {"image": "<base64>"}
//   - multipart/form-data: a "file" part
//   - anything else: raw image bytes in the body
//
// Detection options ride in the query string (strategy, max_dimension,
// blur_sigma, minimum_confidence, annotate_colors); unset options use the
// detector defaults. GET /healthz reports liveness.
package web

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/ironsheep/text-region-mcp/internal/detection"
	"github.com/ironsheep/text-region-mcp/internal/imaging"
)

// maxUploadBytes caps request bodies; larger images should be downscaled by
// the client first.
const maxUploadBytes = 32 << 20

// Server is the HTTP front-end.
type Server struct {
	router *mux.Router
}

// DetectResponse is the JSON body returned by POST /detect.
type DetectResponse struct {
	Width      int                   `json:"width"`
	Height     int                   `json:"height"`
	Count      int                   `json:"count"`
	Rectangles []detection.Rectangle `json:"rectangles"`
}

// ErrorResponse is the JSON body returned on request failures.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// New creates a Server with its routes registered.
func New() *Server {
	s := &Server{router: mux.NewRouter()}
	s.router.HandleFunc("/detect", s.handleDetect).Methods("POST")
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods("GET")
	return s
}

// Router returns the underlying router, mainly for tests.
func (s *Server) Router() *mux.Router {
	return s.router
}

// ListenAndServe blocks serving HTTP on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Handler:      s.router,
		Addr:         addr,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	log.Printf("HTTP front-end listening on %s", addr)
	return srv.ListenAndServe()
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	imgBytes, err := readImageBytes(r)
	if err != nil {
		sendError(w, "invalid_request", err.Error(), http.StatusBadRequest)
		return
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		sendError(w, "invalid_image", "failed to decode image", http.StatusBadRequest)
		return
	}

	cfg, opts, annotate, err := parseOptions(r)
	if err != nil {
		sendError(w, "invalid_options", err.Error(), http.StatusBadRequest)
		return
	}

	buf, err := imaging.Prepare(img, opts)
	if err != nil {
		sendError(w, "processing_error", err.Error(), http.StatusInternalServerError)
		return
	}

	result, err := detection.Detect(buf, cfg)
	if err != nil {
		sendError(w, "processing_error", err.Error(), http.StatusInternalServerError)
		return
	}

	if factor := imaging.ScaleFactor(img, opts); factor != 1 {
		scaleRectangles(result.Rectangles, factor)
	}
	if annotate {
		imaging.AnnotateColors(img, result.Rectangles)
	}

	bounds := img.Bounds()
	resp := DetectResponse{
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Count:      result.Count,
		Rectangles: result.Rectangles,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// readImageBytes extracts the image payload according to Content-Type.
func readImageBytes(r *http.Request) ([]byte, error) {
	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "application/json"):
		var req struct {
			Image string `json:"image"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, fmt.Errorf("bad JSON body: %w", err)
		}
		data, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			return nil, fmt.Errorf("bad base64 image: %w", err)
		}
		return data, nil
	case strings.HasPrefix(contentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return io.ReadAll(file)
	default:
		return io.ReadAll(r.Body)
	}
}

// parseOptions reads detection and preprocessing options from the query
// string.
func parseOptions(r *http.Request) (detection.Config, imaging.PrepareOptions, bool, error) {
	var cfg detection.Config
	var opts imaging.PrepareOptions
	q := r.URL.Query()

	if v := q.Get("strategy"); v != "" {
		switch v {
		case string(detection.StrategyRays):
			cfg.Strategy = detection.StrategyRays
		case string(detection.StrategyWindow):
			cfg.Strategy = detection.StrategyWindow
		default:
			return cfg, opts, false, fmt.Errorf("unknown strategy %q", v)
		}
	}
	if v := q.Get("minimum_confidence"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, opts, false, fmt.Errorf("bad minimum_confidence: %w", err)
		}
		cfg.MinimumConfidence = f
	}
	if v := q.Get("max_dimension"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, opts, false, fmt.Errorf("bad max_dimension: %w", err)
		}
		opts.MaxDimension = n
	}
	if v := q.Get("blur_sigma"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, opts, false, fmt.Errorf("bad blur_sigma: %w", err)
		}
		opts.BlurSigma = f
	}
	annotate := q.Get("annotate_colors") == "true"

	return cfg, opts, annotate, nil
}

// scaleRectangles maps detection coordinates back onto the unscaled image.
func scaleRectangles(rects []detection.Rectangle, factor float64) {
	round := func(v int) int { return int(float64(v)*factor + 0.5) }
	for i := range rects {
		rect := &rects[i]
		rect.X = round(rect.X)
		rect.Y = round(rect.Y)
		rect.Width = round(rect.Width)
		rect.Height = round(rect.Height)
		rect.Grown.X1 = round(rect.Grown.X1)
		rect.Grown.Y1 = round(rect.Grown.Y1)
		rect.Grown.X2 = round(rect.Grown.X2)
		rect.Grown.Y2 = round(rect.Grown.Y2)
	}
}

func sendError(w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Code: code, Message: message})
}
