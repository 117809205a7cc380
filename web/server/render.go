package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	SceneRequest
	MaxSamples int `json:"maxSamples"` // 0 uses the scene's samples per pixel
	MaxPasses  int `json:"maxPasses"`
	MaxDepth   int `json:"maxDepth"` // 0 uses the scene's depth
}

// ProgressUpdate is sent once per completed pass
type ProgressUpdate struct {
	PassNumber     int     `json:"passNumber"`
	TotalPasses    int     `json:"totalPasses"`
	ImageData      string  `json:"imageData"` // Base64 encoded PNG
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	NoiseEstimate  float64 `json:"noiseEstimate"`
	PrimitiveCount int     `json:"primitiveCount"`
	IsComplete     bool    `json:"isComplete"`
	ElapsedMs      int64   `json:"elapsedMs"`
}

// errStreamingUnsupported is returned when the response writer cannot flush events
var errStreamingUnsupported = errors.New("streaming not supported")

// sseWriter writes Server-Sent Events. It is only used from the handler goroutine.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errStreamingUnsupported
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	return &sseWriter{w: w, flusher: flusher}, nil
}

// send writes one event. Strings are sent as-is, anything else as JSON.
func (s *sseWriter) send(event string, data any) error {
	payload, ok := data.(string)
	if !ok {
		encoded, err := json.Marshal(data)
		if err != nil {
			return err
		}
		payload = string(encoded)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// handleRender streams a progressive render: a "progress" event per pass, "console"
// events for render log records, then "complete" or "error".
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	sse, err := newSSEWriter(w)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		sse.send("error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := req.buildScene()
	if err != nil {
		sse.send("error", err.Error())
		return
	}

	consoleChan := make(chan ConsoleMessage, 64)
	logger := NewWebLogger(consoleChan, slog.LevelInfo, s.logger.Handler()).
		With("render", fmt.Sprintf("render-%d", time.Now().UnixNano()))

	raytracer, err := renderer.NewProgressiveRaytracer(sceneObj, renderer.RenderOptions{
		Width:           req.Width,
		Height:          req.Height,
		SamplesPerPixel: req.MaxSamples,
		MaxDepth:        req.MaxDepth,
		Passes:          req.MaxPasses,
		Seed:            req.Seed,
		Logger:          logger,
	})
	if err != nil {
		sse.send("error", err.Error())
		return
	}

	// The render stops when the client disconnects
	ctx := r.Context()
	startTime := time.Now()
	passChan, errChan := raytracer.RenderProgressive(ctx)
	primitives := sceneObj.GetPrimitiveCount()

	for passChan != nil {
		select {
		case msg := <-consoleChan:
			sse.send("console", msg)

		case result, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			update, err := newProgressUpdate(result, raytracer.Passes(), primitives, startTime)
			if err != nil {
				sse.send("error", fmt.Sprintf("Encoding pass %d: %v", result.PassNumber, err))
				return
			}
			if err := sse.send("progress", update); err != nil {
				// Client went away; the request context cancels the render
				return
			}

		case <-ctx.Done():
			return
		}
	}
	drainConsole(consoleChan, sse)

	if err := <-errChan; err != nil {
		if ctx.Err() != nil {
			return
		}
		sse.send("error", fmt.Sprintf("Rendering failed: %v", err))
		return
	}
	sse.send("complete", "Rendering completed")
}

// drainConsole sends console messages that arrived after the last pass
func drainConsole(consoleChan <-chan ConsoleMessage, sse *sseWriter) {
	for {
		select {
		case msg := <-consoleChan:
			sse.send("console", msg)
		default:
			return
		}
	}
}

// newProgressUpdate encodes a pass snapshot as a PNG progress event
func newProgressUpdate(result renderer.PassResult, totalPasses, primitives int, startTime time.Time) (ProgressUpdate, error) {
	imageData, err := imageToBase64PNG(result.Image)
	if err != nil {
		return ProgressUpdate{}, err
	}
	return ProgressUpdate{
		PassNumber:     result.PassNumber,
		TotalPasses:    totalPasses,
		ImageData:      imageData,
		Width:          result.Image.Width,
		Height:         result.Image.Height,
		TotalPixels:    result.Stats.TotalPixels,
		TotalSamples:   result.Stats.TotalSamples,
		AverageSamples: result.Stats.AverageSamples,
		NoiseEstimate:  result.Stats.NoiseEstimate,
		PrimitiveCount: primitives,
		IsComplete:     result.IsLast,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
	}, nil
}

// parseRenderRequest parses request parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	sceneReq, err := parseSceneParams(values)
	if err != nil {
		return nil, err
	}
	req := &RenderRequest{SceneRequest: sceneReq}

	if req.MaxSamples, err = parseIntParam(values, "maxSamples", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(values, "maxPasses", 7, 1, maxPasses); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(values, "maxDepth", 0, 1, maxDepth); err != nil {
		return nil, err
	}
	return req, nil
}

// imageToBase64PNG converts a rendered image to base64-encoded PNG
func imageToBase64PNG(img *renderer.Image) (string, error) {
	var buf bytes.Buffer
	if err := loaders.EncodeImage(&buf, img.ToRGBA(), loaders.FormatPNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
