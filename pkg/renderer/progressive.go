package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *Image // Snapshot of the running average after this pass
	Stats      RenderStats
	IsLast     bool
}

// ProgressiveRaytracer renders in passes of increasing sample count, each pass split into
// bands rendered in parallel. Pixel accumulators persist between passes.
type ProgressiveRaytracer struct {
	scene      *scene.Scene
	options    RenderOptions
	bands      []Band
	renderer   *BandRenderer
	pixelStats [][]PixelStats // Shared pixel statistics, rows owned by exactly one band
	logger     core.Logger
	started    time.Time
}

// NewProgressiveRaytracer creates a progressive raytracer, building the scene's BVH if needed
func NewProgressiveRaytracer(s *scene.Scene, options RenderOptions) (*ProgressiveRaytracer, error) {
	options, err := options.resolve(s)
	if err != nil {
		return nil, err
	}

	if s.BVH == nil && s.World != nil && s.World.Len() > 0 {
		if err := s.Build(core.NewSeededSampler(options.Seed)); err != nil {
			return nil, err
		}
	}

	pixelStats := make([][]PixelStats, options.Height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, options.Width)
	}

	return &ProgressiveRaytracer{
		scene:      s,
		options:    options,
		bands:      PartitionBands(options.Height, options.Threads),
		renderer:   NewBandRenderer(s, options.Integrator, options.Width, options.Height, options.Seed),
		pixelStats: pixelStats,
		logger:     options.Logger,
	}, nil
}

// Passes returns the number of passes the render is split into
func (pr *ProgressiveRaytracer) Passes() int {
	return pr.options.Passes
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	maxSamples := pr.options.SamplesPerPixel

	// Special case: if only 1 pass, use all samples
	if pr.options.Passes == 1 {
		return maxSamples
	}

	// For multiple passes: first pass is a one-sample preview
	if passNumber == 1 {
		return 1
	}

	// The final pass takes whatever remains
	if passNumber >= pr.options.Passes {
		return maxSamples
	}

	// Divide remaining samples evenly across remaining passes
	samplesPerPass := (maxSamples - 1) / (pr.options.Passes - 1)
	return 1 + (passNumber-1)*samplesPerPass
}

// RenderPass renders a single progressive pass using one worker per band
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int) (PassResult, error) {
	if pr.started.IsZero() {
		pr.started = time.Now()
		pr.logger.Info("starting render",
			"scene", pr.scene.Name,
			"width", pr.options.Width,
			"height", pr.options.Height,
			"samples", pr.options.SamplesPerPixel,
			"passes", pr.options.Passes,
			"workers", len(pr.bands),
			"primitives", pr.scene.GetPrimitiveCount())
	}

	targetSamples := pr.getSamplesForPass(passNumber)
	passStart := time.Now()

	err := renderBands(ctx, pr.bands, func(ctx context.Context, band Band) error {
		rows := pr.pixelStats[band.Y0:band.Y1]
		if err := pr.renderer.RenderBand(ctx, band, rows, passNumber, targetSamples); err != nil {
			return err
		}
		pr.logger.Debug("band complete", "pass", passNumber, "band", band.Index, "rows", band.Rows())
		return nil
	})
	if err != nil {
		pr.logger.Error("render pass failed", "pass", passNumber, "error", err)
		return PassResult{}, fmt.Errorf("pass %d: %w", passNumber, err)
	}

	img, stats := pr.assembleCurrentImage(targetSamples)
	stats.Passes = passNumber
	stats.Duration = time.Since(pr.started)

	pr.logger.Info("pass complete",
		"pass", passNumber,
		"samples", targetSamples,
		"elapsed", time.Since(passStart),
		"noise", stats.NoiseEstimate)

	return PassResult{
		PassNumber: passNumber,
		Image:      img,
		Stats:      stats,
		IsLast:     passNumber >= pr.options.Passes,
	}, nil
}

// RenderProgressive renders every pass on a background goroutine, sending each result as it
// completes. Both channels are closed when rendering stops; at most one error is sent.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)

		for pass := 1; pass <= pr.options.Passes; pass++ {
			// Check if the caller went away before starting this pass
			if err := ctx.Err(); err != nil {
				pr.logger.Info("rendering cancelled", "pass", pass)
				errChan <- err
				return
			}

			result, err := pr.RenderPass(ctx, pass)
			if err != nil {
				errChan <- err
				return
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return passChan, errChan
}

// assembleCurrentImage averages the shared pixel stats into an image and calculates
// render statistics. Rows are copied by index, so the layout never depends on which
// band finished first.
func (pr *ProgressiveRaytracer) assembleCurrentImage(targetSamples int) (*Image, RenderStats) {
	img := NewImage(pr.options.Width, pr.options.Height)
	for y := range pr.pixelStats {
		for x := range pr.pixelStats[y] {
			img.Pixels[y][x] = pr.pixelStats[y][x].GetColor()
		}
	}

	return img, collectStats(pr.pixelStats, targetSamples)
}
