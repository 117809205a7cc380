package renderer

import (
	"context"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// BandRenderer renders the rows of a band using an integrator
type BandRenderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	width      int
	height     int
	seed       int64
}

// NewBandRenderer creates a band renderer for a width x height image of the given scene
func NewBandRenderer(s *scene.Scene, integratorInst integrator.Integrator, width, height int, seed int64) *BandRenderer {
	return &BandRenderer{
		scene:      s,
		integrator: integratorInst,
		width:      width,
		height:     height,
		seed:       seed,
	}
}

// RenderBand adds samples to every pixel in band until each holds targetSamples.
// rows holds the band's accumulators, rows[0] being image row band.Y0; no other worker
// touches them. The context is checked before each scanline.
func (br *BandRenderer) RenderBand(ctx context.Context, band Band, rows [][]PixelStats, pass, targetSamples int) error {
	camera := br.scene.Camera

	for j := band.Y0; j < band.Y1; j++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		// One stream per row and pass keeps the image independent of how rows are banded
		sampler := core.NewSeededSampler(rowSeed(br.seed, pass, j))
		row := rows[j-band.Y0]

		for i := 0; i < br.width; i++ {
			ps := &row[i]
			for ps.SampleCount < targetSamples {
				// Row 0 is the top of the image, camera t = 0 is the bottom
				s := (float64(i) + sampler.Get1D()) / float64(br.width)
				t := (float64(br.height-1-j) + sampler.Get1D()) / float64(br.height)

				ray := camera.GetRay(s, t, sampler)
				ps.AddSample(br.integrator.RayColor(ray, br.scene, sampler))
			}
		}
	}

	return nil
}

// rowSeed derives a well-mixed seed for one row of one pass (splitmix64 finalizer)
func rowSeed(seed int64, pass, row int) int64 {
	z := uint64(seed) + uint64(pass)*0x9E3779B97F4A7C15 + uint64(row)*0xBF58476D1CE4E5B9
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}
