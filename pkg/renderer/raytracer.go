package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"runtime"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// ErrInvalidOptions is returned when render options cannot produce an image
var ErrInvalidOptions = errors.New("invalid render options")

// RenderOptions configures a render. Zero values fall back to the scene's recommended
// sampling config, one worker per CPU and a single pass.
type RenderOptions struct {
	Width           int
	Height          int
	SamplesPerPixel int
	MaxDepth        int
	Threads         int
	Passes          int   // Progressive passes; the first renders one sample per pixel
	Seed            int64 // Seeds BVH construction and every sampling stream
	Logger          core.Logger
	Integrator      integrator.Integrator // Defaults to path tracing with MaxDepth
}

// resolve fills unset options from the scene and validates the result
func (o RenderOptions) resolve(s *scene.Scene) (RenderOptions, error) {
	switch {
	case o.Width == 0 && o.Height == 0:
		o.Width, o.Height = s.SamplingConfig.Width, s.SamplingConfig.Height
	case o.Width == 0:
		o.Width = s.SamplingConfig.Width
	case o.Height == 0 && o.Width > 0:
		o.Height = cameraHeight(s, o.Width)
	}
	if o.SamplesPerPixel == 0 {
		o.SamplesPerPixel = s.SamplingConfig.SamplesPerPixel
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = s.SamplingConfig.MaxDepth
	}
	if o.Threads <= 0 {
		o.Threads = runtime.NumCPU()
	}
	if o.Passes <= 0 {
		o.Passes = 1
	}
	if o.Logger == nil {
		o.Logger = core.NopLogger()
	}

	switch {
	case o.Width <= 0 || o.Height <= 0:
		return o, fmt.Errorf("%w: image size %dx%d", ErrInvalidOptions, o.Width, o.Height)
	case o.SamplesPerPixel <= 0:
		return o, fmt.Errorf("%w: %d samples per pixel", ErrInvalidOptions, o.SamplesPerPixel)
	case o.MaxDepth < 0:
		return o, fmt.Errorf("%w: max depth %d", ErrInvalidOptions, o.MaxDepth)
	case s.Camera == nil:
		return o, fmt.Errorf("%w: scene %q has no camera", ErrInvalidOptions, s.Name)
	}

	// The camera's aspect ratio is fixed, so any other image shape would be stretched.
	// One row of slack absorbs the rounding in the camera's height.
	if expected := cameraHeight(s, o.Width); abs(o.Height-expected) > 1 {
		return o, fmt.Errorf("%w: image size %dx%d does not match the camera aspect ratio (height %d expected)",
			ErrInvalidOptions, o.Width, o.Height, expected)
	}

	// Every pass after the first needs at least one new sample
	o.Passes = min(o.Passes, o.SamplesPerPixel)

	if o.Integrator == nil {
		o.Integrator = integrator.NewPathTracingIntegrator(scene.SamplingConfig{
			Width:           o.Width,
			Height:          o.Height,
			SamplesPerPixel: o.SamplesPerPixel,
			MaxDepth:        o.MaxDepth,
		})
	}
	return o, nil
}

// Render renders the scene to a linear-color image. Any worker failure or cancellation fails
// the whole render and no image is returned.
func Render(ctx context.Context, s *scene.Scene, options RenderOptions) (*Image, RenderStats, error) {
	pr, err := NewProgressiveRaytracer(s, options)
	if err != nil {
		return nil, RenderStats{}, err
	}

	var last PassResult
	for pass := 1; pass <= pr.options.Passes; pass++ {
		last, err = pr.RenderPass(ctx, pass)
		if err != nil {
			return nil, RenderStats{}, err
		}
	}
	return last.Image, last.Stats, nil
}

// Image holds linear radiance per pixel. Row 0 is the top of the image.
type Image struct {
	Width  int
	Height int
	Pixels [][]core.Vec3 // Pixels[row][col]
}

// NewImage creates a black image
func NewImage(width, height int) *Image {
	pixels := make([][]core.Vec3, height)
	for y := range pixels {
		pixels[y] = make([]core.Vec3, width)
	}
	return &Image{Width: width, Height: height, Pixels: pixels}
}

// ToneMap gamma-encodes a linear color with gamma 2 and clamps it to [0, 0.999]
func ToneMap(c core.Vec3) core.Vec3 {
	return core.NewVec3(toneMapChannel(c.X), toneMapChannel(c.Y), toneMapChannel(c.Z))
}

func toneMapChannel(x float64) float64 {
	// NaN and negatives map to black
	if !(x > 0) {
		return 0
	}
	return math.Min(math.Sqrt(x), 0.999)
}

// vec3ToColor converts a linear color to 8-bit RGBA
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	mapped := ToneMap(colorVec)
	return color.RGBA{
		R: uint8(256 * mapped.X),
		G: uint8(256 * mapped.Y),
		B: uint8(256 * mapped.Z),
		A: 255,
	}
}

// ToRGBA tone-maps the image to 8 bits per channel
func (img *Image) ToRGBA() *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y, row := range img.Pixels {
		for x, c := range row {
			rgba.SetRGBA(x, y, vec3ToColor(c))
		}
	}
	return rgba
}

// cameraHeight is the image height matching the scene camera's aspect ratio at the given width
func cameraHeight(s *scene.Scene, width int) int {
	config := s.CameraConfig
	config.Width = width
	return config.Height()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
