package renderer

import (
	"image"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int           // Total number of pixels rendered
	TotalSamples   int           // Total number of samples taken
	AverageSamples float64       // Average samples per pixel
	MaxSamples     int           // Target samples per pixel for the pass
	MinSamples     int           // Minimum samples taken per pixel
	MaxSamplesUsed int           // Maximum samples actually used by any pixel
	Passes         int           // Passes completed
	Duration       time.Duration // Wall time of the render so far
	MeanLuminance  float64       // Mean linear luminance over all pixels
	NoiseEstimate  float64       // Mean standard error of the per-pixel luminance estimates
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator for noise estimation
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// StandardError returns the standard error of the pixel's mean luminance
func (ps *PixelStats) StandardError() float64 {
	if ps.SampleCount < 2 {
		return 0
	}
	n := float64(ps.SampleCount)
	mean := ps.LuminanceAccum / n
	variance := math.Max(0, (ps.LuminanceSqAccum/n-mean*mean)*n/(n-1))
	return math.Sqrt(variance / n)
}

// collectStats computes render statistics over the accumulated pixels
func collectStats(pixelStats [][]PixelStats, targetSamples int) RenderStats {
	stats := RenderStats{
		MaxSamples: targetSamples,
		MinSamples: math.MaxInt,
	}

	var luminances, stdErrs []float64
	for y := range pixelStats {
		for x := range pixelStats[y] {
			pixel := &pixelStats[y][x]
			stats.TotalPixels++
			stats.TotalSamples += pixel.SampleCount
			stats.MinSamples = min(stats.MinSamples, pixel.SampleCount)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, pixel.SampleCount)

			luminances = append(luminances, pixel.GetColor().Luminance())
			stdErrs = append(stdErrs, pixel.StandardError())
		}
	}

	if stats.TotalPixels == 0 {
		stats.MinSamples = 0
		return stats
	}
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	stats.MeanLuminance = stat.Mean(luminances, nil)
	stats.NoiseEstimate = stat.Mean(stdErrs, nil)

	return stats
}

// CalculateAverageLuminance returns the mean perceptual luminance of an 8-bit image, in [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	if bounds.Empty() {
		return 0
	}

	luminances := make([]float64, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			c := core.NewVec3(float64(r)/65535.0, float64(g)/65535.0, float64(b)/65535.0)
			luminances = append(luminances, c.Luminance())
		}
	}

	return stat.Mean(luminances, nil)
}
