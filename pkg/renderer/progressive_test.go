package renderer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestProgressiveSampleCalculation(t *testing.T) {
	// Pass 1 is a one-sample preview, passes 2-6 add (50-1)/6 = 8 each,
	// and the final pass takes the remainder
	pr := &ProgressiveRaytracer{options: RenderOptions{SamplesPerPixel: 50, Passes: 7}}
	expectedTotalSamples := []int{1, 9, 17, 25, 33, 41, 50}

	for pass := 1; pass <= 7; pass++ {
		assert.Equal(t, expectedTotalSamples[pass-1], pr.getSamplesForPass(pass), "pass %d", pass)
	}

	single := &ProgressiveRaytracer{options: RenderOptions{SamplesPerPixel: 16, Passes: 1}}
	assert.Equal(t, 16, single.getSamplesForPass(1))
}

func TestProgressivePassesClampedToSamples(t *testing.T) {
	pr, err := NewProgressiveRaytracer(createTestScene(core.Vec3{}), RenderOptions{SamplesPerPixel: 3, Passes: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, pr.Passes())
	assert.Equal(t, []int{1, 2, 3}, []int{pr.getSamplesForPass(1), pr.getSamplesForPass(2), pr.getSamplesForPass(3)})
}

func TestRenderProgressive(t *testing.T) {
	pr, err := NewProgressiveRaytracer(smallCornell(t), RenderOptions{
		SamplesPerPixel: 9,
		MaxDepth:        6,
		Passes:          3,
		Threads:         3,
		Seed:            4,
	})
	require.NoError(t, err)

	passChan, errChan := pr.RenderProgressive(context.Background())

	var results []PassResult
	for result := range passChan {
		results = append(results, result)
	}
	require.NoError(t, <-errChan)

	require.Len(t, results, 3)
	for i, result := range results {
		assert.Equal(t, i+1, result.PassNumber)
		assert.Equal(t, i+1, result.Stats.Passes)
		assert.Equal(t, i == 2, result.IsLast)
		assert.Equal(t, result.Stats.MaxSamples, result.Stats.MinSamples, "every pixel reaches the pass target")
	}
	assert.Equal(t, 1.0, results[0].Stats.AverageSamples)
	assert.Equal(t, 5.0, results[1].Stats.AverageSamples)
	assert.Equal(t, 9.0, results[2].Stats.AverageSamples)

	// Snapshots are independent copies
	assert.NotSame(t, results[0].Image, results[2].Image)
	assert.Positive(t, results[2].Stats.Duration)
}

func TestRenderProgressive_MatchesSinglePassRender(t *testing.T) {
	options := RenderOptions{SamplesPerPixel: 4, MaxDepth: 5, Threads: 2, Seed: 8}

	options.Passes = 1
	direct, _, err := Render(context.Background(), smallCornell(t), options)
	require.NoError(t, err)

	pr, err := NewProgressiveRaytracer(smallCornell(t), options)
	require.NoError(t, err)
	passChan, errChan := pr.RenderProgressive(context.Background())
	var last PassResult
	for result := range passChan {
		last = result
	}
	require.NoError(t, <-errChan)

	assert.Equal(t, direct.Pixels, last.Image.Pixels)
}

func TestRenderProgressive_Cancelled(t *testing.T) {
	pr, err := NewProgressiveRaytracer(smallCornell(t), RenderOptions{SamplesPerPixel: 4, Passes: 4})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	passChan, errChan := pr.RenderProgressive(ctx)
	for range passChan {
		t.Fatal("no pass should complete after cancellation")
	}
	assert.ErrorIs(t, <-errChan, context.Canceled)
}
