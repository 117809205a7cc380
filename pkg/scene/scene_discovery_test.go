package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"cornell-smoke", "Cornell Smoke"},
		{"two_perlin_spheres", "Two Perlin Spheres"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, titleCase(tc.input))
		})
	}
}

func TestListAllScenes(t *testing.T) {
	response := ListAllScenes()
	require.Len(t, response.Groups, 3)
	assert.Equal(t, groupOneWeekend, response.Groups[0].Name)
	assert.Equal(t, groupNextWeek, response.Groups[1].Name)
	assert.Equal(t, groupRestOfLife, response.Groups[2].Name)

	total := 0
	seen := make(map[string]bool)
	for _, group := range response.Groups {
		for i, info := range group.Scenes {
			total++
			assert.False(t, seen[info.ID], "duplicate scene %s", info.ID)
			seen[info.ID] = true
			assert.Equal(t, group.Name, info.Group)
			assert.NotEmpty(t, info.DisplayName)
			if i > 0 {
				assert.LessOrEqual(t, group.Scenes[i-1].DisplayName, info.DisplayName)
			}
		}
	}
	assert.Equal(t, len(registry), total)
}

func TestLookup(t *testing.T) {
	info, ok := Lookup("cornell-smoke")
	require.True(t, ok)
	assert.Equal(t, "Cornell Box", info.Name)
	assert.Equal(t, "Cornell Box - Smoke", info.DisplayName)

	info, ok = Lookup("two-perlin-spheres")
	require.True(t, ok)
	assert.Equal(t, "Two Perlin Spheres", info.DisplayName)

	_, ok = Lookup("dragon")
	assert.False(t, ok)
}

func TestNew_UnknownScene(t *testing.T) {
	_, err := New("no-such-scene", core.NewSeededSampler(1))
	assert.ErrorIs(t, err, ErrUnknownScene)
	assert.Contains(t, err.Error(), "no-such-scene")
}

func TestNew_EveryRegisteredSceneBuilds(t *testing.T) {
	defer func(path string) { EarthTexturePath = path }(EarthTexturePath)
	EarthTexturePath = "testdata/does-not-exist.png"
	defer func(path string) { MeshModelPath = path }(MeshModelPath)
	MeshModelPath = "testdata/does-not-exist.ply"
	override := geometry.CameraConfig{Width: 32}

	for _, info := range ListScenes() {
		t.Run(info.ID, func(t *testing.T) {
			sampler := core.NewSeededSampler(42)
			s, err := New(info.ID, sampler, override)
			require.NoError(t, err)

			assert.Equal(t, info.ID, s.Name)
			assert.Equal(t, 32, s.SamplingConfig.Width)
			assert.Equal(t, s.CameraConfig.Height(), s.SamplingConfig.Height)
			assert.Positive(t, s.SamplingConfig.SamplesPerPixel)
			assert.Positive(t, s.SamplingConfig.MaxDepth)
			assert.Positive(t, s.GetPrimitiveCount())

			require.NoError(t, s.Build(sampler))
			require.NotNil(t, s.BVH)
			assert.Same(t, s.BVH, s.Root())
		})
	}
}
