package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// ErrUnknownScene is returned when a scene ID is not registered
var ErrUnknownScene = errors.New("unknown scene")

// Constructor builds a scene. The sampler drives any random placement or procedural
// texture, so equal seeds give identical scenes.
type Constructor func(sampler core.Sampler, cameraOverrides ...geometry.CameraConfig) *Scene

// SceneInfo represents a registered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Variant     string `json:"variant"`     // Variant name (optional)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const (
	groupOneWeekend = "In One Weekend"
	groupNextWeek   = "The Next Week"
	groupRestOfLife = "The Rest of Your Life"
)

type registration struct {
	info  SceneInfo
	build Constructor
}

var registry = []registration{
	{
		info: SceneInfo{
			ID:          "random-spheres",
			Description: "Checkered ground with hundreds of random spheres, some in motion",
			Group:       groupOneWeekend,
		},
		build: NewRandomSpheresScene,
	},
	{
		info: SceneInfo{
			ID:          "two-perlin-spheres",
			Description: "Perlin turbulence marble on a ground sphere and a floating sphere",
			Group:       groupNextWeek,
		},
		build: NewTwoPerlinSpheresScene,
	},
	{
		info: SceneInfo{
			ID:          "earth",
			Description: "Image-mapped globe",
			Group:       groupNextWeek,
		},
		build: NewEarthScene,
	},
	{
		info: SceneInfo{
			ID:          "simple-light",
			Description: "Marble spheres lit by a single rectangular area light",
			Group:       groupNextWeek,
		},
		build: NewSimpleLightScene,
	},
	{
		info: SceneInfo{
			ID:          "cornell-box",
			Name:        "Cornell Box",
			Description: "Classic Cornell box with two rotated blocks",
			Group:       groupNextWeek,
		},
		build: NewCornellScene,
	},
	{
		info: SceneInfo{
			ID:          "cornell-smoke",
			Name:        "Cornell Box",
			Variant:     "Smoke",
			Description: "Cornell box with both blocks filled with smoke",
			Group:       groupNextWeek,
		},
		build: NewCornellSmokeScene,
	},
	{
		info: SceneInfo{
			ID:          "final-scene",
			Description: "Every feature at once: boxes, motion blur, glass, fog, textures and instancing",
			Group:       groupNextWeek,
		},
		build: NewFinalScene,
	},
	{
		info: SceneInfo{
			ID:          "cornell-glass",
			Name:        "Cornell Box",
			Variant:     "Glass",
			Description: "Cornell box with an aluminium block and a glass sphere sampled as a light",
			Group:       groupRestOfLife,
		},
		build: NewCornellGlassScene,
	},
	{
		info: SceneInfo{
			ID:          "cornell-mesh",
			Name:        "Cornell Box",
			Variant:     "Mesh",
			Description: "Cornell box with a PLY triangle mesh in place of the tall block",
			Group:       groupRestOfLife,
		},
		build: NewCornellMeshScene,
	},
}

// describe fills in the derived name fields of a registered scene
func describe(info SceneInfo) SceneInfo {
	if info.Name == "" {
		info.Name = titleCase(info.ID)
	}
	if info.Variant != "" {
		info.DisplayName = fmt.Sprintf("%s - %s", info.Name, info.Variant)
	} else {
		info.DisplayName = info.Name
	}
	return info
}

// ListScenes returns every built-in scene in registration order
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(registry))
	for _, r := range registry {
		scenes = append(scenes, describe(r.info))
	}
	return scenes
}

// ListAllScenes returns the built-in scenes grouped by category, groups in book order
func ListAllScenes() ScenesResponse {
	var response ScenesResponse

	groupMap := make(map[string][]SceneInfo)
	var groupNames []string
	for _, info := range ListScenes() {
		if _, exists := groupMap[info.Group]; !exists {
			groupNames = append(groupNames, info.Group)
		}
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	for _, groupName := range groupNames {
		scenes := groupMap[groupName]
		sort.SliceStable(scenes, func(i, j int) bool {
			return scenes[i].DisplayName < scenes[j].DisplayName
		})
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: scenes,
		})
	}

	return response
}

// Lookup returns the metadata of a registered scene
func Lookup(id string) (SceneInfo, bool) {
	for _, r := range registry {
		if r.info.ID == id {
			return describe(r.info), true
		}
	}
	return SceneInfo{}, false
}

// New constructs the scene registered under id
func New(id string, sampler core.Sampler, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	for _, r := range registry {
		if r.info.ID == id {
			return r.build(sampler, cameraOverrides...), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
}

// titleCase converts an identifier-style string to title case
// e.g., "cornell-smoke" -> "Cornell Smoke"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
