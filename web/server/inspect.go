package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool           `json:"hit"`
	MaterialType string         `json:"materialType,omitempty"`
	GeometryType string         `json:"geometryType,omitempty"`
	Point        [3]float64     `json:"point"`
	Normal       [3]float64     `json:"normal"`
	Distance     float64        `json:"distance"`
	FrontFace    bool           `json:"frontFace"`
	Properties   map[string]any `json:"properties,omitempty"`
}

func vecJSON(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	channel := func(x float64) int { return int(math.Max(0, math.Min(1, x)) * 255) }
	return fmt.Sprintf("#%02x%02x%02x", channel(c.X), channel(c.Y), channel(c.Z))
}

// extractMaterialInfo describes a material, evaluating textures at the hit point
func extractMaterialInfo(mat material.Material, hit *material.HitRecord) (string, map[string]any) {
	properties := make(map[string]any)

	switch m := mat.(type) {
	case *material.Lambertian:
		albedo := m.Albedo.Evaluate(hit.UV, hit.Point)
		properties["albedo"] = vecJSON(albedo)
		properties["color"] = hexColor(albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = vecJSON(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		properties["fuzzness"] = m.Fuzzness
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
		return "dielectric", properties

	case *material.DiffuseLight:
		emission := m.Emission.Evaluate(hit.UV, hit.Point)
		properties["emission"] = vecJSON(emission)
		properties["color"] = hexColor(emission)
		return "diffuse_light", properties

	case *material.Isotropic:
		albedo := m.Albedo.Evaluate(hit.UV, hit.Point)
		properties["albedo"] = vecJSON(albedo)
		properties["color"] = hexColor(albedo)
		return "isotropic", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo describes the leaf object that was hit
func extractGeometryInfo(object geometry.Hittable) (string, map[string]any) {
	properties := make(map[string]any)

	switch geom := object.(type) {
	case *geometry.Sphere:
		properties["center"] = vecJSON(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.MovingSphere:
		properties["center0"] = vecJSON(geom.Center0)
		properties["center1"] = vecJSON(geom.Center1)
		properties["radius"] = geom.Radius
		return "moving_sphere", properties

	case *geometry.XYRect, *geometry.XZRect, *geometry.YZRect:
		if box, ok := geom.BoundingBox(0, 1); ok {
			properties["min"] = vecJSON(box.Min)
			properties["max"] = vecJSON(box.Max)
		}
		return "rect", properties

	case *geometry.Triangle:
		properties["v0"] = vecJSON(geom.V0)
		properties["v1"] = vecJSON(geom.V1)
		properties["v2"] = vecJSON(geom.V2)
		properties["normal"] = vecJSON(geom.Normal())
		return "triangle", properties

	case *geometry.TriangleMesh:
		properties["triangleCount"] = geom.TriangleCount()
		if box, ok := geom.BoundingBox(0, 1); ok {
			properties["min"] = vecJSON(box.Min)
			properties["max"] = vecJSON(box.Max)
		}
		return "triangle_mesh", properties

	case *geometry.Box:
		properties["min"] = vecJSON(geom.Min)
		properties["max"] = vecJSON(geom.Max)
		return "box", properties

	case *geometry.ConstantMedium:
		properties["density"] = geom.Density
		return "constant_medium", properties

	case *geometry.Translate:
		inner, innerProps := extractGeometryInfo(geom.Object)
		properties["offset"] = vecJSON(geom.Offset)
		properties["object"] = map[string]any{"type": inner, "properties": innerProps}
		return "translate", properties

	case *geometry.RotateY:
		inner, innerProps := extractGeometryInfo(geom.Object)
		properties["object"] = map[string]any{"type": inner, "properties": innerProps}
		return "rotate_y", properties

	default:
		return "unknown", properties
	}
}

// InspectResult contains the first hit along an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord *material.HitRecord
	Object    geometry.Hittable // Leaf object that was hit, nil if it could not be identified
}

// inspectPixel casts a ray through the center of pixel (x, y), row 0 at the top
func inspectPixel(sceneObj *scene.Scene, width, height, x, y int) InspectResult {
	// A fixed sampler keeps inspection deterministic for the same pixel
	sampler := core.NewSeededSampler(0)
	s := (float64(x) + 0.5) / float64(width)
	t := (float64(height-1-y) + 0.5) / float64(height)
	ray := sceneObj.Camera.GetRay(s, t, sampler)

	hit, ok := sceneObj.World.Hit(ray, 0.001, math.Inf(1), sampler)
	if !ok {
		return InspectResult{}
	}

	return InspectResult{Hit: true, HitRecord: hit, Object: findHitObject(sceneObj.World, ray, hit.T)}
}

// findHitObject descends through lists and BVH nodes to the object hit at distance t.
// Transforms are reported as leaves since their contents are hit in object space.
// Media are probabilistic, so a medium hit may not be found again.
func findHitObject(object geometry.Hittable, ray core.Ray, t float64) geometry.Hittable {
	const tolerance = 1e-9
	hitsAtT := func(h geometry.Hittable) bool {
		rec, ok := h.Hit(ray, 0.001, t+tolerance, core.NewSeededSampler(0))
		return ok && math.Abs(rec.T-t) <= tolerance
	}

	var children []geometry.Hittable
	switch node := object.(type) {
	case *geometry.HittableList:
		children = node.Objects
	case *geometry.BVHNode:
		children = []geometry.Hittable{node.Left, node.Right}
	case *geometry.FlipFace:
		children = []geometry.Hittable{node.Object}
	default:
		return object
	}

	for _, child := range children {
		if hitsAtT(child) {
			return findHitObject(child, ray, t)
		}
	}
	return nil
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := parseSceneParams(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	x, errX := strconv.Atoi(r.URL.Query().Get("x"))
	y, errY := strconv.Atoi(r.URL.Query().Get("y"))
	if err := errors.Join(errX, errY); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid pixel coordinates: %w", err))
		return
	}

	sceneObj, err := req.buildScene()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	width, height := sceneObj.SamplingConfig.Width, sceneObj.SamplingConfig.Height
	if req.Height > 0 {
		height = req.Height
	}
	if x < 0 || x >= width || y < 0 || y >= height {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("pixel (%d, %d) is outside the %dx%d image", x, y, width, height))
		return
	}

	result := inspectPixel(sceneObj, width, height, x, y)
	if !result.Hit {
		s.writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, materialProps := extractMaterialInfo(result.HitRecord.Material, result.HitRecord)
	geometryType, geometryProps := extractGeometryInfo(result.Object)

	s.writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vecJSON(result.HitRecord.Point),
		Normal:       vecJSON(result.HitRecord.Normal),
		Distance:     result.HitRecord.T,
		FrontFace:    result.HitRecord.FrontFace,
		Properties: map[string]any{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
