package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
	"github.com/df07/go-adaptive-pathtracer/pkg/geometry"
	"github.com/df07/go-adaptive-pathtracer/pkg/material"
	"github.com/df07/go-adaptive-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	UV           [2]float64             `json:"uv"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult holds the nearest intersection through a pixel and the
// top-level shape that produced it
type InspectResult struct {
	Hit          bool
	Intersection *core.Intersection
	Shape        geometry.Shape
}

func vec3(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Color) string {
	rgba := c.Gamma().ToRGBA()
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// extractTextureInfo describes a texture, recursing into composite textures
func extractTextureInfo(tex core.Texture) map[string]interface{} {
	switch t := tex.(type) {
	case *material.SolidColor:
		return map[string]interface{}{"type": "solid", "color": hexColor(t.Color)}
	case *material.Checkerboard:
		return map[string]interface{}{
			"type": "checkerboard",
			"size": t.Size,
			"even": extractTextureInfo(t.Even),
			"odd":  extractTextureInfo(t.Odd),
		}
	case *material.ScaleTexture:
		return map[string]interface{}{
			"type":   "scale",
			"scaleU": t.ScaleU,
			"scaleV": t.ScaleV,
			"inner":  extractTextureInfo(t.Inner),
		}
	case *material.ImageTexture:
		return map[string]interface{}{"type": "image", "width": t.Width, "height": t.Height}
	default:
		return map[string]interface{}{"type": "unknown"}
	}
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat core.Material) (string, map[string]interface{}) {
	switch m := mat.(type) {
	case *material.Lambertian:
		return "lambertian", map[string]interface{}{"albedo": extractTextureInfo(m.Albedo)}
	case *material.Metal:
		return "metal", map[string]interface{}{
			"albedo": vec3(m.Albedo.Vec()),
			"color":  hexColor(m.Albedo),
			"fuzz":   m.Fuzz,
		}
	case *material.DiffuseLight:
		return "diffuse_light", map[string]interface{}{"emission": extractTextureInfo(m.Emission)}
	default:
		return "unknown", map[string]interface{}{}
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vec3(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Quad:
		properties["corner"] = vec3(geom.Corner)
		properties["u"] = vec3(geom.U)
		properties["v"] = vec3(geom.V)
		properties["normal"] = vec3(geom.Normal)
		return "quad", properties

	case *geometry.Plane:
		properties["point"] = vec3(geom.Point)
		properties["normal"] = vec3(geom.Normal)
		return "plane", properties

	case *geometry.Triangle:
		properties["vertices"] = [3][3]float64{vec3(geom.V0), vec3(geom.V1), vec3(geom.V2)}
		return "triangle", properties

	case *geometry.Box:
		properties["center"] = vec3(geom.Center)
		properties["halfExtent"] = geom.HalfExtent
		return "box", properties

	case *geometry.Disc:
		properties["center"] = vec3(geom.Center)
		properties["normal"] = vec3(geom.Normal)
		properties["radius"] = geom.Radius
		return "disc", properties

	case *geometry.Cylinder:
		properties["base"] = vec3(geom.BaseCenter)
		properties["top"] = vec3(geom.TopCenter)
		properties["radius"] = geom.Radius
		return "cylinder", properties

	case *geometry.TriangleMesh:
		properties["triangleCount"] = geom.TriangleCount()
		bbox := geom.BoundingBox()
		properties["boundingBox"] = map[string]interface{}{
			"min":    vec3(bbox.Min()),
			"max":    vec3(bbox.Max()),
			"center": vec3(bbox.Center()),
			"size":   vec3(bbox.Size()),
		}
		return "triangle_mesh", properties

	case *geometry.Translation:
		innerType, innerProps := extractGeometryInfo(geom.Inner)
		properties["offset"] = vec3(geom.Offset)
		properties["inner"] = map[string]interface{}{"type": innerType, "properties": innerProps}
		return "translation", properties

	case *geometry.Scaling:
		innerType, innerProps := extractGeometryInfo(geom.Inner)
		properties["factor"] = vec3(geom.Factor)
		properties["inner"] = map[string]interface{}{"type": innerType, "properties": innerProps}
		return "scaling", properties

	case *geometry.Rotation:
		innerType, innerProps := extractGeometryInfo(geom.Inner)
		properties["inner"] = map[string]interface{}{"type": innerType, "properties": innerProps}
		return "rotation", properties

	default:
		return "unknown", properties
	}
}

// inspectPixel casts the ray through the center of pixel (x, y) and finds the
// top-level shape it hits first
func inspectPixel(sceneObj *scene.Scene, x, y int) InspectResult {
	ray := sceneObj.Camera.RayThrough(float64(x), float64(y))
	interval := core.NewInterval(0.001, math.Inf(1))

	hit, ok := sceneObj.Hit(ray, interval)
	if !ok {
		return InspectResult{Hit: false}
	}

	// The BVH reports the intersection but not the shape, so find the
	// top-level shape producing the same distance
	for _, shape := range sceneObj.Shapes {
		if shapeHit, shapeOK := shape.Hit(ray, interval); shapeOK && shapeHit.T == hit.T {
			return InspectResult{Hit: true, Intersection: hit, Shape: shape}
		}
	}
	return InspectResult{Hit: true, Intersection: hit}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	params, err := parseSceneParams(values)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, errX := strconv.Atoi(values.Get("x"))
	pixelY, errY := strconv.Atoi(values.Get("y"))
	if errX != nil || errY != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid pixel coordinates"})
		return
	}

	sceneObj, err := s.createScene(params, s.options.Renderer.Seed, s.logger)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	camera := sceneObj.Camera
	if pixelX < 0 || pixelX >= camera.Width() || pixelY < 0 || pixelY >= camera.Height() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	hit := result.Intersection
	materialType, materialProps := extractMaterialInfo(hit.Material)
	geometryType, geometryProps := extractGeometryInfo(result.Shape)

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vec3(hit.Point),
		Normal:       vec3(hit.Normal),
		Distance:     hit.T,
		UV:           [2]float64{hit.UV.X, hit.UV.Y},
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
