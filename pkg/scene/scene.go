package scene

import (
	"math/rand"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
	"github.com/df07/go-adaptive-pathtracer/pkg/geometry"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera          *geometry.Camera
	CameraConfig    geometry.CameraConfig
	Shapes          []geometry.Shape // Objects in the scene
	BackgroundColor core.Color       // Color returned by rays that escape the scene
	BVH             *geometry.BVH[geometry.Shape]
}

// New creates a scene and its camera. Call Preprocess before rendering.
func New(cameraConfig geometry.CameraConfig, background core.Color, shapes ...geometry.Shape) *Scene {
	return &Scene{
		Camera:          geometry.NewCamera(cameraConfig),
		CameraConfig:    cameraConfig,
		Shapes:          shapes,
		BackgroundColor: background,
	}
}

// Preprocess builds the acceleration structure over the scene's shapes.
// A nil random source seeds BVH construction from the clock.
func (s *Scene) Preprocess(random *rand.Rand) {
	s.BVH = geometry.NewBVH(s.Shapes, random)
}

// Hit returns the nearest intersection along ray within interval.
// Before Preprocess it falls back to testing every shape.
func (s *Scene) Hit(ray core.Ray, interval core.Interval) (*core.Intersection, bool) {
	if s.BVH != nil {
		return s.BVH.Hit(ray, interval)
	}

	var closest *core.Intersection
	for _, shape := range s.Shapes {
		if hit, ok := shape.Hit(ray, interval); ok {
			closest = core.Closer(closest, hit)
		}
	}
	return closest, closest != nil
}

// Background returns the color of rays that hit nothing
func (s *Scene) Background() core.Color {
	return s.BackgroundColor
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, shape := range s.Shapes {
		count += countPrimitivesInShape(shape)
	}
	return count
}

// countPrimitivesInShape counts primitives in a single shape, looking through transforms
func countPrimitivesInShape(shape geometry.Shape) int {
	switch obj := shape.(type) {
	case *geometry.TriangleMesh:
		return obj.TriangleCount()
	case *geometry.Box:
		return 6
	case *geometry.Translation:
		return countPrimitivesInShape(obj.Inner)
	case *geometry.Scaling:
		return countPrimitivesInShape(obj.Inner)
	case *geometry.Rotation:
		return countPrimitivesInShape(obj.Inner)
	default:
		return 1
	}
}

// NewGroundQuad creates a large horizontal quad centered at center with normal (0,1,0)
func NewGroundQuad(center core.Vec3, size float64, mat core.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (0,0,size) × (size,0,0) points up
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	return geometry.NewQuad(corner, u, v, mat)
}

// applyOverrides merges each override in order. Zero fields are unset.
func applyOverrides(base geometry.CameraConfig, overrides []geometry.CameraConfig) geometry.CameraConfig {
	for _, override := range overrides {
		base = geometry.MergeCameraConfig(base, override)
	}
	return base
}
