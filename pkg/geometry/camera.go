package geometry

import (
	"math"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// CameraConfig contains all camera configuration parameters.
// When used as an override in MergeCameraConfig a zero field means unset, so
// an override cannot move Center, LookAt or Up to the origin vector.
type CameraConfig struct {
	Center      core.Vec3 // Camera position
	LookAt      core.Vec3 // Point the camera is looking at
	Up          core.Vec3 // Up direction (usually (0,1,0))
	Width       int       // Image width in pixels
	Height      int       // Image height in pixels
	VFov        float64   // Vertical field of view in degrees
	FocalLength float64   // Distance to the image plane (0 means 1)
}

// Camera maps pixel coordinates to primary rays.
// Pixel (0,0) is the top-left corner of the image.
type Camera struct {
	config      CameraConfig
	center      core.Vec3
	pixel00     core.Vec3 // Center of pixel (0,0) in world space
	pixelDeltaU core.Vec3 // World offset of one pixel to the right
	pixelDeltaV core.Vec3 // World offset of one pixel down
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	focalLength := config.FocalLength
	if focalLength <= 0 {
		focalLength = 1.0
	}

	theta := config.VFov * math.Pi / 180
	viewportHeight := 2 * math.Tan(theta/2) * focalLength
	viewportWidth := viewportHeight * float64(config.Width) / float64(config.Height)

	// Orthonormal basis: w points backwards, u right, v up
	w := config.Center.Subtract(config.LookAt).Normalize()
	forward := w.Negate()
	u := forward.Cross(config.Up).Normalize()
	v := w.Cross(u)

	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Multiply(-viewportHeight)
	pixelDeltaU := viewportU.Multiply(1 / float64(config.Width))
	pixelDeltaV := viewportV.Multiply(1 / float64(config.Height))

	upperLeft := config.Center.
		Subtract(w.Multiply(focalLength)).
		Subtract(viewportU.Multiply(0.5)).
		Subtract(viewportV.Multiply(0.5))

	return &Camera{
		config:      config,
		center:      config.Center,
		pixel00:     upperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Multiply(0.5)),
		pixelDeltaU: pixelDeltaU,
		pixelDeltaV: pixelDeltaV,
	}
}

// RayThrough returns the ray from the camera center through pixel coordinate
// (x, y). Integer coordinates land on pixel centers; fractional coordinates
// address positions within a pixel for antialiasing jitter.
func (c *Camera) RayThrough(x, y float64) core.Ray {
	target := c.pixel00.
		Add(c.pixelDeltaU.Multiply(x)).
		Add(c.pixelDeltaV.Multiply(y))
	return core.NewRayThrough(c.center, target)
}

// Width returns the image width in pixels
func (c *Camera) Width() int {
	return c.config.Width
}

// Height returns the image height in pixels
func (c *Camera) Height() int {
	return c.config.Height
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// MergeCameraConfig returns base with every non-zero field of override applied.
// Zero vectors and non-positive numbers in override keep the base value.
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.Center != (core.Vec3{}) {
		result.Center = override.Center
	}
	if override.LookAt != (core.Vec3{}) {
		result.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		result.Up = override.Up
	}
	if override.Width > 0 {
		result.Width = override.Width
	}
	if override.Height > 0 {
		result.Height = override.Height
	}
	if override.VFov > 0 {
		result.VFov = override.VFov
	}
	if override.FocalLength > 0 {
		result.FocalLength = override.FocalLength
	}
	return result
}
