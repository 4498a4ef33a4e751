package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
	"github.com/df07/go-adaptive-pathtracer/pkg/geometry"
	"github.com/df07/go-adaptive-pathtracer/pkg/loaders"
	"github.com/df07/go-adaptive-pathtracer/pkg/material"
)

// Vec3Desc is a JSON [x, y, z] triple
type Vec3Desc [3]float64

func (v Vec3Desc) vec() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// Description is the JSON form of a scene. Textures and materials are named
// and referenced by name from materials and geometry.
type Description struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Group       string `json:"group,omitempty"`
	Variant     string `json:"variant,omitempty"`

	Background Vec3Desc       `json:"background"`
	Camera     CameraDesc     `json:"camera"`
	Textures   []TextureDesc  `json:"textures"`
	Materials  []MaterialDesc `json:"materials"`
	Geometry   []GeometryDesc `json:"geometry"`
}

// CameraDesc mirrors geometry.CameraConfig
type CameraDesc struct {
	Center      Vec3Desc `json:"center"`
	LookAt      Vec3Desc `json:"lookAt"`
	Up          Vec3Desc `json:"up"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	VFov        float64  `json:"vfov"`
	FocalLength float64  `json:"focalLength,omitempty"`
}

// TextureDesc describes one named texture.
// Types: "solid" (albedo), "checkerboard" (even, odd, size), "image" (file,
// maxSize) and "scale" (scaleU, scaleV, texture).
type TextureDesc struct {
	Name    string    `json:"name"`
	Type    string    `json:"type"`
	Albedo  *Vec3Desc `json:"albedo,omitempty"`
	Even    string    `json:"even,omitempty"`
	Odd     string    `json:"odd,omitempty"`
	Size    float64   `json:"size,omitempty"`
	File    string    `json:"file,omitempty"`
	MaxSize int       `json:"maxSize,omitempty"`
	ScaleU  float64   `json:"scaleU,omitempty"`
	ScaleV  float64   `json:"scaleV,omitempty"`
	Texture string    `json:"texture,omitempty"`
}

// MaterialDesc describes one named material.
// Types: "lambertian" and "diffuseLight" (texture, or albedo as a solid color
// shortcut) and "metal" (albedo, fuzz).
type MaterialDesc struct {
	Name    string    `json:"name"`
	Type    string    `json:"type"`
	Texture string    `json:"texture,omitempty"`
	Albedo  *Vec3Desc `json:"albedo,omitempty"`
	Fuzz    float64   `json:"fuzz,omitempty"`
}

// GeometryDesc describes one shape. Transform types wrap the nested shape.
// Types: "sphere" (center, radius), "quad" (corner, u, v), "plane" (point,
// normal, optional uHat and vHat), "triangle" (a, b, c, optional normal),
// "box" (center, halfExtent), "disc" (center, normal, radius), "cylinder"
// (base, top, radius), "mesh" (file, normalize), "translate" (offset),
// "scale" (factor) and "rotate" (axis with angle, or euler; degrees).
type GeometryDesc struct {
	Type     string `json:"type"`
	Material string `json:"material,omitempty"`

	Center     *Vec3Desc `json:"center,omitempty"`
	Radius     float64   `json:"radius,omitempty"`
	HalfExtent float64   `json:"halfExtent,omitempty"`

	Corner *Vec3Desc `json:"corner,omitempty"`
	U      *Vec3Desc `json:"u,omitempty"`
	V      *Vec3Desc `json:"v,omitempty"`

	Point  *Vec3Desc `json:"point,omitempty"`
	Normal *Vec3Desc `json:"normal,omitempty"`
	UHat   *Vec3Desc `json:"uHat,omitempty"`
	VHat   *Vec3Desc `json:"vHat,omitempty"`

	A *Vec3Desc `json:"a,omitempty"`
	B *Vec3Desc `json:"b,omitempty"`
	C *Vec3Desc `json:"c,omitempty"`

	Base *Vec3Desc `json:"base,omitempty"`
	Top  *Vec3Desc `json:"top,omitempty"`

	File      string `json:"file,omitempty"`
	Normalize bool   `json:"normalize,omitempty"`

	Offset *Vec3Desc     `json:"offset,omitempty"`
	Factor *Vec3Desc     `json:"factor,omitempty"`
	Axis   *Vec3Desc     `json:"axis,omitempty"`
	Angle  float64       `json:"angle,omitempty"`
	Euler  *Vec3Desc     `json:"euler,omitempty"`
	Shape  *GeometryDesc `json:"shape,omitempty"`
}

// BuildOptions controls how a description becomes a scene
type BuildOptions struct {
	BaseDir         string     // Directory relative file references are resolved against
	Random          *rand.Rand // Source for mesh BVH split axes
	Logger          core.Logger
	CameraOverrides []geometry.CameraConfig
}

// ParseDescription decodes a JSON scene description. Unknown fields are rejected.
func ParseDescription(r io.Reader) (*Description, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var desc Description
	if err := decoder.Decode(&desc); err != nil {
		return nil, fmt.Errorf("failed to parse scene description: %w", err)
	}
	return &desc, nil
}

// LoadDescriptionFile reads and decodes the scene description at path
func LoadDescriptionFile(path string) (*Description, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene description: %w", err)
	}
	defer file.Close()

	desc, err := ParseDescription(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return desc, nil
}

// LoadSceneFile reads a scene description and builds it, resolving textures
// and meshes relative to the description's directory
func LoadSceneFile(path string, options BuildOptions) (*Scene, error) {
	desc, err := LoadDescriptionFile(path)
	if err != nil {
		return nil, err
	}
	if options.BaseDir == "" {
		options.BaseDir = filepath.Dir(path)
	}
	return desc.Build(options)
}

// Build validates the description and constructs the scene. Every problem
// found is reported in the returned error.
func (d *Description) Build(options BuildOptions) (*Scene, error) {
	b := &builder{
		desc:      d,
		options:   options,
		textures:  make(map[string]core.Texture),
		resolving: make(map[string]bool),
		materials: make(map[string]core.Material),
	}

	background, bgErr := colorFrom(d.Background)
	if bgErr != nil {
		b.addf("background: %v", bgErr)
	}

	cameraConfig := applyOverrides(geometry.CameraConfig{
		Center:      d.Camera.Center.vec(),
		LookAt:      d.Camera.LookAt.vec(),
		Up:          d.Camera.Up.vec(),
		Width:       d.Camera.Width,
		Height:      d.Camera.Height,
		VFov:        d.Camera.VFov,
		FocalLength: d.Camera.FocalLength,
	}, options.CameraOverrides)
	if err := validateCamera(cameraConfig); err != nil {
		b.addf("camera: %v", err)
	}

	b.indexTextures()
	for i := range d.Textures {
		b.texture(d.Textures[i].Name)
	}
	b.buildMaterials()

	var shapes []geometry.Shape
	for i := range d.Geometry {
		if shape := b.shape(&d.Geometry[i], fmt.Sprintf("geometry[%d]", i)); shape != nil {
			shapes = append(shapes, shape)
		}
	}

	if err := errors.Join(b.problems...); err != nil {
		return nil, fmt.Errorf("invalid scene description: %w", err)
	}

	return New(cameraConfig, background, shapes...), nil
}

type builder struct {
	desc         *Description
	options      BuildOptions
	textureDescs map[string]*TextureDesc
	textures     map[string]core.Texture
	resolving    map[string]bool
	materials    map[string]core.Material
	problems     []error
}

func (b *builder) addf(format string, args ...interface{}) {
	b.problems = append(b.problems, fmt.Errorf(format, args...))
}

func (b *builder) path(file string) string {
	if filepath.IsAbs(file) || b.options.BaseDir == "" {
		return file
	}
	return filepath.Join(b.options.BaseDir, file)
}

func (b *builder) indexTextures() {
	b.textureDescs = make(map[string]*TextureDesc, len(b.desc.Textures))
	for i := range b.desc.Textures {
		t := &b.desc.Textures[i]
		if t.Name == "" {
			b.addf("textures[%d]: missing name", i)
			continue
		}
		if _, dup := b.textureDescs[t.Name]; dup {
			b.addf("textures[%d]: duplicate name %q", i, t.Name)
			continue
		}
		b.textureDescs[t.Name] = t
	}
}

// texture resolves a named texture, building the textures it references first
func (b *builder) texture(name string) core.Texture {
	if tex, ok := b.textures[name]; ok {
		return tex
	}
	desc, ok := b.textureDescs[name]
	if !ok {
		b.addf("unknown texture %q", name)
		b.textures[name] = nil
		return nil
	}
	if b.resolving[name] {
		b.addf("texture %q references itself", name)
		return nil
	}
	b.resolving[name] = true
	defer delete(b.resolving, name)

	tex := b.buildTexture(desc)
	b.textures[name] = tex
	return tex
}

func (b *builder) buildTexture(t *TextureDesc) core.Texture {
	where := fmt.Sprintf("texture %q", t.Name)
	switch t.Type {
	case "solid":
		if t.Albedo == nil {
			b.addf("%s: solid texture needs albedo", where)
			return nil
		}
		c, err := colorFrom(*t.Albedo)
		if err != nil {
			b.addf("%s: %v", where, err)
			return nil
		}
		return material.NewSolidColor(c)

	case "checkerboard":
		if !(t.Size > 0) {
			b.addf("%s: checker size must be positive", where)
			return nil
		}
		even, odd := b.texture(t.Even), b.texture(t.Odd)
		if even == nil || odd == nil {
			return nil
		}
		return material.NewCheckerboard(t.Size, even, odd)

	case "scale":
		if !(t.ScaleU > 0 && t.ScaleV > 0) {
			b.addf("%s: scaleU and scaleV must be positive", where)
			return nil
		}
		inner := b.texture(t.Texture)
		if inner == nil {
			return nil
		}
		return material.NewScaleTexture(t.ScaleU, t.ScaleV, inner)

	case "image":
		if t.File == "" {
			b.addf("%s: image texture needs file", where)
			return nil
		}
		tex, err := loaders.LoadImageTexture(b.path(t.File), loaders.ImageOptions{MaxSize: t.MaxSize})
		if err != nil {
			b.addf("%s: %v", where, err)
			return nil
		}
		return tex

	default:
		b.addf("%s: unknown texture type %q", where, t.Type)
		return nil
	}
}

func (b *builder) buildMaterials() {
	for i := range b.desc.Materials {
		m := &b.desc.Materials[i]
		where := fmt.Sprintf("materials[%d]", i)
		if m.Name == "" {
			b.addf("%s: missing name", where)
			continue
		}
		if _, dup := b.materials[m.Name]; dup {
			b.addf("%s: duplicate name %q", where, m.Name)
			continue
		}

		var mat core.Material
		switch m.Type {
		case "lambertian", "diffuseLight":
			var tex core.Texture
			if m.Texture == "" && m.Albedo != nil {
				c, err := colorFrom(*m.Albedo)
				if err != nil {
					b.addf("%s: %v", where, err)
					continue
				}
				tex = material.NewSolidColor(c)
			} else if tex = b.texture(m.Texture); tex == nil {
				continue
			}
			if m.Type == "lambertian" {
				mat = material.NewTexturedLambertian(tex)
			} else {
				mat = material.NewTexturedDiffuseLight(tex)
			}
		case "metal":
			if m.Albedo == nil {
				b.addf("%s: metal needs albedo", where)
				continue
			}
			albedo, err := colorFrom(*m.Albedo)
			if err != nil {
				b.addf("%s: %v", where, err)
				continue
			}
			mat = material.NewMetal(albedo, m.Fuzz)
		default:
			b.addf("%s: unknown material type %q", where, m.Type)
			continue
		}
		b.materials[m.Name] = mat
	}
}

func (b *builder) material(g *GeometryDesc, where string) core.Material {
	mat, ok := b.materials[g.Material]
	if !ok {
		b.addf("%s: unknown material %q", where, g.Material)
		return nil
	}
	return mat
}

// require reports every missing vector field and returns false if any is absent
func (b *builder) require(where string, fields map[string]*Vec3Desc) bool {
	ok := true
	for _, name := range sortedKeys(fields) {
		if fields[name] == nil {
			b.addf("%s: missing %s", where, name)
			ok = false
		}
	}
	return ok
}

func (b *builder) shape(g *GeometryDesc, where string) geometry.Shape {
	switch g.Type {
	case "sphere":
		if !b.require(where, map[string]*Vec3Desc{"center": g.Center}) {
			return nil
		}
		if !(g.Radius > 0) {
			b.addf("%s: radius must be positive", where)
			return nil
		}
		if mat := b.material(g, where); mat != nil {
			return geometry.NewSphere(g.Center.vec(), g.Radius, mat)
		}

	case "quad":
		if !b.require(where, map[string]*Vec3Desc{"corner": g.Corner, "u": g.U, "v": g.V}) {
			return nil
		}
		if g.U.vec().Cross(g.V.vec()).NearZero(1e-12) {
			b.addf("%s: u and v must not be parallel", where)
			return nil
		}
		if mat := b.material(g, where); mat != nil {
			return geometry.NewQuad(g.Corner.vec(), g.U.vec(), g.V.vec(), mat)
		}

	case "plane":
		if !b.require(where, map[string]*Vec3Desc{"point": g.Point, "normal": g.Normal}) {
			return nil
		}
		if g.Normal.vec().NearZero(1e-12) {
			b.addf("%s: normal must be non-zero", where)
			return nil
		}
		if (g.UHat == nil) != (g.VHat == nil) {
			b.addf("%s: uHat and vHat must be given together", where)
			return nil
		}
		mat := b.material(g, where)
		if mat == nil {
			return nil
		}
		if g.UHat != nil {
			return geometry.NewPlaneWithBasis(g.Point.vec(), g.Normal.vec(), g.UHat.vec(), g.VHat.vec(), mat)
		}
		return geometry.NewPlane(g.Point.vec(), g.Normal.vec(), mat)

	case "triangle":
		if !b.require(where, map[string]*Vec3Desc{"a": g.A, "b": g.B, "c": g.C}) {
			return nil
		}
		a, bv, c := g.A.vec(), g.B.vec(), g.C.vec()
		if bv.Subtract(a).Cross(c.Subtract(a)).NearZero(1e-12) {
			b.addf("%s: triangle has zero area", where)
			return nil
		}
		mat := b.material(g, where)
		if mat == nil {
			return nil
		}
		if g.Normal != nil {
			return geometry.NewTriangleWithNormal(a, bv, c, g.Normal.vec(), mat)
		}
		return geometry.NewTriangle(a, bv, c, mat)

	case "box":
		if !b.require(where, map[string]*Vec3Desc{"center": g.Center}) {
			return nil
		}
		if !(g.HalfExtent > 0) {
			b.addf("%s: halfExtent must be positive", where)
			return nil
		}
		if mat := b.material(g, where); mat != nil {
			return geometry.NewBox(g.Center.vec(), g.HalfExtent, mat)
		}

	case "disc":
		if !b.require(where, map[string]*Vec3Desc{"center": g.Center, "normal": g.Normal}) {
			return nil
		}
		if g.Normal.vec().NearZero(1e-12) {
			b.addf("%s: normal must be non-zero", where)
			return nil
		}
		if !(g.Radius > 0) {
			b.addf("%s: radius must be positive", where)
			return nil
		}
		if mat := b.material(g, where); mat != nil {
			return geometry.NewDisc(g.Center.vec(), g.Normal.vec(), g.Radius, mat)
		}

	case "cylinder":
		if !b.require(where, map[string]*Vec3Desc{"base": g.Base, "top": g.Top}) {
			return nil
		}
		if g.Top.vec().Subtract(g.Base.vec()).NearZero(1e-12) {
			b.addf("%s: base and top must differ", where)
			return nil
		}
		if !(g.Radius > 0) {
			b.addf("%s: radius must be positive", where)
			return nil
		}
		if mat := b.material(g, where); mat != nil {
			return geometry.NewCylinder(g.Base.vec(), g.Top.vec(), g.Radius, mat)
		}

	case "mesh":
		if g.File == "" {
			b.addf("%s: mesh needs file", where)
			return nil
		}
		mat := b.material(g, where)
		if mat == nil {
			return nil
		}
		mesh, err := loaders.LoadMesh(b.path(g.File), mat, loaders.MeshOptions{
			Normalize: g.Normalize,
			Random:    b.options.Random,
			Logger:    b.options.Logger,
		})
		if err != nil {
			b.addf("%s: %v", where, err)
			return nil
		}
		return mesh

	case "translate", "scale", "rotate":
		return b.transform(g, where)

	default:
		b.addf("%s: unknown geometry type %q", where, g.Type)
	}
	return nil
}

func (b *builder) transform(g *GeometryDesc, where string) geometry.Shape {
	if g.Shape == nil {
		b.addf("%s: %s needs a nested shape", where, g.Type)
		return nil
	}
	inner := b.shape(g.Shape, where+".shape")
	if inner == nil {
		return nil
	}

	switch g.Type {
	case "translate":
		if !b.require(where, map[string]*Vec3Desc{"offset": g.Offset}) {
			return nil
		}
		return geometry.NewTranslation(inner, g.Offset.vec())

	case "scale":
		if !b.require(where, map[string]*Vec3Desc{"factor": g.Factor}) {
			return nil
		}
		f := g.Factor.vec()
		if !(f.X > 0 && f.Y > 0 && f.Z > 0) {
			b.addf("%s: scale factors must be positive, got %v", where, f)
			return nil
		}
		return geometry.NewScaling(inner, f)

	default:
		switch {
		case g.Euler != nil && g.Axis == nil:
			e := g.Euler.vec().Multiply(math.Pi / 180)
			return geometry.NewEulerRotation(inner, e.X, e.Y, e.Z)
		case g.Axis != nil && g.Euler == nil:
			if g.Axis.vec().NearZero(1e-12) {
				b.addf("%s: rotation axis must be non-zero", where)
				return nil
			}
			return geometry.NewAxisAngleRotation(inner, g.Axis.vec(), g.Angle*math.Pi/180)
		default:
			b.addf("%s: rotate needs exactly one of axis or euler", where)
			return nil
		}
	}
}

func colorFrom(v Vec3Desc) (core.Color, error) {
	for _, c := range v {
		if math.IsNaN(c) || c < 0 || c > 1 {
			return core.Color{}, fmt.Errorf("color %v has a channel outside [0,1]", v)
		}
	}
	return core.NewColor(v[0], v[1], v[2]), nil
}

func validateCamera(c geometry.CameraConfig) error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("image size must be positive, got %dx%d", c.Width, c.Height)
	case !(c.VFov > 0 && c.VFov < 180):
		return fmt.Errorf("vfov must be in (0, 180), got %v", c.VFov)
	case c.Center.Subtract(c.LookAt).NearZero(1e-12):
		return fmt.Errorf("center and lookAt must differ")
	case c.Center.Subtract(c.LookAt).Cross(c.Up).NearZero(1e-12):
		return fmt.Errorf("up must not be parallel to the view direction")
	}
	return nil
}

func sortedKeys(m map[string]*Vec3Desc) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
