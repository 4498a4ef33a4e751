package scene

import (
	"fmt"

	"github.com/df07/go-adaptive-pathtracer/pkg/geometry"
)

type builtinScene struct {
	info  SceneInfo
	build func(...geometry.CameraConfig) *Scene
}

var builtinScenes = []builtinScene{
	{builtinInfo("basic", "Default Scene", "Spheres of several materials on an infinite ground plane"), NewDefaultScene},
	{builtinInfo("cornell-box", "Cornell Box", "Cornell box with a ceiling light and two rotated boxes"), NewCornellScene},
	{builtinInfo("sphere-grid", "Sphere Grid", "20x20 grid of rainbow-colored metallic spheres"), NewSphereGridScene},
	{builtinInfo("triangle-mesh", "Triangle Meshes", "Box, pyramid and icosahedron meshes"), NewTriangleMeshScene},
	{builtinInfo("textures", "Textures", "Checkerboard, scaled, gradient and UV debug textures"), NewTextureScene},
	{builtinInfo("transforms", "Transforms", "Nested translation, scaling and rotation under a white sky"), NewTransformScene},
}

func builtinInfo(id, name, description string) SceneInfo {
	return SceneInfo{
		ID:          id,
		Name:        name,
		DisplayName: name,
		Description: description,
		Group:       builtinGroup,
		Type:        "builtin",
	}
}

// BuiltinScenes lists the scenes compiled into the binary
func BuiltinScenes() []SceneInfo {
	infos := make([]SceneInfo, len(builtinScenes))
	for i, b := range builtinScenes {
		infos[i] = b.info
	}
	return infos
}

// NewBuiltinScene constructs the built-in scene with the given ID
func NewBuiltinScene(id string, cameraOverrides ...geometry.CameraConfig) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == id {
			return b.build(cameraOverrides...), nil
		}
	}
	return nil, fmt.Errorf("unknown scene %q", id)
}
