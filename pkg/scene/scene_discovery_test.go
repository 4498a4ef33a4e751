package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"cornell-empty", "Cornell Empty"},
		{"spheres_gold", "Spheres Gold"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func writeSceneFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestParseSceneMetadata(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name: "complete_metadata.json",
			content: `{
				"name": "Cornell Box",
				"variant": "Empty Room",
				"description": "Classic Cornell box with no objects",
				"group": "Cornell Variants"
			}`,
			expected: SceneInfo{
				ID:          "json:complete_metadata",
				Name:        "Cornell Box",
				DisplayName: "Cornell Box - Empty Room",
				Description: "Classic Cornell box with no objects",
				Group:       "Cornell Variants",
				Type:        "json",
			},
		},
		{
			name:    "partial_metadata.json",
			content: `{"name": "Spheres", "description": "A few spheres"}`,
			expected: SceneInfo{
				ID:          "json:partial_metadata",
				Name:        "Spheres",
				DisplayName: "Spheres",
				Description: "A few spheres",
				Group:       "Scene Files",
				Type:        "json",
			},
		},
		{
			name:    "no-metadata.json",
			content: `{"background": [1, 1, 1]}`,
			expected: SceneInfo{
				ID:          "json:no-metadata",
				Name:        "No Metadata",
				DisplayName: "No Metadata",
				Group:       "Scene Files",
				Type:        "json",
			},
		},
	}

	dir := t.TempDir()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSceneFile(t, dir, tc.name, tc.content)

			result, err := ParseSceneMetadata(path)
			if err != nil {
				t.Fatalf("ParseSceneMetadata() error: %v", err)
			}

			tc.expected.FilePath = path
			if result != tc.expected {
				t.Errorf("ParseSceneMetadata() = %+v, want %+v", result, tc.expected)
			}
		})
	}
}

func TestParseSceneMetadata_InvalidFile(t *testing.T) {
	dir := t.TempDir()

	if _, err := ParseSceneMetadata(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	path := writeSceneFile(t, dir, "broken.json", `{"name": "Broken", "unexpected": true}`)
	if _, err := ParseSceneMetadata(path); err == nil {
		t.Error("Expected error for unknown field")
	}
}

func TestListJSONScenes(t *testing.T) {
	dir := t.TempDir()
	writeSceneFile(t, dir, "zeta.json", `{"name": "Zeta"}`)
	writeSceneFile(t, dir, "alpha.json", `{"name": "Alpha"}`)
	writeSceneFile(t, dir, "broken.json", `{not json`)
	writeSceneFile(t, dir, "notes.txt", `ignored`)

	scenes, err := ListJSONScenes(dir)
	if err != nil {
		t.Fatalf("ListJSONScenes() error: %v", err)
	}

	if len(scenes) != 2 {
		t.Fatalf("Expected 2 scenes, got %d: %+v", len(scenes), scenes)
	}
	if scenes[0].Name != "Alpha" || scenes[1].Name != "Zeta" {
		t.Errorf("Expected scenes sorted by display name, got %q, %q", scenes[0].Name, scenes[1].Name)
	}
}

func TestListJSONScenes_MissingDirectory(t *testing.T) {
	scenes, err := ListJSONScenes(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Errorf("ListJSONScenes() error: %v", err)
	}
	if scenes == nil || len(scenes) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", scenes)
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	writeSceneFile(t, dir, "custom.json", `{"name": "Custom", "group": "Experiments"}`)
	writeSceneFile(t, dir, "plain.json", `{"name": "Plain"}`)

	response, err := ListAllScenes(dir)
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}

	if len(response.Groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(response.Groups))
	}

	expectedGroups := []string{builtinGroup, "Experiments", "Scene Files"}
	for i, name := range expectedGroups {
		if response.Groups[i].Name != name {
			t.Errorf("Group %d = %q, want %q", i, response.Groups[i].Name, name)
		}
	}

	expectedScenes := []string{"basic", "cornell-box", "sphere-grid", "triangle-mesh", "textures", "transforms"}
	builtIn := response.Groups[0]
	if len(builtIn.Scenes) != len(expectedScenes) {
		t.Errorf("Built-in scenes count = %d, want %d", len(builtIn.Scenes), len(expectedScenes))
	}
	sceneIDs := make(map[string]bool)
	for _, scene := range builtIn.Scenes {
		sceneIDs[scene.ID] = true
	}
	for _, expectedID := range expectedScenes {
		if !sceneIDs[expectedID] {
			t.Errorf("Missing expected built-in scene: %s", expectedID)
		}
	}

	for _, group := range response.Groups {
		for _, scene := range group.Scenes {
			if scene.ID == "" || scene.DisplayName == "" {
				t.Errorf("Scene missing ID or DisplayName: %+v", scene)
			}
			switch scene.Type {
			case "builtin":
			case "json":
				if scene.FilePath == "" {
					t.Errorf("JSON scene %s missing FilePath", scene.ID)
				}
				if !strings.HasPrefix(scene.ID, "json:") {
					t.Errorf("JSON scene ID should start with 'json:': %s", scene.ID)
				}
			default:
				t.Errorf("Invalid scene type: %s", scene.Type)
			}
		}
	}
}
