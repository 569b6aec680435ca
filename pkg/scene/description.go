package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Description is the on-disk form of a light scene, written in YAML or TOML
type Description struct {
	Name    string         `yaml:"name" toml:"name"`
	Build   BuildConfig    `yaml:"build" toml:"build"`
	Objects []ObjectConfig `yaml:"objects" toml:"objects"`
	Lamps   []LampConfig   `yaml:"lamps" toml:"lamps"`

	// Directory that relative mesh paths are resolved against
	BaseDir string `yaml:"-" toml:"-"`
}

// BuildConfig contains light tree construction settings
type BuildConfig struct {
	MaxLeafSize int `yaml:"max_leaf_size" toml:"max_leaf_size"`
}

// ObjectConfig describes one object. Objects with a non-zero emission
// contribute their triangles as mesh lights.
type ObjectConfig struct {
	Name string `yaml:"name" toml:"name"`

	// Geometry comes from a PLY file or inline vertices and faces
	Mesh     string       `yaml:"mesh" toml:"mesh"`
	Vertices [][3]float32 `yaml:"vertices" toml:"vertices"`
	Faces    [][3]int     `yaml:"faces" toml:"faces"`

	Emission      [3]float32 `yaml:"emission" toml:"emission"`
	DoubleSided   bool       `yaml:"double_sided" toml:"double_sided"`
	ShadowCatcher bool       `yaml:"shadow_catcher" toml:"shadow_catcher"`
	Shader        int32      `yaml:"shader" toml:"shader"`

	// Both default to true when unset
	UseMIS     *bool `yaml:"use_mis" toml:"use_mis"`
	CastShadow *bool `yaml:"cast_shadow" toml:"cast_shadow"`
}

// LampConfig describes an analytic light. Angles are in degrees.
type LampConfig struct {
	Type       string     `yaml:"type" toml:"type"` // point, spot, sun or background
	Position   [3]float32 `yaml:"position" toml:"position"`
	Direction  [3]float32 `yaml:"direction" toml:"direction"`
	Radius     float32    `yaml:"radius" toml:"radius"`
	SpotAngle  float32    `yaml:"spot_angle" toml:"spot_angle"`
	SpotBlend  float32    `yaml:"spot_blend" toml:"spot_blend"`
	Angle      float32    `yaml:"angle" toml:"angle"`
	Strength   [3]float32 `yaml:"strength" toml:"strength"`
	MaxBounces *int       `yaml:"max_bounces" toml:"max_bounces"` // Defaults to DefaultMaxBounces
	Invisible  []string   `yaml:"invisible" toml:"invisible"`     // camera, reflect, transmit, volume
	Shader     int32      `yaml:"shader" toml:"shader"`
}

// DefaultMaxBounces is the bounce budget of lamps that do not set one
const DefaultMaxBounces = 1024

// LoadDescription reads a scene description, choosing the decoder by file
// extension.
func LoadDescription(filename string) (*Description, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene description: %w", err)
	}

	desc, err := ParseDescription(data, strings.TrimPrefix(filepath.Ext(filename), "."))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	desc.BaseDir = filepath.Dir(filename)
	return desc, nil
}

// ParseDescription decodes a description in format "yaml", "yml" or "toml"
func ParseDescription(data []byte, format string) (*Description, error) {
	desc := &Description{}

	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, desc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, desc); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return desc, nil
}
