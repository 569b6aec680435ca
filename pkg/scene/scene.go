package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chewxy/math32"

	"github.com/df07/go-lighttree/pkg/core"
	"github.com/df07/go-lighttree/pkg/lights"
	"github.com/df07/go-lighttree/pkg/lighttree"
	"github.com/df07/go-lighttree/pkg/log"
)

// Scene holds the lights of a scene together with the light tree built over
// them
type Scene struct {
	Name   string
	Lights *lights.Table
	Tree   *lighttree.Arrays
	Stats  lighttree.TreeStats

	// Object names in object index order
	Objects []string
}

// Load reads a description file and assembles the scene
func Load(filename string) (*Scene, error) {
	desc, err := LoadDescription(filename)
	if err != nil {
		return nil, err
	}
	return New(desc)
}

// New assembles lights and the light tree from a description
func New(desc *Description) (*Scene, error) {
	logger := log.New("scene")

	table := &lights.Table{}
	objectFlags := make([]core.ObjectFlag, len(desc.Objects))
	objectNames := make([]string, len(desc.Objects))
	var prims []lighttree.Primitive

	for object, cfg := range desc.Objects {
		objectNames[object] = cfg.Name
		if cfg.ShadowCatcher {
			objectFlags[object] |= core.ObjectShadowCatcher
		}

		mesh, err := objectMesh(cfg, desc.BaseDir)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", object, cfg.Name, err)
		}

		emission := vec3(cfg.Emission)
		if emission.IsZero() {
			continue
		}

		flag := objectShaderFlag(cfg)
		for _, face := range mesh.Faces {
			tri := lights.Triangle{
				V0:          mesh.Vertices[face[0]],
				V1:          mesh.Vertices[face[1]],
				V2:          mesh.Vertices[face[2]],
				Object:      object,
				Shader:      cfg.Shader,
				Emission:    emission,
				DoubleSided: cfg.DoubleSided,
			}
			energy := tri.Energy()
			if !(energy > 0) {
				// Degenerate triangles cannot emit
				continue
			}

			prim := len(table.Triangles)
			table.Triangles = append(table.Triangles, tri)
			axis, thetaO, thetaE := tri.Orientation()
			prims = append(prims, lighttree.Primitive{
				Bounds:       tri.Bounds(),
				Cone:         lighttree.Cone{Axis: axis, ThetaO: thetaO, ThetaE: thetaE},
				Energy:       energy,
				Distribution: lighttree.MeshLight(prim, object, flag),
			})
		}
	}

	var distant []lighttree.DistantEmitter
	maxBounces := make([]int, len(desc.Lamps))
	for i, cfg := range desc.Lamps {
		lamp, err := newLamp(cfg)
		if err != nil {
			return nil, fmt.Errorf("lamp %d: %w", i, err)
		}
		table.Lamps = append(table.Lamps, lamp)
		maxBounces[i] = lamp.MaxBounces

		if lamp.IsDistant() {
			distant = append(distant, lighttree.DistantLamp(i, lamp.Energy()))
			continue
		}
		axis, thetaO, thetaE := lamp.Orientation()
		prims = append(prims, lighttree.Primitive{
			Bounds:       lamp.Bounds(),
			Cone:         lighttree.Cone{Axis: axis, ThetaO: thetaO, ThetaE: thetaE},
			Energy:       lamp.Energy(),
			Distribution: lighttree.LampLight(i),
		})
	}

	tree, err := lighttree.Build(prims, distant, lighttree.BuildOptions{MaxLeafSize: desc.Build.MaxLeafSize})
	if err != nil {
		return nil, fmt.Errorf("failed to build light tree: %w", err)
	}
	tree.ObjectFlags = objectFlags
	tree.LampMaxBounces = maxBounces

	s := &Scene{
		Name:    desc.Name,
		Lights:  table,
		Tree:    tree,
		Stats:   lighttree.ComputeStats(tree),
		Objects: objectNames,
	}
	logger.Infof("scene %q: %d mesh lights, %d lamps, %s", s.Name, len(table.Triangles), len(table.Lamps), s.Stats)
	return s, nil
}

// NewSampler creates a light tree sampler over the scene
func (s *Scene) NewSampler() *lighttree.Sampler {
	return lighttree.NewSampler(s.Tree, s.Lights)
}

// objectMesh returns the geometry of an object from its PLY file or inline data
func objectMesh(cfg ObjectConfig, baseDir string) (*Mesh, error) {
	if cfg.Mesh != "" && len(cfg.Vertices) > 0 {
		return nil, fmt.Errorf("%w: both a mesh file and inline vertices", ErrInvalidMesh)
	}

	if cfg.Mesh != "" {
		path := cfg.Mesh
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		return LoadPLY(path)
	}

	mesh := &Mesh{Vertices: make([]core.Vec3, len(cfg.Vertices)), Faces: cfg.Faces}
	for i, v := range cfg.Vertices {
		mesh.Vertices[i] = vec3(v)
	}
	for i, face := range mesh.Faces {
		for _, index := range face {
			if index < 0 || index >= len(mesh.Vertices) {
				return nil, fmt.Errorf("%w: face %d references vertex %d of %d", ErrInvalidMesh, i, index, len(mesh.Vertices))
			}
		}
	}
	return mesh, nil
}

func objectShaderFlag(cfg ObjectConfig) int32 {
	var flag int32
	if cfg.UseMIS == nil || *cfg.UseMIS {
		flag |= lights.ShaderUseMIS
	}
	if cfg.CastShadow == nil || *cfg.CastShadow {
		flag |= lights.ShaderCastShadow
	}
	return flag
}

// newLamp converts a lamp description, turning degrees into radians
func newLamp(cfg LampConfig) (lights.Lamp, error) {
	lamp := lights.Lamp{
		Type:       lights.LightType(strings.ToLower(cfg.Type)),
		Position:   vec3(cfg.Position),
		Direction:  vec3(cfg.Direction).Normalize(),
		Radius:     cfg.Radius,
		SpotAngle:  cfg.SpotAngle * math32.Pi / 180,
		SpotBlend:  cfg.SpotBlend,
		Angle:      cfg.Angle * math32.Pi / 180,
		Strength:   vec3(cfg.Strength),
		MaxBounces: DefaultMaxBounces,
		Shader:     cfg.Shader,
	}
	if cfg.MaxBounces != nil {
		lamp.MaxBounces = *cfg.MaxBounces
	}

	switch lamp.Type {
	case lights.LightTypePoint, lights.LightTypeBackground:
	case lights.LightTypeSpot, lights.LightTypeSun:
		if lamp.Direction.IsZero() {
			return lights.Lamp{}, fmt.Errorf("%s lamp needs a direction", lamp.Type)
		}
	default:
		return lights.Lamp{}, fmt.Errorf("%w: %q", ErrUnknownLightType, cfg.Type)
	}

	for _, name := range cfg.Invisible {
		flag, err := parseRayType(name)
		if err != nil {
			return lights.Lamp{}, err
		}
		lamp.Invisible |= flag
	}
	return lamp, nil
}

func parseRayType(name string) (core.PathFlag, error) {
	switch strings.ToLower(name) {
	case "camera":
		return core.PathRayCamera, nil
	case "reflect", "reflection":
		return core.PathRayReflect, nil
	case "transmit", "transmission":
		return core.PathRayTransmit, nil
	case "volume", "scatter":
		return core.PathRayVolumeScatter, nil
	default:
		return 0, fmt.Errorf("unknown ray type %q", name)
	}
}

func vec3(v [3]float32) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
