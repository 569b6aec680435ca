package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/df07/go-lighttree/pkg/core"
	"github.com/df07/go-lighttree/pkg/scene"
)

// loadScene loads a scene description file or the built-in grid scene
func loadScene(name string) (*scene.Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("missing scene argument")
	}
	if name == "grid" {
		return scene.New(scene.NewGridScene(scene.DefaultGridConfig()))
	}
	return scene.Load(name)
}

// parseVec3 parses a comma separated "x,y,z" triple
func parseVec3(value string) (core.Vec3, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("expected x,y,z, got %q", value)
	}

	var v [3]float32
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid component %q: %v", part, err)
		}
		v[i] = float32(f)
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}
