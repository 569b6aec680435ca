package scene

import (
	"fmt"
	"math/rand"
)

// GridConfig controls the procedural grid scene
type GridConfig struct {
	Rows, Cols int
	Spacing    float32 // Distance between cell centers
	CellSize   float32 // Edge length of each emissive quad
	Height     float32 // Z of the emitting plane
	Lamps      int     // Number of extra point and spot lamps
	Distant    bool    // Add a sun and a background light
	Seed       int64
}

// DefaultGridConfig returns an 8x8 grid of ceiling panels with a few lamps
func DefaultGridConfig() GridConfig {
	return GridConfig{
		Rows:     8,
		Cols:     8,
		Spacing:  2,
		CellSize: 1,
		Height:   6,
		Lamps:    4,
		Distant:  true,
		Seed:     42,
	}
}

// NewGridScene describes a ceiling of emissive quads facing down onto the
// z=0 plane, centered over the origin, with random intensities. A floor
// object marked as shadow catcher sits at z=0.
func NewGridScene(cfg GridConfig) *Description {
	random := rand.New(rand.NewSource(cfg.Seed))
	desc := &Description{
		Name:  fmt.Sprintf("grid-%dx%d", cfg.Rows, cfg.Cols),
		Build: BuildConfig{MaxLeafSize: 1},
	}

	offsetX := -0.5 * cfg.Spacing * float32(cfg.Cols-1)
	offsetY := -0.5 * cfg.Spacing * float32(cfg.Rows-1)
	half := 0.5 * cfg.CellSize
	for row := 0; row < cfg.Rows; row++ {
		for col := 0; col < cfg.Cols; col++ {
			x := offsetX + float32(col)*cfg.Spacing
			y := offsetY + float32(row)*cfg.Spacing
			intensity := 1 + 9*random.Float32()
			desc.Objects = append(desc.Objects, ObjectConfig{
				Name: fmt.Sprintf("panel-%d-%d", row, col),
				// Wound so the normal points down
				Vertices: [][3]float32{
					{x - half, y - half, cfg.Height},
					{x - half, y + half, cfg.Height},
					{x + half, y - half, cfg.Height},
					{x + half, y + half, cfg.Height},
				},
				Faces:    [][3]int{{0, 1, 2}, {2, 1, 3}},
				Emission: [3]float32{intensity, intensity, intensity},
			})
		}
	}

	extent := max(-offsetX, -offsetY) + cfg.CellSize
	desc.Objects = append(desc.Objects, ObjectConfig{
		Name: "floor",
		Vertices: [][3]float32{
			{-extent, -extent, 0},
			{extent, -extent, 0},
			{-extent, extent, 0},
			{extent, extent, 0},
		},
		Faces:         [][3]int{{0, 1, 2}, {2, 1, 3}},
		ShadowCatcher: true,
	})

	for i := 0; i < cfg.Lamps; i++ {
		position := [3]float32{
			(random.Float32()*2 - 1) * extent,
			(random.Float32()*2 - 1) * extent,
			0.5 + random.Float32()*(cfg.Height-1),
		}
		strength := 20 + 80*random.Float32()
		lamp := LampConfig{
			Type:     "point",
			Position: position,
			Radius:   0.1,
			Strength: [3]float32{strength, strength, strength},
		}
		if i%2 == 1 {
			lamp.Type = "spot"
			lamp.Direction = [3]float32{0, 0, -1}
			lamp.SpotAngle = 30
			lamp.SpotBlend = 0.15
		}
		desc.Lamps = append(desc.Lamps, lamp)
	}

	if cfg.Distant {
		desc.Lamps = append(desc.Lamps,
			LampConfig{
				Type:      "sun",
				Direction: [3]float32{0.3, 0.2, -1},
				Angle:     0.5,
				Strength:  [3]float32{3, 3, 3},
			},
			LampConfig{
				Type:     "background",
				Strength: [3]float32{0.05, 0.05, 0.08},
			},
		)
	}
	return desc
}
