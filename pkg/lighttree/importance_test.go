package lighttree

import (
	"math"
	"math/rand"
	"testing"

	"github.com/chewxy/math32"

	"github.com/df07/go-lighttree/pkg/core"
)

func TestNodeImportance_NonNegative(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	randomVec := func(scale float32) core.Vec3 {
		return core.NewVec3(
			(random.Float32()*2-1)*scale,
			(random.Float32()*2-1)*scale,
			(random.Float32()*2-1)*scale,
		)
	}

	for i := 0; i < 2000; i++ {
		center := randomVec(10)
		bounds := core.NewAABB(center, center).Expand(random.Float32() * 2)
		p := randomVec(20)
		if bounds.Contains(p) {
			continue
		}
		cone := Cone{
			Axis:   randomVec(1).Normalize(),
			ThetaO: random.Float32() * math32.Pi,
			ThetaE: random.Float32() * math32.Pi / 2,
		}
		n := randomVec(1).Normalize()
		energy := random.Float32() * 100

		importance := NodeImportance(p, n, bounds, cone, energy)
		if importance < 0 || !core.IsFinite(importance) {
			t.Fatalf("case %d: expected finite non-negative importance, got %v", i, importance)
		}
	}
}

func TestClampedDistanceSquared(t *testing.T) {
	unitBox := func(center core.Vec3) core.AABB {
		return core.NewAABB(center, center).Expand(1)
	}
	pointBox := func(center core.Vec3) core.AABB {
		return core.NewAABB(center, center)
	}

	tests := []struct {
		name     string
		bounds   core.AABB
		p        core.Vec3
		expected float32
	}{
		// 0.25 * |(1,1,1)|^2
		{"far box is clamped", unitBox(core.NewVec3(0, 0, 10)), origin, 0.75},
		{"near point inside the box", unitBox(core.NewVec3(0, 0, 0.5)), origin, 0.25},
		{"point on the centroid", unitBox(origin), origin, 0.75},
		{"point box keeps distance", pointBox(core.NewVec3(0, 0, 5)), origin, 25},
		{"point box at the shading point", pointBox(origin), origin, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampedDistanceSquared(tt.bounds, tt.p)
			if math32.Abs(got-tt.expected) > 1e-5 {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNodeImportance_ClampedValue(t *testing.T) {
	// Omni cone straight above a receiver facing it: every angle term is one
	bounds := core.NewAABB(core.NewVec3(-1, -1, 9), core.NewVec3(1, 1, 11))
	importance := NodeImportance(origin, up, bounds, omniCone, 1)
	if math32.Abs(importance-1/0.75) > 1e-4 {
		t.Errorf("expected importance %v, got %v", 1/0.75, importance)
	}

	point := core.NewAABB(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 5))
	importance = NodeImportance(origin, up, point, omniCone, 1)
	if math32.Abs(importance-0.04) > 1e-6 {
		t.Errorf("expected a point light to fall off with distance, got %v", importance)
	}
}

func TestNodeImportance_ClampFavorsLargeClusters(t *testing.T) {
	// The clamp caps a small cluster long before a large one
	near := core.NewAABB(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, 2)).Expand(0.1)
	far := core.NewAABB(core.NewVec3(0, 0, 20), core.NewVec3(0, 0, 20)).Expand(4)

	nearImportance := NodeImportance(origin, up, near, omniCone, 1)
	farImportance := NodeImportance(origin, up, far, omniCone, 1)
	if math32.Abs(nearImportance-1/0.0075) > 1e-2 {
		t.Errorf("expected near importance %v, got %v", 1/0.0075, nearImportance)
	}
	if math32.Abs(farImportance-1/12.0) > 1e-4 {
		t.Errorf("expected far importance %v, got %v", 1/12.0, farImportance)
	}
}

func TestNodeImportance_AngularCutoff(t *testing.T) {
	// A point-sized box straight above the shading point makes theta_u exactly zero
	center := core.NewVec3(0, 0, 5)
	bounds := core.NewAABB(center, center)
	axis := core.NewVec3(1, 0, 0)
	theta := core.AngleBetween(axis, core.NewVec3(0, 0, -1))
	const thetaO = 0.25
	boundary := theta - thetaO

	if got := BoundingBoxAngle(bounds, origin, up); got != 0 {
		t.Fatalf("expected zero bounding angle for a point box, got %v", got)
	}

	tests := []struct {
		name     string
		thetaE   float32
		expected bool // expect positive importance
	}{
		{"exactly at the boundary", boundary, false},
		{"just outside", math.Nextafter32(boundary, 0), false},
		{"just inside", math.Nextafter32(boundary, 10), true},
		{"well inside", boundary + 0.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cone := Cone{Axis: axis, ThetaO: thetaO, ThetaE: tt.thetaE}
			importance := NodeImportance(origin, up, bounds, cone, 1)
			if tt.expected && importance <= 0 {
				t.Errorf("expected positive importance, got %v", importance)
			}
			if !tt.expected && importance != 0 {
				t.Errorf("expected zero importance, got %v", importance)
			}
		})
	}
}

func TestNodeImportance_EnergyScale(t *testing.T) {
	bounds := core.NewAABB(core.NewVec3(-1, -1, 4), core.NewVec3(1, 1, 6))
	one := NodeImportance(origin, up, bounds, omniCone, 1)
	ten := NodeImportance(origin, up, bounds, omniCone, 10)
	if math32.Abs(ten-10*one) > 1e-5*ten {
		t.Errorf("expected importance to scale with energy: %v vs 10*%v", ten, one)
	}
	if zero := NodeImportance(origin, up, bounds, omniCone, 0); zero != 0 {
		t.Errorf("expected zero importance for zero energy, got %v", zero)
	}
}

func TestNodeImportance_PointAtCentroid(t *testing.T) {
	bounds := core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))
	importance := NodeImportance(origin, up, bounds, omniCone, 5)
	if !core.IsFinite(importance) || importance < 0 {
		t.Errorf("expected finite non-negative importance inside the box, got %v", importance)
	}
}

func TestNodeImportance_DegenerateBoxAtPoint(t *testing.T) {
	bounds := core.NewAABB(origin, origin)
	if importance := NodeImportance(origin, up, bounds, omniCone, 5); importance != 0 {
		t.Errorf("expected zero importance for a point box at the shading point, got %v", importance)
	}
}

func TestBoundingBoxAngle(t *testing.T) {
	// Unit half-width box at distance 10: the widest corner is off-axis by atan(sqrt(2)/9)
	bounds := core.NewAABB(core.NewVec3(-1, -1, 9), core.NewVec3(1, 1, 11))
	got := BoundingBoxAngle(bounds, origin, up)
	expected := math32.Atan(math32.Sqrt(2) / 9)
	if math32.Abs(got-expected) > 1e-3 {
		t.Errorf("expected bounding angle %v, got %v", expected, got)
	}

	// From inside the box some corner is behind the viewer
	inside := BoundingBoxAngle(bounds, core.NewVec3(0, 0, 9.5), up)
	if inside <= math32.Pi/2 {
		t.Errorf("expected an obtuse bounding angle from inside the box, got %v", inside)
	}
}

func TestClusterImportance_ReadsFullAxis(t *testing.T) {
	// The cone points down z; a cluster that only used x and y would see no emission
	center := core.NewVec3(0, 0, 5)
	node := &Node{
		Bounds: core.NewAABB(center, center).Expand(0.1),
		Cone:   Cone{Axis: core.NewVec3(0, 0, -1), ThetaO: 0, ThetaE: 0.2},
		Energy: 1,
	}
	if ClusterImportance(origin, up, node) <= 0 {
		t.Error("expected a cluster facing the shading point to be important")
	}
	node.Cone.Axis = core.NewVec3(0, 0, 1)
	if got := ClusterImportance(origin, up, node); got != 0 {
		t.Errorf("expected a cluster facing away to have zero importance, got %v", got)
	}
}
