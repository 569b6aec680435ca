package lights

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-lighttree/pkg/core"
)

// Triangle is an emissive mesh triangle
type Triangle struct {
	V0, V1, V2  core.Vec3
	Object      int
	Shader      int32
	Emission    core.Vec3 // Emitted radiance
	DoubleSided bool
}

// Area returns the surface area of the triangle
func (t *Triangle) Area() float32 {
	return 0.5 * t.V1.Subtract(t.V0).Cross(t.V2.Subtract(t.V0)).Length()
}

// Normal returns the unit geometric normal, following the V0 V1 V2 winding
func (t *Triangle) Normal() core.Vec3 {
	return t.V1.Subtract(t.V0).Cross(t.V2.Subtract(t.V0)).Normalize()
}

// Bounds returns the bounding box of the three vertices
func (t *Triangle) Bounds() core.AABB {
	return core.NewAABBFromPoints(t.V0, t.V1, t.V2)
}

// Orientation returns the emission cone: the normal with no spread for a
// single-sided triangle, the whole sphere for a double-sided one, and a
// cosine falloff of a quarter turn.
func (t *Triangle) Orientation() (axis core.Vec3, thetaO, thetaE float32) {
	thetaO = 0
	if t.DoubleSided {
		thetaO = math32.Pi
	}
	return t.Normal(), thetaO, math32.Pi / 2
}

// Energy returns the emitted power used for importance estimation
func (t *Triangle) Energy() float32 {
	energy := t.Area() * t.Emission.Luminance()
	if t.DoubleSided {
		energy *= 2
	}
	return energy
}

// Sample picks a uniformly distributed point on the triangle and converts the
// area density to solid angle as seen from point.
func (t *Triangle) Sample(u, v float32, point core.Vec3) LightSample {
	b0, b1 := core.SampleUniformTriangle(u, v)
	samplePoint := t.V0.Multiply(b0).Add(t.V1.Multiply(b1)).Add(t.V2.Multiply(1 - b0 - b1))
	normal := t.Normal()

	ls := LightSample{
		Point:  samplePoint,
		Normal: normal,
		Type:   LightTypeTriangle,
		Shader: t.Shader,
		Object: t.Object,
		Lamp:   -1,
	}

	toLight := samplePoint.Subtract(point)
	distance := toLight.Length()
	if distance == 0 {
		return ls
	}
	direction := toLight.Multiply(1 / distance)
	ls.Direction = direction
	ls.Distance = distance

	// Front face when the direction toward the light opposes the normal
	cosTheta := -normal.Dot(direction)
	if cosTheta <= 0 {
		if !t.DoubleSided {
			return ls
		}
		cosTheta = -cosTheta
		ls.Normal = normal.Negate()
	}
	if cosTheta < 1e-8 {
		// Edge-on, no contribution
		return ls
	}

	area := t.Area()
	if area == 0 {
		return ls
	}

	// PDF_solid_angle = PDF_area * distance² / |cos(θ)|
	ls.PDF = distance * distance / (cosTheta * area)
	ls.Emission = t.Emission
	return ls
}
