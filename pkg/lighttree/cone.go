package lighttree

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-lighttree/pkg/core"
)

// EmptyCone is the identity of Merge
var EmptyCone = Cone{ThetaO: -1}

// IsEmpty reports whether the cone bounds no directions
func (c Cone) IsEmpty() bool {
	return c.ThetaO < 0
}

// Merge returns a cone bounding the directions of both c and other
func (c Cone) Merge(other Cone) Cone {
	if c.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return c
	}

	// Keep the wider cone in a
	a, b := c, other
	if b.ThetaO > a.ThetaO {
		a, b = b, a
	}

	thetaD := core.AngleBetween(a.Axis, b.Axis)
	thetaE := max(a.ThetaE, b.ThetaE)

	// b already fits inside a
	if min(thetaD+b.ThetaO, math32.Pi) <= a.ThetaO {
		return Cone{Axis: a.Axis, ThetaO: a.ThetaO, ThetaE: thetaE}
	}

	thetaO := 0.5 * (a.ThetaO + thetaD + b.ThetaO)
	if thetaO >= math32.Pi {
		return Cone{Axis: a.Axis, ThetaO: math32.Pi, ThetaE: thetaE}
	}

	// Rotate a's axis toward b's by the growth of the spread
	thetaR := thetaO - a.ThetaO
	rotationAxis := a.Axis.Cross(b.Axis).Normalize()
	if rotationAxis.IsZero() {
		rotationAxis, _ = core.OrthonormalBasis(a.Axis)
	}
	axis := rotate(a.Axis, rotationAxis, thetaR).Normalize()
	return Cone{Axis: axis, ThetaO: thetaO, ThetaE: thetaE}
}

// rotate turns v around the unit axis k, which is perpendicular to v, by theta
func rotate(v, k core.Vec3, theta float32) core.Vec3 {
	return v.Multiply(math32.Cos(theta)).Add(k.Cross(v).Multiply(math32.Sin(theta)))
}
