package lighttree

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-lighttree/pkg/core"
)

// BoundingBoxAngle returns the half angle of the smallest cone with apex p
// around pointToCentroid that contains every corner of bounds.
func BoundingBoxAngle(bounds core.AABB, p, pointToCentroid core.Vec3) float32 {
	var thetaU float32
	for _, corner := range bounds.Corners() {
		pointToCorner := corner.Subtract(p).Normalize()
		thetaU = max(thetaU, core.AngleBetween(pointToCentroid, pointToCorner))
	}
	return thetaU
}

// ClampedDistanceSquared is the squared distance from p to the centroid of
// bounds, clamped to a quarter of the squared half diagonal. When either term
// is zero the other is used, so point lights keep their distance falloff.
func ClampedDistanceSquared(bounds core.AABB, p core.Vec3) float32 {
	centroid := bounds.Center()
	distanceSquared := centroid.Subtract(p).LengthSquared()
	clamp := 0.25 * bounds.Max.Subtract(centroid).LengthSquared()
	if clamp > 0 && distanceSquared > 0 {
		return min(distanceSquared, clamp)
	}
	return max(distanceSquared, clamp)
}

// NodeImportance estimates how much a light or cluster described by bounds,
// cone and energy can contribute at the shading point p with normal n. The
// estimate ignores visibility and is never negative.
func NodeImportance(p, n core.Vec3, bounds core.AABB, cone Cone, energy float32) float32 {
	centroid := bounds.Center()
	pointToCentroid := centroid.Subtract(p).Normalize()

	distanceSquared := ClampedDistanceSquared(bounds, p)
	if distanceSquared == 0 {
		return 0
	}

	theta := core.AngleBetween(cone.Axis, pointToCentroid.Negate())
	thetaI := core.AngleBetween(pointToCentroid, n)
	thetaU := BoundingBoxAngle(bounds, p, pointToCentroid)

	thetaPrime := max(theta-cone.ThetaO-thetaU, 0)
	if thetaPrime >= cone.ThetaE {
		return 0
	}
	cosThetaPrime := math32.Cos(thetaPrime)

	cosThetaIPrime := float32(1)
	if thetaI-thetaU > 0 {
		cosThetaIPrime = math32.Abs(math32.Cos(thetaI - thetaU))
	}

	// Area factor of the emitter, a pure scale kept at one
	const fA = 1
	return fA * cosThetaIPrime * energy * cosThetaPrime / distanceSquared
}

// EmitterImportance is NodeImportance for emitter index of data
func EmitterImportance(data SceneData, p, n core.Vec3, index int) float32 {
	e := data.Emitter(index)
	return NodeImportance(p, n, e.Bounds, e.Cone, e.Energy)
}

// ClusterImportance is NodeImportance for a tree node
func ClusterImportance(p, n core.Vec3, node *Node) float32 {
	return NodeImportance(p, n, node.Bounds, node.Cone, node.Energy)
}

// DistantImportance is the importance of distant light index. Distant lights
// have no position, so this is only their energy and is not comparable in
// scale with the importance of a cluster.
func DistantImportance(data SceneData, p, n core.Vec3, index int) float32 {
	return data.DistantLight(index).Energy
}
