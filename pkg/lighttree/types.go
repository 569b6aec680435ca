package lighttree

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-lighttree/pkg/core"
)

// Cone bounds the emission directions of a light or a cluster of lights.
// Every main emission direction lies within ThetaO of Axis, and emission
// falls to zero ThetaE beyond that.
type Cone struct {
	Axis   core.Vec3
	ThetaO float32
	ThetaE float32
}

// Emitter is the importance record of a single light in the tree
type Emitter struct {
	Bounds core.AABB
	Cone   Cone
	Energy float32
}

// Node is one entry of the flattened tree. Nodes are stored depth-first in
// pre-order so the left child of an interior node is always the next entry.
type Node struct {
	Bounds core.AABB
	Cone   Cone
	Energy float32

	// ChildIndex > 0 is the index of the right child of an interior node.
	// ChildIndex <= 0 marks a leaf whose emitters start at -ChildIndex.
	ChildIndex int32
	NumPrims   int32
}

// IsLeaf reports whether the node holds emitters rather than children
func (n *Node) IsLeaf() bool {
	return n.ChildIndex <= 0
}

// RightChild returns the index of the right child of an interior node
func (n *Node) RightChild() int {
	return int(n.ChildIndex)
}

// FirstEmitter returns the index of the first emitter of a leaf
func (n *Node) FirstEmitter() int {
	return int(-n.ChildIndex)
}

// Distribution links an emitter back to the light it was built from. It
// shares its index with the emitter.
type Distribution struct {
	// Prim >= 0 is the triangle of a mesh light; Prim < 0 encodes lamp -Prim-1
	Prim       int32
	Object     int32
	ShaderFlag int32
}

// MeshLight builds the back-reference of an emissive triangle
func MeshLight(prim, object int, shaderFlag int32) Distribution {
	return Distribution{Prim: int32(prim), Object: int32(object), ShaderFlag: shaderFlag}
}

// LampLight builds the back-reference of an analytic light
func LampLight(lamp int) Distribution {
	return Distribution{Prim: int32(-lamp - 1), Object: -1}
}

// IsMeshLight reports whether the entry refers to an emissive triangle
func (d Distribution) IsMeshLight() bool {
	return d.Prim >= 0
}

// Lamp returns the lamp index of an analytic light entry
func (d Distribution) Lamp() int {
	return int(-d.Prim - 1)
}

// DistantEmitter is a light with no finite bounds, sampled outside the tree
type DistantEmitter struct {
	PrimID int32 // Encodes lamp -PrimID-1
	Energy float32
}

// DistantLamp builds the distant record of lamp
func DistantLamp(lamp int, energy float32) DistantEmitter {
	return DistantEmitter{PrimID: int32(-lamp - 1), Energy: energy}
}

// Lamp returns the lamp index of the distant light
func (d DistantEmitter) Lamp() int {
	return int(-d.PrimID - 1)
}

func validAngle(theta float32) bool {
	return theta >= 0 && theta <= math32.Pi+1e-5
}
