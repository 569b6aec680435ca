package lighttree

import "github.com/df07/go-lighttree/pkg/core"

// SceneData is the read-only view of the light tree and its collaborators'
// per-object and per-lamp state. Implementations must be safe for
// concurrent readers.
type SceneData interface {
	NumNodes() int
	NumEmitters() int
	NumDistantLights() int
	// NumDistribution counts tree emitters and distant lights together
	NumDistribution() int

	Node(index int) *Node
	Emitter(index int) *Emitter
	Distribution(index int) Distribution
	DistantLight(index int) *DistantEmitter

	ObjectIsShadowCatcher(object int) bool
	LightReachedMaxBounces(lamp, bounce int) bool
}

// Arrays is the slice-backed SceneData produced by Build
type Arrays struct {
	Nodes         []Node
	Emitters      []Emitter
	Distributions []Distribution // Parallel to Emitters
	Distant       []DistantEmitter

	ObjectFlags    []core.ObjectFlag
	LampMaxBounces []int
}

func (a *Arrays) NumNodes() int         { return len(a.Nodes) }
func (a *Arrays) NumEmitters() int      { return len(a.Emitters) }
func (a *Arrays) NumDistantLights() int { return len(a.Distant) }

func (a *Arrays) NumDistribution() int {
	return len(a.Distributions) + len(a.Distant)
}

func (a *Arrays) Node(index int) *Node                   { return &a.Nodes[index] }
func (a *Arrays) Emitter(index int) *Emitter             { return &a.Emitters[index] }
func (a *Arrays) Distribution(index int) Distribution    { return a.Distributions[index] }
func (a *Arrays) DistantLight(index int) *DistantEmitter { return &a.Distant[index] }

// ObjectIsShadowCatcher reports the shadow catcher flag of object
func (a *Arrays) ObjectIsShadowCatcher(object int) bool {
	if object < 0 || object >= len(a.ObjectFlags) {
		return false
	}
	return a.ObjectFlags[object].Has(core.ObjectShadowCatcher)
}

// LightReachedMaxBounces reports whether lamp is out of bounce budget.
// Lamps without a recorded budget are never limited.
func (a *Arrays) LightReachedMaxBounces(lamp, bounce int) bool {
	if lamp < 0 || lamp >= len(a.LampMaxBounces) {
		return false
	}
	return bounce > a.LampMaxBounces[lamp]
}
