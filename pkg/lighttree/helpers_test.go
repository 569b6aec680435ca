package lighttree

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-lighttree/pkg/core"
	"github.com/df07/go-lighttree/pkg/lights"
)

// fakeShapes records which lights the sampler delegated to
type fakeShapes struct {
	triangleCalls []int
	lampCalls     []int
	trianglePDF   float32
	modes         []core.SegmentMode
}

func (f *fakeShapes) SampleTriangle(prim, object int, u, v, time float32, p core.Vec3, mode core.SegmentMode) lights.LightSample {
	f.triangleCalls = append(f.triangleCalls, prim)
	f.modes = append(f.modes, mode)
	return lights.LightSample{
		PDF:    f.trianglePDF,
		Type:   lights.LightTypeTriangle,
		Shader: 1,
		Prim:   prim,
		Object: object,
		Lamp:   -1,
	}
}

func (f *fakeShapes) SampleLamp(lamp int, u, v float32, p core.Vec3, pathFlag core.PathFlag, mode core.SegmentMode) (lights.LightSample, bool) {
	f.lampCalls = append(f.lampCalls, lamp)
	f.modes = append(f.modes, mode)
	return lights.LightSample{
		PDF:    1,
		Type:   lights.LightTypePoint,
		Prim:   -1,
		Object: -1,
		Lamp:   lamp,
	}, true
}

// fixedSampler replays a fixed sequence of numbers
type fixedSampler struct {
	values []float32
	next   int
}

func newFixedSampler(values ...float32) *fixedSampler {
	return &fixedSampler{values: values}
}

func (f *fixedSampler) Get1D() float32 {
	v := f.values[f.next%len(f.values)]
	f.next++
	return v
}

func (f *fixedSampler) Get2D() core.Vec2 {
	return core.NewVec2(f.Get1D(), f.Get1D())
}

// countingData counts reads of the tree and distant tables
type countingData struct {
	*Arrays
	nodeReads    int
	emitterReads int
	distantReads int
}

func (c *countingData) Node(index int) *Node {
	c.nodeReads++
	return c.Arrays.Node(index)
}

func (c *countingData) Emitter(index int) *Emitter {
	c.emitterReads++
	return c.Arrays.Emitter(index)
}

func (c *countingData) DistantLight(index int) *DistantEmitter {
	c.distantReads++
	return c.Arrays.DistantLight(index)
}

var omniCone = Cone{Axis: core.NewVec3(0, 0, 1), ThetaO: math32.Pi, ThetaE: math32.Pi / 2}

func pointEmitter(center core.Vec3, energy float32) Emitter {
	return Emitter{
		Bounds: core.NewAABB(center, center).Expand(0.1),
		Cone:   omniCone,
		Energy: energy,
	}
}

func leafNode(e Emitter, first int) Node {
	return Node{Bounds: e.Bounds, Cone: e.Cone, Energy: e.Energy, ChildIndex: -int32(first), NumPrims: 1}
}

// twoLeafTree builds a root with one emitter per leaf; both emitters are lamps
func twoLeafTree(left, right Emitter) *Arrays {
	root := Node{
		Bounds:     left.Bounds.Union(right.Bounds),
		Cone:       left.Cone.Merge(right.Cone),
		Energy:     left.Energy + right.Energy,
		ChildIndex: 2,
	}
	return &Arrays{
		Nodes:         []Node{root, leafNode(left, 0), leafNode(right, 1)},
		Emitters:      []Emitter{left, right},
		Distributions: []Distribution{LampLight(0), LampLight(1)},
	}
}

// singleLeafTree stores every emitter in one root leaf
func singleLeafTree(emitters ...Emitter) *Arrays {
	root := Node{Bounds: core.EmptyAABB(), Cone: EmptyCone, NumPrims: int32(len(emitters))}
	dists := make([]Distribution, len(emitters))
	for i, e := range emitters {
		root.Bounds = root.Bounds.Union(e.Bounds)
		root.Cone = root.Cone.Merge(e.Cone)
		root.Energy += e.Energy
		dists[i] = LampLight(i)
	}
	return &Arrays{
		Nodes:         []Node{root},
		Emitters:      emitters,
		Distributions: dists,
	}
}

var (
	origin = core.NewVec3(0, 0, 0)
	up     = core.NewVec3(0, 0, 1)
)
