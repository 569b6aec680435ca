package lighttree

import (
	"sync/atomic"

	"github.com/df07/go-lighttree/pkg/core"
	"github.com/df07/go-lighttree/pkg/lights"
	"github.com/df07/go-lighttree/pkg/log"
)

// Query describes one light selection request from a path vertex
type Query struct {
	P, N core.Vec3

	// RandU and RandV are forwarded to the shape sampler. When both the tree
	// and distant lights are present RandU is first spent on choosing between
	// them and rescaled.
	RandU, RandV float32
	Time         float32

	Bounce   int
	PathFlag core.PathFlag
	Mode     core.SegmentMode
}

// Sampler selects lights from a light tree and its distant lights. A Sampler
// keeps no per-call state and is safe for concurrent use.
type Sampler struct {
	data   SceneData
	shapes lights.ShapeSampler
	logger log.Logger

	violations atomic.Int64
}

// NewSampler creates a sampler over data that delegates concrete samples to shapes
func NewSampler(data SceneData, shapes lights.ShapeSampler) *Sampler {
	return &Sampler{
		data:   data,
		shapes: shapes,
		logger: log.New("lighttree"),
	}
}

// Violations returns how many broken invariants sampling has run into
func (s *Sampler) Violations() int64 {
	return s.violations.Load()
}

// SampleFromPosition selects a light for the shading point of q and samples
// it. The returned PDF folds in the probability of every choice made on the
// way.
func (s *Sampler) SampleFromPosition(q Query, rng core.Sampler) (lights.LightSample, bool) {
	numDistant := s.data.NumDistantLights()
	numTreePrims := s.data.NumDistribution() - numDistant

	var (
		ls        lights.LightSample
		pdfFactor float32
		ok        bool
	)

	switch {
	case numTreePrims <= 0 && numDistant == 0:
		return lights.LightSample{}, false
	case numDistant == 0:
		ls, pdfFactor, ok = s.SampleTree(q, rng)
	case numTreePrims <= 0:
		ls, pdfFactor, ok = s.SampleDistant(q, rng)
	default:
		pTree, valid := s.treeProbability(q)
		if !valid {
			return lights.LightSample{}, false
		}
		if q.RandU < pTree {
			q.RandU = core.ClampUnit(q.RandU / pTree)
			ls, pdfFactor, ok = s.SampleTree(q, rng)
			pdfFactor *= pTree
		} else {
			q.RandU = core.ClampUnit((q.RandU - pTree) / (1 - pTree))
			ls, pdfFactor, ok = s.SampleDistant(q, rng)
			pdfFactor *= 1 - pTree
		}
	}

	ls.PDF *= pdfFactor
	return ls, ok
}

// treeProbability returns the chance of sampling the tree rather than the
// distant lights when both exist.
func (s *Sampler) treeProbability(q Query) (float32, bool) {
	if s.data.NumNodes() == 0 {
		s.violation("tree has emitters but no nodes")
		return 0, false
	}
	treeImportance := ClusterImportance(q.P, q.N, s.data.Node(0))
	distantImportance := s.totalDistantImportance(q)
	total := treeImportance + distantImportance
	if !(total > 0) {
		return 0, false
	}
	return treeImportance / total, true
}

func (s *Sampler) totalDistantImportance(q Query) float32 {
	var total float32
	for i := 0; i < s.data.NumDistantLights(); i++ {
		total += DistantImportance(s.data, q.P, q.N, i)
	}
	return total
}

// SampleTree descends the tree from the root, picks an emitter from the
// reached leaf and samples it. It draws a single number from rng for the
// whole descent. The returned factor is the probability of the emitter
// choice.
func (s *Sampler) SampleTree(q Query, rng core.Sampler) (lights.LightSample, float32, bool) {
	treeU := core.ClampUnit(rng.Get1D())

	leaf, treeU, pdfFactor, ok := s.descend(q, treeU)
	if !ok {
		return lights.LightSample{}, pdfFactor, false
	}

	emitter, emitterPDF, ok := s.sampleLeaf(q, leaf, treeU)
	if !ok {
		return lights.LightSample{}, pdfFactor, false
	}
	pdfFactor *= emitterPDF

	ls, ok := s.sampleEmitter(q, emitter)
	return ls, pdfFactor, ok
}

// descend walks interior nodes, splitting u between the children in
// proportion to their importance and rescaling it so it stays uniform.
func (s *Sampler) descend(q Query, u float32) (*Node, float32, float32, bool) {
	numNodes := s.data.NumNodes()
	if numNodes == 0 {
		s.violation("sampling an empty tree")
		return nil, u, 1, false
	}

	index := 0
	pdfFactor := float32(1)
	node := s.data.Node(index)
	for !node.IsLeaf() {
		// At an interior node the left child is directly next to the parent
		right := node.RightChild()
		if right <= index+1 || right >= numNodes {
			s.violation("node %d has right child %d outside (%d, %d)", index, right, index+1, numNodes)
			return nil, u, pdfFactor, false
		}
		leftNode := s.data.Node(index + 1)
		rightNode := s.data.Node(right)

		leftImportance := ClusterImportance(q.P, q.N, leftNode)
		rightImportance := ClusterImportance(q.P, q.N, rightNode)
		total := leftImportance + rightImportance
		if total == 0 {
			// Neither subtree can contribute
			return nil, u, pdfFactor, false
		}
		if !core.IsFinite(total) {
			s.violation("node %d has non-finite child importance %v", index, total)
			return nil, u, pdfFactor, false
		}

		leftProbability := leftImportance / total
		if u < leftProbability {
			index++
			node = leftNode
			u = core.ClampUnit(u * total / leftImportance)
			pdfFactor *= leftProbability
		} else {
			index = right
			node = rightNode
			u = core.ClampUnit((u*total - leftImportance) / rightImportance)
			pdfFactor *= 1 - leftProbability
		}
	}
	return node, u, pdfFactor, true
}

// sampleLeaf picks one emitter of leaf with a CDF walk over emitter
// importance and returns its index and probability.
func (s *Sampler) sampleLeaf(q Query, leaf *Node, u float32) (int, float32, bool) {
	first := leaf.FirstEmitter()
	count := int(leaf.NumPrims)
	if count <= 0 || first+count > s.data.NumEmitters() {
		s.violation("leaf emitters [%d, %d) outside emitter table of %d", first, first+count, s.data.NumEmitters())
		return 0, 0, false
	}

	var totalImportance float32
	lastNonZero := -1
	for i := 0; i < count; i++ {
		importance := EmitterImportance(s.data, q.P, q.N, first+i)
		totalImportance += importance
		if importance > 0 {
			lastNonZero = i
		}
	}
	if totalImportance == 0 {
		return 0, 0, false
	}

	index, pdf, ok := walkCDF(count, totalImportance, lastNonZero, u, func(i int) float32 {
		return EmitterImportance(s.data, q.P, q.N, first+i)
	})
	if !ok {
		s.violation("emitter CDF of leaf at %d exhausted with u=%v", first, u)
		return 0, 0, false
	}
	return first + index, pdf, true
}

// walkCDF finds the entry whose normalized CDF interval brackets u. The last
// entry with non-zero weight closes the walk so rounding in the running sum
// cannot skip past it.
func walkCDF(count int, total float32, lastNonZero int, u float32, weight func(int) float32) (int, float32, bool) {
	if !(u >= 0 && u < 1) {
		return 0, 0, false
	}
	var cdf float32
	for i := 0; i < count; i++ {
		pdf := weight(i) / total
		cdf += pdf
		if u < cdf || (i == lastNonZero && pdf > 0) {
			return i, pdf, true
		}
	}
	return 0, 0, false
}

// sampleEmitter resolves an emitter to its light and samples it
func (s *Sampler) sampleEmitter(q Query, emitter int) (lights.LightSample, bool) {
	dist := s.data.Distribution(emitter)

	if dist.IsMeshLight() {
		object := int(dist.Object)

		// Exclude synthetic meshes from the shadow catcher pass
		if q.PathFlag.Has(core.PathRayShadowCatcherPass) && !s.data.ObjectIsShadowCatcher(object) {
			return lights.LightSample{}, false
		}

		ls := s.shapes.SampleTriangle(int(dist.Prim), object, q.RandU, q.RandV, q.Time, q.P, q.Mode)
		ls.Shader |= dist.ShaderFlag
		return ls, ls.PDF > 0
	}

	lamp := dist.Lamp()
	if s.data.LightReachedMaxBounces(lamp, q.Bounce) {
		return lights.LightSample{}, false
	}
	return s.shapes.SampleLamp(lamp, q.RandU, q.RandV, q.P, q.PathFlag, q.Mode)
}

// SampleDistant picks one distant light in proportion to its energy and
// samples it. The returned factor is the probability of that choice.
func (s *Sampler) SampleDistant(q Query, rng core.Sampler) (lights.LightSample, float32, bool) {
	count := s.data.NumDistantLights()

	var totalImportance float32
	lastNonZero := -1
	for i := 0; i < count; i++ {
		importance := DistantImportance(s.data, q.P, q.N, i)
		totalImportance += importance
		if importance > 0 {
			lastNonZero = i
		}
	}

	distantU := core.ClampUnit(rng.Get1D())
	if !(totalImportance > 0) {
		return lights.LightSample{}, 1, false
	}

	index, pdf, ok := walkCDF(count, totalImportance, lastNonZero, distantU, func(i int) float32 {
		return DistantImportance(s.data, q.P, q.N, i)
	})
	if !ok {
		s.violation("distant light CDF exhausted with u=%v", distantU)
		return lights.LightSample{}, 1, false
	}

	lamp := s.data.DistantLight(index).Lamp()
	if s.data.LightReachedMaxBounces(lamp, q.Bounce) {
		return lights.LightSample{}, pdf, false
	}
	ls, ok := s.shapes.SampleLamp(lamp, q.RandU, q.RandV, q.P, q.PathFlag, q.Mode)
	return ls, pdf, ok
}
