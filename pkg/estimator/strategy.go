package estimator

import (
	"fmt"

	"github.com/df07/go-lighttree/pkg/core"
	"github.com/df07/go-lighttree/pkg/lights"
	"github.com/df07/go-lighttree/pkg/lighttree"
)

// Strategy selects one light for a shading point and samples it. The PDF
// of the returned sample includes the selection probability.
type Strategy interface {
	Name() string
	Sample(q lighttree.Query, rng core.Sampler) (lights.LightSample, bool)
}

// TreeStrategy selects lights with the light tree
type TreeStrategy struct {
	sampler *lighttree.Sampler
}

// NewTreeStrategy wraps a light tree sampler
func NewTreeStrategy(sampler *lighttree.Sampler) *TreeStrategy {
	return &TreeStrategy{sampler: sampler}
}

func (t *TreeStrategy) Name() string { return "tree" }

func (t *TreeStrategy) Sample(q lighttree.Query, rng core.Sampler) (lights.LightSample, bool) {
	return t.sampler.SampleFromPosition(q, rng)
}

// WeightedStrategy selects lights with fixed weights that ignore the shading
// point. By default every emitter and distant light is weighted by its
// energy.
type WeightedStrategy struct {
	data    lighttree.SceneData
	shapes  lights.ShapeSampler
	weights []float32
}

// NewWeightedStrategy creates an energy weighted strategy. If all energies
// are zero every light gets the same weight.
func NewWeightedStrategy(data lighttree.SceneData, shapes lights.ShapeSampler) *WeightedStrategy {
	numEmitters := data.NumEmitters()
	weights := make([]float32, numEmitters+data.NumDistantLights())
	for i := range weights {
		if i < numEmitters {
			weights[i] = data.Emitter(i).Energy
		} else {
			weights[i] = data.DistantLight(i - numEmitters).Energy
		}
	}
	return NewWeightedStrategyWithWeights(data, shapes, weights)
}

// NewWeightedStrategyWithWeights creates a strategy with explicit weights,
// tree emitters first and distant lights after them. Weights are normalized
// to sum to one.
func NewWeightedStrategyWithWeights(data lighttree.SceneData, shapes lights.ShapeSampler, weights []float32) *WeightedStrategy {
	count := data.NumEmitters() + data.NumDistantLights()
	if len(weights) != count {
		panic(fmt.Sprintf("lights count (%d) must match weights length (%d)", count, len(weights)))
	}

	normalized := make([]float32, len(weights))
	var total float32
	for _, weight := range weights {
		if weight < 0 {
			panic("weights must be non-negative")
		}
		total += weight
	}

	for i, weight := range weights {
		if total == 0 {
			normalized[i] = 1 / float32(len(weights))
		} else {
			normalized[i] = weight / total
		}
	}

	return &WeightedStrategy{data: data, shapes: shapes, weights: normalized}
}

func (w *WeightedStrategy) Name() string { return "weighted" }

// Probability returns the fixed selection probability of entry index
func (w *WeightedStrategy) Probability(index int) float32 {
	if index < 0 || index >= len(w.weights) {
		return 0
	}
	return w.weights[index]
}

func (w *WeightedStrategy) Sample(q lighttree.Query, rng core.Sampler) (lights.LightSample, bool) {
	if len(w.weights) == 0 {
		return lights.LightSample{}, false
	}

	u := rng.Get1D()
	index := len(w.weights) - 1
	var cumulative float32
	for i, weight := range w.weights {
		cumulative += weight
		if u < cumulative {
			index = i
			break
		}
	}
	probability := w.weights[index]
	if probability == 0 {
		return lights.LightSample{}, false
	}

	ls, ok := w.sampleEntry(q, index)
	ls.PDF *= probability
	return ls, ok && ls.PDF > 0
}

// sampleEntry applies the same light linking and bounce rules as the tree
func (w *WeightedStrategy) sampleEntry(q lighttree.Query, index int) (lights.LightSample, bool) {
	numEmitters := w.data.NumEmitters()
	if index >= numEmitters {
		lamp := w.data.DistantLight(index - numEmitters).Lamp()
		if w.data.LightReachedMaxBounces(lamp, q.Bounce) {
			return lights.LightSample{}, false
		}
		return w.shapes.SampleLamp(lamp, q.RandU, q.RandV, q.P, q.PathFlag, q.Mode)
	}

	dist := w.data.Distribution(index)
	if dist.IsMeshLight() {
		object := int(dist.Object)
		if q.PathFlag.Has(core.PathRayShadowCatcherPass) && !w.data.ObjectIsShadowCatcher(object) {
			return lights.LightSample{}, false
		}
		ls := w.shapes.SampleTriangle(int(dist.Prim), object, q.RandU, q.RandV, q.Time, q.P, q.Mode)
		ls.Shader |= dist.ShaderFlag
		return ls, ls.PDF > 0
	}

	lamp := dist.Lamp()
	if w.data.LightReachedMaxBounces(lamp, q.Bounce) {
		return lights.LightSample{}, false
	}
	return w.shapes.SampleLamp(lamp, q.RandU, q.RandV, q.P, q.PathFlag, q.Mode)
}
