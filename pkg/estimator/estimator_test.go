package estimator

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-lighttree/pkg/core"
	"github.com/df07/go-lighttree/pkg/lights"
	"github.com/df07/go-lighttree/pkg/lighttree"
	"github.com/df07/go-lighttree/pkg/scene"
)

func gridScene(t *testing.T) *scene.Scene {
	t.Helper()
	s, err := scene.New(scene.NewGridScene(scene.DefaultGridConfig()))
	require.NoError(t, err)
	return s
}

var receiver = Receiver{P: core.NewVec3(0.3, -0.2, 0), N: core.NewVec3(0, 0, 1)}

func TestRun_IndependentOfWorkerCount(t *testing.T) {
	s := gridScene(t)
	strategy := NewTreeStrategy(s.NewSampler())

	opts := Options{Samples: 5000, BatchSize: 300, Seed: 7}
	opts.Workers = 1
	single, err := Run(context.Background(), strategy, receiver, opts)
	require.NoError(t, err)

	opts.Workers = 4
	parallel, err := Run(context.Background(), strategy, receiver, opts)
	require.NoError(t, err)

	assert.Equal(t, 5000, single.Samples)
	assert.Equal(t, single.Samples, parallel.Samples)
	assert.Equal(t, single.Successes, parallel.Successes)
	assert.Equal(t, single.Sum, parallel.Sum)
	assert.Equal(t, single.Selections, parallel.Selections)
	assert.Equal(t, "tree", single.Strategy)
}

func TestCompare_StrategiesAgree(t *testing.T) {
	s := gridScene(t)
	strategies := []Strategy{
		NewTreeStrategy(s.NewSampler()),
		NewWeightedStrategy(s.Tree, s.Lights),
	}

	results, err := Compare(context.Background(), strategies, receiver, Options{Samples: 60000, Seed: 3})
	require.NoError(t, err)
	require.Len(t, results, 2)

	tree, weighted := results[0], results[1]
	assert.Greater(t, tree.Mean(), 0.0)
	sigma := math.Hypot(tree.StdError(), weighted.StdError())
	assert.InDelta(t, weighted.Mean(), tree.Mean(), 6*sigma,
		"tree %.4f ± %.4f, weighted %.4f ± %.4f", tree.Mean(), tree.StdError(), weighted.Mean(), weighted.StdError())

	for _, r := range results {
		assert.Greater(t, r.Variance(), 0.0, r.Strategy)
		assert.False(t, math.IsInf(r.Variance(), 0), r.Strategy)
	}
}

func TestRun_TreeFrequenciesMatchSelectionPDF(t *testing.T) {
	s := gridScene(t)
	sampler := s.NewSampler()

	const samples = 50000
	result, err := Run(context.Background(), NewTreeStrategy(sampler), receiver, Options{Samples: samples, Seed: 11})
	require.NoError(t, err)

	q := lighttree.Query{P: receiver.P, N: receiver.N}
	for i, d := range s.Tree.Distributions {
		if !d.IsMeshLight() {
			continue
		}
		expected := float64(sampler.SelectionPDF(q, i))
		got := result.Frequency(LightKey{Lamp: -1, Prim: int(d.Prim)})
		assert.InDelta(t, expected, got, 0.005, "triangle %d", d.Prim)
	}
}

func TestRun_Errors(t *testing.T) {
	s := gridScene(t)
	strategy := NewTreeStrategy(s.NewSampler())

	_, err := Run(context.Background(), strategy, receiver, Options{Samples: 0})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, strategy, receiver, Options{Samples: 1000, BatchSize: 10})
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestWeightedStrategy_Probabilities(t *testing.T) {
	data := &lighttree.Arrays{
		Emitters:      []lighttree.Emitter{{Energy: 1}, {Energy: 3}},
		Distributions: []lighttree.Distribution{lighttree.LampLight(0), lighttree.LampLight(1)},
		Distant:       []lighttree.DistantEmitter{lighttree.DistantLamp(2, 4)},
	}
	table := &lights.Table{Lamps: []lights.Lamp{
		{Type: lights.LightTypePoint, Position: core.NewVec3(-1, 0, 2), Strength: core.NewVec3(1, 1, 1), MaxBounces: 8},
		{Type: lights.LightTypePoint, Position: core.NewVec3(1, 0, 2), Strength: core.NewVec3(3, 3, 3), MaxBounces: 8},
		{Type: lights.LightTypeBackground, Strength: core.NewVec3(4, 4, 4), MaxBounces: 8},
	}}

	weighted := NewWeightedStrategy(data, table)
	assert.InDelta(t, 0.125, weighted.Probability(0), 1e-7)
	assert.InDelta(t, 0.375, weighted.Probability(1), 1e-7)
	assert.InDelta(t, 0.5, weighted.Probability(2), 1e-7)
	assert.Zero(t, weighted.Probability(3))

	tests := []struct {
		u            float32
		expectedLamp int
	}{
		{0.1, 0},
		{0.2, 1},
		{0.6, 2},
		{core.OneMinusEpsilon, 2},
	}
	for _, tt := range tests {
		q := lighttree.Query{P: core.NewVec3(0, 0, 0), N: core.NewVec3(0, 0, 1), RandU: 0.5, RandV: 0.5}
		ls, ok := weighted.Sample(q, constSampler(tt.u))
		require.True(t, ok, "u=%v", tt.u)
		assert.Equal(t, tt.expectedLamp, ls.Lamp, "u=%v", tt.u)
	}

	uniform := NewWeightedStrategyWithWeights(data, table, []float32{0, 0, 0})
	assert.InDelta(t, 1.0/3, uniform.Probability(1), 1e-7)

	assert.Panics(t, func() { NewWeightedStrategyWithWeights(data, table, []float32{1}) })
	assert.Panics(t, func() { NewWeightedStrategyWithWeights(data, table, []float32{1, -1, 1}) })
}

func TestWeightedStrategy_Rejections(t *testing.T) {
	data := &lighttree.Arrays{
		Emitters:       []lighttree.Emitter{{Energy: 1}},
		Distributions:  []lighttree.Distribution{lighttree.MeshLight(0, 0, lights.ShaderUseMIS)},
		Distant:        []lighttree.DistantEmitter{lighttree.DistantLamp(0, 1)},
		ObjectFlags:    []core.ObjectFlag{0},
		LampMaxBounces: []int{1},
	}
	table := &lights.Table{
		Triangles: []lights.Triangle{{
			V0:       core.NewVec3(0, 0, 2),
			V1:       core.NewVec3(0, 1, 2),
			V2:       core.NewVec3(1, 0, 2),
			Emission: core.NewVec3(1, 1, 1),
		}},
		Lamps: []lights.Lamp{{Type: lights.LightTypeSun, Direction: core.NewVec3(0, 0, -1), Strength: core.NewVec3(1, 1, 1), MaxBounces: 1}},
	}
	weighted := NewWeightedStrategy(data, table)
	q := lighttree.Query{P: core.NewVec3(0.1, 0.1, 0), N: core.NewVec3(0, 0, 1), RandU: 0.3, RandV: 0.3}

	ls, ok := weighted.Sample(q, constSampler(0.2))
	require.True(t, ok)
	assert.Equal(t, lights.ShaderUseMIS, ls.Shader&lights.ShaderUseMIS)
	assert.InDelta(t, 0.5, ls.PDF/table.Triangles[0].Sample(0.3, 0.3, q.P).PDF, 1e-5)

	shadowPass := q
	shadowPass.PathFlag = core.PathRayShadowCatcherPass
	_, ok = weighted.Sample(shadowPass, constSampler(0.2))
	assert.False(t, ok)

	deep := q
	deep.Bounce = 2
	_, ok = weighted.Sample(deep, constSampler(0.8))
	assert.False(t, ok)
}

// constSampler returns the same value on every draw
type constSampler float32

func (c constSampler) Get1D() float32 { return float32(c) }
func (c constSampler) Get2D() core.Vec2 {
	return core.NewVec2(float32(c), float32(c))
}
