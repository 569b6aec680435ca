package lighttree

import (
	"fmt"
	"sort"
	"time"

	"github.com/df07/go-lighttree/pkg/core"
	"github.com/df07/go-lighttree/pkg/log"
)

// DefaultMaxLeafSize is the leaf size used when BuildOptions leaves it unset
const DefaultMaxLeafSize = 1

// Primitive is a light with finite bounds handed to Build
type Primitive struct {
	Bounds       core.AABB
	Cone         Cone
	Energy       float32
	Distribution Distribution
}

// BuildOptions tune tree construction
type BuildOptions struct {
	// Largest number of emitters stored in one leaf
	MaxLeafSize int
}

type buildStats struct {
	nodes    int
	leaves   int
	maxDepth int
}

type builder struct {
	logger log.Logger

	// Tree nodes stored as a contiguous pre-order list
	nodes    []Node
	emitters []Emitter
	dists    []Distribution

	maxLeafSize int
	stats       buildStats
}

// Build constructs the flat light tree over prims and records the distant
// lights. Emitters and their distribution entries are reordered to match the
// leaf order of the tree.
func Build(prims []Primitive, distant []DistantEmitter, opts BuildOptions) (*Arrays, error) {
	if len(prims) == 0 && len(distant) == 0 {
		return nil, ErrNoEmitters
	}
	if opts.MaxLeafSize == 0 {
		opts.MaxLeafSize = DefaultMaxLeafSize
	}
	if opts.MaxLeafSize < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLeafSize, opts.MaxLeafSize)
	}

	for i, p := range prims {
		if err := checkRecord(p.Bounds, p.Cone, p.Energy); err != nil {
			return nil, fmt.Errorf("%w: primitive %d: %v", ErrInvalidEmitter, i, err)
		}
	}
	for i, d := range distant {
		if !core.IsFinite(d.Energy) || d.Energy < 0 {
			return nil, fmt.Errorf("%w: distant light %d has energy %v", ErrInvalidEmitter, i, d.Energy)
		}
	}

	b := &builder{
		logger:      log.New("builder"),
		nodes:       make([]Node, 0, 2*len(prims)),
		emitters:    make([]Emitter, 0, len(prims)),
		dists:       make([]Distribution, 0, len(prims)),
		maxLeafSize: opts.MaxLeafSize,
	}

	start := time.Now()
	if len(prims) > 0 {
		// Work on a copy, partitioning sorts in place
		work := make([]Primitive, len(prims))
		copy(work, prims)
		b.partition(work, 0)
	}
	b.logger.Debugf(
		"light tree build time: %d ms, maxDepth: %d, nodes: %d, leaves: %d, distant: %d",
		time.Since(start).Milliseconds(),
		b.stats.maxDepth, b.stats.nodes, b.stats.leaves, len(distant),
	)

	return &Arrays{
		Nodes:         b.nodes,
		Emitters:      b.emitters,
		Distributions: b.dists,
		Distant:       append([]DistantEmitter(nil), distant...),
	}, nil
}

// partition appends the subtree for work and returns its node index
func (b *builder) partition(work []Primitive, depth int) int {
	b.stats.maxDepth = max(b.stats.maxDepth, depth)
	b.stats.nodes++

	node := Node{
		Bounds: core.EmptyAABB(),
		Cone:   EmptyCone,
	}
	centroids := core.EmptyAABB()
	for _, p := range work {
		node.Bounds = node.Bounds.Union(p.Bounds)
		node.Cone = node.Cone.Merge(p.Cone)
		node.Energy += p.Energy
		centroids = centroids.Grow(p.Bounds.Center())
	}

	index := len(b.nodes)
	b.nodes = append(b.nodes, node)

	if len(work) <= b.maxLeafSize {
		b.createLeaf(index, work)
		return index
	}

	// Median split along the longest axis of the centroids
	axis := centroids.LongestAxis()
	sort.SliceStable(work, func(i, j int) bool {
		return work[i].Bounds.Center().Axis(axis) < work[j].Bounds.Center().Axis(axis)
	})
	mid := len(work) / 2

	// The left child lands right after its parent
	b.partition(work[:mid], depth+1)
	right := b.partition(work[mid:], depth+1)
	b.nodes[index].ChildIndex = int32(right)
	return index
}

func (b *builder) createLeaf(index int, work []Primitive) {
	b.stats.leaves++
	b.nodes[index].ChildIndex = -int32(len(b.emitters))
	b.nodes[index].NumPrims = int32(len(work))
	for _, p := range work {
		b.emitters = append(b.emitters, Emitter{Bounds: p.Bounds, Cone: p.Cone, Energy: p.Energy})
		b.dists = append(b.dists, p.Distribution)
	}
}
