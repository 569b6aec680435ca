package lighttree

import "fmt"

// TreeStats summarizes the shape of a light tree
type TreeStats struct {
	Nodes         int
	Leaves        int
	MaxDepth      int
	MaxLeafSize   int
	Emitters      int
	DistantLights int
	TotalEnergy   float32
}

// ComputeStats walks a tree that passed Validate
func ComputeStats(data SceneData) TreeStats {
	stats := TreeStats{
		Nodes:         data.NumNodes(),
		Emitters:      data.NumEmitters(),
		DistantLights: data.NumDistantLights(),
	}
	if stats.Nodes > 0 {
		stats.TotalEnergy = data.Node(0).Energy
		stats.walk(data, 0, 0)
	}
	for i := 0; i < stats.DistantLights; i++ {
		stats.TotalEnergy += data.DistantLight(i).Energy
	}
	return stats
}

func (s *TreeStats) walk(data SceneData, index, depth int) {
	s.MaxDepth = max(s.MaxDepth, depth)
	node := data.Node(index)
	if node.IsLeaf() {
		s.Leaves++
		s.MaxLeafSize = max(s.MaxLeafSize, int(node.NumPrims))
		return
	}
	s.walk(data, index+1, depth+1)
	s.walk(data, node.RightChild(), depth+1)
}

// String returns a one-line summary
func (s TreeStats) String() string {
	return fmt.Sprintf("LightTree{%d nodes, %d leaves, depth %d, max leaf %d, %d emitters, %d distant}",
		s.Nodes, s.Leaves, s.MaxDepth, s.MaxLeafSize, s.Emitters, s.DistantLights)
}
