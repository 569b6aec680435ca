package lighttree

// EmitterSelectionPDF returns the probability that SampleFromPosition picks
// tree emitter for the shading point of q. It retraces the one path through
// the tree that can lead to the emitter, so it agrees with sampling and can
// be used for multiple importance sampling.
func (s *Sampler) EmitterSelectionPDF(q Query, emitter int) float32 {
	if emitter < 0 || emitter >= s.data.NumEmitters() || s.data.NumNodes() == 0 {
		return 0
	}

	pdf := s.treeSelectionPDF(q, emitter)
	if pdf == 0 || s.data.NumDistantLights() == 0 {
		return pdf
	}
	pTree, ok := s.treeProbability(q)
	if !ok {
		return 0
	}
	return pdf * pTree
}

// DistantSelectionPDF returns the probability that SampleFromPosition picks
// distant light index.
func (s *Sampler) DistantSelectionPDF(q Query, index int) float32 {
	count := s.data.NumDistantLights()
	if index < 0 || index >= count {
		return 0
	}

	var total float32
	for i := 0; i < count; i++ {
		total += DistantImportance(s.data, q.P, q.N, i)
	}
	if !(total > 0) {
		return 0
	}
	pdf := DistantImportance(s.data, q.P, q.N, index) / total

	if s.data.NumDistribution()-count <= 0 {
		return pdf
	}
	pTree, ok := s.treeProbability(q)
	if !ok {
		return 0
	}
	return pdf * (1 - pTree)
}

func (s *Sampler) treeSelectionPDF(q Query, emitter int) float32 {
	numNodes := s.data.NumNodes()
	index := 0
	pdf := float32(1)
	node := s.data.Node(index)
	for !node.IsLeaf() {
		right := node.RightChild()
		if right <= index+1 || right >= numNodes {
			return 0
		}
		leftNode := s.data.Node(index + 1)
		rightNode := s.data.Node(right)

		leftImportance := ClusterImportance(q.P, q.N, leftNode)
		rightImportance := ClusterImportance(q.P, q.N, rightNode)
		total := leftImportance + rightImportance
		if !(total > 0) {
			return 0
		}

		if emitter < s.firstEmitterOf(right) {
			index++
			node = leftNode
			pdf *= leftImportance / total
		} else {
			index = right
			node = rightNode
			pdf *= 1 - leftImportance/total
		}
	}

	first := node.FirstEmitter()
	count := int(node.NumPrims)
	if emitter < first || emitter >= first+count || first+count > s.data.NumEmitters() {
		return 0
	}

	var totalImportance float32
	for i := first; i < first+count; i++ {
		totalImportance += EmitterImportance(s.data, q.P, q.N, i)
	}
	if totalImportance == 0 {
		return 0
	}
	return pdf * EmitterImportance(s.data, q.P, q.N, emitter) / totalImportance
}

// firstEmitterOf returns the first emitter below node index: leaves appear
// in emitter order, so it is the first emitter of the leftmost leaf.
func (s *Sampler) firstEmitterOf(index int) int {
	numNodes := s.data.NumNodes()
	node := s.data.Node(index)
	for !node.IsLeaf() && index+1 < numNodes {
		index++
		node = s.data.Node(index)
	}
	return node.FirstEmitter()
}

// SelectionPDF returns the selection probability of distribution entry
// index, counting tree emitters first and distant lights after them.
func (s *Sampler) SelectionPDF(q Query, index int) float32 {
	numEmitters := s.data.NumEmitters()
	if index < numEmitters {
		return s.EmitterSelectionPDF(q, index)
	}
	return s.DistantSelectionPDF(q, index-numEmitters)
}
