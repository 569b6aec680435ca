package lighttree

import (
	"fmt"

	"github.com/df07/go-lighttree/pkg/core"
)

// Validate checks that data describes a well-formed tree: pre-order layout
// rooted at 0, leaves covering the emitter table in order without gaps or
// overlap, and finite non-negative energies and cone angles.
func Validate(data SceneData) error {
	numNodes := data.NumNodes()
	numEmitters := data.NumEmitters()
	numDistant := data.NumDistantLights()

	if got := data.NumDistribution(); got != numEmitters+numDistant {
		return fmt.Errorf("%w: distribution has %d entries, expected %d emitters + %d distant",
			ErrMalformedTree, got, numEmitters, numDistant)
	}

	for i := 0; i < numDistant; i++ {
		d := data.DistantLight(i)
		if !core.IsFinite(d.Energy) || d.Energy < 0 {
			return fmt.Errorf("%w: distant light %d has energy %v", ErrMalformedTree, i, d.Energy)
		}
		if d.Lamp() < 0 {
			return fmt.Errorf("%w: distant light %d does not reference a lamp", ErrMalformedTree, i)
		}
	}

	for i := 0; i < numEmitters; i++ {
		e := data.Emitter(i)
		if err := checkRecord(e.Bounds, e.Cone, e.Energy); err != nil {
			return fmt.Errorf("%w: emitter %d: %v", ErrMalformedTree, i, err)
		}
	}

	if numEmitters == 0 {
		if numNodes != 0 {
			return fmt.Errorf("%w: %d nodes without emitters", ErrMalformedTree, numNodes)
		}
		return nil
	}
	if numNodes == 0 {
		return fmt.Errorf("%w: %d emitters without nodes", ErrMalformedTree, numEmitters)
	}

	v := validator{data: data}
	end, err := v.visit(0)
	if err != nil {
		return err
	}
	if end != numNodes {
		return fmt.Errorf("%w: tree reaches %d of %d nodes", ErrMalformedTree, end, numNodes)
	}
	if v.nextEmitter != numEmitters {
		return fmt.Errorf("%w: leaves cover %d of %d emitters", ErrMalformedTree, v.nextEmitter, numEmitters)
	}
	return nil
}

type validator struct {
	data        SceneData
	nextEmitter int
}

// visit checks the subtree at index and returns the index just past it
func (v *validator) visit(index int) (int, error) {
	numNodes := v.data.NumNodes()
	if index >= numNodes {
		return 0, fmt.Errorf("%w: node %d out of range", ErrMalformedTree, index)
	}
	node := v.data.Node(index)
	if err := checkRecord(node.Bounds, node.Cone, node.Energy); err != nil {
		return 0, fmt.Errorf("%w: node %d: %v", ErrMalformedTree, index, err)
	}

	if node.IsLeaf() {
		first := node.FirstEmitter()
		count := int(node.NumPrims)
		if count <= 0 {
			return 0, fmt.Errorf("%w: leaf %d has %d emitters", ErrMalformedTree, index, count)
		}
		if first != v.nextEmitter {
			return 0, fmt.Errorf("%w: leaf %d starts at emitter %d, expected %d",
				ErrMalformedTree, index, first, v.nextEmitter)
		}
		if first+count > v.data.NumEmitters() {
			return 0, fmt.Errorf("%w: leaf %d emitters [%d, %d) exceed table of %d",
				ErrMalformedTree, index, first, first+count, v.data.NumEmitters())
		}
		v.nextEmitter += count
		return index + 1, nil
	}

	right := node.RightChild()
	if right <= index+1 || right >= numNodes {
		return 0, fmt.Errorf("%w: node %d has right child %d", ErrMalformedTree, index, right)
	}
	leftEnd, err := v.visit(index + 1)
	if err != nil {
		return 0, err
	}
	if leftEnd != right {
		return 0, fmt.Errorf("%w: node %d right child %d, left subtree ends at %d",
			ErrMalformedTree, index, right, leftEnd)
	}
	return v.visit(right)
}

func checkRecord(bounds core.AABB, cone Cone, energy float32) error {
	if !core.IsFinite(energy) || energy < 0 {
		return fmt.Errorf("energy %v", energy)
	}
	if !bounds.IsValid() || !bounds.Min.IsFinite() || !bounds.Max.IsFinite() {
		return fmt.Errorf("bounds %v", bounds)
	}
	if !validAngle(cone.ThetaO) || !validAngle(cone.ThetaE) {
		return fmt.Errorf("cone angles (%v, %v)", cone.ThetaO, cone.ThetaE)
	}
	return nil
}
