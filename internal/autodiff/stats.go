package autodiff

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/emirpasic/gods/v2/stacks/arraystack"
	"github.com/pkg/errors"

	"github.com/born-ml/autograd/internal/tensor"
)

// GraphStats summarizes the graph reachable from a root.
type GraphStats struct {
	Nodes      int            // reachable operation nodes
	Leaves     int            // distinct tracked leaves
	SavedBytes uint64         // bytes held by saved tensors, counted once each
	Ops        map[string]int // nodes per operation kind
}

// String formats the stats for logs.
func (s GraphStats) String() string {
	return fmt.Sprintf("%d nodes, %d leaves, %s saved", s.Nodes, s.Leaves, humanize.Bytes(s.SavedBytes))
}

// Stats inspects the graph reachable from root without modifying it.
func (e *Engine) Stats(root *Tensor) (GraphStats, error) {
	stats := GraphStats{Ops: make(map[string]int)}
	if root.node == nil {
		return stats, errors.Wrapf(ErrNoGradientPath, "stats on %s", root)
	}

	seenNodes := map[*Node]bool{root.node: true}
	seenLeaves := make(map[*Tensor]bool)
	seenSaved := make(map[*tensor.RawTensor]bool)

	stack := arraystack.New[*Node]()
	stack.Push(root.node)
	for !stack.Empty() {
		n, _ := stack.Pop()
		if n.released {
			return stats, errors.Wrapf(ErrGraphAlreadyFreed, "node %s#%d", n.name, n.id)
		}
		stats.Nodes++
		stats.Ops[n.name]++
		stats.SavedBytes += uint64(n.savedBytes(seenSaved))

		for _, in := range n.inputs {
			switch {
			case in.node != nil && !seenNodes[in.node]:
				seenNodes[in.node] = true
				stack.Push(in.node)
			case in.node == nil && in.RequiresGrad() && !seenLeaves[in]:
				seenLeaves[in] = true
				stats.Leaves++
			}
		}
	}
	return stats, nil
}
