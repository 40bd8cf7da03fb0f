package autodiff

import (
	"github.com/born-ml/autograd/internal/autodiff/ops"
	"github.com/born-ml/autograd/internal/tensor"
)

// Node records one application of an operation: the operation itself, the
// tracked tensors it consumed, and the storage versions of its output and of
// the values its backward pass reads.
//
// A node is created after all of its inputs exist, so producer links always
// point backwards in time. After a non-retained backward pass the node is
// released: everything except its identity is dropped and later traversals
// reaching it fail with ErrGraphAlreadyFreed.
//
// The output version catches writes through aliases of the output, such as a
// Detach or a view taken under NoGrad, which change the value downstream
// records consumed.
type Node struct {
	id         uint64
	name       string
	op         ops.Operation
	inputs     []*Tensor
	output     *Tensor
	saved      []*tensor.RawTensor
	versions   []uint64
	outVersion uint64
	released   bool
}

func (e *Engine) newNode(op ops.Operation, inputs []*Tensor, output *Tensor) *Node {
	saved := op.Saved()
	versions := make([]uint64, len(saved))
	for i, s := range saved {
		versions[i] = s.Version()
	}
	return &Node{
		id:         e.nextID.Add(1),
		name:       op.Name(),
		op:         op,
		inputs:     append([]*Tensor(nil), inputs...),
		output:     output,
		saved:      saved,
		versions:   versions,
		outVersion: output.raw.Version(),
	}
}

// ID returns the node's engine-unique identifier.
func (n *Node) ID() uint64 {
	return n.id
}

// Name returns the operation kind, e.g. "MatMul".
func (n *Node) Name() string {
	return n.name
}

// Inputs returns the tensors the operation consumed, or nil once released.
func (n *Node) Inputs() []*Tensor {
	return n.inputs
}

// Released reports whether a backward pass has freed this node.
func (n *Node) Released() bool {
	return n.released
}

// stale returns the index of the first saved tensor whose storage changed
// since the node was recorded, or -1.
func (n *Node) stale() int {
	for i, s := range n.saved {
		if s.Version() != n.versions[i] {
			return i
		}
	}
	return -1
}

// savedBytes returns the bytes held by saved tensors not already in seen.
func (n *Node) savedBytes(seen map[*tensor.RawTensor]bool) int {
	total := 0
	for _, s := range n.saved {
		if !seen[s] {
			seen[s] = true
			total += s.ByteSize()
		}
	}
	return total
}

func (n *Node) release() {
	n.op = nil
	n.inputs = nil
	n.output = nil
	n.saved = nil
	n.versions = nil
	n.released = true
}
