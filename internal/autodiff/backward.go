package autodiff

import (
	"github.com/emirpasic/gods/v2/queues/linkedlistqueue"
	"github.com/emirpasic/gods/v2/stacks/arraystack"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/autograd/internal/tensor"
)

// BackwardOption configures a backward pass.
type BackwardOption func(*backwardConfig)

type backwardConfig struct {
	seed        *tensor.RawTensor
	retainGraph bool
}

// WithSeed sets the gradient of the root. It must have the root's shape and
// is cast to the root's dtype. Required for roots with more than one element.
func WithSeed(seed *tensor.RawTensor) BackwardOption {
	return func(c *backwardConfig) { c.seed = seed }
}

// RetainGraph keeps the visited nodes alive so the graph can be
// differentiated again.
func RetainGraph() BackwardOption {
	return func(c *backwardConfig) { c.retainGraph = true }
}

// Backward differentiates t with respect to every tracked leaf it depends on.
// See Engine.Backward.
func (t *Tensor) Backward(opts ...BackwardOption) error {
	return t.engine.Backward(t, opts...)
}

// Backward propagates gradients from root to the tracked leaves reachable
// through producer links and adds them into the leaves' gradient slots.
//
// Algorithm:
//  1. Validate the seed and discover every reachable node, counting how many
//     reachable nodes consume each one. Released, stale and cyclic graphs are
//     rejected here, before any gradient is computed.
//  2. Process nodes in reverse topological order (Kahn's algorithm): a node
//     runs once all of its consumers have contributed to its upstream
//     gradient, and runs exactly once.
//  3. Release every visited node unless RetainGraph was given.
func (e *Engine) Backward(root *Tensor, opts ...BackwardOption) error {
	var cfg backwardConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if !root.RequiresGrad() || root.node == nil {
		return errors.Wrapf(ErrNoGradientPath, "backward on %s", root)
	}
	if root.node.released {
		return errors.Wrapf(ErrGraphAlreadyFreed, "backward on %s", root)
	}
	seed, err := e.seed(root, cfg.seed)
	if err != nil {
		return err
	}
	nodes, consumers, err := e.discover(root.node)
	if err != nil {
		return err
	}

	traceID := uuid.NewString()
	klog.V(2).Infof("backward[%s] %s: root=%s nodes=%d retain=%t", traceID, e.name, root, len(nodes), cfg.retainGraph)

	visited, err := e.propagate(root.node, seed, consumers, traceID)
	if err != nil {
		return err
	}
	if visited != len(nodes) {
		return errors.Wrapf(ErrCycleDetected, "backward visited %d of %d nodes", visited, len(nodes))
	}

	if !cfg.retainGraph {
		freed := 0
		seen := make(map[*tensor.RawTensor]bool)
		for _, n := range nodes {
			freed += n.savedBytes(seen)
			n.release()
		}
		klog.V(1).Infof("backward[%s] %s: released %d nodes (%d saved bytes)", traceID, e.name, len(nodes), freed)
	}
	return nil
}

// seed returns the root gradient, defaulting to one for single-element roots.
func (e *Engine) seed(root *Tensor, seed *tensor.RawTensor) (*tensor.RawTensor, error) {
	if seed == nil {
		if root.NumElements() != 1 {
			return nil, errors.Wrapf(ErrAmbiguousGradient, "root has shape %v", root.Shape())
		}
		return e.backend.Full(root.Shape(), root.DType(), 1), nil
	}
	if !seed.Shape().Equal(root.Shape()) {
		return nil, errors.Wrapf(ErrShapeMismatch, "seed shape %v, root shape %v", seed.Shape(), root.Shape())
	}
	if seed.DType() != root.DType() {
		seed = e.backend.Cast(seed, root.DType())
	}
	return seed, nil
}

type visitState uint8

const (
	unvisited visitState = iota
	onStack
	done
)

type frame struct {
	node *Node
	next int
}

// discover walks the graph depth-first from root. It returns the reachable
// nodes in post-order and, per node, the number of edges from reachable
// consumers.
func (e *Engine) discover(root *Node) ([]*Node, map[*Node]int, error) {
	var nodes []*Node
	consumers := make(map[*Node]int)
	state := make(map[*Node]visitState)

	if err := e.validate(root); err != nil {
		return nil, nil, err
	}
	stack := arraystack.New[*frame]()
	stack.Push(&frame{node: root})
	state[root] = onStack

	for !stack.Empty() {
		f, _ := stack.Peek()
		if f.next == len(f.node.inputs) {
			stack.Pop()
			state[f.node] = done
			nodes = append(nodes, f.node)
			continue
		}

		child := f.node.inputs[f.next].node
		f.next++
		if child == nil {
			continue
		}
		consumers[child]++
		switch state[child] {
		case onStack:
			return nil, nil, errors.Wrapf(ErrCycleDetected, "%s#%d reaches itself", child.name, child.id)
		case done:
			continue
		}
		if err := e.validate(child); err != nil {
			return nil, nil, err
		}
		state[child] = onStack
		stack.Push(&frame{node: child})
	}
	return nodes, consumers, nil
}

// validate rejects released nodes and nodes whose output or saved values
// changed.
func (e *Engine) validate(n *Node) error {
	if n.released {
		return errors.Wrapf(ErrGraphAlreadyFreed, "node %s#%d", n.name, n.id)
	}
	if !e.staleCheck {
		return nil
	}
	if i := n.stale(); i >= 0 {
		return errors.Wrapf(ErrStaleIntermediate, "node %s#%d: saved tensor %d is at version %d, recorded %d",
			n.name, n.id, i, n.saved[i].Version(), n.versions[i])
	}
	if v := n.output.raw.Version(); v != n.outVersion {
		return errors.Wrapf(ErrStaleIntermediate, "node %s#%d: output is at version %d, recorded %d",
			n.name, n.id, v, n.outVersion)
	}
	return nil
}

// propagate runs the local gradient functions in reverse topological order
// and returns how many nodes it processed.
func (e *Engine) propagate(root *Node, seed *tensor.RawTensor, consumers map[*Node]int, traceID string) (int, error) {
	pending := map[*Node]*tensor.RawTensor{root: seed}
	queue := linkedlistqueue.New[*Node]()
	queue.Enqueue(root)

	visited := 0
	for !queue.Empty() {
		n, _ := queue.Dequeue()
		visited++
		upstream := pending[n]
		delete(pending, n)

		var grads []*tensor.RawTensor
		if upstream != nil {
			if n.output != nil && n.output.retainsGrad() {
				n.output.accumulate(upstream)
			}
			grads = n.op.Backward(upstream, e.backend)
			if len(grads) != len(n.inputs) {
				return visited, errors.Errorf("internal error: %s#%d returned %d gradients for %d inputs",
					n.name, n.id, len(grads), len(n.inputs))
			}
			klog.V(2).Infof("backward[%s] ran %s#%d", traceID, n.name, n.id)
		}

		for i, in := range n.inputs {
			var g *tensor.RawTensor
			if grads != nil {
				g = grads[i]
			}
			if g != nil && in.RequiresGrad() {
				if !g.Shape().Equal(in.Shape()) {
					return visited, errors.Errorf("internal error: %s#%d gradient %d has shape %v, input has %v",
						n.name, n.id, i, g.Shape(), in.Shape())
				}
				if g.DType() != in.DType() {
					g = e.backend.Cast(g, in.DType())
				}
			}

			if in.node == nil {
				if g != nil && in.RequiresGrad() {
					in.accumulate(g)
				}
				continue
			}
			if g != nil {
				if prev, ok := pending[in.node]; ok {
					pending[in.node] = e.backend.Add(prev, g)
				} else {
					pending[in.node] = g
				}
			}
			consumers[in.node]--
			if consumers[in.node] == 0 {
				queue.Enqueue(in.node)
			}
		}
	}
	return visited, nil
}
