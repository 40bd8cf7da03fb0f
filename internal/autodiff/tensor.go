package autodiff

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/born-ml/autograd/internal/tensor"
)

// Tensor is a value tracked by an Engine.
//
// Leaves are created by the engine (or by Detach) and own a gradient slot
// that backward passes accumulate into. Non-leaves are created by operations
// and carry a producer Node.
type Tensor struct {
	engine       *Engine
	raw          *tensor.RawTensor
	requiresGrad atomic.Bool
	node         *Node
	name         string

	mu         sync.Mutex // guards grad and retainGrad
	grad       *tensor.RawTensor
	retainGrad bool
}

// Engine returns the engine that owns the tensor.
func (t *Tensor) Engine() *Engine { return t.engine }

// Raw returns the underlying RawTensor.
func (t *Tensor) Raw() *tensor.RawTensor { return t.raw }

// Shape returns the tensor's shape.
func (t *Tensor) Shape() tensor.Shape { return t.raw.Shape() }

// DType returns the tensor's data type.
func (t *Tensor) DType() tensor.DataType { return t.raw.DType() }

// Device returns the tensor's compute device.
func (t *Tensor) Device() tensor.Device { return t.raw.Device() }

// NumElements returns the number of elements.
func (t *Tensor) NumElements() int { return t.raw.NumElements() }

// Item returns the value of a one-element tensor.
func (t *Tensor) Item() float64 { return t.raw.Item() }

// Float64s returns a copy of the elements as float64.
func (t *Tensor) Float64s() []float64 { return t.raw.Float64s() }

// RequiresGrad reports whether gradients flow to this tensor.
func (t *Tensor) RequiresGrad() bool { return t.requiresGrad.Load() }

// IsLeaf reports whether the tensor has no producer.
func (t *Tensor) IsLeaf() bool { return t.node == nil }

// GradFn returns the producer node, or nil for leaves.
func (t *Tensor) GradFn() *Node { return t.node }

// Name returns the debug name.
func (t *Tensor) Name() string { return t.name }

// SetName sets a debug name shown by String and in logs.
func (t *Tensor) SetName(name string) *Tensor {
	t.name = name
	return t
}

// SetRequiresGrad toggles gradient tracking on a leaf.
func (t *Tensor) SetRequiresGrad(requiresGrad bool) error {
	if t.node != nil {
		return errors.Errorf("cannot change requires_grad of non-leaf tensor produced by %s", t.node.name)
	}
	if requiresGrad && !t.DType().IsFloat() {
		return errors.Errorf("requires_grad needs a floating point dtype, got %s", t.DType())
	}
	t.requiresGrad.Store(requiresGrad)
	return nil
}

// Grad returns the accumulated gradient, or nil if none was accumulated
// since creation or the last ZeroGrad.
func (t *Tensor) Grad() *tensor.RawTensor {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.grad
}

// ZeroGrad empties the gradient slot.
func (t *Tensor) ZeroGrad() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.grad = nil
}

// RetainGrad makes a non-leaf keep the gradient it receives during backward.
// It has no effect on leaves, which always keep theirs.
func (t *Tensor) RetainGrad() {
	if t.node == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.retainGrad = true
}

func (t *Tensor) retainsGrad() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.retainGrad
}

// Detach returns a new untracked leaf sharing storage with t.
func (t *Tensor) Detach() *Tensor {
	return &Tensor{engine: t.engine, raw: t.raw.Clone(), name: t.name}
}

// accumulate adds g into the gradient slot, zero-initializing it on first use.
func (t *Tensor) accumulate(g *tensor.RawTensor) {
	backend := t.engine.backend
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.grad == nil {
		t.grad = backend.Zeros(t.Shape(), t.DType())
	}
	sum := backend.Add(t.grad, g)
	if sum.DType() != t.DType() {
		sum = backend.Cast(sum, t.DType())
	}
	t.grad = sum
}

// String returns a short description of the tensor.
func (t *Tensor) String() string {
	name := t.name
	if name == "" {
		name = "tensor"
	}
	if t.node != nil {
		return fmt.Sprintf("%s[%s]%v grad_fn=%s#%d", name, t.DType(), t.Shape(), t.node.name, t.node.id)
	}
	return fmt.Sprintf("%s[%s]%v requires_grad=%t", name, t.DType(), t.Shape(), t.RequiresGrad())
}

// checkInPlace rejects writes the graph cannot account for. A non-leaf that
// requires grad is never writable: no record covers the write, and views of
// tracked leaves are non-leaves too. A tracked leaf is writable only while
// tracking is disabled.
func (t *Tensor) checkInPlace(op string) error {
	if !t.RequiresGrad() {
		return nil
	}
	if t.node != nil {
		return errors.Wrapf(ErrInPlaceOnTracked, "%s on non-leaf %s", op, t)
	}
	if t.engine.IsGradEnabled() {
		return errors.Wrapf(ErrInPlaceOnTracked, "%s on %s", op, t)
	}
	return nil
}

// SubInPlace computes t -= other, broadcasting other to t's shape, and bumps
// the storage version.
func (t *Tensor) SubInPlace(other *Tensor) error {
	if err := t.checkInPlace("SubInPlace"); err != nil {
		return err
	}
	return t.sub("SubInPlace", other.raw)
}

// ApplyUpdate computes t -= delta on a leaf regardless of the tracking mode.
// Optimizers use it in place of a NoGrad scope. Graphs that saved t become
// stale.
func (t *Tensor) ApplyUpdate(delta *tensor.RawTensor) error {
	if t.node != nil {
		return errors.Wrapf(ErrInPlaceOnTracked, "ApplyUpdate on non-leaf %s", t)
	}
	return t.sub("ApplyUpdate", delta)
}

// sub writes t - other, computed in float64 and rounded once to t's dtype.
func (t *Tensor) sub(op string, other *tensor.RawTensor) error {
	out, _, err := tensor.BroadcastShapes(t.Shape(), other.Shape())
	if err != nil || !out.Equal(t.Shape()) {
		return errors.Wrapf(ErrShapeMismatch, "%s: cannot subtract %v from %v", op, other.Shape(), t.Shape())
	}
	backend := t.engine.backend
	diff := backend.Sub(backend.Cast(t.raw, tensor.Float64), backend.Cast(other, tensor.Float64))
	t.raw.SetFloat64s(diff.Float64s())
	return nil
}

// ScaleInPlace multiplies every element by c and bumps the storage version.
func (t *Tensor) ScaleInPlace(c float64) error {
	if err := t.checkInPlace("ScaleInPlace"); err != nil {
		return err
	}
	t.raw.SetFloat64s(t.engine.backend.MulScalar(t.raw, c).Float64s())
	return nil
}

// CopyFrom overwrites t's elements with src's and bumps the storage version.
func (t *Tensor) CopyFrom(src *Tensor) error {
	if err := t.checkInPlace("CopyFrom"); err != nil {
		return err
	}
	if !src.Shape().Equal(t.Shape()) {
		return errors.Wrapf(ErrShapeMismatch, "CopyFrom: source %v, target %v", src.Shape(), t.Shape())
	}
	t.raw.SetFloat64s(src.raw.Float64s())
	return nil
}
