// Package autodiff implements reverse-mode automatic differentiation over a
// dynamically built computation graph.
//
// Architecture:
//   - Engine owns the numeric backend and the gradient tracking mode
//   - Tensor wraps a RawTensor with a gradient slot and a producer link
//   - Node records one ops.Operation application with its tracked inputs
//   - Backward walks the nodes reachable from a root in reverse topological
//     order and accumulates gradients into leaf tensors
//
// Usage:
//
//	engine := autodiff.New(cpu.New())
//	x, _ := autodiff.FromSlice(engine, []float64{2}, tensor.Shape{1}, true)
//	y := x.Mul(x) // y = x²
//	_ = y.Backward()
//	fmt.Println(x.Grad().Item()) // dy/dx = 2x = 4
package autodiff

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"

	"k8s.io/klog/v2"

	"github.com/born-ml/autograd/internal/autodiff/ops"
	"github.com/born-ml/autograd/internal/tensor"
)

// Engine records operations applied to its tensors and runs backward passes.
//
// The tracking mode is engine-wide: a scope opened on one goroutine suspends
// recording for forward passes on every goroutine using the engine until it
// is closed. Independent graphs built on one engine may be differentiated
// from different goroutines; goroutines that must record while another
// suspends tracking need their own engine.
type Engine struct {
	backend    tensor.Backend
	name       string
	staleCheck bool
	nextID     atomic.Uint64

	modeMu      sync.Mutex // guards baseMode, scopes and nextScope
	baseMode    bool
	scopes      []gradScope
	nextScope   uint64
	gradEnabled atomic.Bool // effective mode, read by Apply
}

// gradScope is one open SetGradEnabled call.
type gradScope struct {
	id      uint64
	enabled bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithName sets the engine name used in log lines.
func WithName(name string) Option {
	return func(e *Engine) { e.name = name }
}

// WithStaleCheck toggles detection of saved tensors modified in place.
// Enabled by default.
func WithStaleCheck(enabled bool) Option {
	return func(e *Engine) { e.staleCheck = enabled }
}

// WithGradEnabled sets the initial tracking mode. Enabled by default.
func WithGradEnabled(enabled bool) Option {
	return func(e *Engine) { e.baseMode = enabled }
}

// New creates an engine computing with backend.
func New(backend tensor.Backend, opts ...Option) *Engine {
	e := &Engine{
		backend:    backend,
		name:       "autodiff",
		staleCheck: true,
		baseMode:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.gradEnabled.Store(e.baseMode)
	klog.V(2).Infof("engine %q: backend=%s grad=%t stale-check=%t",
		e.name, backend.Name(), e.gradEnabled.Load(), e.staleCheck)
	return e
}

// Backend returns the numeric backend.
func (e *Engine) Backend() tensor.Backend {
	return e.backend
}

// Name returns the engine name.
func (e *Engine) Name() string {
	return e.name
}

// IsGradEnabled reports whether operations are currently recorded.
func (e *Engine) IsGradEnabled() bool {
	return e.gradEnabled.Load()
}

// SetGradEnabled sets the tracking mode and returns a function closing the
// scope. Scopes nest when closed in reverse order:
//
//	defer engine.SetGradEnabled(false)()
//
// Closing a scope removes only that scope, so scopes closed out of order still
// leave the mode of the innermost scope that remains open, or the engine's
// initial mode once none is. Calling restore more than once has no effect.
func (e *Engine) SetGradEnabled(enabled bool) (restore func()) {
	e.modeMu.Lock()
	e.nextScope++
	id := e.nextScope
	e.scopes = append(e.scopes, gradScope{id: id, enabled: enabled})
	e.gradEnabled.Store(enabled)
	e.modeMu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { e.closeScope(id) }) }
}

func (e *Engine) closeScope(id uint64) {
	e.modeMu.Lock()
	defer e.modeMu.Unlock()
	e.scopes = slices.DeleteFunc(e.scopes, func(s gradScope) bool { return s.id == id })
	mode := e.baseMode
	if n := len(e.scopes); n > 0 {
		mode = e.scopes[n-1].enabled
	}
	e.gradEnabled.Store(mode)
}

// NoGrad disables tracking until the returned function is called.
func (e *Engine) NoGrad() (restore func()) {
	return e.SetGradEnabled(false)
}

// EnableGrad enables tracking until the returned function is called.
func (e *Engine) EnableGrad() (restore func()) {
	return e.SetGradEnabled(true)
}

// WithNoGrad runs fn with tracking disabled. The previous mode is restored
// even if fn panics.
func (e *Engine) WithNoGrad(fn func()) {
	defer e.NoGrad()()
	fn()
}

// Apply runs op on inputs and returns the result. When tracking is enabled and
// any input requires grad, the result gets a producer Node and requires grad
// itself; otherwise it is an untracked leaf.
//
// Apply panics if an input belongs to a different engine.
func (e *Engine) Apply(op ops.Operation, inputs ...*Tensor) *Tensor {
	raws := make([]*tensor.RawTensor, len(inputs))
	track := false
	for i, in := range inputs {
		if in.engine != e {
			panic(fmt.Sprintf("%s: input %d belongs to engine %q, not %q", op.Name(), i, in.engine.name, e.name))
		}
		raws[i] = in.raw
		track = track || in.RequiresGrad()
	}

	out := op.Forward(raws, e.backend)
	result := &Tensor{engine: e, raw: out}
	if track && e.IsGradEnabled() && out.DType().IsFloat() {
		result.requiresGrad.Store(true)
		result.node = e.newNode(op, inputs, result)
	}
	return result
}

// NewTensor wraps raw as a leaf. Panics if requiresGrad is set on a
// non-floating-point dtype.
func (e *Engine) NewTensor(raw *tensor.RawTensor, requiresGrad bool) *Tensor {
	if requiresGrad && !raw.DType().IsFloat() {
		panic(fmt.Sprintf("requires_grad needs a floating point dtype, got %s", raw.DType()))
	}
	t := &Tensor{engine: e, raw: raw}
	t.requiresGrad.Store(requiresGrad)
	return t
}

// FromSlice creates a leaf from a Go slice.
func FromSlice[T tensor.Float](e *Engine, data []T, shape tensor.Shape, requiresGrad bool) (*Tensor, error) {
	raw, err := tensor.FromSlice(data, shape, e.backend.Device())
	if err != nil {
		return nil, err
	}
	return e.NewTensor(raw, requiresGrad), nil
}

// Zeros creates a zero-filled leaf.
func (e *Engine) Zeros(shape tensor.Shape, dtype tensor.DataType, requiresGrad bool) *Tensor {
	return e.NewTensor(e.backend.Zeros(shape, dtype), requiresGrad)
}

// Ones creates a leaf filled with ones.
func (e *Engine) Ones(shape tensor.Shape, dtype tensor.DataType, requiresGrad bool) *Tensor {
	return e.NewTensor(e.backend.Full(shape, dtype, 1), requiresGrad)
}

// Full creates a leaf filled with value.
func (e *Engine) Full(shape tensor.Shape, dtype tensor.DataType, value float64, requiresGrad bool) *Tensor {
	return e.NewTensor(e.backend.Full(shape, dtype, value), requiresGrad)
}

// Randn creates a leaf with standard normal values drawn from rng.
func (e *Engine) Randn(shape tensor.Shape, dtype tensor.DataType, rng *rand.Rand, requiresGrad bool) *Tensor {
	return e.NewTensor(tensor.Randn(shape, dtype, e.backend.Device(), rng), requiresGrad)
}
