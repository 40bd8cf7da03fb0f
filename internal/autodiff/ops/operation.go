// Package ops defines the differentiable primitives of the autodiff engine.
//
// Each operation implements the Operation interface, which provides:
//   - Forward: computes the output from the inputs via the backend and keeps
//     whatever the backward pass needs
//   - Backward: computes one gradient per input given the output gradient
//
// Operations never record themselves; the engine wraps them into graph nodes.
package ops

import (
	"fmt"

	"github.com/born-ml/autograd/internal/tensor"
)

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Name identifies the operation kind (e.g. "Add", "MatMul").
	Name() string

	// Forward computes the output for the given inputs. It is called exactly
	// once per operation value.
	Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor

	// Backward computes gradients for inputs given the output gradient.
	// Returns a slice of gradients corresponding to each input tensor; a nil
	// entry means the input receives no gradient.
	//
	// Example for AddOp:
	//   inputs: [a, b]
	//   outputGrad: dL/d(a+b)
	//   returns: [dL/d(a+b), dL/d(a+b)] (gradient flows equally to both inputs)
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor

	// Saved returns the tensors whose values Backward reads. The engine
	// version-stamps them to detect in-place mutation after the forward pass.
	Saved() []*tensor.RawTensor
}

// record holds the inputs and output shared by every operation.
type record struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// Inputs returns the input tensors.
func (r *record) Inputs() []*tensor.RawTensor {
	return r.inputs
}

// Output returns the output tensor.
func (r *record) Output() *tensor.RawTensor {
	return r.output
}

// Saved returns nothing; operations that read values override it.
func (r *record) Saved() []*tensor.RawTensor {
	return nil
}

// keep stores the inputs and output and returns the output.
func (r *record) keep(inputs []*tensor.RawTensor, output *tensor.RawTensor) *tensor.RawTensor {
	r.inputs = inputs
	r.output = output
	return output
}

// expect panics unless exactly want inputs were supplied.
func expect(name string, inputs []*tensor.RawTensor, want int) {
	if len(inputs) != want {
		panic(fmt.Sprintf("%s: expected %d inputs, got %d", name, want, len(inputs)))
	}
}
