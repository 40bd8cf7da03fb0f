package ops

import "github.com/born-ml/autograd/internal/tensor"

// ReshapeOp changes the shape of its input without copying.
//
// Backward reshapes the gradient back to the input shape.
type ReshapeOp struct {
	record
	shape tensor.Shape
}

// NewReshapeOp creates a new ReshapeOp. One dimension may be -1.
func NewReshapeOp(shape tensor.Shape) *ReshapeOp {
	return &ReshapeOp{shape: shape.Clone()}
}

// Name returns "Reshape".
func (op *ReshapeOp) Name() string { return "Reshape" }

// Forward returns a view of x with the new shape.
func (op *ReshapeOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 1)
	return op.keep(inputs, backend.Reshape(inputs[0], op.shape))
}

// Backward reshapes the gradient to the input shape.
func (op *ReshapeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Reshape(outputGrad, op.inputs[0].Shape())}
}
