package ops

import "github.com/born-ml/autograd/internal/tensor"

// CastOp converts its input to another floating point dtype.
//
// Backward casts the gradient back to the input dtype.
type CastOp struct {
	record
	dtype tensor.DataType
}

// NewCastOp creates a new CastOp.
func NewCastOp(dtype tensor.DataType) *CastOp {
	return &CastOp{dtype: dtype}
}

// Name returns "Cast".
func (op *CastOp) Name() string { return "Cast" }

// Forward converts x to the target dtype.
func (op *CastOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 1)
	return op.keep(inputs, backend.Cast(inputs[0], op.dtype))
}

// Backward casts the gradient to the input dtype.
func (op *CastOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Cast(outputGrad, op.inputs[0].DType())}
}
