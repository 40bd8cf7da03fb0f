package ops

import "github.com/born-ml/autograd/internal/tensor"

// TransposeOp permutes the axes of its input.
//
// Backward applies the inverse permutation to the gradient.
type TransposeOp struct {
	record
	axes []int
}

// NewTransposeOp creates a new TransposeOp. With no axes the order is reversed.
func NewTransposeOp(axes ...int) *TransposeOp {
	return &TransposeOp{axes: append([]int(nil), axes...)}
}

// Name returns "Transpose".
func (op *TransposeOp) Name() string { return "Transpose" }

// Forward permutes the axes of x.
func (op *TransposeOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 1)
	if len(op.axes) == 0 {
		rank := inputs[0].Shape().Rank()
		op.axes = make([]int, rank)
		for i := range op.axes {
			op.axes[i] = rank - 1 - i
		}
	}
	return op.keep(inputs, backend.Transpose(inputs[0], op.axes...))
}

// Backward applies the inverse permutation.
func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inverse := make([]int, len(op.axes))
	for i, ax := range op.axes {
		inverse[ax] = i
	}
	return []*tensor.RawTensor{backend.Transpose(outputGrad, inverse...)}
}
