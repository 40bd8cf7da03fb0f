package ops

import "github.com/born-ml/autograd/internal/tensor"

// MatMulOp represents matrix multiplication: output = a @ b.
//
// Backward pass (on the 2-D promoted operands):
//   - grad_a = outputGrad @ b^T
//   - grad_b = a^T @ outputGrad
//
// 1-D operands are promoted to a row (left) or column (right) and the
// gradients are reshaped back to the original operand shapes.
type MatMulOp struct {
	record
}

// NewMatMulOp creates a new MatMulOp.
func NewMatMulOp() *MatMulOp {
	return &MatMulOp{}
}

// Name returns "MatMul".
func (op *MatMulOp) Name() string { return "MatMul" }

// Forward computes a @ b.
func (op *MatMulOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 2)
	return op.keep(inputs, backend.MatMul(inputs[0], inputs[1]))
}

// Saved returns both operands.
func (op *MatMulOp) Saved() []*tensor.RawTensor {
	return op.inputs
}

// Backward computes input gradients for matrix multiplication.
func (op *MatMulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]

	a2 := a
	if a.Shape().Rank() == 1 {
		a2 = backend.Reshape(a, tensor.Shape{1, a.Shape()[0]})
	}
	b2 := b
	if b.Shape().Rank() == 1 {
		b2 = backend.Reshape(b, tensor.Shape{b.Shape()[0], 1})
	}
	g2 := backend.Reshape(outputGrad, tensor.Shape{a2.Shape()[0], b2.Shape()[1]})

	gradA := backend.MatMul(g2, backend.Transpose(b2))
	gradB := backend.MatMul(backend.Transpose(a2), g2)

	return []*tensor.RawTensor{
		backend.Reshape(gradA, a.Shape()),
		backend.Reshape(gradB, b.Shape()),
	}
}
