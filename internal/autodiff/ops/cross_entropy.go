package ops

import "github.com/born-ml/autograd/internal/tensor"

// BCEWithLogitsOp is the fused binary cross-entropy on logits with mean
// reduction: output = mean(max(z,0) - z*y + log(1+exp(-|z|))).
//
// Backward pass (N = number of logits):
//   - grad_z = outputGrad * (σ(z) - y) / N
//   - grad_y = outputGrad * -z / N
type BCEWithLogitsOp struct {
	record
}

// NewBCEWithLogitsOp creates a new BCEWithLogitsOp.
func NewBCEWithLogitsOp() *BCEWithLogitsOp {
	return &BCEWithLogitsOp{}
}

// Name returns "BCEWithLogits".
func (op *BCEWithLogitsOp) Name() string { return "BCEWithLogits" }

// Forward computes the mean loss over all logits.
func (op *BCEWithLogitsOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 2)
	return op.keep(inputs, backend.BCEWithLogits(inputs[0], inputs[1]))
}

// Saved returns logits and targets.
func (op *BCEWithLogitsOp) Saved() []*tensor.RawTensor {
	return op.inputs
}

// Backward computes gradients for logits and targets.
func (op *BCEWithLogitsOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	z, y := op.inputs[0], op.inputs[1]
	scale := 1 / float64(z.NumElements())

	diff := backend.Sub(backend.Sigmoid(z), y) // broadcasts y to z's shape
	gradZ := backend.MulScalar(backend.Mul(diff, outputGrad), scale)
	gradY := backend.MulScalar(backend.Mul(backend.Neg(z), outputGrad), scale)

	return []*tensor.RawTensor{gradZ, backend.SumTo(gradY, y.Shape())}
}
