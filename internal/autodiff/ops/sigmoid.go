package ops

import "github.com/born-ml/autograd/internal/tensor"

// SigmoidOp represents output = 1 / (1 + exp(-x)).
//
// Backward: grad_x = outputGrad * σ(x) * (1 - σ(x)), computed from the saved output.
type SigmoidOp struct {
	record
}

// NewSigmoidOp creates a new SigmoidOp.
func NewSigmoidOp() *SigmoidOp {
	return &SigmoidOp{}
}

// Name returns "Sigmoid".
func (op *SigmoidOp) Name() string { return "Sigmoid" }

// Forward computes σ(x).
func (op *SigmoidOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 1)
	return op.keep(inputs, backend.Sigmoid(inputs[0]))
}

// Saved returns the output.
func (op *SigmoidOp) Saved() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.output}
}

// Backward computes outputGrad * σ * (1 - σ).
func (op *SigmoidOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	s := op.output
	oneMinus := backend.AddScalar(backend.Neg(s), 1)
	return []*tensor.RawTensor{backend.Mul(outputGrad, backend.Mul(s, oneMinus))}
}
