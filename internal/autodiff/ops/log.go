package ops

import "github.com/born-ml/autograd/internal/tensor"

// LogOp represents output = ln(x).
//
// Backward: grad_x = outputGrad / x.
type LogOp struct {
	record
}

// NewLogOp creates a new LogOp.
func NewLogOp() *LogOp {
	return &LogOp{}
}

// Name returns "Log".
func (op *LogOp) Name() string { return "Log" }

// Forward computes ln(x).
func (op *LogOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 1)
	return op.keep(inputs, backend.Log(inputs[0]))
}

// Saved returns the input.
func (op *LogOp) Saved() []*tensor.RawTensor {
	return op.inputs
}

// Backward computes outputGrad / x.
func (op *LogOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Div(outputGrad, op.inputs[0])}
}
