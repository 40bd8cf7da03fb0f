package ops

import "github.com/born-ml/autograd/internal/tensor"

// NegOp represents negation: output = -x.
type NegOp struct {
	record
}

// NewNegOp creates a new NegOp.
func NewNegOp() *NegOp {
	return &NegOp{}
}

// Name returns "Neg".
func (op *NegOp) Name() string { return "Neg" }

// Forward computes -x.
func (op *NegOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 1)
	return op.keep(inputs, backend.Neg(inputs[0]))
}

// Backward returns -outputGrad.
func (op *NegOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Neg(outputGrad)}
}

// MulScalarOp represents output = x * c for a constant c.
type MulScalarOp struct {
	record
	c float64
}

// NewMulScalarOp creates a new MulScalarOp.
func NewMulScalarOp(c float64) *MulScalarOp {
	return &MulScalarOp{c: c}
}

// Name returns "MulScalar".
func (op *MulScalarOp) Name() string { return "MulScalar" }

// Forward computes x * c.
func (op *MulScalarOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 1)
	return op.keep(inputs, backend.MulScalar(inputs[0], op.c))
}

// Backward returns outputGrad * c.
func (op *MulScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.MulScalar(outputGrad, op.c)}
}

// AddScalarOp represents output = x + c for a constant c.
type AddScalarOp struct {
	record
	c float64
}

// NewAddScalarOp creates a new AddScalarOp.
func NewAddScalarOp(c float64) *AddScalarOp {
	return &AddScalarOp{c: c}
}

// Name returns "AddScalar".
func (op *AddScalarOp) Name() string { return "AddScalar" }

// Forward computes x + c.
func (op *AddScalarOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 1)
	return op.keep(inputs, backend.AddScalar(inputs[0], op.c))
}

// Backward passes the gradient through unchanged.
func (op *AddScalarOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{outputGrad}
}

// PowOp represents output = x^p for a constant exponent p.
//
// Backward: grad_x = outputGrad * p * x^(p-1).
type PowOp struct {
	record
	p float64
}

// NewPowOp creates a new PowOp.
func NewPowOp(p float64) *PowOp {
	return &PowOp{p: p}
}

// Name returns "Pow".
func (op *PowOp) Name() string { return "Pow" }

// Forward computes x^p.
func (op *PowOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 1)
	return op.keep(inputs, backend.PowScalar(inputs[0], op.p))
}

// Saved returns the base.
func (op *PowOp) Saved() []*tensor.RawTensor {
	return op.inputs
}

// Backward computes outputGrad * p * x^(p-1).
func (op *PowOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	local := backend.MulScalar(backend.PowScalar(op.inputs[0], op.p-1), op.p)
	return []*tensor.RawTensor{backend.Mul(outputGrad, local)}
}
