package ops

import "github.com/born-ml/autograd/internal/tensor"

// SumOp reduces all elements to a scalar.
//
// Backward broadcasts the scalar gradient back to the input shape.
type SumOp struct {
	record
}

// NewSumOp creates a new SumOp.
func NewSumOp() *SumOp {
	return &SumOp{}
}

// Name returns "Sum".
func (op *SumOp) Name() string { return "Sum" }

// Forward computes the sum of all elements.
func (op *SumOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 1)
	return op.keep(inputs, backend.Sum(inputs[0]))
}

// Backward expands the gradient to the input shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Expand(outputGrad, op.inputs[0].Shape())}
}

// MeanOp reduces all elements to their mean.
//
// Backward: grad_x = outputGrad / N, broadcast to the input shape.
type MeanOp struct {
	record
}

// NewMeanOp creates a new MeanOp.
func NewMeanOp() *MeanOp {
	return &MeanOp{}
}

// Name returns "Mean".
func (op *MeanOp) Name() string { return "Mean" }

// Forward computes the mean of all elements.
func (op *MeanOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 1)
	n := float64(inputs[0].NumElements())
	return op.keep(inputs, backend.MulScalar(backend.Sum(inputs[0]), 1/n))
}

// Backward spreads the gradient evenly over the input.
func (op *MeanOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]
	n := float64(x.NumElements())
	return []*tensor.RawTensor{backend.MulScalar(backend.Expand(outputGrad, x.Shape()), 1/n)}
}

// SumDimOp sums along one dimension.
//
// Backward re-inserts the reduced dimension (when it was dropped) and
// broadcasts the gradient along it.
type SumDimOp struct {
	record
	dim     int
	keepDim bool
}

// NewSumDimOp creates a new SumDimOp.
func NewSumDimOp(dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{dim: dim, keepDim: keepDim}
}

// Name returns "SumDim".
func (op *SumDimOp) Name() string { return "SumDim" }

// Forward sums x along the configured dimension.
func (op *SumDimOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 1)
	return op.keep(inputs, backend.SumDim(inputs[0], op.dim, op.keepDim))
}

// Backward broadcasts the gradient along the reduced dimension.
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inShape := op.inputs[0].Shape()
	grad := outputGrad
	if !op.keepDim {
		dim, _ := inShape.NormalizeDim(op.dim) // validated in Forward
		kept := inShape.Clone()
		kept[dim] = 1
		grad = backend.Reshape(grad, kept)
	}
	return []*tensor.RawTensor{backend.Expand(grad, inShape)}
}
