package ops

import "github.com/born-ml/autograd/internal/tensor"

// NarrowOp selects elements [start, start+length) along one dimension.
//
// Multi-output primitives such as Chunk are built from one NarrowOp per
// output, so every graph node has exactly one output.
//
// Backward scatters the gradient into a zero tensor of the input shape.
type NarrowOp struct {
	record
	dim, start, length int
}

// NewNarrowOp creates a new NarrowOp.
func NewNarrowOp(dim, start, length int) *NarrowOp {
	return &NarrowOp{dim: dim, start: start, length: length}
}

// Name returns "Narrow".
func (op *NarrowOp) Name() string { return "Narrow" }

// Forward extracts the window.
func (op *NarrowOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 1)
	return op.keep(inputs, backend.Narrow(inputs[0], op.dim, op.start, op.length))
}

// Backward pads the gradient back to the input shape.
func (op *NarrowOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.PadNarrow(outputGrad, op.inputs[0].Shape(), op.dim, op.start)}
}
