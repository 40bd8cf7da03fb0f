package gradcheck_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/backend/cpu"
	"github.com/born-ml/autograd/internal/gradcheck"
	"github.com/born-ml/autograd/internal/tensor"
)

// halfSquareOp computes x² but reports a gradient of x instead of 2x.
type halfSquareOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

func (op *halfSquareOp) Name() string { return "HalfSquare" }

func (op *halfSquareOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	op.inputs = inputs
	op.output = backend.Mul(inputs[0], inputs[0])
	return op.output
}

func (op *halfSquareOp) Backward(g *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Mul(g, op.inputs[0])}
}

func (op *halfSquareOp) Inputs() []*tensor.RawTensor { return op.inputs }
func (op *halfSquareOp) Output() *tensor.RawTensor   { return op.output }
func (op *halfSquareOp) Saved() []*tensor.RawTensor  { return op.inputs }

func TestCheck_Passes(t *testing.T) {
	engine := autodiff.New(cpu.New())
	x, err := autodiff.FromSlice(engine, []float64{0.5, -1.5, 2}, tensor.Shape{3}, true)
	require.NoError(t, err)
	before := x.Float64s()

	report, err := gradcheck.Check(engine, func(in []*autodiff.Tensor) *autodiff.Tensor {
		return in[0].Mul(in[0]).Tanh().Sum()
	}, []*autodiff.Tensor{x}, gradcheck.DefaultConfig())
	require.NoError(t, err)

	assert.True(t, report.OK())
	require.Len(t, report.Inputs, 1)
	assert.Less(t, report.MaxAbsErr(), 1e-6)
	assert.Equal(t, before, x.Float64s(), "inputs restored")
	assert.True(t, engine.IsGradEnabled(), "tracking restored")
}

func TestCheck_DetectsWrongGradient(t *testing.T) {
	engine := autodiff.New(cpu.New())
	x, err := autodiff.FromSlice(engine, []float64{1, 2, 3}, tensor.Shape{3}, true)
	require.NoError(t, err)

	report, err := gradcheck.Check(engine, func(in []*autodiff.Tensor) *autodiff.Tensor {
		return engine.Apply(&halfSquareOp{}, in[0]).Sum()
	}, []*autodiff.Tensor{x}, gradcheck.DefaultConfig())
	require.NoError(t, err)

	assert.False(t, report.OK())
	assert.InDelta(t, 3.0, report.MaxAbsErr(), 1e-4)
}

func TestCheck_SkipsUntrackedInputs(t *testing.T) {
	engine := autodiff.New(cpu.New())
	x, _ := autodiff.FromSlice(engine, []float64{1, 2}, tensor.Shape{2}, true)
	c, _ := autodiff.FromSlice(engine, []float64{3, 4}, tensor.Shape{2}, false)

	report, err := gradcheck.Check(engine, func(in []*autodiff.Tensor) *autodiff.Tensor {
		return in[0].Mul(in[1]).Sum()
	}, []*autodiff.Tensor{x, c}, gradcheck.DefaultConfig())
	require.NoError(t, err)

	require.Len(t, report.Inputs, 1)
	assert.Equal(t, 0, report.Inputs[0].Index)
	assert.True(t, report.OK())
}

func TestCheck_RejectsNonScalarOutput(t *testing.T) {
	engine := autodiff.New(cpu.New())
	x, _ := autodiff.FromSlice(engine, []float64{1, 2}, tensor.Shape{2}, true)

	_, err := gradcheck.Check(engine, func(in []*autodiff.Tensor) *autodiff.Tensor {
		return in[0].Exp()
	}, []*autodiff.Tensor{x}, gradcheck.DefaultConfig())
	assert.Error(t, err)
}
