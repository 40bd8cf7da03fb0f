package ops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/autograd/internal/autodiff/ops"
	"github.com/born-ml/autograd/internal/backend/cpu"
	"github.com/born-ml/autograd/internal/tensor"
)

func raw(t *testing.T, data []float64, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.FromFloat64s(data, shape, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	return r
}

func ones(shape tensor.Shape) *tensor.RawTensor {
	return tensor.Ones(shape, tensor.Float64, tensor.CPU)
}

func TestAddOp_BroadcastReducesGradient(t *testing.T) {
	backend := cpu.New()
	a := raw(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := raw(t, []float64{1, 1, 1}, tensor.Shape{3})

	op := ops.NewAddOp()
	out := op.Forward([]*tensor.RawTensor{a, b}, backend)
	require.True(t, out.Shape().Equal(tensor.Shape{2, 3}))

	grads := op.Backward(ones(out.Shape()), backend)
	require.Len(t, grads, 2)
	assert.True(t, grads[0].Shape().Equal(a.Shape()))
	assert.True(t, grads[1].Shape().Equal(b.Shape()))
	assert.Equal(t, []float64{2, 2, 2}, grads[1].Float64s())
	assert.Empty(t, op.Saved())
}

func TestMulOp_Backward(t *testing.T) {
	backend := cpu.New()
	a := raw(t, []float64{2, 3}, tensor.Shape{2})
	b := raw(t, []float64{4, 5}, tensor.Shape{2})

	op := ops.NewMulOp()
	op.Forward([]*tensor.RawTensor{a, b}, backend)
	grads := op.Backward(ones(tensor.Shape{2}), backend)

	assert.Equal(t, []float64{4, 5}, grads[0].Float64s())
	assert.Equal(t, []float64{2, 3}, grads[1].Float64s())
	assert.Len(t, op.Saved(), 2)
}

func TestDivOp_Backward(t *testing.T) {
	backend := cpu.New()
	a := raw(t, []float64{6}, tensor.Shape{1})
	b := raw(t, []float64{2}, tensor.Shape{1})

	op := ops.NewDivOp()
	op.Forward([]*tensor.RawTensor{a, b}, backend)
	grads := op.Backward(ones(tensor.Shape{1}), backend)

	assert.InDelta(t, 0.5, grads[0].Item(), 1e-12)
	assert.InDelta(t, -1.5, grads[1].Item(), 1e-12)
}

func TestMatMulOp_VectorMatrix(t *testing.T) {
	backend := cpu.New()
	x := raw(t, []float64{1, 2}, tensor.Shape{2})
	w := raw(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	op := ops.NewMatMulOp()
	out := op.Forward([]*tensor.RawTensor{x, w}, backend)
	require.True(t, out.Shape().Equal(tensor.Shape{3}))

	grads := op.Backward(ones(tensor.Shape{3}), backend)
	assert.True(t, grads[0].Shape().Equal(tensor.Shape{2}))
	assert.Equal(t, []float64{6, 15}, grads[0].Float64s())
	assert.True(t, grads[1].Shape().Equal(tensor.Shape{2, 3}))
	assert.Equal(t, []float64{1, 1, 1, 2, 2, 2}, grads[1].Float64s())
}

func TestTransposeOp_InversePermutation(t *testing.T) {
	backend := cpu.New()
	x := raw(t, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, tensor.Shape{2, 3, 2})

	op := ops.NewTransposeOp(1, 2, 0)
	out := op.Forward([]*tensor.RawTensor{x}, backend)
	require.True(t, out.Shape().Equal(tensor.Shape{3, 2, 2}))

	back := op.Backward(out, backend)[0]
	assert.True(t, back.Shape().Equal(x.Shape()))
	assert.Equal(t, x.Float64s(), back.Float64s())
}

func TestSumDimOp_Backward(t *testing.T) {
	backend := cpu.New()
	x := raw(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	op := ops.NewSumDimOp(1, false)
	out := op.Forward([]*tensor.RawTensor{x}, backend)
	require.True(t, out.Shape().Equal(tensor.Shape{2}))

	grad := op.Backward(raw(t, []float64{1, 2}, tensor.Shape{2}), backend)[0]
	assert.Equal(t, []float64{1, 1, 1, 2, 2, 2}, grad.Float64s())
}

func TestNarrowOp_Backward(t *testing.T) {
	backend := cpu.New()
	x := raw(t, []float64{1, 2, 3, 4}, tensor.Shape{4})

	op := ops.NewNarrowOp(0, 2, 2)
	out := op.Forward([]*tensor.RawTensor{x}, backend)
	assert.Equal(t, []float64{3, 4}, out.Float64s())

	grad := op.Backward(ones(tensor.Shape{2}), backend)[0]
	assert.Equal(t, []float64{0, 0, 1, 1}, grad.Float64s())
}

func TestBCEWithLogitsOp_Backward(t *testing.T) {
	backend := cpu.New()
	z := raw(t, []float64{0, 0}, tensor.Shape{2})
	y := raw(t, []float64{1, 0}, tensor.Shape{2})

	op := ops.NewBCEWithLogitsOp()
	op.Forward([]*tensor.RawTensor{z, y}, backend)
	grads := op.Backward(tensor.Ones(tensor.Shape{}, tensor.Float64, tensor.CPU), backend)

	// (σ(0) - y) / 2
	assert.InDeltaSlice(t, []float64{-0.25, 0.25}, grads[0].Float64s(), 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0}, grads[1].Float64s(), 1e-12)
}

func TestForwardChecksArity(t *testing.T) {
	backend := cpu.New()
	x := ones(tensor.Shape{2})
	assert.Panics(t, func() { ops.NewAddOp().Forward([]*tensor.RawTensor{x}, backend) })
	assert.Panics(t, func() { ops.NewExpOp().Forward([]*tensor.RawTensor{x, x}, backend) })
}

func TestSavedTensors(t *testing.T) {
	backend := cpu.New()
	x := ones(tensor.Shape{2})

	exp := ops.NewExpOp()
	out := exp.Forward([]*tensor.RawTensor{x}, backend)
	assert.Same(t, out, exp.Saved()[0])

	relu := ops.NewReLUOp()
	relu.Forward([]*tensor.RawTensor{x}, backend)
	assert.Same(t, x, relu.Saved()[0])
}
