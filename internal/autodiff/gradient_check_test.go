package autodiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/gradcheck"
	"github.com/born-ml/autograd/internal/tensor"
)

type input struct {
	data  []float64
	shape tensor.Shape
	grad  bool
}

func tracked(shape tensor.Shape, data ...float64) input {
	return input{data: data, shape: shape, grad: true}
}

func constant(shape tensor.Shape, data ...float64) input {
	return input{data: data, shape: shape}
}

// TestNumericalGradients compares every primitive with central differences.
func TestNumericalGradients(t *testing.T) {
	tests := []struct {
		name   string
		inputs []input
		fn     gradcheck.Func
	}{
		{
			name:   "Add/broadcast",
			inputs: []input{tracked(tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6), tracked(tensor.Shape{3}, 0.1, 0.2, 0.3)},
			fn:     func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Add(x[1]).Tanh().Sum() },
		},
		{
			name:   "Sub/broadcast",
			inputs: []input{tracked(tensor.Shape{2, 1}, 0.5, -0.5), tracked(tensor.Shape{1, 3}, 0.1, 0.2, 0.3)},
			fn:     func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Sub(x[1]).Pow(2).Sum() },
		},
		{
			name:   "Mul",
			inputs: []input{tracked(tensor.Shape{3}, 1, -2, 3), tracked(tensor.Shape{3}, 0.5, 0.25, -1)},
			fn:     func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Mul(x[1]).Sum() },
		},
		{
			name:   "Div",
			inputs: []input{tracked(tensor.Shape{3}, 1, -2, 3), tracked(tensor.Shape{3}, 0.5, 1.5, 2)},
			fn:     func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Div(x[1]).Sum() },
		},
		{
			name:   "Neg/MulScalar/AddScalar",
			inputs: []input{tracked(tensor.Shape{2}, 0.3, 0.7)},
			fn: func(x []*autodiff.Tensor) *autodiff.Tensor {
				return x[0].Neg().MulScalar(3).AddScalar(1).Mul(x[0]).Sum()
			},
		},
		{
			name:   "Pow",
			inputs: []input{tracked(tensor.Shape{3}, 0.5, 1, 2)},
			fn:     func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Pow(1.5).Sum() },
		},
		{
			name:   "Exp/Log",
			inputs: []input{tracked(tensor.Shape{3}, 0.2, 1, 1.7)},
			fn:     func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Log().Add(x[0].Exp()).Sum() },
		},
		{
			name:   "Sigmoid",
			inputs: []input{tracked(tensor.Shape{3}, -2, 0, 3)},
			fn:     func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Sigmoid().Mul(x[0]).Sum() },
		},
		{
			name:   "Tanh",
			inputs: []input{tracked(tensor.Shape{3}, -1, 0.1, 0.8)},
			fn:     func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Tanh().Pow(2).Sum() },
		},
		{
			name:   "ReLU",
			inputs: []input{tracked(tensor.Shape{4}, -1.5, -0.3, 0.4, 2)},
			fn:     func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].ReLU().Pow(2).Sum() },
		},
		{
			name: "MatMul/2D",
			inputs: []input{
				tracked(tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6),
				tracked(tensor.Shape{3, 2}, 0.1, -0.2, 0.3, -0.4, 0.5, -0.6),
			},
			fn: func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].MatMul(x[1]).Tanh().Sum() },
		},
		{
			name:   "MatMul/1D",
			inputs: []input{tracked(tensor.Shape{3}, 1, -1, 0.5), tracked(tensor.Shape{3, 2}, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6)},
			fn:     func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].MatMul(x[1]).Pow(2).Sum() },
		},
		{
			name:   "Transpose/Reshape",
			inputs: []input{tracked(tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6), constant(tensor.Shape{3, 2}, 1, 2, 3, 4, 5, 6)},
			fn: func(x []*autodiff.Tensor) *autodiff.Tensor {
				return x[0].Transpose().Mul(x[1]).Reshape(-1).Pow(2).Sum()
			},
		},
		{
			name:   "Mean",
			inputs: []input{tracked(tensor.Shape{2, 2}, 1, 2, 3, 4)},
			fn:     func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].Pow(2).Mean() },
		},
		{
			name:   "SumDim",
			inputs: []input{tracked(tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)},
			fn:     func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].SumDim(1, false).Pow(2).Sum() },
		},
		{
			name:   "SumDim/keepDim",
			inputs: []input{tracked(tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)},
			fn:     func(x []*autodiff.Tensor) *autodiff.Tensor { return x[0].SumDim(0, true).Pow(2).Sum() },
		},
		{
			name:   "Chunk",
			inputs: []input{tracked(tensor.Shape{2, 4}, 1, 2, 3, 4, 5, 6, 7, 8)},
			fn: func(x []*autodiff.Tensor) *autodiff.Tensor {
				parts := x[0].Chunk(2, 1)
				return parts[0].Mul(parts[1]).Sum()
			},
		},
		{
			name: "BCEWithLogits",
			inputs: []input{
				tracked(tensor.Shape{2, 2}, -1, 0.5, 2, -3),
				tracked(tensor.Shape{2, 2}, 0, 1, 0.3, 0.7),
			},
			fn: func(x []*autodiff.Tensor) *autodiff.Tensor {
				return autodiff.BinaryCrossEntropyWithLogits(x[0], x[1])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine()
			inputs := make([]*autodiff.Tensor, len(tt.inputs))
			for i, in := range tt.inputs {
				x, err := autodiff.FromSlice(e, in.data, in.shape, in.grad)
				require.NoError(t, err)
				inputs[i] = x
			}

			report, err := gradcheck.Check(e, tt.fn, inputs, gradcheck.DefaultConfig())
			require.NoError(t, err)
			for _, r := range report.Inputs {
				assert.True(t, r.OK, "input %d: abs=%g rel=%g", r.Index, r.MaxAbsErr, r.MaxRelErr)
			}
		})
	}
}
