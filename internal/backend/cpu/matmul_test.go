package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/autograd/internal/tensor"
)

func TestMatMul(t *testing.T) {
	b := newTestBackend()
	a := raw(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	c := raw(t, []float64{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	tests := []struct {
		name  string
		left  *tensor.RawTensor
		right *tensor.RawTensor
		shape tensor.Shape
		want  []float64
	}{
		{"matrix-matrix", a, c, tensor.Shape{2, 2}, []float64{58, 64, 139, 154}},
		{"vector-matrix", raw(t, []float64{1, 1}, tensor.Shape{2}), a, tensor.Shape{3}, []float64{5, 7, 9}},
		{"matrix-vector", a, raw(t, []float64{1, 0, 1}, tensor.Shape{3}), tensor.Shape{2}, []float64{4, 10}},
		{"dot", raw(t, []float64{1, 2}, tensor.Shape{2}), raw(t, []float64{3, 4}, tensor.Shape{2}), tensor.Shape{}, []float64{11}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.MatMul(tt.left, tt.right)
			assert.True(t, tt.shape.Equal(got.Shape()), "shape %v want %v", got.Shape(), tt.shape)
			assert.Equal(t, tt.want, got.Float64s())
		})
	}
}

func TestMatMulInnerMismatchPanics(t *testing.T) {
	b := newTestBackend()
	a := raw(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	c := raw(t, []float64{1, 2, 3}, tensor.Shape{3})
	assert.Panics(t, func() { b.MatMul(a, c) })
}
