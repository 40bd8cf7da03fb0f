package cpu

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/born-ml/autograd/internal/tensor"
)

func TestReshapeIsView(t *testing.T) {
	b := newTestBackend()
	x := raw(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	got := b.Reshape(x, tensor.Shape{3, -1})
	if diff := cmp.Diff(tensor.Shape{3, 2}, got.Shape()); diff != "" {
		t.Errorf("shape mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, got.SharesStorage(x))
	assert.Panics(t, func() { b.Reshape(x, tensor.Shape{4, -1}) })
}

func TestTranspose(t *testing.T) {
	b := newTestBackend()
	x := raw(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	got := b.Transpose(x)
	assert.True(t, got.Shape().Equal(tensor.Shape{3, 2}))
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, got.Float64s())

	cube := raw(t, []float64{0, 1, 2, 3, 4, 5, 6, 7}, tensor.Shape{2, 2, 2})
	perm := b.Transpose(cube, 1, 0, 2)
	assert.Equal(t, []float64{0, 1, 4, 5, 2, 3, 6, 7}, perm.Float64s())

	assert.Panics(t, func() { b.Transpose(x, 0, 0) })
}

func TestExpandAndSumToAreAdjoint(t *testing.T) {
	b := newTestBackend()
	x := raw(t, []float64{1, 2, 3}, tensor.Shape{3})

	expanded := b.Expand(x, tensor.Shape{2, 3})
	assert.Equal(t, []float64{1, 2, 3, 1, 2, 3}, expanded.Float64s())

	assert.Equal(t, []float64{2, 4, 6}, b.SumTo(expanded, tensor.Shape{3}).Float64s())
	assert.Equal(t, []float64{3, 6}, b.SumTo(b.Expand(raw(t, []float64{1, 2}, tensor.Shape{2, 1}), tensor.Shape{2, 3}), tensor.Shape{2, 1}).Float64s())
	assert.Equal(t, []float64{12}, b.SumTo(expanded, tensor.Shape{}).Float64s())

	assert.Panics(t, func() { b.Expand(x, tensor.Shape{2, 2}) })
}

func TestNarrowAndPadNarrow(t *testing.T) {
	b := newTestBackend()
	x := raw(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	mid := b.Narrow(x, 1, 1, 2)
	assert.True(t, mid.Shape().Equal(tensor.Shape{2, 2}))
	assert.Equal(t, []float64{2, 3, 5, 6}, mid.Float64s())

	padded := b.PadNarrow(mid, tensor.Shape{2, 3}, -1, 1)
	assert.Equal(t, []float64{0, 2, 3, 0, 5, 6}, padded.Float64s())

	assert.Panics(t, func() { b.Narrow(x, 1, 2, 2) })
}
