package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/backend/cpu"
	"github.com/born-ml/autograd/internal/nn"
	"github.com/born-ml/autograd/internal/tensor"
)

func TestNewParameter(t *testing.T) {
	engine := autodiff.New(cpu.New())
	w := engine.Ones(tensor.Shape{2, 2}, tensor.Float64, false)

	p, err := nn.NewParameter("w", w)
	require.NoError(t, err)
	assert.Equal(t, "w", p.Name())
	assert.True(t, p.Tensor().RequiresGrad())
	assert.Nil(t, p.Grad())

	_, err = nn.NewParameter("derived", w.MulScalar(2))
	assert.Error(t, err)
}

func TestParameterSet(t *testing.T) {
	engine := autodiff.New(cpu.New())
	w, err := nn.NewParameter("w", engine.Ones(tensor.Shape{3, 2}, tensor.Float64, false))
	require.NoError(t, err)
	b, err := nn.NewParameter("b", engine.Zeros(tensor.Shape{2}, tensor.Float64, false))
	require.NoError(t, err)

	set, err := nn.NewParameterSet(w, b)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, 8, set.NumElements())
	assert.Equal(t, []*nn.Parameter{w, b}, set.All())

	got, ok := set.Get("b")
	require.True(t, ok)
	assert.Same(t, b, got)
	_, ok = set.Get("missing")
	assert.False(t, ok)

	assert.Error(t, set.Add(w))
}

func TestParameterSet_GradsAndZeroGrad(t *testing.T) {
	engine := autodiff.New(cpu.New())
	w, _ := nn.NewParameter("w", engine.Full(tensor.Shape{2}, tensor.Float64, 3, false))
	unused, _ := nn.NewParameter("unused", engine.Ones(tensor.Shape{1}, tensor.Float64, false))
	set, err := nn.NewParameterSet(w, unused)
	require.NoError(t, err)

	require.NoError(t, w.Tensor().Mul(w.Tensor()).Sum().Backward())

	grads := set.Grads()
	require.Len(t, grads, 1)
	assert.Equal(t, []float64{6, 6}, grads["w"].Float64s())

	set.ZeroGrad()
	assert.Empty(t, set.Grads())
}
