package cpu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/autograd/internal/parallel"
	"github.com/born-ml/autograd/internal/tensor"
)

// Helper to create test backend.
func newTestBackend() *CPUBackend {
	return New()
}

func raw(t *testing.T, data []float64, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.FromFloat64s(data, shape, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	return r
}

func TestCPUBackend_New(t *testing.T) {
	backend := New()
	assert.Equal(t, "CPU", backend.Name())
	assert.Equal(t, tensor.CPU, backend.Device())
}

func TestBinarySameShape(t *testing.T) {
	b := newTestBackend()
	x := raw(t, []float64{1, 2, 3}, tensor.Shape{3})
	y := raw(t, []float64{4, 5, 6}, tensor.Shape{3})

	assert.Equal(t, []float64{5, 7, 9}, b.Add(x, y).Float64s())
	assert.Equal(t, []float64{-3, -3, -3}, b.Sub(x, y).Float64s())
	assert.Equal(t, []float64{4, 10, 18}, b.Mul(x, y).Float64s())
	assert.InDeltaSlice(t, []float64{0.25, 0.4, 0.5}, b.Div(x, y).Float64s(), 1e-12)
}

func TestBinaryDoesNotMutateInputs(t *testing.T) {
	b := newTestBackend()
	x := raw(t, []float64{1, 2}, tensor.Shape{2})
	y := raw(t, []float64{3, 4}, tensor.Shape{2})
	_ = b.Add(x, y)
	assert.Equal(t, []float64{1, 2}, x.Float64s())
	assert.Equal(t, uint64(0), x.Version())
}

func TestBinaryBroadcast(t *testing.T) {
	b := newTestBackend()
	m := raw(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	row := raw(t, []float64{10, 20, 30}, tensor.Shape{3})
	col := raw(t, []float64{1, 2}, tensor.Shape{2, 1})

	got := b.Add(m, row)
	assert.True(t, got.Shape().Equal(tensor.Shape{2, 3}))
	assert.Equal(t, []float64{11, 22, 33, 14, 25, 36}, got.Float64s())

	assert.Equal(t, []float64{1, 2, 3, 8, 10, 12}, b.Mul(m, col).Float64s())
	assert.Panics(t, func() { b.Add(m, raw(t, []float64{1, 2}, tensor.Shape{2})) })
}

func TestBinaryPromotesDType(t *testing.T) {
	b := newTestBackend()
	x, err := tensor.FromFloat64s([]float64{1, 2}, tensor.Shape{2}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	y := raw(t, []float64{1, 1}, tensor.Shape{2})
	assert.Equal(t, tensor.Float64, b.Add(x, y).DType())
}

func TestParallelKernelsMatchSequential(t *testing.T) {
	n := 10000
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i) / 100
	}
	x := raw(t, data, tensor.Shape{n})

	par := NewWithConfig(Config{Parallel: parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 16}})
	seq := NewWithConfig(Config{Parallel: parallel.Sequential()})

	assert.Equal(t, seq.Tanh(x).Float64s(), par.Tanh(x).Float64s())
	assert.Equal(t, seq.Mul(x, x).Float64s(), par.Mul(x, x).Float64s())
}

func TestUnaryMath(t *testing.T) {
	b := newTestBackend()
	x := raw(t, []float64{-1, 0, 2}, tensor.Shape{3})

	assert.InDeltaSlice(t, []float64{math.Exp(-1), 1, math.Exp(2)}, b.Exp(x).Float64s(), 1e-12)
	assert.InDeltaSlice(t, []float64{math.Tanh(-1), 0, math.Tanh(2)}, b.Tanh(x).Float64s(), 1e-12)
	assert.Equal(t, []float64{0, 0, 2}, b.ReLU(x).Float64s())
	assert.Equal(t, []float64{0, 0, 1}, b.Step(x).Float64s())
	assert.Equal(t, []float64{1, 0, -2}, b.Neg(x).Float64s())
	assert.Equal(t, []float64{-2, 0, 4}, b.MulScalar(x, 2).Float64s())
	assert.Equal(t, []float64{0, 1, 3}, b.AddScalar(x, 1).Float64s())
	assert.Equal(t, []float64{1, 0, 4}, b.PowScalar(x, 2).Float64s())

	pos := raw(t, []float64{1, math.E}, tensor.Shape{2})
	assert.InDeltaSlice(t, []float64{0, 1}, b.Log(pos).Float64s(), 1e-12)
}

func TestSigmoidIsStable(t *testing.T) {
	b := newTestBackend()
	x := raw(t, []float64{-1000, 0, 1000}, tensor.Shape{3})
	got := b.Sigmoid(x).Float64s()
	assert.Equal(t, []float64{0, 0.5, 1}, got)
}

func TestFloat16Kernels(t *testing.T) {
	b := newTestBackend()
	x, err := tensor.FromFloat64s([]float64{1, 2}, tensor.Shape{2}, tensor.Float16, tensor.CPU)
	require.NoError(t, err)
	got := b.Add(x, x)
	assert.Equal(t, tensor.Float16, got.DType())
	assert.Equal(t, []float64{2, 4}, got.Float64s())
}

func TestIntegerKernelsPanic(t *testing.T) {
	b := newTestBackend()
	x := tensor.Zeros(tensor.Shape{2}, tensor.Int64, tensor.CPU)
	assert.Panics(t, func() { b.Exp(x) })
}

func TestCast(t *testing.T) {
	b := newTestBackend()
	x := raw(t, []float64{1.5, -2}, tensor.Shape{2})
	got := b.Cast(x, tensor.Float32)
	assert.Equal(t, tensor.Float32, got.DType())
	assert.Equal(t, []float64{1.5, -2}, got.Float64s())
	assert.False(t, got.SharesStorage(x))
}
