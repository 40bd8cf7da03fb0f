// Package cpu implements the tensor.Backend contract on the CPU.
//
// Vector kernels go through gonum/floats and matrix products through
// gonum/mat. Every kernel computes in float64 and stores the result in the
// dtype of its inputs, so float16 and float32 tensors share one code path.
package cpu

import (
	"fmt"

	"k8s.io/klog/v2"

	"github.com/born-ml/autograd/internal/parallel"
	"github.com/born-ml/autograd/internal/tensor"
)

// Config configures the CPU backend.
type Config struct {
	// Parallel controls how large elementwise kernels are split across goroutines.
	Parallel parallel.Config
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return Config{Parallel: parallel.DefaultConfig()}
}

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	device tensor.Device
	cfg    Config
}

// New creates a new CPU backend with DefaultConfig.
func New() *CPUBackend {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a CPU backend with an explicit configuration.
func NewWithConfig(cfg Config) *CPUBackend {
	klog.V(3).Infof("cpu backend: parallel=%t workers=%d min-chunk=%d",
		cfg.Parallel.Enabled, cfg.Parallel.NumWorkers, cfg.Parallel.MinChunkSize)
	return &CPUBackend{
		device: tensor.CPU,
		cfg:    cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Zeros allocates a zero-filled tensor on this device.
func (cpu *CPUBackend) Zeros(shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	return tensor.Zeros(shape, dtype, cpu.device)
}

// Full allocates a tensor filled with value on this device.
func (cpu *CPUBackend) Full(shape tensor.Shape, dtype tensor.DataType, value float64) *tensor.RawTensor {
	return tensor.Full(shape, dtype, cpu.device, value)
}

// Cast converts x to dtype, always returning new storage.
func (cpu *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	return cpu.result("cast", x.Float64s(), x.Shape(), dtype)
}

// result wraps computed values into a new tensor, panicking on failure.
func (cpu *CPUBackend) result(op string, data []float64, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	out, err := tensor.FromFloat64s(data, shape, dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}
	return out
}

// requireFloat panics unless every operand has a floating point dtype.
func requireFloat(op string, xs ...*tensor.RawTensor) {
	for _, x := range xs {
		if !x.DType().IsFloat() {
			panic(fmt.Sprintf("%s: unsupported dtype %s (only float16/float32/float64 supported)", op, x.DType()))
		}
	}
}

// promote returns the wider of two float dtypes.
func promote(a, b tensor.DataType) tensor.DataType {
	rank := func(dt tensor.DataType) int {
		switch dt {
		case tensor.Float16:
			return 0
		case tensor.Float32:
			return 1
		default:
			return 2
		}
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}
