package cpu

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/autograd/internal/parallel"
	"github.com/born-ml/autograd/internal/tensor"
)

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("add", a, b, floats.AddTo, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("sub", a, b, floats.SubTo, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("mul", a, b, floats.MulTo, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary("div", a, b, floats.DivTo, func(x, y float64) float64 { return x / y })
}

// binary runs a broadcasting binary kernel. Same-shape operands take the
// vectorized gonum path.
func (cpu *CPUBackend) binary(
	op string,
	a, b *tensor.RawTensor,
	vec func(dst, s, t []float64) []float64,
	scalar func(x, y float64) float64,
) *tensor.RawTensor {
	requireFloat(op, a, b)
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	av, bv := a.Float64s(), b.Float64s()
	dst := make([]float64, outShape.NumElements())

	if !needsBroadcast {
		parallel.ForRange(len(dst), func(start, end int) {
			vec(dst[start:end], av[start:end], bv[start:end])
		}, cpu.cfg.Parallel)
		return cpu.result(op, dst, outShape, promote(a.DType(), b.DType()))
	}

	outStrides := outShape.ComputeStrides()
	aStrides, bStrides := a.Shape().ComputeStrides(), b.Shape().ComputeStrides()
	parallel.For(len(dst), func(i int) {
		ai := tensor.BroadcastIndex(i, outShape, a.Shape(), outStrides, aStrides)
		bi := tensor.BroadcastIndex(i, outShape, b.Shape(), outStrides, bStrides)
		dst[i] = scalar(av[ai], bv[bi])
	}, cpu.cfg.Parallel)
	return cpu.result(op, dst, outShape, promote(a.DType(), b.DType()))
}

// unary applies fn to every element.
func (cpu *CPUBackend) unary(op string, x *tensor.RawTensor, fn func(float64) float64) *tensor.RawTensor {
	requireFloat(op, x)
	data := x.Float64s()
	parallel.ForRange(len(data), func(start, end int) {
		for i := start; i < end; i++ {
			data[i] = fn(data[i])
		}
	}, cpu.cfg.Parallel)
	return cpu.result(op, data, x.Shape(), x.DType())
}

// MulScalar multiplies every element by c.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, c float64) *tensor.RawTensor {
	requireFloat("mul_scalar", x)
	data := x.Float64s()
	floats.Scale(c, data)
	return cpu.result("mul_scalar", data, x.Shape(), x.DType())
}

// AddScalar adds c to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, c float64) *tensor.RawTensor {
	requireFloat("add_scalar", x)
	data := x.Float64s()
	floats.AddConst(c, data)
	return cpu.result("add_scalar", data, x.Shape(), x.DType())
}

// PowScalar raises every element to the power p.
func (cpu *CPUBackend) PowScalar(x *tensor.RawTensor, p float64) *tensor.RawTensor {
	return cpu.unary("pow", x, func(v float64) float64 { return math.Pow(v, p) })
}

// Neg negates every element.
func (cpu *CPUBackend) Neg(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.MulScalar(x, -1)
}

// Exp computes element-wise exponential: exp(x).
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("exp", x, math.Exp)
}

// Log computes element-wise natural logarithm. Non-positive inputs yield -Inf or NaN.
func (cpu *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("log", x, math.Log)
}

// Tanh computes element-wise hyperbolic tangent.
func (cpu *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("tanh", x, math.Tanh)
}
