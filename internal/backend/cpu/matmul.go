package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/autograd/internal/tensor"
)

// MatMul multiplies 1-D or 2-D operands.
//
//	[M, K] @ [K, N] -> [M, N]
//	[K]    @ [K, N] -> [N]
//	[M, K] @ [K]    -> [M]
//	[K]    @ [K]    -> []   (dot product)
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	requireFloat("matmul", a, b)
	as, bs := a.Shape(), b.Shape()

	var m, k, k2, n int
	switch as.Rank() {
	case 1:
		m, k = 1, as[0]
	case 2:
		m, k = as[0], as[1]
	default:
		panic(fmt.Sprintf("matmul: left operand must be 1-D or 2-D, got shape %v", as))
	}
	switch bs.Rank() {
	case 1:
		k2, n = bs[0], 1
	case 2:
		k2, n = bs[0], bs[1]
	default:
		panic(fmt.Sprintf("matmul: right operand must be 1-D or 2-D, got shape %v", bs))
	}
	if k != k2 {
		panic(fmt.Sprintf("matmul: inner dimensions differ: %v @ %v", as, bs))
	}

	left := mat.NewDense(m, k, a.Float64s())
	right := mat.NewDense(k, n, b.Float64s())
	var out mat.Dense
	out.Mul(left, right)

	outShape := tensor.Shape{}
	if as.Rank() == 2 {
		outShape = append(outShape, m)
	}
	if bs.Rank() == 2 {
		outShape = append(outShape, n)
	}
	return cpu.result("matmul", denseData(&out), outShape, promote(a.DType(), b.DType()))
}

// denseData copies a dense matrix into a contiguous row-major slice.
func denseData(d *mat.Dense) []float64 {
	raw := d.RawMatrix()
	if raw.Stride == raw.Cols {
		return append([]float64(nil), raw.Data[:raw.Rows*raw.Cols]...)
	}
	data := make([]float64, 0, raw.Rows*raw.Cols)
	for r := 0; r < raw.Rows; r++ {
		data = append(data, raw.Data[r*raw.Stride:r*raw.Stride+raw.Cols]...)
	}
	return data
}
