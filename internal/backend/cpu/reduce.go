package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/autograd/internal/tensor"
)

// Sum adds all elements into a scalar (shape {}).
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	requireFloat("sum", x)
	return cpu.result("sum", []float64{floats.Sum(x.Float64s())}, tensor.Shape{}, x.DType())
}

// SumDim sums along dim. With keepDim the reduced dimension stays as size 1.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	requireFloat("sum_dim", x)
	shape := x.Shape()
	dim, err := shape.NormalizeDim(dim)
	if err != nil {
		panic(fmt.Sprintf("sum_dim: %v", err))
	}

	outer, inner := 1, 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}

	src := x.Float64s()
	dst := make([]float64, outer*inner)
	for o := 0; o < outer; o++ {
		for k := 0; k < shape[dim]; k++ {
			row := src[(o*shape[dim]+k)*inner : (o*shape[dim]+k+1)*inner]
			floats.Add(dst[o*inner:(o+1)*inner], row)
		}
	}

	outShape := make(tensor.Shape, 0, len(shape))
	for d, size := range shape {
		switch {
		case d != dim:
			outShape = append(outShape, size)
		case keepDim:
			outShape = append(outShape, 1)
		}
	}
	return cpu.result("sum_dim", dst, outShape, x.DType())
}
