package cpu

import (
	"fmt"

	"github.com/born-ml/autograd/internal/tensor"
)

// Reshape returns a view of x with a new shape. One dimension may be -1 and
// is inferred from the element count.
func (cpu *CPUBackend) Reshape(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	resolved, err := resolveShape(shape, x.NumElements())
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	view, err := x.View(resolved)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return view
}

func resolveShape(shape tensor.Shape, numElements int) (tensor.Shape, error) {
	out := shape.Clone()
	infer := -1
	known := 1
	for i, d := range out {
		if d == -1 {
			if infer >= 0 {
				return nil, fmt.Errorf("only one dimension can be inferred in %v", shape)
			}
			infer = i
			continue
		}
		known *= d
	}
	if infer >= 0 {
		if known <= 0 || numElements%known != 0 {
			return nil, fmt.Errorf("cannot infer dimension of %v for %d elements", shape, numElements)
		}
		out[infer] = numElements / known
	}
	return out, nil
}

// Transpose permutes the axes of x. With no axes it reverses them.
func (cpu *CPUBackend) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := x.Shape()
	rank := shape.Rank()
	if len(axes) == 0 {
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}
	if len(axes) != rank {
		panic(fmt.Sprintf("transpose: got %d axes for shape %v", len(axes), shape))
	}
	seen := make([]bool, rank)
	outShape := make(tensor.Shape, rank)
	for i, ax := range axes {
		if ax < 0 || ax >= rank || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid permutation %v for shape %v", axes, shape))
		}
		seen[ax] = true
		outShape[i] = shape[ax]
	}

	src := x.Float64s()
	dst := make([]float64, len(src))
	inStrides := shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()
	for i := range dst {
		rem, srcIdx := i, 0
		for d := 0; d < rank; d++ {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			srcIdx += coord * inStrides[axes[d]]
		}
		dst[i] = src[srcIdx]
	}
	return cpu.result("transpose", dst, outShape, x.DType())
}

// Expand broadcasts x to shape.
func (cpu *CPUBackend) Expand(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	out, _, err := tensor.BroadcastShapes(x.Shape(), shape)
	if err != nil || !out.Equal(shape) {
		panic(fmt.Sprintf("expand: cannot broadcast %v to %v", x.Shape(), shape))
	}
	src := x.Float64s()
	dst := make([]float64, shape.NumElements())
	outStrides, inStrides := shape.ComputeStrides(), x.Shape().ComputeStrides()
	for i := range dst {
		dst[i] = src[tensor.BroadcastIndex(i, shape, x.Shape(), outStrides, inStrides)]
	}
	return cpu.result("expand", dst, shape.Clone(), x.DType())
}

// SumTo sums x over its broadcast dimensions so the result has shape. It is
// the adjoint of Expand and is how broadcasting gradients are reduced.
func (cpu *CPUBackend) SumTo(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	if x.Shape().Equal(shape) {
		return cpu.result("sum_to", x.Float64s(), shape.Clone(), x.DType())
	}
	out, _, err := tensor.BroadcastShapes(shape, x.Shape())
	if err != nil || !out.Equal(x.Shape()) {
		panic(fmt.Sprintf("sum_to: %v is not a broadcast of %v", x.Shape(), shape))
	}
	src := x.Float64s()
	dst := make([]float64, shape.NumElements())
	srcStrides, dstStrides := x.Shape().ComputeStrides(), shape.ComputeStrides()
	for i, v := range src {
		dst[tensor.BroadcastIndex(i, x.Shape(), shape, srcStrides, dstStrides)] += v
	}
	return cpu.result("sum_to", dst, shape.Clone(), x.DType())
}

// Narrow returns elements [start, start+length) along dim as new storage.
func (cpu *CPUBackend) Narrow(x *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	shape := x.Shape()
	dim, outer, inner := narrowGeometry("narrow", shape, dim, start, length)
	outShape := shape.Clone()
	outShape[dim] = length

	src := x.Float64s()
	dst := make([]float64, 0, outShape.NumElements())
	for o := 0; o < outer; o++ {
		base := (o*shape[dim] + start) * inner
		dst = append(dst, src[base:base+length*inner]...)
	}
	return cpu.result("narrow", dst, outShape, x.DType())
}

// PadNarrow places x at offset start along dim inside a zero tensor of shape.
// It is the adjoint of Narrow.
func (cpu *CPUBackend) PadNarrow(x *tensor.RawTensor, shape tensor.Shape, dim, start int) *tensor.RawTensor {
	if x.Shape().Rank() != shape.Rank() {
		panic(fmt.Sprintf("pad_narrow: rank of %v differs from %v", x.Shape(), shape))
	}
	dim = normalizeDimOrPanic("pad_narrow", shape, dim)
	length := x.Shape()[dim]
	_, outer, inner := narrowGeometry("pad_narrow", shape, dim, start, length)

	src := x.Float64s()
	dst := make([]float64, shape.NumElements())
	for o := 0; o < outer; o++ {
		base := (o*shape[dim] + start) * inner
		copy(dst[base:base+length*inner], src[o*length*inner:(o+1)*length*inner])
	}
	return cpu.result("pad_narrow", dst, shape.Clone(), x.DType())
}

// narrowGeometry validates a narrow window and returns the normalized dim with
// the products of the dimensions before and after it.
func narrowGeometry(op string, shape tensor.Shape, dim, start, length int) (nd, outer, inner int) {
	nd = normalizeDimOrPanic(op, shape, dim)
	if start < 0 || length <= 0 || start+length > shape[nd] {
		panic(fmt.Sprintf("%s: window [%d, %d) out of range for dim %d of %v", op, start, start+length, nd, shape))
	}
	outer, inner = 1, 1
	for d := 0; d < nd; d++ {
		outer *= shape[d]
	}
	for d := nd + 1; d < len(shape); d++ {
		inner *= shape[d]
	}
	return nd, outer, inner
}

func normalizeDimOrPanic(op string, shape tensor.Shape, dim int) int {
	nd, err := shape.NormalizeDim(dim)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}
	return nd
}
