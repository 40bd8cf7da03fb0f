package autodiff

import (
	"fmt"

	"github.com/born-ml/autograd/internal/autodiff/ops"
	"github.com/born-ml/autograd/internal/tensor"
)

// Add returns t + other with broadcasting.
func (t *Tensor) Add(other *Tensor) *Tensor {
	return t.engine.Apply(ops.NewAddOp(), t, other)
}

// Sub returns t - other with broadcasting.
func (t *Tensor) Sub(other *Tensor) *Tensor {
	return t.engine.Apply(ops.NewSubOp(), t, other)
}

// Mul returns t * other element-wise with broadcasting.
func (t *Tensor) Mul(other *Tensor) *Tensor {
	return t.engine.Apply(ops.NewMulOp(), t, other)
}

// Div returns t / other element-wise with broadcasting.
func (t *Tensor) Div(other *Tensor) *Tensor {
	return t.engine.Apply(ops.NewDivOp(), t, other)
}

// Neg returns -t.
func (t *Tensor) Neg() *Tensor {
	return t.engine.Apply(ops.NewNegOp(), t)
}

// MulScalar returns t * c.
func (t *Tensor) MulScalar(c float64) *Tensor {
	return t.engine.Apply(ops.NewMulScalarOp(c), t)
}

// AddScalar returns t + c.
func (t *Tensor) AddScalar(c float64) *Tensor {
	return t.engine.Apply(ops.NewAddScalarOp(c), t)
}

// Pow returns t raised to the power p element-wise.
func (t *Tensor) Pow(p float64) *Tensor {
	return t.engine.Apply(ops.NewPowOp(p), t)
}

// Exp returns e^t.
func (t *Tensor) Exp() *Tensor {
	return t.engine.Apply(ops.NewExpOp(), t)
}

// Log returns the natural logarithm of t.
func (t *Tensor) Log() *Tensor {
	return t.engine.Apply(ops.NewLogOp(), t)
}

// Sigmoid returns 1 / (1 + e^-t).
func (t *Tensor) Sigmoid() *Tensor {
	return t.engine.Apply(ops.NewSigmoidOp(), t)
}

// Tanh returns the hyperbolic tangent of t.
func (t *Tensor) Tanh() *Tensor {
	return t.engine.Apply(ops.NewTanhOp(), t)
}

// ReLU returns max(t, 0).
func (t *Tensor) ReLU() *Tensor {
	return t.engine.Apply(ops.NewReLUOp(), t)
}

// MatMul returns the matrix product of t and other. 1-D operands are
// promoted as in torch.matmul.
func (t *Tensor) MatMul(other *Tensor) *Tensor {
	return t.engine.Apply(ops.NewMatMulOp(), t, other)
}

// Transpose permutes the axes. Without arguments the axes are reversed.
func (t *Tensor) Transpose(axes ...int) *Tensor {
	return t.engine.Apply(ops.NewTransposeOp(axes...), t)
}

// Reshape returns t with a new shape holding the same elements. One
// dimension may be -1.
func (t *Tensor) Reshape(shape ...int) *Tensor {
	return t.engine.Apply(ops.NewReshapeOp(tensor.Shape(shape)), t)
}

// Sum reduces all elements to a scalar.
func (t *Tensor) Sum() *Tensor {
	return t.engine.Apply(ops.NewSumOp(), t)
}

// Mean reduces all elements to their mean.
func (t *Tensor) Mean() *Tensor {
	return t.engine.Apply(ops.NewMeanOp(), t)
}

// SumDim sums along dim, keeping it as size 1 when keepDim is set.
func (t *Tensor) SumDim(dim int, keepDim bool) *Tensor {
	return t.engine.Apply(ops.NewSumDimOp(dim, keepDim), t)
}

// Cast converts t to dtype. Gradients are cast back to t's dtype.
func (t *Tensor) Cast(dtype tensor.DataType) *Tensor {
	return t.engine.Apply(ops.NewCastOp(dtype), t)
}

// Narrow returns elements [start, start+length) along dim.
func (t *Tensor) Narrow(dim, start, length int) *Tensor {
	return t.engine.Apply(ops.NewNarrowOp(dim, start, length), t)
}

// Chunk splits t into at most n pieces along dim. Every piece but the last
// has ceil(size/n) elements along dim. Each piece is recorded as its own node.
func (t *Tensor) Chunk(n, dim int) []*Tensor {
	if n <= 0 {
		panic(fmt.Sprintf("chunk: number of chunks must be positive, got %d", n))
	}
	d, err := t.Shape().NormalizeDim(dim)
	if err != nil {
		panic(fmt.Sprintf("chunk: %v", err))
	}
	size := t.Shape()[d]
	step := (size + n - 1) / n

	chunks := make([]*Tensor, 0, n)
	for start := 0; start < size; start += step {
		chunks = append(chunks, t.Narrow(d, start, min(step, size-start)))
	}
	return chunks
}

// BinaryCrossEntropyWithLogits returns the mean binary cross-entropy between
// logits and targets, computed in the numerically stable form
// max(z,0) - z*y + log(1+exp(-|z|)). Targets broadcast to the logits' shape.
func BinaryCrossEntropyWithLogits(logits, targets *Tensor) *Tensor {
	return logits.engine.Apply(ops.NewBCEWithLogitsOp(), logits, targets)
}
