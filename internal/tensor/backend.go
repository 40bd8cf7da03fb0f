package tensor

// Backend defines the numeric library the autodiff engine computes with.
// Every method returns a freshly allocated tensor (or a view for Reshape) and
// never mutates its arguments, so values saved for the backward pass stay valid.
//
// Misuse (incompatible shapes, unsupported dtypes) panics with a descriptive
// message.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Scalar operations.
	MulScalar(x *RawTensor, c float64) *RawTensor
	AddScalar(x *RawTensor, c float64) *RawTensor
	PowScalar(x *RawTensor, p float64) *RawTensor

	// Element-wise math.
	Neg(x *RawTensor) *RawTensor
	Exp(x *RawTensor) *RawTensor
	Log(x *RawTensor) *RawTensor
	Tanh(x *RawTensor) *RawTensor
	Sigmoid(x *RawTensor) *RawTensor
	ReLU(x *RawTensor) *RawTensor
	Step(x *RawTensor) *RawTensor // 1 where x > 0, else 0

	// MatMul multiplies 1-D or 2-D operands following torch.matmul promotion:
	// a 1-D left operand is treated as a row, a 1-D right operand as a column,
	// and the promoted dimension is dropped from the result.
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations.
	Reshape(x *RawTensor, shape Shape) *RawTensor
	Transpose(x *RawTensor, axes ...int) *RawTensor
	Expand(x *RawTensor, shape Shape) *RawTensor // broadcast to shape
	SumTo(x *RawTensor, shape Shape) *RawTensor  // inverse of Expand
	Narrow(x *RawTensor, dim, start, length int) *RawTensor
	PadNarrow(x *RawTensor, shape Shape, dim, start int) *RawTensor // inverse of Narrow, zeros elsewhere

	// Reductions.
	Sum(x *RawTensor) *RawTensor // scalar result, shape {}
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// Losses.
	BCEWithLogits(logits, targets *RawTensor) *RawTensor // mean reduction, scalar result

	// Creation and conversion.
	Zeros(shape Shape, dtype DataType) *RawTensor
	Full(shape Shape, dtype DataType, value float64) *RawTensor
	Cast(x *RawTensor, dtype DataType) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
