package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/autograd/internal/tensor"
)

// BCEWithLogits computes mean binary cross-entropy on raw logits.
//
// Uses the numerically stable form:
//
//	loss_i = max(z_i, 0) - z_i*y_i + log(1 + exp(-|z_i|))
//
// targets are broadcast to the logits' shape. The result is a scalar.
func (cpu *CPUBackend) BCEWithLogits(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	requireFloat("bce_with_logits", logits, targets)
	if !targets.Shape().Equal(logits.Shape()) {
		out, _, err := tensor.BroadcastShapes(targets.Shape(), logits.Shape())
		if err != nil || !out.Equal(logits.Shape()) {
			panic(fmt.Sprintf("bce_with_logits: targets %v do not broadcast to logits %v", targets.Shape(), logits.Shape()))
		}
		targets = cpu.Expand(targets, logits.Shape())
	}

	z, y := logits.Float64s(), targets.Float64s()
	var total float64
	for i := range z {
		total += math.Max(z[i], 0) - z[i]*y[i] + math.Log1p(math.Exp(-math.Abs(z[i])))
	}
	return cpu.result("bce_with_logits", []float64{total / float64(len(z))}, tensor.Shape{}, logits.DType())
}
