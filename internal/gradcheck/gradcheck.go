// Package gradcheck compares gradients computed by the autodiff engine with
// central finite differences.
package gradcheck

import (
	"math"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/autograd/internal/autodiff"
)

// Func is a scalar function of the checked inputs.
type Func func(inputs []*autodiff.Tensor) *autodiff.Tensor

// Config holds the perturbation size and tolerances. An element passes when
// |analytic - numeric| <= AbsTol + RelTol*|numeric|.
type Config struct {
	Epsilon float64
	AbsTol  float64
	RelTol  float64
}

// DefaultConfig returns tolerances suitable for float64 inputs.
func DefaultConfig() Config {
	return Config{Epsilon: 1e-6, AbsTol: 1e-5, RelTol: 1e-3}
}

// InputReport is the result for one input.
type InputReport struct {
	Index     int
	Name      string
	MaxAbsErr float64
	MaxRelErr float64
	OK        bool
}

// Report is the result of a Check.
type Report struct {
	Inputs []InputReport
}

// OK reports whether every checked input passed.
func (r Report) OK() bool {
	for _, in := range r.Inputs {
		if !in.OK {
			return false
		}
	}
	return true
}

// MaxAbsErr returns the largest absolute error over all inputs.
func (r Report) MaxAbsErr() float64 {
	worst := 0.0
	for _, in := range r.Inputs {
		worst = math.Max(worst, in.MaxAbsErr)
	}
	return worst
}

// Check differentiates fn at inputs with the engine and compares every input
// that requires grad against central differences. Input gradient slots are
// reset before and left holding the analytic gradient afterwards.
//
// Perturbations write the inputs' storage directly and run with tracking
// disabled. The original values are restored before Check returns.
func Check(engine *autodiff.Engine, fn Func, inputs []*autodiff.Tensor, cfg Config) (Report, error) {
	if cfg.Epsilon <= 0 {
		return Report{}, errors.Errorf("gradcheck: epsilon must be positive, got %g", cfg.Epsilon)
	}
	for _, in := range inputs {
		in.ZeroGrad()
	}

	out := fn(inputs)
	if out.NumElements() != 1 {
		return Report{}, errors.Errorf("gradcheck: function must return one element, got shape %v", out.Shape())
	}
	if err := out.Backward(); err != nil {
		return Report{}, errors.Wrap(err, "gradcheck: backward")
	}

	defer engine.NoGrad()()
	eval := func() float64 { return fn(inputs).Item() }

	var report Report
	for i, in := range inputs {
		if !in.RequiresGrad() {
			continue
		}
		analytic := make([]float64, in.NumElements())
		if g := in.Grad(); g != nil {
			analytic = g.Float64s()
		}
		numeric := numericGrad(in, eval, cfg.Epsilon)

		r := InputReport{Index: i, Name: in.Name(), OK: true}
		for j := range numeric {
			absErr := math.Abs(analytic[j] - numeric[j])
			relErr := absErr / math.Max(math.Abs(numeric[j]), 1e-12)
			r.MaxAbsErr = math.Max(r.MaxAbsErr, absErr)
			r.MaxRelErr = math.Max(r.MaxRelErr, relErr)
			if absErr > cfg.AbsTol+cfg.RelTol*math.Abs(numeric[j]) {
				r.OK = false
			}
		}
		klog.V(2).Infof("gradcheck: input %d (%s) abs=%.3g rel=%.3g ok=%t", i, in.Name(), r.MaxAbsErr, r.MaxRelErr, r.OK)
		report.Inputs = append(report.Inputs, r)
	}
	return report, nil
}

// numericGrad estimates d eval / d x by central differences, one element at
// a time.
func numericGrad(x *autodiff.Tensor, eval func() float64, eps float64) []float64 {
	raw := x.Raw()
	orig := raw.Float64s()
	work := append([]float64(nil), orig...)
	grad := make([]float64, len(orig))

	for j := range work {
		work[j] = orig[j] + eps
		raw.SetFloat64s(work)
		plus := eval()

		work[j] = orig[j] - eps
		raw.SetFloat64s(work)
		minus := eval()

		work[j] = orig[j]
		grad[j] = (plus - minus) / (2 * eps)
	}
	raw.SetFloat64s(orig)
	return grad
}
