// Package nn holds the parameter registry that connects trainable tensors to
// the autodiff engine.
package nn

import (
	"github.com/pkg/errors"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/tensor"
)

// Parameter represents a trainable parameter: a named leaf tensor that
// requires gradients.
//
// Example:
//
//	w := engine.Randn(tensor.Shape{5, 3}, tensor.Float64, rng, false)
//	weight, _ := nn.NewParameter("linear.weight", w)
//
//	// After loss.Backward()
//	grad := weight.Grad()
type Parameter struct {
	name   string
	tensor *autodiff.Tensor
}

// NewParameter marks t as requiring grad and wraps it. t must be a leaf.
func NewParameter(name string, t *autodiff.Tensor) (*Parameter, error) {
	if err := t.SetRequiresGrad(true); err != nil {
		return nil, errors.Wrapf(err, "parameter %q", name)
	}
	t.SetName(name)
	return &Parameter{name: name, tensor: t}, nil
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *autodiff.Tensor {
	return p.tensor
}

// Grad returns the accumulated gradient, or nil before the first backward
// pass and after ZeroGrad.
func (p *Parameter) Grad() *tensor.RawTensor {
	return p.tensor.Grad()
}

// ZeroGrad clears the gradient.
func (p *Parameter) ZeroGrad() {
	p.tensor.ZeroGrad()
}

// ParameterSet is an ordered collection of uniquely named parameters.
type ParameterSet struct {
	order  []*Parameter
	byName map[string]*Parameter
}

// NewParameterSet creates a set holding params in order.
func NewParameterSet(params ...*Parameter) (*ParameterSet, error) {
	s := &ParameterSet{byName: make(map[string]*Parameter)}
	for _, p := range params {
		if err := s.Add(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends p. Names must be unique within the set.
func (s *ParameterSet) Add(p *Parameter) error {
	if _, ok := s.byName[p.name]; ok {
		return errors.Errorf("duplicate parameter name %q", p.name)
	}
	s.order = append(s.order, p)
	s.byName[p.name] = p
	return nil
}

// Get looks up a parameter by name.
func (s *ParameterSet) Get(name string) (*Parameter, bool) {
	p, ok := s.byName[name]
	return p, ok
}

// All returns the parameters in insertion order.
func (s *ParameterSet) All() []*Parameter {
	return append([]*Parameter(nil), s.order...)
}

// Len returns the number of parameters.
func (s *ParameterSet) Len() int {
	return len(s.order)
}

// ZeroGrad clears every parameter's gradient.
func (s *ParameterSet) ZeroGrad() {
	for _, p := range s.order {
		p.ZeroGrad()
	}
}

// Grads returns the current gradient of every parameter that has one.
func (s *ParameterSet) Grads() map[string]*tensor.RawTensor {
	grads := make(map[string]*tensor.RawTensor, len(s.order))
	for _, p := range s.order {
		if g := p.Grad(); g != nil {
			grads[p.name] = g
		}
	}
	return grads
}

// NumElements returns the total number of scalar parameters.
func (s *ParameterSet) NumElements() int {
	n := 0
	for _, p := range s.order {
		n += p.tensor.NumElements()
	}
	return n
}
