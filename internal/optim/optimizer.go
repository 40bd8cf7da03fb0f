// Package optim implements parameter update rules on top of the autodiff
// engine.
//
// Updates write parameter storage in place under a no-grad scope, which bumps
// the storage version of every updated parameter. Graphs recorded before the
// update that saved a parameter therefore fail with ErrStaleIntermediate
// instead of silently using the new values.
//
// Example:
//
//	opt := optim.NewSGD(params, optim.SGDConfig{LR: 0.1})
//	if err := loss.Backward(); err != nil { ... }
//	if err := opt.Step(); err != nil { ... }
//	opt.ZeroGrad()
package optim

// Optimizer updates parameters from their accumulated gradients.
type Optimizer interface {
	// Step applies one update to every parameter that has a gradient.
	Step() error

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// LR returns the current learning rate.
	LR() float64
}
