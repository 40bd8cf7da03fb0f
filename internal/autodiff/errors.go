package autodiff

import "github.com/pkg/errors"

// Sentinel errors returned by the engine. Returned errors wrap one of these
// with context; test with errors.Is.
var (
	// ErrNoGradientPath is returned when the backward root is untracked or has
	// no producer.
	ErrNoGradientPath = errors.New("no gradient path")

	// ErrShapeMismatch is returned when a seed or an in-place source does not
	// match the target shape.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrAmbiguousGradient is returned when backward is called on a
	// multi-element root without a seed.
	ErrAmbiguousGradient = errors.New("ambiguous gradient: seed required for non-scalar root")

	// ErrGraphAlreadyFreed is returned when a traversal reaches a node released
	// by an earlier non-retained backward pass.
	ErrGraphAlreadyFreed = errors.New("graph already freed")

	// ErrCycleDetected is returned when the reachable graph is not acyclic.
	ErrCycleDetected = errors.New("cycle detected in computation graph")

	// ErrStaleIntermediate is returned when a value saved for backward was
	// modified in place after it was recorded.
	ErrStaleIntermediate = errors.New("saved tensor modified in place")

	// ErrInPlaceOnTracked is returned when an in-place update targets a leaf
	// that requires grad while tracking is enabled.
	ErrInPlaceOnTracked = errors.New("in-place update on a leaf that requires grad")
)
