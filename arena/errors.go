// ABOUTME: Sentinel errors for reference-contract violations
// ABOUTME: All errors are programming-contract violations, never recovered

package arena

import "errors"

var (
	// ErrUseAfterFree is returned when an unowned reference (or a closure
	// with an unowned capture) is dereferenced after its target's
	// destruction. The arena chooses checked semantics over undefined
	// behavior: the stale generation is always detected.
	ErrUseAfterFree = errors.New("use of unowned reference after target destruction")

	// ErrDoubleFree is returned when Release is called on a handle whose
	// external reference was already given up.
	ErrDoubleFree = errors.New("handle released twice")

	// ErrInvalidHandle is returned when any operation is invoked with a
	// handle to a destroyed or unknown entity.
	ErrInvalidHandle = errors.New("invalid or destroyed entity handle")

	// ErrNoField is returned when reading a field that was never assigned.
	ErrNoField = errors.New("no such reference field")

	// ErrKindMismatch is returned when a field is read through the wrong
	// accessor for its reference kind.
	ErrKindMismatch = errors.New("reference field has a different kind")

	// ErrBadCapture is returned when a closure is constructed with a
	// capture kind other than Strong or Unowned.
	ErrBadCapture = errors.New("closure capture must be strong or unowned")

	// ErrNotClosure is returned when Invoke is called on an entity that
	// was not built by BindClosure.
	ErrNotClosure = errors.New("entity is not a closure")
)
