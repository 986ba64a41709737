// ABOUTME: Closure-capture support: callables that close over an entity
// ABOUTME: Capture kind is chosen at construction (strong or unowned)

package arena

// closure is the callable payload of a "closure" entity. The capture
// itself is stored as a regular tagged edge on the entity, so counting and
// cascades need no special cases.
type closure struct {
	fn func(captured Handle) error
}

// captureField is the edge name under which a closure stores its capture.
const captureField = "captured"

// BindClosure allocates a closure entity that closes over owner, stores it
// strongly under owner's field, and returns an external handle to it. The
// capture kind decides how the closure refers back to its owner: Strong
// forms a reference cycle with the owner, Unowned breaks it at the price
// of ErrUseAfterFree once the owner is gone. Weak captures are not
// supported.
func (a *Arena) BindClosure(owner Handle, field string, capture RefKind, fn func(captured Handle) error) (Handle, error) {
	if _, err := a.live(owner); err != nil {
		return Handle{}, err
	}
	if capture != Strong && capture != Unowned {
		return Handle{}, ErrBadCapture
	}

	ch := a.Allocate("closure", map[string]string{"field": field})
	a.entities[ch.id].fn = &closure{fn: fn}

	// Capture edge first, then the owner's strong edge to the closure.
	// Field insertion order on the closure is just the capture edge, so a
	// cascade through the closure releases the owner exactly once.
	if capture == Strong {
		if err := a.AssignStrong(ch, captureField, &owner); err != nil {
			return Handle{}, err
		}
	} else {
		if err := a.AssignUnowned(ch, captureField, owner); err != nil {
			return Handle{}, err
		}
	}
	if err := a.AssignStrong(owner, field, &ch); err != nil {
		return Handle{}, err
	}
	return ch, nil
}

// Invoke calls the closure behind the handle, resolving its capture
// first. With an unowned capture whose owner has been destroyed, the
// resolution fails with ErrUseAfterFree and the callable never runs.
func (a *Arena) Invoke(h Handle) error {
	e, err := a.live(h)
	if err != nil {
		return err
	}
	if e.fn == nil {
		return ErrNotClosure
	}
	ed := e.fields[captureField]
	if ed.kind == Unowned {
		captured, err := a.ReadUnowned(h, captureField)
		if err != nil {
			return err
		}
		return e.fn.fn(captured)
	}
	t := a.entities[ed.target]
	return e.fn.fn(Handle{id: t.id, gen: t.gen})
}
