// ABOUTME: Arena of reference-counted entities with strong/weak/unowned edges
// ABOUTME: Implements eager, deterministic cascading destruction at strong count zero

package arena

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Arena owns a table of entities indexed by handle and tracks every
// reference between them. All liveness is explicit: an entity is destroyed
// eagerly, exactly once, the moment its strong-reference count reaches
// zero, and destruction cascades depth-first over its strong out-edges in
// the order those edges were established.
//
// An Arena is not safe for concurrent use. All count mutations and
// cascades complete before the mutating call returns.
type Arena struct {
	instance uuid.UUID
	log      *zap.Logger

	entities map[EntID]*entity
	nextID   EntID

	// weakRefs maps an entity to the weak fields pointing at it, so they
	// can be nulled when it is destroyed.
	weakRefs map[EntID][]backRef

	events []Event
}

// Option configures an Arena.
type Option func(*Arena)

// WithLogger attaches a structured logger; every destruction hook is
// mirrored to it. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(a *Arena) {
		a.log = log
	}
}

// New creates an empty arena.
func New(opts ...Option) *Arena {
	a := &Arena{
		instance: uuid.New(),
		log:      zap.NewNop(),
		entities: make(map[EntID]*entity),
		nextID:   1,
		weakRefs: make(map[EntID][]backRef),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// randomGeneration returns a random nonzero 64-bit generation.
// Zero is reserved to mean "destroyed".
func randomGeneration() Generation {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return Generation(0xDEADBEEF)
	}
	g := Generation(binary.LittleEndian.Uint64(buf[:]))
	if g == 0 {
		g = Generation(0xDEADBEEF)
	}
	return g
}

// Allocate creates an entity with strong count 1, owned by the returned
// handle. The attribute map is copied.
func (a *Arena) Allocate(kind string, attrs map[string]string) Handle {
	e := &entity{
		id:           a.nextID,
		gen:          randomGeneration(),
		kind:         kind,
		attrs:        make(map[string]string, len(attrs)),
		strong:       1,
		fields:       make(map[string]edge),
		externalHeld: true,
	}
	for k, v := range attrs {
		e.attrs[k] = v
	}
	a.nextID++
	a.entities[e.id] = e
	return Handle{id: e.id, gen: e.gen}
}

// live resolves a handle to its entity, or fails if the entity was
// destroyed or the handle is unknown.
func (a *Arena) live(h Handle) (*entity, error) {
	e, ok := a.entities[h.id]
	if !ok || e.freed || e.gen != h.gen {
		return nil, fmt.Errorf("%w: entity %d", ErrInvalidHandle, h.id)
	}
	return e, nil
}

// AssignStrong points holder's field at target with a strong reference,
// releasing whatever the field previously referenced. A nil target clears
// the field. The new target is retained before the old one is released, so
// reassigning a field to its current target is a no-op rather than a
// transient destruction.
func (a *Arena) AssignStrong(holder Handle, field string, target *Handle) error {
	e, err := a.live(holder)
	if err != nil {
		return err
	}
	var t *entity
	if target != nil {
		if t, err = a.live(*target); err != nil {
			return err
		}
		t.strong++
	}
	old, had := e.fields[field]
	if t != nil {
		e.fields[field] = edge{kind: Strong, target: t.id, gen: t.gen}
	} else {
		e.fields[field] = edge{kind: Strong}
	}
	if !had {
		e.fieldOrder = append(e.fieldOrder, field)
	}
	a.releaseEdge(e.id, field, old, had)
	return nil
}

// AssignWeak points holder's field at target with a weak reference. The
// target's strong count is untouched; the field is registered for
// automatic nulling when the target is destroyed.
func (a *Arena) AssignWeak(holder Handle, field string, target *Handle) error {
	e, err := a.live(holder)
	if err != nil {
		return err
	}
	var t *entity
	if target != nil {
		if t, err = a.live(*target); err != nil {
			return err
		}
	}
	old, had := e.fields[field]
	if t != nil {
		t.weak++
		a.weakRefs[t.id] = append(a.weakRefs[t.id], backRef{holder: e.id, field: field})
		e.fields[field] = edge{kind: Weak, target: t.id, gen: t.gen}
	} else {
		e.fields[field] = edge{kind: Weak}
	}
	if !had {
		e.fieldOrder = append(e.fieldOrder, field)
	}
	a.releaseEdge(e.id, field, old, had)
	return nil
}

// AssignUnowned points holder's field at target with an unowned reference.
// The target's strong count is untouched and nothing is registered: the
// field simply remembers the target's current generation, and any read
// after the target is destroyed fails with ErrUseAfterFree.
func (a *Arena) AssignUnowned(holder Handle, field string, target Handle) error {
	e, err := a.live(holder)
	if err != nil {
		return err
	}
	t, err := a.live(target)
	if err != nil {
		return err
	}
	old, had := e.fields[field]
	e.fields[field] = edge{kind: Unowned, target: t.id, gen: t.gen}
	if !had {
		e.fieldOrder = append(e.fieldOrder, field)
	}
	a.releaseEdge(e.id, field, old, had)
	return nil
}

// releaseEdge gives up whatever reference a field used to hold. For a
// strong edge this decrements the old target and may cascade; for a weak
// edge it unregisters the nulling hook.
func (a *Arena) releaseEdge(holder EntID, field string, old edge, had bool) {
	if !had || old.target == 0 {
		return
	}
	switch old.kind {
	case Strong:
		a.decStrong(old.target)
	case Weak:
		a.dropWeak(holder, field, old.target)
	}
}

// dropWeak unregisters a weak field from its target's back-reference list.
func (a *Arena) dropWeak(holder EntID, field string, target EntID) {
	t, ok := a.entities[target]
	if !ok || t.freed {
		return
	}
	t.weak--
	refs := a.weakRefs[target]
	for i, br := range refs {
		if br.holder == holder && br.field == field {
			a.weakRefs[target] = append(refs[:i], refs[i+1:]...)
			break
		}
	}
}

// decStrong decrements an entity's strong count, destroying it on the
// transition to zero.
func (a *Arena) decStrong(id EntID) {
	e := a.entities[id]
	if e == nil || e.freed {
		panic(fmt.Errorf("strong release of destroyed entity %d", id))
	}
	e.strong--
	if e.strong < 0 {
		panic(fmt.Errorf("negative strong count on entity %d", id))
	}
	if e.strong == 0 {
		a.destroy(e)
	}
}

// destroy runs the destruction hook, cascades over strong out-edges
// depth-first in insertion order, then nulls every weak field pointing at
// the entity. The hook runs before any cascading release.
func (a *Arena) destroy(e *entity) {
	e.freed = true
	e.gen = 0

	ev := Event{
		Seq:   len(a.events),
		ID:    e.id,
		Kind:  e.kind,
		Attrs: make(map[string]string, len(e.attrs)),
	}
	for k, v := range e.attrs {
		ev.Attrs[k] = v
	}
	a.events = append(a.events, ev)
	a.log.Info("entity destroyed",
		zap.String("arena", a.instance.String()),
		zap.Uint64("entity", uint64(e.id)),
		zap.String("kind", e.kind),
		zap.Int("seq", ev.Seq))

	for _, field := range e.fieldOrder {
		ed := e.fields[field]
		if ed.target == 0 {
			continue
		}
		switch ed.kind {
		case Strong:
			a.decStrong(ed.target)
		case Weak:
			a.dropWeak(e.id, field, ed.target)
		}
	}

	for _, br := range a.weakRefs[e.id] {
		holder, ok := a.entities[br.holder]
		if !ok || holder.freed {
			continue
		}
		if ed, ok := holder.fields[br.field]; ok && ed.kind == Weak && ed.target == e.id {
			holder.fields[br.field] = edge{kind: Weak}
		}
	}
	delete(a.weakRefs, e.id)
}

// Release gives up the external strong reference behind a handle, the
// moral equivalent of setting a top-level variable to nil. Destruction
// cascades complete before Release returns. Releasing a handle twice, or
// after its entity was destroyed, fails with ErrDoubleFree.
func (a *Arena) Release(h Handle) error {
	e, ok := a.entities[h.id]
	if !ok || e.freed || e.gen != h.gen || !e.externalHeld {
		return fmt.Errorf("%w: entity %d", ErrDoubleFree, h.id)
	}
	e.externalHeld = false
	a.decStrong(e.id)
	return nil
}

// ReadStrong returns the handle behind a strong field, or nil if the
// field was cleared.
func (a *Arena) ReadStrong(holder Handle, field string) (*Handle, error) {
	e, err := a.live(holder)
	if err != nil {
		return nil, err
	}
	ed, ok := e.fields[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoField, field)
	}
	if ed.kind != Strong {
		return nil, fmt.Errorf("%w: %q is %s", ErrKindMismatch, field, ed.kind)
	}
	if ed.target == 0 {
		return nil, nil
	}
	t := a.entities[ed.target]
	return &Handle{id: t.id, gen: t.gen}, nil
}

// ReadWeak returns the handle behind a weak field, or nil if the target
// has been destroyed (or the field was cleared).
func (a *Arena) ReadWeak(holder Handle, field string) (*Handle, error) {
	e, err := a.live(holder)
	if err != nil {
		return nil, err
	}
	ed, ok := e.fields[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoField, field)
	}
	if ed.kind != Weak {
		return nil, fmt.Errorf("%w: %q is %s", ErrKindMismatch, field, ed.kind)
	}
	if ed.target == 0 {
		return nil, nil
	}
	t := a.entities[ed.target]
	return &Handle{id: t.id, gen: t.gen}, nil
}

// ReadUnowned returns the handle behind an unowned field. If the target
// was destroyed since the edge was set, the remembered generation no
// longer matches and the read fails with ErrUseAfterFree.
func (a *Arena) ReadUnowned(holder Handle, field string) (Handle, error) {
	e, err := a.live(holder)
	if err != nil {
		return Handle{}, err
	}
	ed, ok := e.fields[field]
	if !ok {
		return Handle{}, fmt.Errorf("%w: %q", ErrNoField, field)
	}
	if ed.kind != Unowned {
		return Handle{}, fmt.Errorf("%w: %q is %s", ErrKindMismatch, field, ed.kind)
	}
	t, ok := a.entities[ed.target]
	if !ok || t.freed || t.gen != ed.gen {
		return Handle{}, fmt.Errorf("%w: field %q of entity %d", ErrUseAfterFree, field, e.id)
	}
	return Handle{id: t.id, gen: t.gen}, nil
}

// Alive reports whether the handle still refers to a live entity.
func (a *Arena) Alive(h Handle) bool {
	_, err := a.live(h)
	return err == nil
}

// StrongCount returns the entity's current strong-reference count,
// including the external handle if it is still held.
func (a *Arena) StrongCount(h Handle) (int, error) {
	e, err := a.live(h)
	if err != nil {
		return 0, err
	}
	return e.strong, nil
}

// WeakCount returns the number of weak fields currently pointing at the
// entity.
func (a *Arena) WeakCount(h Handle) (int, error) {
	e, err := a.live(h)
	if err != nil {
		return 0, err
	}
	return e.weak, nil
}

// Events returns a copy of the destruction log in hook order.
func (a *Arena) Events() []Event {
	out := make([]Event, len(a.events))
	copy(out, a.events)
	return out
}

// NumLive returns the number of entities not yet destroyed, including any
// leaked strong cycles.
func (a *Arena) NumLive() int {
	n := 0
	for _, e := range a.entities {
		if !e.freed {
			n++
		}
	}
	return n
}
