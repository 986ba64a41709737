// ABOUTME: Core data types for the reference-counted entity arena
// ABOUTME: Defines Handle, RefKind, Event, and internal entity structures

package arena

// EntID is a unique identifier for an entity slot in an arena.
// IDs are never reused within an arena.
type EntID uint64

// Generation is a random 64-bit liveness token. Every entity is allocated
// with a fresh generation; destruction zeroes it, invalidating every
// handle and unowned edge that remembered the old value.
type Generation uint64

// RefKind tags a directed edge between two entities.
type RefKind int

const (
	// Strong keeps the target alive: it contributes to the target's
	// strong-reference count.
	Strong RefKind = iota
	// Weak does not keep the target alive and reads as nil once the
	// target is destroyed.
	Weak
	// Unowned does not keep the target alive and is never nulled;
	// dereferencing it after the target is destroyed is a contract
	// violation surfaced as ErrUseAfterFree.
	Unowned
)

// String returns the lowercase name of the reference kind.
func (k RefKind) String() string {
	switch k {
	case Strong:
		return "strong"
	case Weak:
		return "weak"
	case Unowned:
		return "unowned"
	}
	return "unknown"
}

// Handle is an external strong reference to an entity. Allocate returns
// one, and the entity cannot be destroyed until Release is called on it.
// Handles are value types; copying one does not create a new reference.
type Handle struct {
	id  EntID
	gen Generation
}

// ID returns the entity identifier behind the handle.
func (h Handle) ID() EntID { return h.id }

// Event is a single destruction-hook notification. Events are appended to
// the arena's observation log in the exact order destruction hooks ran.
type Event struct {
	Seq   int               // Position in the arena's destruction order, from 0
	ID    EntID             // Entity that was destroyed
	Kind  string            // Entity kind (e.g. "tenant", "apartment")
	Attrs map[string]string // Identifying attributes captured at allocation
}

// edge is a directed, tagged reference stored under a field name.
type edge struct {
	kind   RefKind
	target EntID
	gen    Generation // generation of the target when the edge was set
}

// entity is a single arena slot.
type entity struct {
	id    EntID
	gen   Generation
	kind  string
	attrs map[string]string

	strong int // strong references: internal edges plus the external handle
	weak   int // weak references currently pointing at this entity

	// fields maps field names to outgoing edges. fieldOrder preserves
	// insertion order so cascading release is deterministic.
	fields     map[string]edge
	fieldOrder []string

	// fn is non-nil for closure entities.
	fn *closure

	externalHeld bool
	freed        bool
}

// backRef identifies a weak field to null out when its target dies.
type backRef struct {
	holder EntID
	field  string
}
