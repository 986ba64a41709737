// ABOUTME: Tests for the reference-counted arena core
// ABOUTME: Covers destruction ordering, weak nulling, unowned checks, and error contracts

package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseFiresHookOnce(t *testing.T) {
	a := New()
	h := a.Allocate("tenant", map[string]string{"name": "Alice"})

	require.True(t, a.Alive(h))
	require.NoError(t, a.Release(h))

	events := a.Events()
	require.Len(t, events, 1, "hook must fire exactly once, before Release returns")
	assert.Equal(t, "tenant", events[0].Kind)
	assert.Equal(t, "Alice", events[0].Attrs["name"])
	assert.False(t, a.Alive(h))
}

func TestStrongReferenceKeepsTargetAlive(t *testing.T) {
	a := New()
	owner := a.Allocate("owner", nil)
	child := a.Allocate("child", nil)

	require.NoError(t, a.AssignStrong(owner, "child", &child))

	n, err := a.StrongCount(child)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "external handle plus one strong edge")

	// Dropping the external handle leaves the child alive through the edge.
	require.NoError(t, a.Release(child))
	assert.Empty(t, a.Events())

	require.NoError(t, a.Release(owner))
	events := a.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "owner", events[0].Kind)
	assert.Equal(t, "child", events[1].Kind)
}

func TestStrongReassignReleasesPrevious(t *testing.T) {
	a := New()
	owner := a.Allocate("owner", nil)
	first := a.Allocate("first", nil)
	second := a.Allocate("second", nil)

	require.NoError(t, a.AssignStrong(owner, "target", &first))
	require.NoError(t, a.Release(first))
	require.NoError(t, a.Release(second))
	assert.Empty(t, a.Events())

	// Reassigning the field drops the only remaining reference to first.
	require.NoError(t, a.AssignStrong(owner, "target", &second))
	events := a.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "first", events[0].Kind)

	// Clearing the field drops second too.
	require.NoError(t, a.AssignStrong(owner, "target", nil))
	events = a.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "second", events[1].Kind)
}

func TestStrongReassignSameTargetIsStable(t *testing.T) {
	a := New()
	owner := a.Allocate("owner", nil)
	child := a.Allocate("child", nil)

	require.NoError(t, a.AssignStrong(owner, "child", &child))
	require.NoError(t, a.Release(child))

	// The new reference is taken before the old one is released, so
	// re-pointing a field at its current target never destroys it.
	require.NoError(t, a.AssignStrong(owner, "child", &child))
	assert.Empty(t, a.Events())

	n, err := a.StrongCount(child)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWeakReadsNilAfterDestruction(t *testing.T) {
	a := New()
	apartment := a.Allocate("apartment", map[string]string{"unit": "4A"})
	tenant := a.Allocate("tenant", map[string]string{"name": "Bob"})

	require.NoError(t, a.AssignWeak(apartment, "tenant", &tenant))

	got, err := a.ReadWeak(apartment, "tenant")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, tenant.ID(), got.ID())

	n, err := a.WeakCount(tenant)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// The weak edge does not keep the tenant alive.
	require.NoError(t, a.Release(tenant))
	require.Len(t, a.Events(), 1)

	got, err = a.ReadWeak(apartment, "tenant")
	require.NoError(t, err)
	assert.Nil(t, got, "weak field must read nil once its target is destroyed")
}

func TestWeakReassignUnregistersOldTarget(t *testing.T) {
	a := New()
	holder := a.Allocate("holder", nil)
	first := a.Allocate("first", nil)
	second := a.Allocate("second", nil)

	require.NoError(t, a.AssignWeak(holder, "w", &first))
	require.NoError(t, a.AssignWeak(holder, "w", &second))

	n, err := a.WeakCount(first)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// Destroying first must not touch the field, which now points at second.
	require.NoError(t, a.Release(first))
	got, err := a.ReadWeak(holder, "w")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second.ID(), got.ID())
}

func TestUnownedReadAfterDestruction(t *testing.T) {
	a := New()
	card := a.Allocate("card", map[string]string{"number": "1234"})
	customer := a.Allocate("customer", map[string]string{"name": "Carol"})

	require.NoError(t, a.AssignUnowned(card, "customer", customer))

	got, err := a.ReadUnowned(card, "customer")
	require.NoError(t, err)
	assert.Equal(t, customer.ID(), got.ID())

	require.NoError(t, a.Release(customer))

	_, err = a.ReadUnowned(card, "customer")
	assert.ErrorIs(t, err, ErrUseAfterFree,
		"unowned read after destruction must never yield a live-looking handle")
}

func TestStrongCycleLeaks(t *testing.T) {
	a := New()
	x := a.Allocate("x", nil)
	y := a.Allocate("y", nil)

	require.NoError(t, a.AssignStrong(x, "other", &y))
	require.NoError(t, a.AssignStrong(y, "other", &x))

	require.NoError(t, a.Release(x))
	require.NoError(t, a.Release(y))

	// Mutual strong references: no hook ever fires. This is the defect
	// the weak and unowned kinds exist to prevent.
	assert.Empty(t, a.Events())
	assert.Equal(t, 2, a.NumLive())
}

func TestWeakBreaksCycle(t *testing.T) {
	a := New()
	tenant := a.Allocate("tenant", map[string]string{"name": "Dave"})
	apartment := a.Allocate("apartment", map[string]string{"unit": "7B"})

	require.NoError(t, a.AssignStrong(tenant, "home", &apartment))
	require.NoError(t, a.AssignWeak(apartment, "tenant", &tenant))

	require.NoError(t, a.Release(apartment))
	assert.Empty(t, a.Events())

	require.NoError(t, a.Release(tenant))
	events := a.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "tenant", events[0].Kind)
	assert.Equal(t, "apartment", events[1].Kind)
}

func TestUnownedBreaksCycle(t *testing.T) {
	a := New()
	customer := a.Allocate("customer", map[string]string{"name": "Erin"})
	card := a.Allocate("card", map[string]string{"number": "5678"})

	require.NoError(t, a.AssignStrong(customer, "card", &card))
	require.NoError(t, a.AssignUnowned(card, "customer", customer))

	require.NoError(t, a.Release(card))
	require.NoError(t, a.Release(customer))

	events := a.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "customer", events[0].Kind)
	assert.Equal(t, "card", events[1].Kind)
}

func TestCascadeIsDepthFirstInsertionOrder(t *testing.T) {
	a := New()
	root := a.Allocate("root", nil)
	left := a.Allocate("left", nil)
	leaf := a.Allocate("leaf", nil)
	right := a.Allocate("right", nil)

	// root -> left -> leaf, root -> right, edges in that insertion order.
	require.NoError(t, a.AssignStrong(root, "left", &left))
	require.NoError(t, a.AssignStrong(left, "leaf", &leaf))
	require.NoError(t, a.AssignStrong(root, "right", &right))

	for _, h := range []Handle{left, leaf, right} {
		require.NoError(t, a.Release(h))
	}
	require.Empty(t, a.Events())

	require.NoError(t, a.Release(root))
	events := a.Events()
	require.Len(t, events, 4)
	order := make([]string, len(events))
	for i, ev := range events {
		order[i] = ev.Kind
		assert.Equal(t, i, ev.Seq)
	}
	assert.Equal(t, []string{"root", "left", "leaf", "right"}, order)
}

func TestDiamondReleasesSharedTargetOnce(t *testing.T) {
	a := New()
	root := a.Allocate("root", nil)
	left := a.Allocate("left", nil)
	right := a.Allocate("right", nil)
	shared := a.Allocate("shared", nil)

	require.NoError(t, a.AssignStrong(root, "left", &left))
	require.NoError(t, a.AssignStrong(root, "right", &right))
	require.NoError(t, a.AssignStrong(left, "shared", &shared))
	require.NoError(t, a.AssignStrong(right, "shared", &shared))

	for _, h := range []Handle{left, right, shared} {
		require.NoError(t, a.Release(h))
	}

	require.NoError(t, a.Release(root))
	events := a.Events()
	require.Len(t, events, 4)
	order := make([]string, len(events))
	for i, ev := range events {
		order[i] = ev.Kind
	}
	// shared survives the left branch and dies when the right branch
	// drops the last strong reference.
	assert.Equal(t, []string{"root", "left", "right", "shared"}, order)
}

func TestDoubleFree(t *testing.T) {
	a := New()
	h := a.Allocate("thing", nil)

	require.NoError(t, a.Release(h))
	assert.ErrorIs(t, a.Release(h), ErrDoubleFree)
}

func TestOperationsOnDestroyedEntity(t *testing.T) {
	a := New()
	h := a.Allocate("thing", nil)
	other := a.Allocate("other", nil)
	require.NoError(t, a.Release(h))

	assert.ErrorIs(t, a.AssignStrong(h, "f", &other), ErrInvalidHandle)
	assert.ErrorIs(t, a.AssignStrong(other, "f", &h), ErrInvalidHandle)
	assert.ErrorIs(t, a.AssignWeak(other, "f", &h), ErrInvalidHandle)
	assert.ErrorIs(t, a.AssignUnowned(other, "f", h), ErrInvalidHandle)
	_, err := a.ReadWeak(h, "f")
	assert.ErrorIs(t, err, ErrInvalidHandle)
	_, err = a.StrongCount(h)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestFieldAccessors(t *testing.T) {
	a := New()
	holder := a.Allocate("holder", nil)
	target := a.Allocate("target", nil)

	_, err := a.ReadWeak(holder, "missing")
	assert.ErrorIs(t, err, ErrNoField)

	require.NoError(t, a.AssignStrong(holder, "s", &target))
	_, err = a.ReadWeak(holder, "s")
	assert.ErrorIs(t, err, ErrKindMismatch)
	_, err = a.ReadUnowned(holder, "s")
	assert.ErrorIs(t, err, ErrKindMismatch)

	got, err := a.ReadStrong(holder, "s")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, target.ID(), got.ID())
}
