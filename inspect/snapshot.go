// ABOUTME: Immutable snapshot of an arena's live reference graph
// ABOUTME: Provides node storage, roots, and strong-edge adjacency queries

package inspect

import (
	"sort"
	"sync"

	"github.com/prateek/refgraph/arena"
)

// Edge is one tagged reference in a snapshot, in field insertion order.
type Edge struct {
	Field  string
	Kind   arena.RefKind
	Target arena.EntID // 0 for a cleared or nulled field
}

// Node is a live entity as seen at capture time.
type Node struct {
	ID    arena.EntID
	Kind  string
	Attrs map[string]string
	Edges []Edge
}

// Roots is the set of entities held by live external handles.
type Roots struct {
	IDs []arena.EntID
}

// Snapshot is a point-in-time copy of an arena's live entities, including
// members of leaked strong cycles. Analyses in this package never touch
// the arena itself.
type Snapshot struct {
	mu    sync.RWMutex
	nodes map[arena.EntID]*Node
	roots Roots
}

// NewSnapshot creates an empty snapshot, for fixture parsers and tests.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		nodes: make(map[arena.EntID]*Node),
	}
}

// Capture copies every live entity out of the arena. The given handles
// become the snapshot's roots; destroyed handles are ignored.
func Capture(a *arena.Arena, roots ...arena.Handle) *Snapshot {
	s := NewSnapshot()
	a.ForEachLive(func(info arena.Info) {
		edges := make([]Edge, len(info.Edges))
		for i, e := range info.Edges {
			edges[i] = Edge{Field: e.Field, Kind: e.Kind, Target: e.Target}
		}
		s.AddNode(&Node{
			ID:    info.ID,
			Kind:  info.Kind,
			Attrs: info.Attrs,
			Edges: edges,
		})
	})
	var ids []arena.EntID
	for _, h := range roots {
		if a.Alive(h) {
			ids = append(ids, h.ID())
		}
	}
	s.SetRoots(Roots{IDs: ids})
	return s
}

// AddNode adds a node to the snapshot, replacing any node with the same ID.
func (s *Snapshot) AddNode(n *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[n.ID] = n
}

// GetNode retrieves a node by ID, or nil.
func (s *Snapshot) GetNode(id arena.EntID) *Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nodes[id]
}

// NumNodes returns the number of captured entities.
func (s *Snapshot) NumNodes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// ForEachNode iterates over all nodes in ascending ID order.
func (s *Snapshot) ForEachNode(fn func(*Node)) {
	s.mu.RLock()
	ids := make([]arena.EntID, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fn(s.GetNode(id))
	}
}

// SetRoots sets the external-handle roots.
func (s *Snapshot) SetRoots(roots Roots) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roots = roots
}

// GetRoots returns the external-handle roots.
func (s *Snapshot) GetRoots() Roots {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roots
}

// StrongTargets returns the IDs a node references strongly, in edge order.
func (s *Snapshot) StrongTargets(id arena.EntID) []arena.EntID {
	n := s.GetNode(id)
	if n == nil {
		return nil
	}
	var out []arena.EntID
	for _, e := range n.Edges {
		if e.Kind == arena.Strong && e.Target != 0 {
			out = append(out, e.Target)
		}
	}
	return out
}
