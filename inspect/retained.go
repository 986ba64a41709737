// ABOUTME: Computes the set of entities a root handle is solely keeping alive
// ABOUTME: Simulates the cascading release of that handle over the snapshot

package inspect

import (
	"sort"

	"github.com/prateek/refgraph/arena"
)

// RetainedSet returns the entities that would be destroyed if the given
// root handle were released, computed by simulating the count cascade on
// the snapshot: each entity's strong count is its strong in-edges plus one
// per external handle; dropping the root's external count propagates
// through entities that reach zero. Strong cycles below the root survive
// the simulated release, exactly as they would the real one. Results are
// sorted ascending; nil if the ID is not a root.
func RetainedSet(s *Snapshot, root arena.EntID) []arena.EntID {
	counts := make(map[arena.EntID]int)
	s.ForEachNode(func(n *Node) {
		for _, t := range s.StrongTargets(n.ID) {
			counts[t]++
		}
	})
	isRoot := false
	for _, id := range s.GetRoots().IDs {
		counts[id]++
		if id == root {
			isRoot = true
		}
	}
	if !isRoot {
		return nil
	}

	var destroyed []arena.EntID
	dead := make(map[arena.EntID]bool)
	var release func(id arena.EntID)
	release = func(id arena.EntID) {
		if dead[id] || s.GetNode(id) == nil {
			return
		}
		counts[id]--
		if counts[id] > 0 {
			return
		}
		dead[id] = true
		destroyed = append(destroyed, id)
		for _, t := range s.StrongTargets(id) {
			release(t)
		}
	}
	release(root)

	sort.Slice(destroyed, func(i, j int) bool { return destroyed[i] < destroyed[j] })
	return destroyed
}
