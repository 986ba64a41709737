// ABOUTME: Builds reverse strong edges for snapshot traversal
// ABOUTME: Maps entities to their strong referrers for retainer-path search

package inspect

import "github.com/prateek/refgraph/arena"

// ReverseEdges maps each entity to the entities holding a strong
// reference to it.
type ReverseEdges map[arena.EntID][]arena.EntID

// BuildReverseEdges creates a map of reverse strong edges. Weak and
// unowned edges do not retain anything, so they are excluded.
func BuildReverseEdges(s *Snapshot) ReverseEdges {
	reverse := make(ReverseEdges)

	s.ForEachNode(func(n *Node) {
		for _, target := range s.StrongTargets(n.ID) {
			reverse[target] = append(reverse[target], n.ID)
		}
	})

	return reverse
}
