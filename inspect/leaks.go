// ABOUTME: Detects leaked strong-reference cycles in a snapshot
// ABOUTME: Tarjan SCC over strong edges, filtered to root-unreachable components

package inspect

import (
	"sort"

	"github.com/prateek/refgraph/arena"
)

// Leak is a strongly connected component of strong references that no
// external handle can reach. Its members keep each other alive forever;
// no destruction hook will ever fire for them.
type Leak struct {
	IDs []arena.EntID // sorted ascending
}

// Leaks finds every leaked strong cycle in the snapshot. A component
// counts as a cycle when it has more than one member, or a single member
// with a strong edge to itself.
func Leaks(s *Snapshot) []Leak {
	reachable := reachableFromRoots(s)

	// Tarjan's algorithm, iteration order fixed by ascending node ID so
	// results are deterministic.
	index := make(map[arena.EntID]int)
	lowlink := make(map[arena.EntID]int)
	onStack := make(map[arena.EntID]bool)
	var stack []arena.EntID
	next := 0

	var components [][]arena.EntID

	var strongconnect func(v arena.EntID)
	strongconnect = func(v arena.EntID) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range s.StrongTargets(v) {
			if _, seen := index[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
		}

		if lowlink[v] == index[v] {
			var comp []arena.EntID
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			components = append(components, comp)
		}
	}

	s.ForEachNode(func(n *Node) {
		if _, seen := index[n.ID]; !seen {
			strongconnect(n.ID)
		}
	})

	var leaks []Leak
	for _, comp := range components {
		if reachable[comp[0]] {
			continue
		}
		if len(comp) == 1 && !hasSelfEdge(s, comp[0]) {
			continue
		}
		sort.Slice(comp, func(i, j int) bool { return comp[i] < comp[j] })
		leaks = append(leaks, Leak{IDs: comp})
	}
	sort.Slice(leaks, func(i, j int) bool { return leaks[i].IDs[0] < leaks[j].IDs[0] })
	return leaks
}

// reachableFromRoots marks every entity reachable from a root handle over
// strong edges.
func reachableFromRoots(s *Snapshot) map[arena.EntID]bool {
	reachable := make(map[arena.EntID]bool)
	queue := append([]arena.EntID(nil), s.GetRoots().IDs...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if reachable[id] || s.GetNode(id) == nil {
			continue
		}
		reachable[id] = true
		queue = append(queue, s.StrongTargets(id)...)
	}
	return reachable
}

func hasSelfEdge(s *Snapshot, id arena.EntID) bool {
	for _, t := range s.StrongTargets(id) {
		if t == id {
			return true
		}
	}
	return false
}
