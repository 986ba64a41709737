// ABOUTME: BFS algorithm for finding retainer paths to external handles
// ABOUTME: Explains why an entity is still alive despite releases

package inspect

import "github.com/prateek/refgraph/arena"

// Path is a chain of strong references from an entity back to a root
// handle: the first ID is the entity, the last a root.
type Path struct {
	IDs []arena.EntID
}

// RetainerPaths finds up to maxPaths chains of strong references that keep
// the given entity alive, searching referrers breadth-first. An entity with
// no retainer paths and a nonzero strong count is being kept alive by a
// strong cycle.
func RetainerPaths(s *Snapshot, from arena.EntID, maxPaths int) []Path {
	if maxPaths <= 0 {
		return nil
	}

	reverse := BuildReverseEdges(s)

	rootSet := make(map[arena.EntID]bool)
	for _, id := range s.GetRoots().IDs {
		rootSet[id] = true
	}

	if rootSet[from] {
		return []Path{{IDs: []arena.EntID{from}}}
	}

	type searchNode struct {
		id   arena.EntID
		path []arena.EntID
	}

	var result []Path
	queue := []searchNode{{id: from, path: []arena.EntID{from}}}

	for len(queue) > 0 && len(result) < maxPaths {
		node := queue[0]
		queue = queue[1:]

		for _, referrer := range reverse[node.id] {
			// A referrer already on the path means a strong cycle;
			// walking it again would never terminate.
			inPath := false
			for _, id := range node.path {
				if id == referrer {
					inPath = true
					break
				}
			}
			if inPath {
				continue
			}

			newPath := make([]arena.EntID, len(node.path)+1)
			copy(newPath, node.path)
			newPath[len(node.path)] = referrer

			if rootSet[referrer] {
				result = append(result, Path{IDs: newPath})
				if len(result) >= maxPaths {
					break
				}
			} else {
				queue = append(queue, searchNode{id: referrer, path: newPath})
			}
		}
	}

	return result
}
