// ABOUTME: Read-only iteration over live entities and their edges
// ABOUTME: Feeds the inspect package's snapshot capture

package arena

// EdgeInfo describes one outgoing reference of a live entity, in field
// insertion order.
type EdgeInfo struct {
	Field  string
	Kind   RefKind
	Target EntID // 0 for a cleared or nulled field
}

// Info is a read-only view of a live entity.
type Info struct {
	ID    EntID
	Kind  string
	Attrs map[string]string
	Edges []EdgeInfo
}

// ForEachLive calls fn for every entity that has not been destroyed,
// including members of leaked strong cycles. Iteration order is
// unspecified.
func (a *Arena) ForEachLive(fn func(Info)) {
	for _, e := range a.entities {
		if e.freed {
			continue
		}
		info := Info{
			ID:    e.id,
			Kind:  e.kind,
			Attrs: make(map[string]string, len(e.attrs)),
			Edges: make([]EdgeInfo, 0, len(e.fieldOrder)),
		}
		for k, v := range e.attrs {
			info.Attrs[k] = v
		}
		for _, field := range e.fieldOrder {
			ed := e.fields[field]
			info.Edges = append(info.Edges, EdgeInfo{
				Field:  field,
				Kind:   ed.kind,
				Target: ed.target,
			})
		}
		fn(info)
	}
}
