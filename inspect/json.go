// ABOUTME: JSON fixture parser for reference-graph snapshots
// ABOUTME: Reads nodes with tagged edges and external-handle roots

package inspect

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/prateek/refgraph/arena"
)

// JSONFixture parses JSON reference-graph fixtures.
type JSONFixture struct{}

type jsonFixture struct {
	Nodes []jsonNode    `json:"nodes"`
	Roots []arena.EntID `json:"roots"`
}

type jsonNode struct {
	ID    arena.EntID       `json:"id"`
	Kind  string            `json:"kind"`
	Attrs map[string]string `json:"attrs"`
	Edges []jsonEdge        `json:"edges"`
}

type jsonEdge struct {
	Field  string      `json:"field"`
	Kind   string      `json:"kind"`
	Target arena.EntID `json:"target"`
}

// parseRefKind maps a fixture edge tag to a RefKind.
func parseRefKind(s string) (arena.RefKind, error) {
	switch s {
	case "strong":
		return arena.Strong, nil
	case "weak":
		return arena.Weak, nil
	case "unowned":
		return arena.Unowned, nil
	}
	return 0, fmt.Errorf("unknown reference kind %q", s)
}

// CanParse checks whether the input looks like a JSON fixture: a JSON
// object with a non-null "nodes" key.
func (p *JSONFixture) CanParse(r io.Reader) bool {
	buf := make([]byte, 1024)
	n, err := r.Read(buf)
	if err != nil && err != io.EOF {
		return false
	}
	if n == 0 {
		return false
	}

	var test struct {
		Nodes json.RawMessage `json:"nodes"`
	}
	if err := json.Unmarshal(buf[:n], &test); err != nil {
		return false
	}
	return test.Nodes != nil
}

// Parse reads the JSON fixture and builds a snapshot.
func (p *JSONFixture) Parse(r io.Reader) (*Snapshot, error) {
	var fix jsonFixture
	if err := json.NewDecoder(r).Decode(&fix); err != nil {
		return nil, fmt.Errorf("failed to decode JSON fixture: %w", err)
	}
	return buildSnapshot(fix.Nodes, fix.Roots)
}

// buildSnapshot assembles a snapshot from decoded fixture nodes. Shared by
// the JSON and YAML parsers, which decode into the same shapes.
func buildSnapshot(nodes []jsonNode, roots []arena.EntID) (*Snapshot, error) {
	s := NewSnapshot()
	for i, n := range nodes {
		if n.ID == 0 {
			return nil, fmt.Errorf("node at index %d missing id", i)
		}
		node := &Node{
			ID:    n.ID,
			Kind:  n.Kind,
			Attrs: n.Attrs,
			Edges: make([]Edge, 0, len(n.Edges)),
		}
		if node.Attrs == nil {
			node.Attrs = map[string]string{}
		}
		for _, e := range n.Edges {
			kind, err := parseRefKind(e.Kind)
			if err != nil {
				return nil, fmt.Errorf("node %d field %q: %w", n.ID, e.Field, err)
			}
			node.Edges = append(node.Edges, Edge{Field: e.Field, Kind: kind, Target: e.Target})
		}
		s.AddNode(node)
	}
	if roots == nil {
		roots = []arena.EntID{}
	}
	s.SetRoots(Roots{IDs: roots})
	return s, nil
}

func init() {
	Register(&JSONFixture{})
}
