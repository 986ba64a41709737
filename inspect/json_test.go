// ABOUTME: Tests for the JSON fixture parser
// ABOUTME: Validates decoding, edge kinds, and error handling

package inspect

import (
	"strings"
	"testing"

	"github.com/prateek/refgraph/arena"
)

func TestJSONParse(t *testing.T) {
	data := `{
		"nodes": [
			{"id": 1, "kind": "tenant", "attrs": {"name": "Alice"},
			 "edges": [{"field": "home", "kind": "strong", "target": 2}]},
			{"id": 2, "kind": "apartment", "attrs": {"unit": "4A"},
			 "edges": [{"field": "tenant", "kind": "weak", "target": 1}]}
		],
		"roots": [1, 2]
	}`

	parser := &JSONFixture{}
	s, err := parser.Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if s.NumNodes() != 2 {
		t.Errorf("Expected 2 nodes, got %d", s.NumNodes())
	}

	n := s.GetNode(1)
	if n == nil {
		t.Fatal("Node 1 not found")
	}
	if n.Kind != "tenant" {
		t.Errorf("Expected kind 'tenant', got %s", n.Kind)
	}
	if n.Attrs["name"] != "Alice" {
		t.Errorf("Expected attr name=Alice, got %v", n.Attrs)
	}
	if len(n.Edges) != 1 || n.Edges[0].Kind != arena.Strong || n.Edges[0].Target != 2 {
		t.Errorf("Expected strong edge to 2, got %v", n.Edges)
	}

	n2 := s.GetNode(2)
	if n2 == nil {
		t.Fatal("Node 2 not found")
	}
	if len(n2.Edges) != 1 || n2.Edges[0].Kind != arena.Weak {
		t.Errorf("Expected weak edge, got %v", n2.Edges)
	}

	roots := s.GetRoots()
	if len(roots.IDs) != 2 {
		t.Errorf("Expected 2 roots, got %v", roots.IDs)
	}
}

func TestJSONParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not JSON", data: "not json at all"},
		{name: "missing id", data: `{"nodes": [{"kind": "x"}]}`},
		{name: "bad edge kind", data: `{"nodes": [{"id": 1, "edges": [{"field": "f", "kind": "soft", "target": 2}]}]}`},
	}

	parser := &JSONFixture{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parser.Parse(strings.NewReader(tt.data)); err == nil {
				t.Error("Expected parse error, got nil")
			}
		})
	}
}

func TestJSONCanParse(t *testing.T) {
	parser := &JSONFixture{}

	if !parser.CanParse(strings.NewReader(`{"nodes": []}`)) {
		t.Error("Should accept JSON with nodes key")
	}
	if parser.CanParse(strings.NewReader(`{"objects": []}`)) {
		t.Error("Should reject JSON without nodes key")
	}
	if parser.CanParse(strings.NewReader("nodes:\n  - id: 1\n")) {
		t.Error("Should reject YAML input")
	}
	if parser.CanParse(strings.NewReader("")) {
		t.Error("Should reject empty input")
	}
}
