// ABOUTME: YAML fixture parser for reference-graph snapshots
// ABOUTME: Same node/edge/root shapes as the JSON format

package inspect

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/prateek/refgraph/arena"
)

// YAMLFixture parses YAML reference-graph fixtures.
type YAMLFixture struct{}

type yamlFixture struct {
	Nodes []yamlNode    `yaml:"nodes"`
	Roots []arena.EntID `yaml:"roots"`
}

type yamlNode struct {
	ID    arena.EntID       `yaml:"id"`
	Kind  string            `yaml:"kind"`
	Attrs map[string]string `yaml:"attrs"`
	Edges []yamlEdge        `yaml:"edges"`
}

type yamlEdge struct {
	Field  string      `yaml:"field"`
	Kind   string      `yaml:"kind"`
	Target arena.EntID `yaml:"target"`
}

// CanParse checks whether the input decodes as YAML with a "nodes"
// sequence. JSON input also decodes as YAML, so the JSON parser must be
// consulted first; registration order in this package guarantees that.
func (p *YAMLFixture) CanParse(r io.Reader) bool {
	buf := make([]byte, 1024)
	n, err := r.Read(buf)
	if err != nil && err != io.EOF {
		return false
	}
	if n == 0 {
		return false
	}

	var test struct {
		Nodes []yaml.Node `yaml:"nodes"`
	}
	if err := yaml.Unmarshal(buf[:n], &test); err != nil {
		return false
	}
	return test.Nodes != nil
}

// Parse reads the YAML fixture and builds a snapshot.
func (p *YAMLFixture) Parse(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var fix yamlFixture
	if err := yaml.Unmarshal(data, &fix); err != nil {
		return nil, fmt.Errorf("failed to decode YAML fixture: %w", err)
	}

	nodes := make([]jsonNode, len(fix.Nodes))
	for i, n := range fix.Nodes {
		edges := make([]jsonEdge, len(n.Edges))
		for j, e := range n.Edges {
			edges[j] = jsonEdge{Field: e.Field, Kind: e.Kind, Target: e.Target}
		}
		nodes[i] = jsonNode{ID: n.ID, Kind: n.Kind, Attrs: n.Attrs, Edges: edges}
	}
	return buildSnapshot(nodes, fix.Roots)
}

func init() {
	Register(&YAMLFixture{})
}
