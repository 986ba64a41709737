// ABOUTME: Tests for the main refgraph package, verifying project structure
// ABOUTME: These tests ensure the basic package setup is working correctly

package refgraph_test

import (
	"testing"

	"github.com/prateek/refgraph"
)

func TestProjectStructure(t *testing.T) {
	// Verify the version constant exists and is non-empty
	if refgraph.Version == "" {
		t.Error("Version constant should not be empty")
	}

	// Verify version format (should be semantic versioning)
	expectedPrefix := "0."
	if len(refgraph.Version) < len(expectedPrefix) || refgraph.Version[:len(expectedPrefix)] != expectedPrefix {
		t.Errorf("Version should start with %q, got %q", expectedPrefix, refgraph.Version)
	}
}
