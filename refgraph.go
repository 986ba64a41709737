// ABOUTME: Main refgraph package providing version information and package documentation
// ABOUTME: This is the root package for the reference-counting demonstration library

// Package refgraph is a memory-model demonstration library: an explicit
// reference-counted object graph with strong, weak, and unowned edges,
// deterministic cascading destruction, leak diagnostics, and a set of
// runnable ownership scenarios.
package refgraph

// Version is the semantic version of the refgraph library
const Version = "0.1.0-dev"
