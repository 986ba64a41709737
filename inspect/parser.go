// ABOUTME: Parser interface for reference-graph fixture formats
// ABOUTME: Defines the contract for pluggable fixture loaders

package inspect

import "io"

// Parser is the interface for fixture loaders. Fixtures describe a
// reference graph (nodes, tagged edges, roots) for tests and
// demonstrations without driving a live arena.
type Parser interface {
	// CanParse checks if this parser can handle the given fixture format.
	// The reader is a preview; implementations should read a small amount
	// to detect the format and not consume the entire stream.
	CanParse(r io.Reader) bool

	// Parse reads the fixture and builds a snapshot. The reader is
	// positioned at the start of the input.
	Parse(r io.Reader) (*Snapshot, error)
}
