// ABOUTME: Registry for fixture parsers
// ABOUTME: Selects the parser that recognizes a fixture's format

package inspect

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

// ErrNoParser is returned when no parser recognizes the fixture format.
var ErrNoParser = errors.New("no parser found for fixture format")

type parserRegistry struct {
	mu      sync.RWMutex
	parsers []Parser
}

var registry = &parserRegistry{
	parsers: make([]Parser, 0),
}

// Register adds a parser to the registry.
func Register(p Parser) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.parsers = append(registry.parsers, p)
}

// Open reads a fixture and returns a snapshot, trying each registered
// parser until one recognizes the format.
func Open(r io.Reader) (*Snapshot, error) {
	// Buffer a prefix so every parser can peek at the same bytes.
	detectBuf := make([]byte, 4096)
	n, err := io.ReadFull(r, detectBuf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}

	registry.mu.RLock()
	defer registry.mu.RUnlock()

	for _, parser := range registry.parsers {
		if parser.CanParse(bytes.NewReader(detectBuf[:n])) {
			parseReader := io.MultiReader(bytes.NewReader(detectBuf[:n]), r)
			return parser.Parse(parseReader)
		}
	}

	return nil, ErrNoParser
}
