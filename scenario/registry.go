// ABOUTME: Registry of runnable ownership demonstrations
// ABOUTME: Each scenario is an isolated graph whose output is a destruction log

package scenario

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/prateek/refgraph/arena"
)

// Scenario is one self-contained demonstration. Run builds its own arena,
// plays out the allocations and releases, and returns the ordered
// destruction log.
type Scenario interface {
	// Name is the registry key.
	Name() string

	// Describe summarizes what the demonstration shows.
	Describe() string

	// Run executes the demonstration and returns its destruction events.
	Run(log *zap.Logger) ([]arena.Event, error)
}

type scenarioRegistry struct {
	mu        sync.RWMutex
	scenarios map[string]Scenario
}

var registry = &scenarioRegistry{
	scenarios: make(map[string]Scenario),
}

// Register adds a scenario to the registry. Duplicate names panic: the
// registry is populated from init functions and a collision is a
// programming error.
func Register(s Scenario) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, dup := registry.scenarios[s.Name()]; dup {
		panic(fmt.Sprintf("scenario %q registered twice", s.Name()))
	}
	registry.scenarios[s.Name()] = s
}

// Get returns the named scenario, or nil.
func Get(name string) Scenario {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.scenarios[name]
}

// Names lists registered scenarios in sorted order.
func Names() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	names := make([]string, 0, len(registry.scenarios))
	for name := range registry.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the named scenario.
func Run(name string, log *zap.Logger) ([]arena.Event, error) {
	s := Get(name)
	if s == nil {
		return nil, fmt.Errorf("unknown scenario %q", name)
	}
	return s.Run(log)
}

// RunAll executes every scenario in name order and collects the logs.
func RunAll(log *zap.Logger) (map[string][]arena.Event, error) {
	out := make(map[string][]arena.Event)
	for _, name := range Names() {
		events, err := Run(name, log)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", name, err)
		}
		out[name] = events
	}
	return out, nil
}
