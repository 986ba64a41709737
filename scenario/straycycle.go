// ABOUTME: Strong-cycle demonstration: two entities that leak by construction
// ABOUTME: The destruction log stays empty after both handles are released

package scenario

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/prateek/refgraph/arena"
)

// StrayCycle wires two entities with mutual strong references and releases
// both external handles. Neither strong count can reach zero through
// internal releases alone, so no destruction hook ever fires. The empty
// log is the demonstrated defect, not a bug in the arena.
type StrayCycle struct{}

func (StrayCycle) Name() string { return "straycycle" }

func (StrayCycle) Describe() string {
	return "mutual strong references leak: no destruction hook ever fires"
}

func (StrayCycle) Run(log *zap.Logger) ([]arena.Event, error) {
	a := arena.New(arena.WithLogger(log))

	first := a.Allocate("tenant", map[string]string{"name": "Hugh"})
	second := a.Allocate("apartment", map[string]string{"unit": "9C"})

	if err := a.AssignStrong(first, "home", &second); err != nil {
		return nil, err
	}
	if err := a.AssignStrong(second, "tenant", &first); err != nil {
		return nil, err
	}

	if err := a.Release(first); err != nil {
		return nil, err
	}
	if err := a.Release(second); err != nil {
		return nil, err
	}

	if live := a.NumLive(); live != 2 {
		return nil, fmt.Errorf("expected both entities to leak, %d live", live)
	}
	log.Warn("strong cycle leaked", zap.Int("entities", a.NumLive()))

	return a.Events(), nil
}

func init() {
	Register(StrayCycle{})
}
