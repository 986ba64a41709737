// ABOUTME: Country/capital demonstration: unowned reference set at initialization
// ABOUTME: Both entities are wired before either external handle is released

package scenario

import (
	"go.uber.org/zap"

	"github.com/prateek/refgraph/arena"
)

// Geography allocates a country and its capital city together: the
// country strongly owns the capital and the capital refers back unowned.
// Neither can exist without the other, so the pair is wired immediately
// after allocation and torn down as one unit.
type Geography struct{}

func (Geography) Name() string { return "geography" }

func (Geography) Describe() string {
	return "country strong→capital, capital unowned→country, wired at initialization"
}

func (Geography) Run(log *zap.Logger) ([]arena.Event, error) {
	a := arena.New(arena.WithLogger(log))

	country := a.Allocate("country", map[string]string{"name": "Canada"})
	capital := a.Allocate("city", map[string]string{"name": "Ottawa"})

	if err := a.AssignStrong(country, "capital", &capital); err != nil {
		return nil, err
	}
	if err := a.AssignUnowned(capital, "country", country); err != nil {
		return nil, err
	}

	if err := a.Release(capital); err != nil {
		return nil, err
	}
	if err := a.Release(country); err != nil {
		return nil, err
	}

	return a.Events(), nil
}

func init() {
	Register(Geography{})
}
