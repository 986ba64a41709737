// ABOUTME: Tenant/apartment demonstration: a weak back-reference breaks the cycle
// ABOUTME: Releasing the tenant destroys tenant then apartment, in that order

package scenario

import (
	"go.uber.org/zap"

	"github.com/prateek/refgraph/arena"
)

// Tenancy wires a tenant strongly to an apartment and the apartment
// weakly back to the tenant. Because the back-reference is weak, giving
// up the external handles destroys both entities: the tenant first, then
// the apartment in the cascade.
type Tenancy struct{}

func (Tenancy) Name() string { return "tenancy" }

func (Tenancy) Describe() string {
	return "tenant strong→apartment, apartment weak→tenant: weak reference breaks the cycle"
}

func (Tenancy) Run(log *zap.Logger) ([]arena.Event, error) {
	a := arena.New(arena.WithLogger(log))

	tenant := a.Allocate("tenant", map[string]string{"name": "Alice"})
	apartment := a.Allocate("apartment", map[string]string{"unit": "4A"})

	if err := a.AssignStrong(tenant, "home", &apartment); err != nil {
		return nil, err
	}
	if err := a.AssignWeak(apartment, "tenant", &tenant); err != nil {
		return nil, err
	}

	// The apartment survives its handle release through the tenant's
	// strong reference. The tenant's release then cascades.
	if err := a.Release(apartment); err != nil {
		return nil, err
	}
	if err := a.Release(tenant); err != nil {
		return nil, err
	}

	return a.Events(), nil
}

func init() {
	Register(Tenancy{})
}
