// ABOUTME: Customer/card demonstration: an unowned back-reference breaks the cycle
// ABOUTME: A card never outlives its customer, so no nulling is needed

package scenario

import (
	"go.uber.org/zap"

	"github.com/prateek/refgraph/arena"
)

// Credit wires a customer strongly to a credit card and the card unowned
// back to the customer. The card cannot outlive the customer holding it,
// which is exactly when unowned is the right kind: no count, no nulling,
// and both entities are destroyed once the customer is released.
type Credit struct{}

func (Credit) Name() string { return "credit" }

func (Credit) Describe() string {
	return "customer strong→card, card unowned→customer: unowned reference breaks the cycle"
}

func (Credit) Run(log *zap.Logger) ([]arena.Event, error) {
	a := arena.New(arena.WithLogger(log))

	customer := a.Allocate("customer", map[string]string{"name": "Carol"})
	card := a.Allocate("card", map[string]string{"number": "1234 5678"})

	if err := a.AssignStrong(customer, "card", &card); err != nil {
		return nil, err
	}
	if err := a.AssignUnowned(card, "customer", customer); err != nil {
		return nil, err
	}

	if err := a.Release(card); err != nil {
		return nil, err
	}
	if err := a.Release(customer); err != nil {
		return nil, err
	}

	return a.Events(), nil
}

func init() {
	Register(Credit{})
}
