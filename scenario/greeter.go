// ABOUTME: Closure-capture demonstration: a greeter closing over its owner unowned
// ABOUTME: Invoking after the owner's release surfaces the use-after-free check

package scenario

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/prateek/refgraph/arena"
)

// Greeter binds a callable to a user entity that captures the user
// unowned. Invoking it while the user lives succeeds; once the user's
// last external handle is released the user is destroyed, and the next
// invocation fails with the use-after-free check instead of reading a
// dead entity.
type Greeter struct{}

func (Greeter) Name() string { return "greeter" }

func (Greeter) Describe() string {
	return "closure captures its owner unowned: invoke after release signals use-after-free"
}

func (Greeter) Run(log *zap.Logger) ([]arena.Event, error) {
	a := arena.New(arena.WithLogger(log))

	user := a.Allocate("user", map[string]string{"name": "Frank"})

	greet, err := a.BindClosure(user, "greeter", arena.Unowned, func(captured arena.Handle) error {
		log.Info("greeting", zap.Uint64("user", uint64(captured.ID())))
		return nil
	})
	if err != nil {
		return nil, err
	}

	// First invocation: the owner is alive, the capture resolves.
	if err := a.Invoke(greet); err != nil {
		return nil, err
	}

	if err := a.Release(user); err != nil {
		return nil, err
	}

	// Second invocation: the unowned capture is stale now.
	if err := a.Invoke(greet); !errors.Is(err, arena.ErrUseAfterFree) {
		return nil, fmt.Errorf("expected use-after-free on stale capture, got %v", err)
	}

	if err := a.Release(greet); err != nil {
		return nil, err
	}

	return a.Events(), nil
}

func init() {
	Register(Greeter{})
}
