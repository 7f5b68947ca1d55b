package commitment

import (
	"context"
	"sync"

	"github.com/tokenlayer/lib-txpipeline/txpipeline/log"
)

type undoStep struct {
	name string
	fn   func(ctx context.Context) error
}

// UndoStack collects compensating actions and runs them in reverse order.
type UndoStack struct {
	mu     sync.Mutex
	logger log.Logger
	steps  []undoStep
}

// NewUndoStack returns an empty stack that logs failed steps to logger.
func NewUndoStack(logger log.Logger) *UndoStack {
	return &UndoStack{logger: log.OrNop(logger)}
}

// Push registers a compensating action.
func (u *UndoStack) Push(name string, fn func(ctx context.Context) error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.steps = append(u.steps, undoStep{name: name, fn: fn})
}

// Len returns the number of registered actions.
func (u *UndoStack) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()

	return len(u.steps)
}

// Discard drops every registered action without running it.
func (u *UndoStack) Discard() {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.steps = nil
}

// Unwind runs the registered actions last-in first-out and empties the stack.
// A failing action is logged and the remaining ones still run. Unwind returns
// how many actions failed.
func (u *UndoStack) Unwind(ctx context.Context) int {
	u.mu.Lock()
	steps := u.steps
	u.steps = nil
	u.mu.Unlock()

	// compensations must run even when the operation's context was cancelled
	ctx = context.WithoutCancel(ctx)
	failed := 0

	for i := len(steps) - 1; i >= 0; i-- {
		if err := steps[i].fn(ctx); err != nil {
			failed++

			u.logger.Log(ctx, log.LevelError, "compensating action failed",
				log.String("step", steps[i].name), log.Err(err))
		}
	}

	return failed
}
