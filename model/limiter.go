package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrCallLimit is returned once a LimitedCompleter has used its budget.
var ErrCallLimit = errors.New("model: call limit exceeded")

// LimitedCompleter enforces a maximum number of completion calls.
type LimitedCompleter struct {
	next  Completer
	max   int
	count int
	mu    sync.Mutex
}

// Limit wraps c so that at most max calls reach it. If max <= 0 c is
// returned unchanged.
func Limit(c Completer, max int) Completer {
	if c == nil || max <= 0 {
		return c
	}

	return &LimitedCompleter{next: c, max: max}
}

// Complete implements Completer. Calls past the budget fail without
// reaching the wrapped completer.
func (l *LimitedCompleter) Complete(ctx context.Context, req Request) (string, error) {
	l.mu.Lock()
	l.count++
	over := l.count > l.max
	l.mu.Unlock()

	if over {
		return "", fmt.Errorf("%w: %d", ErrCallLimit, l.max)
	}

	return l.next.Complete(ctx, req)
}

// Count returns the number of calls made, including rejected ones.
func (l *LimitedCompleter) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.count
}

// Info implements Completer.
func (l *LimitedCompleter) Info() Info { return l.next.Info() }
