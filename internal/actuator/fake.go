package actuator

import (
	"context"
	"sync"
)

// Fake records every applied level, for tests.
type Fake struct {
	mu      sync.Mutex
	applied []int
	err     error
}

// NewFake returns a recording Actuator. A non-nil err is returned from
// every Apply while still recording the attempted level.
func NewFake(err error) *Fake {
	return &Fake{err: err}
}

func (f *Fake) Apply(_ context.Context, level int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.applied = append(f.applied, level)

	return f.err
}

// Applied returns the levels applied so far, in order.
func (f *Fake) Applied() []int {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]int, len(f.applied))
	copy(out, f.applied)

	return out
}

// Last returns the most recently applied level, or 0 if none.
func (f *Fake) Last() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.applied) == 0 {
		return 0
	}

	return f.applied[len(f.applied)-1]
}
