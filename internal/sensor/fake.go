package sensor

import (
	"context"

	"github.com/afrojewelz/fan-control-lenovo/internal/errors"
)

// FakeRunner returns a Runner that serves canned output keyed by command
// name, for tests and dry runs. Unknown commands return the given error.
func FakeRunner(output map[string][]byte, err error) Runner {
	return func(_ context.Context, name string, _ ...string) ([]byte, error) {
		if out, ok := output[name]; ok {
			return out, nil
		}

		return nil, err
	}
}

// FakeSource is a Source returning scripted readings, for tests.
type FakeSource struct {
	Temps []float64
	Errs  []error
	calls int
}

func (f *FakeSource) Read(_ context.Context) (float64, error) {
	i := f.calls
	f.calls++

	if i < len(f.Errs) && f.Errs[i] != nil {
		return 0, f.Errs[i]
	}
	if i < len(f.Temps) {
		return f.Temps[i], nil
	}
	if len(f.Temps) > 0 {
		return f.Temps[len(f.Temps)-1], nil
	}

	return 0, errors.New().New(ErrSourceUnavailable)
}

// Calls reports how many times Read has been invoked.
func (f *FakeSource) Calls() int {
	return f.calls
}
