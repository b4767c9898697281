package state

import (
	"context"

	"github.com/fernlabs/fern/internal/api"
)

// Result is how every operation settles. Failures are swallowed here:
// they are never re-thrown to the caller, which must inspect OK.
type Result[T any] struct {
	OK   bool
	Data T
	Err  string
}

// Run is the contract every server-mirrored state transition follows:
// mark the feature loading, invoke the call, on success commit the
// reducer transition and clear the error, on failure record a
// human-readable message. Within one call the sequence
// loading -> network -> commit is strictly ordered; across concurrent
// calls on the same feature the shared slot is last-write-wins.
func Run[T any](ctx context.Context, s *Store, f Feature, call func(context.Context) (T, error), commit func(T)) Result[T] {
	s.status.SetLoading(f, true)

	data, err := call(ctx)
	if err != nil {
		msg := api.Message(err)
		s.status.Fail(f, msg)
		return Result[T]{Err: msg}
	}

	if commit != nil {
		commit(data)
	}
	s.status.Succeed(f)
	return Result[T]{OK: true, Data: data}
}
