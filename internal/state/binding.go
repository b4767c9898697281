package state

import (
	"context"

	"github.com/fernlabs/fern/internal/bus"
)

// Operation is one named async unit of work bound to exactly one
// feature: the HTTP call for a given payload.
type Operation[P, T any] func(ctx context.Context, payload P) (T, error)

// Binding ties an operation and a feature into the small surface a view
// consumes: Execute to trigger it, Loading/Err to render status, and
// Changes to know when to re-render. Execute is safe to call
// concurrently; every call settles its own Result while sharing the
// feature's status slot (last write wins).
type Binding[P, T any] struct {
	store   *Store
	feature Feature
	op      Operation[P, T]
	commit  func(T)

	changes chan struct{}
	done    chan struct{}
	unsubs  []func()
}

// Bind creates a binding. commit is the reducer transition applied on
// success; nil for operations with no domain state (e.g. logout ping).
func Bind[P, T any](s *Store, f Feature, op Operation[P, T], commit func(T)) *Binding[P, T] {
	b := &Binding[P, T]{
		store:   s,
		feature: f,
		op:      op,
		commit:  commit,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	for _, ns := range []string{"status." + string(f), "state." + string(f)} {
		ch, unsub := s.bus.Subscribe(ns, 16)
		b.unsubs = append(b.unsubs, unsub)
		go b.forward(ch)
	}
	return b
}

func (b *Binding[P, T]) forward(ch <-chan bus.Event) {
	for {
		select {
		case <-b.done:
			return
		case <-ch:
			select {
			case b.changes <- struct{}{}:
			default:
			}
		}
	}
}

// Execute dispatches the operation for payload. The returned Result is
// never an exception path: failures land in Result.Err and the
// feature's error slot.
func (b *Binding[P, T]) Execute(ctx context.Context, payload P) Result[T] {
	return Run(ctx, b.store, b.feature, func(ctx context.Context) (T, error) {
		return b.op(ctx, payload)
	}, b.commit)
}

// Loading reports the bound feature's shared loading flag.
func (b *Binding[P, T]) Loading() bool {
	return b.store.status.Snapshot(b.feature).Loading
}

// Err returns the bound feature's last error message, empty when none.
func (b *Binding[P, T]) Err() string {
	return b.store.status.Snapshot(b.feature).Error
}

// ClearErr is the user-interaction error reset (retry button, form edit).
func (b *Binding[P, T]) ClearErr() {
	b.store.status.ClearError(b.feature)
}

// Changes signals whenever the bound feature's status or domain state
// mutates. Signals are coalesced; consumers re-read snapshots.
func (b *Binding[P, T]) Changes() <-chan struct{} {
	return b.changes
}

// Close releases the bus subscriptions.
func (b *Binding[P, T]) Close() {
	close(b.done)
	for _, unsub := range b.unsubs {
		unsub()
	}
}
