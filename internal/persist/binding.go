// Package persist binds an in-memory value to a durable storage slot.
//
// A Binding yields its initial value immediately and loads the slot in the
// background. Until that load finishes the binding is not initialized: Set
// and Update change memory but never write, so a stale default cannot
// overwrite data that has not been read yet. When the load finds stored data
// it replaces the value; otherwise changes made while loading are flushed.
// Every later mutation is written through. If the slot cannot be read the
// binding stays uninitialized, keeps every change in memory only, and reports
// the failure through Err.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/Veraticus/thriftly/internal/storage"
)

// Binding holds a value of type T mirrored into a storage slot.
type Binding[T any] struct {
	slot      storage.Slot
	logger    *slog.Logger
	ctx       context.Context
	loaded    chan struct{}
	listeners map[int]func(T)
	value     T
	key       string
	nextID    int
	mu        sync.Mutex
	writeMu   sync.Mutex
	loadErr   error
	activate  sync.Once
	ready     bool
	dirty     bool
}

// Option configures a Binding.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for recovered load and write failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a binding for key that starts out holding initial.
func New[T any](slot storage.Slot, key string, initial T, opts ...Option) *Binding[T] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Binding[T]{
		slot:      slot,
		key:       key,
		value:     initial,
		logger:    o.logger.With("slot", key),
		ctx:       context.Background(),
		loaded:    make(chan struct{}),
		listeners: make(map[int]func(T)),
	}
}

// Key returns the slot key.
func (b *Binding[T]) Key() string {
	return b.key
}

// Activate starts the background load. Calling it again has no effect. The
// returned channel is closed once the load attempt has completed.
func (b *Binding[T]) Activate(ctx context.Context) <-chan struct{} {
	b.activate.Do(func() {
		b.mu.Lock()
		b.ctx = context.WithoutCancel(ctx)
		b.mu.Unlock()
		go b.load(ctx)
	})
	return b.loaded
}

// Done returns a channel that is closed once the first load completes.
func (b *Binding[T]) Done() <-chan struct{} {
	return b.loaded
}

// Initialized reports whether the first load read the slot. Writes reach the
// slot only after that.
func (b *Binding[T]) Initialized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

// Err returns the error that kept the first load from reading the slot, or nil.
// It is only meaningful once Done is closed.
func (b *Binding[T]) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loadErr
}

// Value returns the current in-memory value.
func (b *Binding[T]) Value() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

// Set replaces the value.
func (b *Binding[T]) Set(value T) {
	b.Update(func(T) T { return value })
}

// Update replaces the value with fn applied to the latest value and returns
// the result. fn runs under the binding's lock and must not call back into it.
func (b *Binding[T]) Update(fn func(prev T) T) T {
	b.mu.Lock()
	next := fn(b.value)
	b.value = next
	ready := b.ready
	if !ready {
		b.dirty = true
	}
	ctx := b.ctx
	listeners := b.snapshotListenersLocked()

	// Take the write lock before releasing the value lock so slot writes land
	// in the same order as the mutations that produced them.
	if ready {
		b.writeMu.Lock()
	}
	b.mu.Unlock()

	if ready {
		b.write(ctx, next)
		b.writeMu.Unlock()
	}

	notify(listeners, next)
	return next
}

// Subscribe registers fn to be called with the new value after every change.
// The returned function removes the subscription.
func (b *Binding[T]) Subscribe(fn func(T)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

func (b *Binding[T]) load(ctx context.Context) {
	raw, ok, err := b.slot.Get(ctx, b.key)

	var (
		decoded  T
		replaced bool
	)
	switch {
	case err != nil:
		b.logger.Error("failed to read slot, writes disabled", "error", err)
	case !ok:
		b.logger.Debug("slot empty, keeping in-memory value")
	default:
		if decodeErr := json.Unmarshal([]byte(raw), &decoded); decodeErr != nil {
			b.logger.Warn("discarding malformed slot content", "error", decodeErr)
		} else {
			replaced = true
		}
	}

	b.mu.Lock()
	if err != nil {
		// Stored data may exist behind the failure; never write over it.
		b.loadErr = fmt.Errorf("failed to read slot %q: %w", b.key, err)
		b.mu.Unlock()
		close(b.loaded)
		return
	}
	if replaced {
		b.value = decoded
	}
	b.ready = true
	// Mutations made while loading were held back; persist them now unless
	// the slot content replaced them.
	flush := b.dirty && !replaced
	current := b.value
	writeCtx := b.ctx
	listeners := b.snapshotListenersLocked()
	if flush {
		b.writeMu.Lock()
	}
	b.mu.Unlock()

	if flush {
		b.write(writeCtx, current)
		b.writeMu.Unlock()
	}
	if replaced {
		notify(listeners, current)
	}
	close(b.loaded)
}

// write serializes value into the slot. Callers hold writeMu.
func (b *Binding[T]) write(ctx context.Context, value T) {
	data, err := json.Marshal(value)
	if err != nil {
		b.logger.Error("failed to encode value", "error", err)
		return
	}

	if err := b.slot.Set(ctx, b.key, string(data)); err != nil {
		b.logger.Error("failed to write slot", "error", err)
	}
}

func (b *Binding[T]) snapshotListenersLocked() []func(T) {
	if len(b.listeners) == 0 {
		return nil
	}
	ids := make([]int, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]func(T), len(ids))
	for i, id := range ids {
		out[i] = b.listeners[id]
	}
	return out
}

func notify[T any](listeners []func(T), value T) {
	for _, fn := range listeners {
		fn(value)
	}
}
