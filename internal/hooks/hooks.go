// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package hooks is a typed registry of mutator callbacks. Each hook point
// fixes the type of the value being mutated and of the arguments passed
// alongside it.
package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
)

// Point identifies a hook. T is the value handlers mutate and A the
// arguments they receive with it.
type Point[T, A any] struct {
	Name string
}

// Func mutates v and returns the value passed to the next handler.
type Func[T, A any] func(ctx context.Context, v T, args A) (T, error)

// Handler wraps a Func with metadata.
type Handler[T, A any] struct {
	Name     string // for logs and errors
	Module   string // owner, used by UnregisterModule
	Priority int    // lower runs first; equal priorities keep registration order
	Fn       Func[T, A]
}

type entry struct {
	name     string
	module   string
	priority int
	fn       any
}

// Registry holds handlers per hook name. A nil *Registry has no handlers.
type Registry struct {
	mu     sync.RWMutex
	hooks  map[string][]entry
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		hooks:  make(map[string][]entry),
		logger: logger,
	}
}

// Register adds h to point p.
func Register[T, A any](r *Registry, p Point[T, A], h Handler[T, A]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Copy: Run iterates the old slice without holding the lock.
	handlers := append(slices.Clone(r.hooks[p.Name]), entry{
		name:     h.Name,
		module:   h.Module,
		priority: h.Priority,
		fn:       h.Fn,
	})
	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].priority < handlers[j].priority
	})
	r.hooks[p.Name] = handlers

	r.logger.Debug("hook registered",
		"hook", p.Name,
		"handler", h.Name,
		"module", h.Module,
		"priority", h.Priority,
	)
}

// RegisterFunc registers fn under name with the default priority.
func RegisterFunc[T, A any](r *Registry, p Point[T, A], name string, fn Func[T, A]) {
	Register(r, p, Handler[T, A]{Name: name, Fn: fn})
}

// Run passes v through every handler of p in order and returns the final
// value. The first handler error stops the chain and is returned wrapped.
func Run[T, A any](ctx context.Context, r *Registry, p Point[T, A], v T, args A) (T, error) {
	if r == nil {
		return v, nil
	}

	r.mu.RLock()
	handlers := r.hooks[p.Name]
	r.mu.RUnlock()

	for _, h := range handlers {
		fn, ok := h.fn.(Func[T, A])
		if !ok {
			var zero T
			return zero, fmt.Errorf("hook %s handler %s: registered with a different signature", p.Name, h.name)
		}
		next, err := fn(ctx, v, args)
		if err != nil {
			r.logger.Error("hook handler error",
				"hook", p.Name,
				"handler", h.name,
				"module", h.module,
				"error", err,
			)
			var zero T
			return zero, fmt.Errorf("hook %s handler %s: %w", p.Name, h.name, err)
		}
		v = next
	}
	return v, nil
}

// HandlerCount returns the number of handlers registered under name.
func (r *Registry) HandlerCount(name string) int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks[name])
}

// Names returns the hook names that have handlers, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.hooks))
	for name, handlers := range r.hooks {
		if len(handlers) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// UnregisterModule removes every handler registered by module.
func (r *Registry) UnregisterModule(module string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, handlers := range r.hooks {
		kept := handlers[:0:0]
		for _, h := range handlers {
			if h.module != module {
				kept = append(kept, h)
			}
		}
		r.hooks[name] = kept
	}
	r.logger.Debug("hooks unregistered for module", "module", module)
}

// Clear removes all registered hooks.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = make(map[string][]entry)
}
