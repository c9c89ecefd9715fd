package arrow

import (
	"sync"

	"github.com/samber/mo"
)

// Inject lazily resolves a dependency on first use and caches it.
// A failed resolution is not cached; the next Get retries.
//
//	type Handler struct {
//		store arrow.Inject[Store]
//	}
//
//	h := Handler{store: arrow.NewInject[Store](c)}
//	s, err := h.store.Get()
type Inject[T any] struct {
	container *Container
	opts      []Option

	mu       sync.Mutex
	resolved bool
	value    T
}

// NewInject creates a lazy handle for T on the given container.
// A nil container means Shared().
func NewInject[T any](c *Container, opts ...Option) *Inject[T] {
	return &Inject[T]{container: c, opts: opts}
}

// Get resolves T once and returns the cached instance afterwards
func (i *Inject[T]) Get() (T, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.resolved {
		return i.value, nil
	}

	value, err := Invoke[T](containerOrShared(i.container), i.opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	i.value = value
	i.resolved = true
	return value, nil
}

// MustGet is like Get but panics on failure
func (i *Inject[T]) MustGet() T {
	value, err := i.Get()
	if err != nil {
		panic(err)
	}
	return value
}

// Autowire lazily looks up an optional dependency.
// Both outcomes are cached: once a lookup finds nothing, later Gets return
// None even if T is registered afterwards.
type Autowire[T any] struct {
	container *Container
	opts      []Option

	mu     sync.Mutex
	looked bool
	value  mo.Option[T]
}

// NewAutowire creates an optional lazy handle for T.
// A nil container means Shared().
func NewAutowire[T any](c *Container, opts ...Option) *Autowire[T] {
	return &Autowire[T]{container: c, opts: opts}
}

// Get returns the cached lookup result, performing the lookup on first call
func (a *Autowire[T]) Get() mo.Option[T] {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.looked {
		a.value = TryResolve[T](containerOrShared(a.container), a.opts...)
		a.looked = true
	}
	return a.value
}

func containerOrShared(c *Container) *Container {
	if c == nil {
		return Shared()
	}
	return c
}
