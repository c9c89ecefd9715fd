package arrow

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Factory builds an instance of T. It receives the container so it can
// resolve its own dependencies.
type Factory[T any] func(c *Container) (T, error)

type registration struct {
	scope    Scope
	instance any
	factory  func(c *Container) (any, error)
}

// Container holds registrations keyed by type and optional name.
//
// Mutations (Register, Unregister, Reset) are serialized by a mutex and publish
// a fresh copy of the registration table. Lookups read the current table
// without locking, so a factory may resolve other dependencies while a
// singleton is being built. A factory must not call Register on the same
// container: the registration lock is held while singletons are constructed.
type Container struct {
	mu    sync.Mutex
	table atomic.Pointer[map[Key]*registration]
}

// New creates an empty container
func New() *Container {
	c := &Container{}
	empty := make(map[Key]*registration)
	c.table.Store(&empty)
	return c
}

var shared = New()

// Shared returns the process-wide container used by generated code when no
// container is passed around explicitly.
func Shared() *Container {
	return shared
}

func (c *Container) current() map[Key]*registration {
	return *c.table.Load()
}

func (c *Container) lookup(key Key) (*registration, bool) {
	reg, ok := c.current()[key]
	return reg, ok
}

// publish must be called with mu held
func (c *Container) publish(mutate func(next map[Key]*registration)) {
	prev := c.current()
	next := make(map[Key]*registration, len(prev)+1)
	for k, v := range prev {
		next[k] = v
	}
	mutate(next)
	c.table.Store(&next)
}

// Register adds a factory for T under the given scope.
// Singleton factories run immediately and their instance is cached; a factory
// error aborts the registration. Registering a key twice fails with
// ErrAlreadyRegistered.
func Register[T any](c *Container, scope Scope, factory Factory[T], opts ...Option) error {
	key := KeyOf[T](opts...)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.lookup(key); exists {
		return &RegistrationError{Key: key, Cause: ErrAlreadyRegistered}
	}

	reg := &registration{
		scope: scope,
		factory: func(c *Container) (any, error) {
			return factory(c)
		},
	}

	if scope == Singleton {
		instance, err := factory(c)
		if err != nil {
			return &RegistrationError{Key: key, Cause: err}
		}
		reg.instance = instance
	}

	c.publish(func(next map[Key]*registration) {
		next[key] = reg
	})
	return nil
}

// MustRegister is like Register but panics on failure
func MustRegister[T any](c *Container, scope Scope, factory Factory[T], opts ...Option) {
	if err := Register(c, scope, factory, opts...); err != nil {
		panic(err)
	}
}

// Unregister removes the registration for T. It reports whether anything was removed.
func Unregister[T any](c *Container, opts ...Option) bool {
	key := KeyOf[T](opts...)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.lookup(key); !exists {
		return false
	}
	c.publish(func(next map[Key]*registration) {
		delete(next, key)
	})
	return true
}

// Reset removes every registration
func (c *Container) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	empty := make(map[Key]*registration)
	c.table.Store(&empty)
}

// Len returns the number of registrations
func (c *Container) Len() int {
	return len(c.current())
}

// Keys returns every registered key ordered by its display string
func (c *Container) Keys() []Key {
	keys := lo.Keys(c.current())
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].String() != keys[j].String() {
			return keys[i].String() < keys[j].String()
		}
		return typeName(keys[i].Type) < typeName(keys[j].Type)
	})
	return keys
}

// Similar lists registered keys whose text resembles the requested key
// (case-insensitive substring match) or that share its type, sorted.
func (c *Container) Similar(key Key) []string {
	matches := lo.FilterMap(lo.Keys(c.current()), func(k Key, _ int) (string, bool) {
		return k.String(), k.matches(key)
	})
	matches = lo.Uniq(matches)
	sort.Strings(matches)
	return matches
}

// Invoke resolves T and reports misses and factory failures as errors
func Invoke[T any](c *Container, opts ...Option) (T, error) {
	var zero T
	key := KeyOf[T](opts...)

	reg, ok := c.lookup(key)
	if !ok {
		return zero, &NotFoundError{Key: key, Similar: c.Similar(key)}
	}

	var instance any
	if reg.scope == Singleton {
		instance = reg.instance
	} else {
		built, err := reg.factory(c)
		if err != nil {
			return zero, &ResolutionError{Key: key, Cause: err}
		}
		instance = built
	}

	// A nil interface value is a legitimate instance for interface-typed keys
	if instance == nil {
		return zero, nil
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, &ResolutionError{
			Key:   key,
			Cause: fmt.Errorf("%w: got %T", ErrTypeMismatch, instance),
		}
	}
	return typed, nil
}

// Resolve returns the instance for T and panics when it cannot.
// The panic value is a *NotFoundError listing similar registrations, or a
// *ResolutionError when a transient factory fails.
func Resolve[T any](c *Container, opts ...Option) T {
	instance, err := Invoke[T](c, opts...)
	if err != nil {
		panic(err)
	}
	return instance
}

// TryResolve returns None when T is not registered.
// Factory failures still panic.
func TryResolve[T any](c *Container, opts ...Option) mo.Option[T] {
	key := KeyOf[T](opts...)
	if _, ok := c.lookup(key); !ok {
		return mo.None[T]()
	}
	return mo.Some(Resolve[T](c, opts...))
}

// Has reports whether T is registered
func Has[T any](c *Container, opts ...Option) bool {
	_, ok := c.lookup(KeyOf[T](opts...))
	return ok
}
