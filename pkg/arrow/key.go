package arrow

import (
	"reflect"
	"strings"
)

// Key identifies a registration in the container.
// Unnamed registrations are keyed by type alone; named registrations by type and name.
type Key struct {
	Type reflect.Type
	Name string
}

// KeyOf builds the key for type T with the given options applied
func KeyOf[T any](opts ...Option) Key {
	cfg := applyOptions(opts)
	return Key{
		Type: reflect.TypeFor[T](),
		Name: cfg.name,
	}
}

// String returns the registration name when present, otherwise the type name
func (k Key) String() string {
	if k.Name != "" {
		return k.Name
	}
	return typeName(k.Type)
}

// typeName renders a type the way it is written in source (e.g. "*core.Logger")
func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// matches reports whether this key looks like the requested one.
// Used only for the "similar registered dependencies" diagnostic.
func (k Key) matches(requested Key) bool {
	candidate := strings.ToLower(k.String())
	wantType := strings.ToLower(typeName(requested.Type))
	if strings.Contains(candidate, wantType) || strings.Contains(wantType, candidate) {
		return true
	}
	if k.Type == requested.Type {
		return true
	}
	if requested.Name != "" {
		wantName := strings.ToLower(requested.Name)
		if strings.Contains(candidate, wantName) {
			return true
		}
	}
	return false
}
