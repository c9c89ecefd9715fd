package models

import "strings"

// Scope represents the lifecycle a provider is registered with
type Scope int

const (
	ScopeTransient Scope = iota
	ScopeSingleton
)

// String returns the annotation spelling of the scope
func (s Scope) String() string {
	if s == ScopeSingleton {
		return "singleton"
	}
	return "transient"
}

// RuntimeIdent returns the identifier of the matching runtime constant (arrow.Singleton / arrow.Transient)
func (s Scope) RuntimeIdent() string {
	if s == ScopeSingleton {
		return "Singleton"
	}
	return "Transient"
}

// ParseScope converts "singleton"/"transient" (any case) into a Scope
func ParseScope(value string) (Scope, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "singleton":
		return ScopeSingleton, true
	case "transient":
		return ScopeTransient, true
	default:
		return ScopeTransient, false
	}
}
