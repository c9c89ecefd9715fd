package graph

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	arrowerrors "github.com/toyz/arrow/internal/errors"
)

// MissingDependency is a dependency key no declaration provides
type MissingDependency struct {
	Key        string
	RequiredBy []string // Module.Member of every declaration depending on Key
}

// DuplicateKey is a registration key provided by more than one declaration
type DuplicateKey struct {
	Key       string
	Providers []string // Module.Member in input order; the first one wins at runtime
}

// CycleError indicates that the declarations cannot be ordered.
// Unresolved lists the registration keys of every declaration that still had
// unmet dependencies when ordering stopped.
type CycleError struct {
	*arrowerrors.BaseError
	Unresolved []string
}

func newCycleError(unresolved []string) *CycleError {
	return &CycleError{
		BaseError: arrowerrors.Newf(arrowerrors.GraphErrorCode,
			"dependency cycle detected among: %s", strings.Join(unresolved, ", ")).
			WithContext("unresolved", unresolved).
			WithSuggestion("Break the cycle by removing a provider parameter or passing it with //arrow::default"),
		Unresolved: unresolved,
	}
}

// UnresolvedError is returned in strict mode when dependencies have no provider
type UnresolvedError struct {
	*arrowerrors.BaseError
	Missing []MissingDependency
}

func newUnresolvedError(missing []MissingDependency) *UnresolvedError {
	lines := lo.Map(missing, func(m MissingDependency, _ int) string {
		return fmt.Sprintf("%s (required by %s)", m.Key, strings.Join(m.RequiredBy, ", "))
	})
	return &UnresolvedError{
		BaseError: arrowerrors.Newf(arrowerrors.GraphErrorCode,
			"unresolved dependencies: %s", strings.Join(lines, "; ")).
			WithSuggestion("Add a provider for each missing key or name the parameter with //arrow::named"),
		Missing: missing,
	}
}

// DuplicateKeyError is returned in strict mode when a key has several providers
type DuplicateKeyError struct {
	*arrowerrors.BaseError
	Duplicates []DuplicateKey
}

func newDuplicateKeyError(duplicates []DuplicateKey) *DuplicateKeyError {
	lines := lo.Map(duplicates, func(d DuplicateKey, _ int) string {
		return fmt.Sprintf("%s (provided by %s)", d.Key, strings.Join(d.Providers, ", "))
	})
	return &DuplicateKeyError{
		BaseError: arrowerrors.Newf(arrowerrors.GraphErrorCode,
			"duplicate registration keys: %s", strings.Join(lines, "; ")).
			WithSuggestion("Give one of the providers a distinct name with //arrow::name"),
		Duplicates: duplicates,
	}
}
