// Package graph orders provider declarations so that every dependency is
// registered before the providers that consume it.
package graph

import (
	"github.com/samber/lo"

	"github.com/toyz/arrow/internal/models"
)

// Options controls how strictly the resolver treats incomplete graphs
type Options struct {
	// Strict turns unresolved dependencies and duplicate keys into errors
	Strict bool
}

// Report carries the diagnostics of one resolution
type Report struct {
	Unresolved []MissingDependency
	Duplicates []DuplicateKey
}

// HasIssues reports whether anything was diagnosed
func (r *Report) HasIssues() bool {
	return len(r.Unresolved) > 0 || len(r.Duplicates) > 0
}

// Resolve returns decls in registration order using Kahn's algorithm.
// Ready declarations are emitted first-in first-out in input order, so equal
// input always yields the same order. Keys with no provider never block
// ordering; they are listed in the report instead.
func Resolve(decls []models.Declaration, opts Options) ([]models.Declaration, *Report, error) {
	report := &Report{}

	// the first provider of a key is the one the container keeps
	providers := make(map[string][]int)
	var keyOrder []string
	for i, d := range decls {
		key := d.Key()
		if _, seen := providers[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		providers[key] = append(providers[key], i)
	}

	for _, key := range keyOrder {
		if idx := providers[key]; len(idx) > 1 {
			report.Duplicates = append(report.Duplicates, DuplicateKey{
				Key:       key,
				Providers: lo.Map(idx, func(i int, _ int) string { return memberRef(decls[i]) }),
			})
		}
	}

	weight := make([]int, len(decls))
	dependents := make(map[string][]int)
	missing := make(map[string][]string)
	var missingOrder []string

	for i, d := range decls {
		for _, dep := range d.Dependencies {
			if _, ok := providers[dep]; !ok {
				if _, seen := missing[dep]; !seen {
					missingOrder = append(missingOrder, dep)
				}
				missing[dep] = append(missing[dep], memberRef(d))
				continue
			}
			weight[i]++
			dependents[dep] = append(dependents[dep], i)
		}
	}

	for _, key := range missingOrder {
		report.Unresolved = append(report.Unresolved, MissingDependency{
			Key:        key,
			RequiredBy: lo.Uniq(missing[key]),
		})
	}

	if opts.Strict {
		if len(report.Duplicates) > 0 {
			return nil, report, newDuplicateKeyError(report.Duplicates)
		}
		if len(report.Unresolved) > 0 {
			return nil, report, newUnresolvedError(report.Unresolved)
		}
	}

	var queue []int
	for i := range decls {
		if weight[i] == 0 {
			queue = append(queue, i)
		}
	}

	sorted := make([]models.Declaration, 0, len(decls))
	for range decls {
		if len(queue) == 0 {
			return nil, report, newCycleError(residual(decls, weight))
		}

		next := queue[0]
		queue = queue[1:]
		sorted = append(sorted, decls[next])

		key := decls[next].Key()
		if providers[key][0] != next {
			continue
		}
		for _, dependent := range dependents[key] {
			weight[dependent]--
			if weight[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	return sorted, report, nil
}

// residual returns the keys of declarations whose weight never reached zero
func residual(decls []models.Declaration, weight []int) []string {
	var keys []string
	for i, d := range decls {
		if weight[i] > 0 {
			keys = append(keys, d.Key())
		}
	}
	return lo.Uniq(keys)
}

func memberRef(d models.Declaration) string {
	return d.Module + "." + d.MemberName
}
