// Package projection computes what each dashboard screen renders from a store
// snapshot: search and categorical filtering, optional column sorting and
// summary aggregates. Every function is pure and leaves its input untouched.
package projection

import (
	"math"
	"slices"
	"strings"
)

// All is the categorical filter value meaning "no constraint"
const All = "all"

type Predicate[T any] func(T) bool

// MatchSearch reports whether any field contains term, ignoring case.
// An empty term matches everything.
func MatchSearch(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// MatchCategory is exact match, or true when want is empty or All
func MatchCategory[V ~string](want string, have V) bool {
	return want == "" || want == All || string(have) == want
}

// Filter keeps the items satisfying every predicate, in their original order
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
next:
	for _, item := range items {
		for _, p := range preds {
			if !p(item) {
				continue next
			}
		}
		out = append(out, item)
	}
	return out
}

// SortKeys maps a column name to its comparison
type SortKeys[T any] map[string]func(a, b T) int

// SortBy returns a stably sorted copy, ascending unless desc. An unknown or
// empty key returns the items in their original order.
func SortBy[T any](items []T, keys SortKeys[T], key string, desc bool) []T {
	out := slices.Clone(items)
	cmp, ok := keys[key]
	if !ok {
		return out
	}
	slices.SortStableFunc(out, func(a, b T) int {
		if desc {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
	return out
}

func CountWhere[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}

func SumInt[T any](items []T, field func(T) int) int {
	sum := 0
	for _, item := range items {
		sum += field(item)
	}
	return sum
}

// Percent is part/whole*100, or 0 when whole is 0
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	p := part / whole * 100
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return p
}

// RoundPercent is Percent rounded half away from zero
func RoundPercent(part, whole int) int {
	return int(math.Round(Percent(float64(part), float64(whole))))
}

// Average is the arithmetic mean, 0 for no values
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// AverageWhere averages field over the items where it is present only
func AverageWhere[T any](items []T, field func(T) (float64, bool)) float64 {
	values := make([]float64, 0, len(items))
	for _, item := range items {
		if v, ok := field(item); ok {
			values = append(values, v)
		}
	}
	return Average(values)
}

// Round2 rounds to two decimals for display
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
