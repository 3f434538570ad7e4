// Package sortutil orders rule listings the way the admin screens show them.
package sortutil

import (
	"slices"
	"strings"

	"github.com/railzwaylabs/supportdesk/pkg/apperror"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Order string

const (
	OrderNone     Order = "none"
	OrderName     Order = "name"
	OrderCategory Order = "category"
)

// Orders lists every accepted order. Cache keys are derived from it.
func Orders() []Order {
	return []Order{OrderNone, OrderName, OrderCategory}
}

// ParseOrder accepts the empty string as OrderNone.
func ParseOrder(value string) (Order, error) {
	v := Order(strings.ToLower(strings.TrimSpace(value)))
	if v == "" {
		return OrderNone, nil
	}
	if !slices.Contains(Orders(), v) {
		return "", apperror.Validation("sort", "must be one of none, name, category")
	}
	return v, nil
}

// Stable sorts items ascending by key using English collation. Items with
// equal keys keep their relative order. A collator is not safe for concurrent
// use, so each call builds its own.
func Stable[T any](items []T, key func(T) string) {
	c := collate.New(language.English)
	slices.SortStableFunc(items, func(a, b T) int {
		return c.CompareString(key(a), key(b))
	})
}
