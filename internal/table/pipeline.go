// Package table holds the grid logic: the filter, sort and paginate
// pipeline, the column layout, the inline cell editor and the per-user grid
// sessions that tie them to a record source.
package table

import (
	"sort"
	"strings"
	"time"

	"github.com/diewo77/salescrm/internal/catalog"
)

// PageSize is the fixed number of rows per grid page.
const PageSize = 20

// SearchAll selects the entity's "important" column subset.
const SearchAll = "all"

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder maps anything but "desc" to ascending.
func ParseOrder(s string) Order {
	if strings.EqualFold(s, string(Desc)) {
		return Desc
	}
	return Asc
}

// Query is one pipeline request. Zero values mean no filter, identity sort
// and page 1.
type Query struct {
	SearchTerm   string
	SearchColumn string
	SortKey      string
	SortOrder    Order
	Page         int
}

// Result is one page of rows.
type Result[R catalog.Row] struct {
	Items      []R `json:"items"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
	Page       int `json:"page"`
}

// Paginate filters, sorts and slices rows. rows is never modified.
func Paginate[R catalog.Row](rows []R, spec *catalog.Spec, q Query) Result[R] {
	sorted := Sort(Filter(rows, spec, q.SearchTerm, q.SearchColumn), spec, q.SortKey, q.SortOrder)

	total := len(sorted)
	pages := (total + PageSize - 1) / PageSize
	page := q.Page
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}
	res := Result[R]{Items: []R{}, Total: total, TotalPages: pages, Page: page}
	if total == 0 {
		return res
	}
	start := (page - 1) * PageSize
	end := min(start+PageSize, total)
	res.Items = sorted[start:end]
	return res
}

// Filter keeps rows whose searched text contains term, ignoring case. An
// empty term keeps everything. The result is a new slice.
func Filter[R catalog.Row](rows []R, spec *catalog.Spec, term, column string) []R {
	out := make([]R, 0, len(rows))
	term = strings.ToLower(term)
	if term == "" {
		return append(out, rows...)
	}
	for _, r := range rows {
		if matches(r, spec, term, column) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r catalog.Row, spec *catalog.Spec, term, column string) bool {
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), term) }
	if column != "" && column != SearchAll {
		return contains(r.Value(column).String())
	}
	for _, key := range spec.SearchAll {
		if contains(r.Value(key).String()) {
			return true
		}
	}
	if spec.SearchExtra != nil {
		for _, s := range spec.SearchExtra(r) {
			if contains(s) {
				return true
			}
		}
	}
	return false
}

// Sort returns a stably sorted copy of rows. An empty or unknown key sorts by
// the identity column.
func Sort[R catalog.Row](rows []R, spec *catalog.Spec, key string, order Order) []R {
	col, ok := spec.Column(key)
	if !ok {
		col = spec.Identity()
	}
	out := append([]R(nil), rows...)
	dir := 1
	if order == Desc {
		dir = -1
	}
	sort.SliceStable(out, func(i, j int) bool {
		return dir*compare(col, out[i].Value(col.Key), out[j].Value(col.Key)) < 0
	})
	return out
}

func compare(col catalog.Column, a, b catalog.Value) int {
	switch {
	case col.Kind.Numeric():
		return cmp3(number(a), number(b))
	case col.Kind == catalog.KindDate:
		return cmp3(epochMillis(a), epochMillis(b))
	case col.Kind == catalog.KindBool:
		return cmp3(flag(a), flag(b))
	}
	return strings.Compare(a.String(), b.String())
}

func cmp3[T float64 | int64 | int](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func number(v catalog.Value) float64 {
	if v.Num != nil {
		return *v.Num
	}
	return 0
}

func flag(v catalog.Value) int {
	if v.Bool != nil && *v.Bool {
		return 1
	}
	return 0
}

// epochMillis reads a date cell; null or unparsable dates are 0.
func epochMillis(v catalog.Value) int64 {
	switch {
	case v.Time != nil:
		return v.Time.UnixMilli()
	case v.Str != nil:
		if t, err := time.Parse(catalog.DateLayout, *v.Str); err == nil {
			return t.UnixMilli()
		}
		if t, err := time.Parse(time.RFC3339, *v.Str); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}
