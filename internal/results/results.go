// Package results prepares reconciliation output for display and export:
// free-text and status filtering, per-field sorting, fixed-size pages.
// Everything here copies; the underlying result list is never reordered.
package results

import (
	"sort"
	"strings"
	"time"

	"github.com/fiscalware/nfeconcile/internal/reconcile"
)

// SortField names a sortable column of the result set.
type SortField int

const (
	ByKey SortField = iota
	ByNumber
	BySeries
	ByDate
	ByValue
	ByStateText
	ByStatus
)

// dateLayouts covers the textual forms the extractors produce: full
// day-first dates from document cells and month/year partials derived
// from the access key.
var dateLayouts = []string{"02/01/2006", "02/01/06", "01/2006"}

// Filter keeps results whose invoice number, key, or status text contains
// the query, case-insensitively. An empty query keeps everything.
func Filter(in []reconcile.Result, query string) []reconcile.Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return append([]reconcile.Result(nil), in...)
	}
	out := make([]reconcile.Result, 0, len(in))
	for _, r := range in {
		if strings.Contains(strings.ToLower(r.Number), q) ||
			strings.Contains(r.Key, q) ||
			strings.Contains(strings.ToLower(r.StateText), q) ||
			strings.Contains(strings.ToLower(r.Status.String()), q) {
			out = append(out, r)
		}
	}
	return out
}

// FilterStatus keeps results with exactly the given classification.
func FilterStatus(in []reconcile.Result, status reconcile.Status) []reconcile.Result {
	out := make([]reconcile.Result, 0, len(in))
	for _, r := range in {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

// Sort returns a copy ordered by the given field. String fields use
// natural ordering with empties last; dates compare by parsed value with
// unparseable dates treated as the zero time; values compare numerically.
// The sort is stable, so ties keep their reconciliation order.
func Sort(in []reconcile.Result, field SortField, desc bool) []reconcile.Result {
	out := append([]reconcile.Result(nil), in...)
	less := lessFunc(field)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(field SortField) func(a, b reconcile.Result) bool {
	switch field {
	case ByNumber:
		return func(a, b reconcile.Result) bool { return stringLess(a.Number, b.Number) }
	case BySeries:
		return func(a, b reconcile.Result) bool { return stringLess(a.Series, b.Series) }
	case ByDate:
		return func(a, b reconcile.Result) bool { return parseDate(a.Date).Before(parseDate(b.Date)) }
	case ByValue:
		return func(a, b reconcile.Result) bool { return a.Value.LessThan(b.Value) }
	case ByStateText:
		return func(a, b reconcile.Result) bool { return stringLess(a.StateText, b.StateText) }
	case ByStatus:
		return func(a, b reconcile.Result) bool { return a.Status < b.Status }
	default:
		return func(a, b reconcile.Result) bool { return stringLess(a.Key, b.Key) }
	}
}

// stringLess orders non-empty strings naturally and sorts empties last.
func stringLess(a, b string) bool {
	if a == "" {
		return false
	}
	if b == "" {
		return true
	}
	return a < b
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Page slices out the given zero-based page of the given size. Out-of-range
// pages yield an empty slice.
func Page(in []reconcile.Result, page, size int) []reconcile.Result {
	if size <= 0 || page < 0 {
		return nil
	}
	start := page * size
	if start >= len(in) {
		return nil
	}
	end := start + size
	if end > len(in) {
		end = len(in)
	}
	return append([]reconcile.Result(nil), in[start:end]...)
}
