// Package aggregate merges several authority exports into one dataset.
// Portals paginate results and users download overlapping date ranges, so
// the same invoice routinely appears in more than one export.
package aggregate

import (
	"github.com/fiscalware/nfeconcile/internal/authority"
)

// DedupPolicy decides which record survives when two exports carry the
// same canonical key.
type DedupPolicy int

const (
	// FirstWins keeps the earliest occurrence across the groups.
	FirstWins DedupPolicy = iota
	// LastWins keeps the latest occurrence, replacing the earlier one in
	// place so the merged order is stable either way.
	LastWins
)

// Merge concatenates the groups in order and drops duplicate canonical
// keys under the given policy.
func Merge(groups [][]authority.Record, policy DedupPolicy) []authority.Record {
	seen := map[string]int{}
	out := make([]authority.Record, 0, 64)
	for _, g := range groups {
		for _, r := range g {
			if idx, dup := seen[r.Key]; dup {
				if policy == LastWins {
					out[idx] = r
				}
				continue
			}
			seen[r.Key] = len(out)
			out = append(out, r)
		}
	}
	return out
}
