// Package table keeps the displayed service list stable across polls. Fresh
// snapshots are merged into the existing row order so selection and scroll
// position survive a refresh, and rows sort with comparators that understand
// each column's real type.
package table

import (
	"strings"

	"github.com/rileyhilliard/pmx/internal/pm2"
)

// Diff reports what one reconcile pass changed, by service id.
type Diff struct {
	Inserted []int
	Updated  []int
	Deleted  []int
}

// Empty reports whether the pass changed nothing structurally.
func (d Diff) Empty() bool {
	return len(d.Inserted) == 0 && len(d.Deleted) == 0
}

// Filter returns the services whose name contains query, case-insensitively.
// A blank query matches everything.
func Filter(services []pm2.Service, query string) []pm2.Service {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return services
	}
	var out []pm2.Service
	for _, s := range services {
		if strings.Contains(strings.ToLower(s.Name), query) {
			out = append(out, s)
		}
	}
	return out
}

// Reconcile merges a fresh snapshot into the previous display order. Rows
// present in both keep their position and take the fresh data; rows only in
// the snapshot append in snapshot order; rows that disappeared are dropped.
// Reconciling the same snapshot twice is a no-op.
func Reconcile(prev, fresh []pm2.Service, query string) ([]pm2.Service, Diff) {
	filtered := Filter(fresh, query)

	byID := make(map[int]pm2.Service, len(filtered))
	for _, s := range filtered {
		byID[s.ID] = s
	}

	var diff Diff
	next := make([]pm2.Service, 0, len(filtered))
	kept := make(map[int]bool, len(prev))
	for _, p := range prev {
		f, ok := byID[p.ID]
		if !ok {
			diff.Deleted = append(diff.Deleted, p.ID)
			continue
		}
		next = append(next, f)
		diff.Updated = append(diff.Updated, p.ID)
		kept[p.ID] = true
	}
	for _, f := range filtered {
		if !kept[f.ID] {
			next = append(next, f)
			diff.Inserted = append(diff.Inserted, f.ID)
			kept[f.ID] = true
		}
	}
	return next, diff
}
