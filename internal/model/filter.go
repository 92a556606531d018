package model

import (
	"net/url"
	"strconv"
	"strings"
)

// Sort selects the server-side ordering of the task list.
type Sort string

const (
	SortPointsDesc  Sort = "points_desc"
	SortPointsAsc   Sort = "points_asc"
	SortCreatedAsc  Sort = "created_asc"
	SortCreatedDesc Sort = "created_desc"
)

// sortCycle is the order the UI steps through with the sort key.
var sortCycle = []Sort{SortPointsDesc, SortPointsAsc, SortCreatedAsc, SortCreatedDesc}

// NextSort returns the sort after s in the UI cycle.
func NextSort(s Sort) Sort {
	for i, v := range sortCycle {
		if v == s {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return sortCycle[0]
}

// FilterSpec parameterizes the task query. Filtering and sorting happen on
// the server; the client only encodes the axes it wants.
type FilterSpec struct {
	Points   *int   // nil means no points filter
	Assignee string // substring match, empty means no filter
	Sort     Sort   // empty means server default
}

// Query encodes the filter as URL parameters. Empty axes are omitted so the
// server treats them as "no filter".
func (f FilterSpec) Query() url.Values {
	v := url.Values{}
	if f.Points != nil {
		v.Set("points", strconv.Itoa(*f.Points))
	}
	if a := strings.TrimSpace(f.Assignee); a != "" {
		v.Set("assignee", a)
	}
	if f.Sort != "" {
		v.Set("sort", string(f.Sort))
	}
	return v
}

// IsZero reports whether no filter axis is active.
func (f FilterSpec) IsZero() bool {
	return f.Points == nil && strings.TrimSpace(f.Assignee) == "" && f.Sort == ""
}
