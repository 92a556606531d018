package model

import "testing"

func TestStatusNextSaturates(t *testing.T) {
	cases := []struct {
		in, want Status
	}{
		{StatusTodo, StatusInProgress},
		{StatusInProgress, StatusDone},
		{StatusDone, StatusDone},
	}
	for _, c := range cases {
		if got := c.in.Next(); got != c.want {
			t.Fatalf("Next(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestStatusPrevSaturates(t *testing.T) {
	cases := []struct {
		in, want Status
	}{
		{StatusDone, StatusInProgress},
		{StatusInProgress, StatusTodo},
		{StatusTodo, StatusTodo},
	}
	for _, c := range cases {
		if got := c.in.Prev(); got != c.want {
			t.Fatalf("Prev(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestNormalizeStatus(t *testing.T) {
	if got := NormalizeStatus("IN_PROGRESS"); got != StatusInProgress {
		t.Fatalf("got %s", got)
	}
	if got := NormalizeStatus("garbage"); got != StatusTodo {
		t.Fatalf("unknown status should fall back to TODO, got %s", got)
	}
	if got := NormalizeStatus(""); got != StatusTodo {
		t.Fatalf("empty status should fall back to TODO, got %s", got)
	}
}

func TestClampPoints(t *testing.T) {
	for _, tier := range Tiers() {
		if got := ClampPoints(tier); got != tier {
			t.Fatalf("ClampPoints(%d) = %d", tier, got)
		}
	}
	for _, bad := range []int{0, -3, 3, 5, 17, 1000} {
		if got := ClampPoints(bad); got != 1 {
			t.Fatalf("ClampPoints(%d) = %d, want 1", bad, got)
		}
	}
}

func TestFilterSpecQuery(t *testing.T) {
	p := 8
	f := FilterSpec{Points: &p, Assignee: "  Ana ", Sort: SortPointsDesc}
	q := f.Query()
	if q.Get("points") != "8" {
		t.Fatalf("points = %q", q.Get("points"))
	}
	if q.Get("assignee") != "Ana" {
		t.Fatalf("assignee should be trimmed, got %q", q.Get("assignee"))
	}
	if q.Get("sort") != "points_desc" {
		t.Fatalf("sort = %q", q.Get("sort"))
	}
}

func TestFilterSpecQueryOmitsEmptyAxes(t *testing.T) {
	q := FilterSpec{Assignee: "   "}.Query()
	if len(q) != 0 {
		t.Fatalf("empty filter should encode nothing, got %v", q)
	}
	if !(FilterSpec{Assignee: " "}).IsZero() {
		t.Fatal("whitespace-only filter should be zero")
	}
}

func TestNextSortCycles(t *testing.T) {
	s := SortPointsDesc
	seen := map[Sort]bool{}
	for i := 0; i < 4; i++ {
		seen[s] = true
		s = NextSort(s)
	}
	if s != SortPointsDesc || len(seen) != 4 {
		t.Fatalf("sort cycle broken: ended at %s after %d distinct", s, len(seen))
	}
	if NextSort("bogus") != SortPointsDesc {
		t.Fatal("unknown sort should restart the cycle")
	}
}
