package model

// Status is one of the three board lanes.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Statuses returns the lanes in board order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// NormalizeStatus uppercases and validates; anything unknown becomes TODO,
// matching the server's own normalization.
func NormalizeStatus(s string) Status {
	switch Status(s) {
	case StatusTodo, StatusInProgress, StatusDone:
		return Status(s)
	}
	return StatusTodo
}

// Next steps one lane to the right, saturating at DONE.
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	}
	return StatusDone
}

// Prev steps one lane to the left, saturating at TODO.
func (s Status) Prev() Status {
	switch s {
	case StatusDone:
		return StatusInProgress
	case StatusInProgress:
		return StatusTodo
	}
	return StatusTodo
}

// Task is the board's card. The server owns it; we hold a cached copy.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Points    int    `json:"points"`
	Assignee  string `json:"assignee,omitempty"`
	Status    Status `json:"status"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// tiers are the point values the UI offers.
var tiers = []int{1, 2, 4, 8, 16}

// Tiers returns the selectable point values.
func Tiers() []int {
	out := make([]int, len(tiers))
	copy(out, tiers)
	return out
}

// ValidTier reports whether p is one of the enumerated point values.
func ValidTier(p int) bool {
	for _, t := range tiers {
		if p == t {
			return true
		}
	}
	return false
}

// ClampPoints coerces an edited value to a usable one: non-tier input
// defaults to 1. The server may hold other values; edits through the UI
// always produce a tier.
func ClampPoints(p int) int {
	if ValidTier(p) {
		return p
	}
	return 1
}
