// Package board holds the in-memory snapshot of the task collection and
// mediates every mutation through the gateway.
package board

import (
	"context"
	"strings"

	"github.com/valgq/tablero/internal/gateway"
	"github.com/valgq/tablero/internal/model"
	"github.com/valgq/tablero/internal/policy"
	"github.com/valgq/tablero/internal/session"
)

// Gateway is the slice of the API client the store needs.
type Gateway interface {
	List(ctx context.Context, filter model.FilterSpec) ([]model.Task, error)
	Create(ctx context.Context, req gateway.CreateRequest) (model.Task, error)
	Update(ctx context.Context, id string, p gateway.Patch) (model.Task, error)
	Delete(ctx context.Context, id string) error
}

// LoadResult is one completed fetch, tagged with its sequence number so
// stale responses can be recognized when requests race.
type LoadResult struct {
	Tasks []model.Task
	Seq   uint64
}

// Store is the board state. All access happens on the interaction thread
// (Bubble Tea's update loop), so there is no locking; correctness comes from
// re-deriving counts and affordances from the latest snapshot.
type Store struct {
	gw Gateway

	tasks   []model.Task
	seq     uint64 // last issued load
	applied uint64 // last load whose result was accepted
}

// New returns an empty store backed by gw.
func New(gw Gateway) *Store {
	return &Store{gw: gw}
}

// Load fetches the collection for the current filter. Without a session it
// returns an empty result without touching the gateway: logged out never
// queries the server.
func (s *Store) Load(ctx context.Context, sess *session.Session, filter model.FilterSpec) (LoadResult, error) {
	s.seq++
	if sess == nil {
		return LoadResult{Tasks: []model.Task{}, Seq: s.seq}, nil
	}
	tasks, err := s.gw.List(ctx, filter)
	if err != nil {
		return LoadResult{}, err
	}
	return LoadResult{Tasks: tasks, Seq: s.seq}, nil
}

// Apply installs a load result as the snapshot. Results older than the last
// applied one are discarded so a slow response cannot overwrite a newer
// board; the caller learns whether anything changed.
func (s *Store) Apply(r LoadResult) bool {
	if r.Seq < s.applied {
		return false
	}
	s.applied = r.Seq
	s.tasks = r.Tasks
	return true
}

// Clear empties the snapshot immediately, e.g. on logout.
func (s *Store) Clear() {
	s.seq++
	s.applied = s.seq
	s.tasks = nil
}

// Snapshot returns the cached task collection in server order.
func (s *Store) Snapshot() []model.Task {
	return s.tasks
}

// Lane returns the snapshot's tasks for one status, preserving order.
func (s *Store) Lane(status model.Status) []model.Task {
	var out []model.Task
	for _, t := range s.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// Counts aggregates the snapshot per lane. Always includes all three lanes,
// at zero when empty.
func (s *Store) Counts() map[model.Status]int {
	counts := map[model.Status]int{
		model.StatusTodo:       0,
		model.StatusInProgress: 0,
		model.StatusDone:       0,
	}
	for _, t := range s.tasks {
		counts[model.NormalizeStatus(string(t.Status))]++
	}
	return counts
}

// CreateTask creates a task when the role allows it. Returns whether a
// reload is due. A denied role or an empty title is a silent no-op: the UI
// already keeps those paths unreachable.
func (s *Store) CreateTask(ctx context.Context, role policy.Role, title string, points int, assignee string) (bool, error) {
	if !policy.Can(role, policy.ActionCreate) {
		return false, nil
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return false, nil
	}
	_, err := s.gw.Create(ctx, gateway.CreateRequest{
		Title:    title,
		Points:   model.ClampPoints(points),
		Assignee: strings.TrimSpace(assignee),
		Status:   model.StatusTodo,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// MoveTask sets a task's status. Gated on the move permission; saturated
// moves (already at the target lane) still count as a successful reload.
func (s *Store) MoveTask(ctx context.Context, role policy.Role, id string, status model.Status) (bool, error) {
	if !policy.Can(role, policy.ActionMove) {
		return false, nil
	}
	st := model.NormalizeStatus(string(status))
	if _, err := s.gw.Update(ctx, id, gateway.Patch{Status: &st}); err != nil {
		return false, err
	}
	return true, nil
}

// SaveTitle patches a task's title. Whitespace-only input means "nothing to
// change" and is dropped before any request.
func (s *Store) SaveTitle(ctx context.Context, role policy.Role, id, title string) (bool, error) {
	if !policy.Can(role, policy.ActionMove) {
		return false, nil
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return false, nil
	}
	if _, err := s.gw.Update(ctx, id, gateway.Patch{Title: &title}); err != nil {
		return false, err
	}
	return true, nil
}

// SaveAssignee patches the assignee. Empty is a valid save and clears it.
func (s *Store) SaveAssignee(ctx context.Context, role policy.Role, id, assignee string) (bool, error) {
	if !policy.Can(role, policy.ActionMove) {
		return false, nil
	}
	a := strings.TrimSpace(assignee)
	if _, err := s.gw.Update(ctx, id, gateway.Patch{Assignee: &a}); err != nil {
		return false, err
	}
	return true, nil
}

// SavePoints patches the point value, coerced to a tier.
func (s *Store) SavePoints(ctx context.Context, role policy.Role, id string, points int) (bool, error) {
	if !policy.Can(role, policy.ActionMove) {
		return false, nil
	}
	p := model.ClampPoints(points)
	if _, err := s.gw.Update(ctx, id, gateway.Patch{Points: &p}); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteTask removes a task under the delete permission.
func (s *Store) DeleteTask(ctx context.Context, role policy.Role, id string) (bool, error) {
	if !policy.Can(role, policy.ActionDelete) {
		return false, nil
	}
	if err := s.gw.Delete(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}
