package tui

import (
	"strings"
	"testing"

	"github.com/valgq/tablero/internal/model"
	"github.com/valgq/tablero/internal/policy"
	"github.com/valgq/tablero/internal/ui"
)

func sampleView(role policy.Role, tasks []model.Task) BoardView {
	counts := map[model.Status]int{
		model.StatusTodo:       0,
		model.StatusInProgress: 0,
		model.StatusDone:       0,
	}
	for _, t := range tasks {
		counts[t.Status]++
	}
	return BoardView{
		Styles:   ui.ForTheme("dark"),
		Width:    120,
		Username: "ana",
		Role:     role,
		LoggedIn: true,
		APIUp:    true,
		Snapshot: tasks,
		Counts:   counts,
	}
}

func TestEnabledActionsMatchPolicyTable(t *testing.T) {
	cases := []struct {
		role policy.Role
		want []string
	}{
		{policy.RoleProductOwner, []string{"move", "edit", "del"}},
		{policy.RoleNormal, []string{"del"}},
		{policy.RoleGuest, nil},
	}
	for _, c := range cases {
		got := EnabledActions(c.role)
		if len(got) != len(c.want) {
			t.Fatalf("%s: enabled = %v, want %v", c.role, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%s: enabled = %v, want %v", c.role, got, c.want)
			}
		}
	}
}

func TestGuestSeesNoActionCluster(t *testing.T) {
	tasks := []model.Task{{ID: "t1", Title: "Write spec", Points: 4, Assignee: "Ana", Status: model.StatusTodo}}

	guest := RenderBoard(sampleView(policy.RoleGuest, tasks))
	for _, word := range []string{"move", "edit", "del"} {
		if strings.Contains(guest, word) {
			t.Fatalf("guest render should hide the action cluster, found %q", word)
		}
	}

	normal := RenderBoard(sampleView(policy.RoleNormal, tasks))
	if !strings.Contains(normal, "del") {
		t.Fatal("normal render should show the delete affordance")
	}
	if !strings.Contains(normal, "~move~") {
		t.Fatal("normal render should show move as disabled, not hide it")
	}

	owner := RenderBoard(sampleView(policy.RoleProductOwner, tasks))
	if strings.Contains(owner, "~move~") || strings.Contains(owner, "~edit~") {
		t.Fatal("owner render should not disable any affordance")
	}
}

func TestLanePlacementAndCounts(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Title: "uno", Points: 1, Status: model.StatusTodo},
		{ID: "b", Title: "dos", Points: 2, Status: model.StatusTodo},
		{ID: "c", Title: "tres", Points: 4, Status: model.StatusDone},
	}
	out := RenderBoard(sampleView(policy.RoleNormal, tasks))
	for _, want := range []string{"TODO (2)", "IN_PROGRESS (0)", "DONE (1)", "uno", "dos", "tres"} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q", want)
		}
	}
}

func TestEmptyBoardRendersZeroCounts(t *testing.T) {
	out := RenderBoard(sampleView(policy.RoleGuest, nil))
	for _, want := range []string{"TODO (0)", "IN_PROGRESS (0)", "DONE (0)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q", want)
		}
	}
}

func TestCardPills(t *testing.T) {
	tasks := []model.Task{{ID: "t1", Title: "Write spec", Points: 4, Assignee: "Ana", Status: model.StatusTodo}}
	out := RenderBoard(sampleView(policy.RoleNormal, tasks))
	if !strings.Contains(out, "4 pts") {
		t.Fatal("points pill missing")
	}
	if !strings.Contains(out, "Ana") {
		t.Fatal("assignee pill missing")
	}

	// unassigned cards get a placeholder, zero points render as 1
	out = RenderBoard(sampleView(policy.RoleNormal, []model.Task{{ID: "t2", Title: "x", Status: model.StatusTodo}}))
	if !strings.Contains(out, "—") || !strings.Contains(out, "1 pts") {
		t.Fatal("placeholder pills missing")
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	v := sampleView(policy.RoleProductOwner, []model.Task{
		{ID: "a", Title: "uno", Points: 8, Status: model.StatusInProgress},
	})
	v.Inter = Interaction{CursorLane: 1, CarryID: "a", CarryTarget: model.StatusDone}
	if RenderBoard(v) != RenderBoard(v) {
		t.Fatal("same view must render the same string")
	}
}

func TestOfflineIndicator(t *testing.T) {
	v := sampleView(policy.RoleNormal, nil)
	v.APIUp = false
	if !strings.Contains(RenderBoard(v), "API: OFF") {
		t.Fatal("offline indicator missing")
	}
	v.APIUp = true
	if !strings.Contains(RenderBoard(v), "API: OK") {
		t.Fatal("online indicator missing")
	}
}

func TestFilterLine(t *testing.T) {
	v := sampleView(policy.RoleNormal, nil)
	p := 8
	v.Filter = model.FilterSpec{Points: &p, Assignee: "Ana", Sort: model.SortPointsAsc}
	out := RenderBoard(v)
	for _, want := range []string{"points=8", "assignee~Ana", "sort=points_asc"} {
		if !strings.Contains(out, want) {
			t.Fatalf("filter line missing %q", want)
		}
	}
	v.Filter = model.FilterSpec{}
	if !strings.Contains(RenderBoard(v), "filter: none") {
		t.Fatal("empty filter line missing")
	}
}
