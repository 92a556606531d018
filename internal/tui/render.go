package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/valgq/tablero/internal/model"
	"github.com/valgq/tablero/internal/policy"
	"github.com/valgq/tablero/internal/ui"
)

// Interaction is the transient UI-only state the renderer needs: cursor,
// in-flight carry and the open edit panel. It never outlives the gesture
// that triggered the current render.
type Interaction struct {
	CursorLane  int
	CursorRow   int
	CarryID     string       // task being carried, empty when idle
	CarryTarget model.Status // lane highlighted as the drop target
	EditID      string       // task with the edit panel open, empty when none
}

// BoardView is everything the board projection depends on. Rendering the
// same view twice yields the same string; lanes are rebuilt from scratch on
// every call.
type BoardView struct {
	Styles   ui.Styles
	Width    int
	Username string
	Role     policy.Role
	LoggedIn bool
	APIUp    bool
	Loading  string // spinner frame, empty when idle
	Filter   model.FilterSpec
	Snapshot []model.Task
	Counts   map[model.Status]int
	Inter    Interaction
	Status   string // transient message line
}

// action is one card affordance.
type action struct {
	label string
	act   policy.Action
}

var cardActions = []action{
	{"move", policy.ActionMove},
	{"edit", policy.ActionMove},
	{"del", policy.ActionDelete},
}

// EnabledActions lists the affordance labels the role may use, in render
// order. The renderer dims the rest; guests get no cluster at all.
func EnabledActions(role policy.Role) []string {
	if policy.IsGuest(role) {
		return nil
	}
	var out []string
	for _, a := range cardActions {
		if policy.Can(role, a.act) {
			out = append(out, a.label)
		}
	}
	return out
}

// RenderBoard projects the view into the three-lane board string.
func RenderBoard(v BoardView) string {
	var b strings.Builder

	b.WriteString(renderHeader(v))
	b.WriteString("\n")
	b.WriteString(renderFilterLine(v))
	b.WriteString("\n")

	laneWidth := v.Width/3 - 4
	if laneWidth < 18 {
		laneWidth = 18
	}
	lanes := make([]string, 0, 3)
	for i, st := range model.Statuses() {
		lanes = append(lanes, renderLane(v, i, st, laneWidth))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, lanes...))

	if v.Status != "" {
		b.WriteString("\n")
		b.WriteString(v.Styles.Error.Render(v.Status))
	}
	return b.String()
}

func renderHeader(v BoardView) string {
	s := v.Styles
	who := "logged out"
	if v.LoggedIn {
		who = fmt.Sprintf("%s (%s)", v.Username, v.Role)
	}
	api := s.Success.Render("API: OK")
	if !v.APIUp {
		api = s.Error.Render("API: OFF")
	}
	left := s.Title.Render("tablero") + "  " + s.Muted.Render(who)
	if v.Loading != "" {
		left += "  " + v.Loading
	}
	return left + "  " + api
}

func renderFilterLine(v BoardView) string {
	s := v.Styles
	parts := []string{}
	if v.Filter.Points != nil {
		parts = append(parts, fmt.Sprintf("points=%d", *v.Filter.Points))
	}
	if a := strings.TrimSpace(v.Filter.Assignee); a != "" {
		parts = append(parts, "assignee~"+a)
	}
	if v.Filter.Sort != "" {
		parts = append(parts, "sort="+string(v.Filter.Sort))
	}
	if len(parts) == 0 {
		return s.Muted.Render("filter: none")
	}
	return s.Muted.Render("filter: " + strings.Join(parts, "  "))
}

func renderLane(v BoardView, laneIdx int, st model.Status, width int) string {
	s := v.Styles

	count := 0
	if v.Counts != nil {
		count = v.Counts[st]
	}
	header := s.LaneHeader.Render(fmt.Sprintf("%s (%d)", st, count))

	var rows []string
	rows = append(rows, header)
	row := 0
	for _, t := range v.Snapshot {
		if t.Status != st {
			continue
		}
		rows = append(rows, renderCard(v, t, laneIdx, row, width))
		row++
	}
	if row == 0 {
		rows = append(rows, s.Muted.Render("  —"))
	}

	frame := s.Lane
	// only a movable carry highlights a drop target
	if v.Inter.CarryID != "" && v.Inter.CarryTarget == st && policy.Can(v.Role, policy.ActionMove) {
		frame = s.LaneDrop
	}
	return frame.Width(width).Render(strings.Join(rows, "\n"))
}

func renderCard(v BoardView, t model.Task, laneIdx, row, width int) string {
	s := v.Styles

	style := s.Card
	cursor := "  "
	if laneIdx == v.Inter.CursorLane && row == v.Inter.CursorRow {
		style = s.CardCursor
		cursor = "> "
	}
	if t.ID == v.Inter.CarryID {
		style = s.CardCarried // lifted
	}

	points := t.Points
	if points == 0 {
		points = 1
	}
	assignee := t.Assignee
	if assignee == "" {
		assignee = "—"
	}
	lines := []string{
		cursor + t.Title,
		"  " + s.PillPoints.Render(fmt.Sprintf("%d pts", points)) + " " + s.Pill.Render(assignee),
	}
	if cluster := actionCluster(v.Role, s); cluster != "" {
		lines = append(lines, "  "+cluster)
	}
	if t.ID == v.Inter.EditID {
		lines = append(lines, "  "+s.Accent.Render("[editing]"))
	}
	return style.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// actionCluster renders the per-card affordances: enabled ones accented,
// denied ones dimmed. Guests get nothing, not even disabled hints.
func actionCluster(role policy.Role, s ui.Styles) string {
	if policy.IsGuest(role) {
		return ""
	}
	parts := make([]string, 0, len(cardActions))
	for _, a := range cardActions {
		if policy.Can(role, a.act) {
			parts = append(parts, s.Accent.Render(a.label))
		} else {
			parts = append(parts, s.Muted.Render(strikethrough(a.label)))
		}
	}
	return strings.Join(parts, " · ")
}

// strikethrough marks a disabled label in a way that survives plain output.
func strikethrough(label string) string {
	return "~" + label + "~"
}
