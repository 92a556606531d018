package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/valgq/tablero/internal/model"
	"github.com/valgq/tablero/internal/policy"
	"github.com/valgq/tablero/internal/ui"
)

// updateBoard handles every message while the board screen is active.
// Input modes take priority: add form, edit panel, then the filter input.
func (a *App) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.adding {
		return a.updateAddForm(msg)
	}
	if a.editID != "" {
		return a.updateEditPanel(msg)
	}
	if a.filterFoc {
		return a.updateFilterInput(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "ctrl+l":
		a.logout()
		return a, nil

	case "t":
		a.themeName = ui.ToggleTheme(a.themeName)
		a.styles = ui.ForTheme(a.themeName)
		a.sessions.SaveTheme(a.themeName)
		return a, nil

	case "?":
		a.help.ShowAll = !a.help.ShowAll
		return a, nil

	case "h", "left":
		if a.carryID != "" {
			if a.carryLane > 0 {
				a.carryLane--
			}
			return a, nil
		}
		if a.cursorLane > 0 {
			a.cursorLane--
			a.clampCursor()
		}
		return a, nil

	case "l", "right":
		if a.carryID != "" {
			if a.carryLane < 2 {
				a.carryLane++
			}
			return a, nil
		}
		if a.cursorLane < 2 {
			a.cursorLane++
			a.clampCursor()
		}
		return a, nil

	case "k", "up":
		if a.cursorRow > 0 {
			a.cursorRow--
		}
		return a, nil

	case "j", "down":
		a.cursorRow++
		a.clampCursor()
		return a, nil

	case " ":
		// pick up: only reachable when the role can move
		if a.carryID != "" || !policy.Can(a.role(), policy.ActionMove) {
			return a, nil
		}
		if t, ok := a.selectedTask(); ok {
			a.carryID = t.ID
			a.carryLane = a.cursorLane
		}
		return a, nil

	case "enter":
		if a.carryID == "" {
			return a, nil
		}
		// drop: one status patch, carry cleared whatever happens
		id := a.carryID
		target := model.Statuses()[a.carryLane]
		a.carryID = ""
		if !policy.Can(a.role(), policy.ActionMove) {
			return a, nil
		}
		return a, a.moveCmd(id, target)

	case "esc":
		if a.carryID != "" {
			// released outside a drop: no request
			a.carryID = ""
		}
		return a, nil

	case "H":
		if t, ok := a.selectedTask(); ok && policy.Can(a.role(), policy.ActionMove) {
			return a, a.moveCmd(t.ID, t.Status.Prev())
		}
		return a, nil

	case "L":
		if t, ok := a.selectedTask(); ok && policy.Can(a.role(), policy.ActionMove) {
			return a, a.moveCmd(t.ID, t.Status.Next())
		}
		return a, nil

	case "e":
		if !policy.Can(a.role(), policy.ActionMove) {
			return a, nil
		}
		if t, ok := a.selectedTask(); ok {
			a.openEditPanel(t)
		}
		return a, nil

	case "x":
		if t, ok := a.selectedTask(); ok && policy.Can(a.role(), policy.ActionDelete) {
			return a, a.deleteCmd(t.ID)
		}
		return a, nil

	case "a":
		if !policy.Can(a.role(), policy.ActionCreate) {
			return a, nil
		}
		a.adding = true
		a.addFoc = 0
		a.addTierIdx = 0
		a.addTitle.SetValue("")
		a.addWho.SetValue("")
		a.addTitle.Focus()
		a.addWho.Blur()
		return a, nil

	case "/":
		a.filterFoc = true
		a.filterInput.Focus()
		return a, nil

	case "p":
		a.cyclePointsFilter()
		a.loading = true
		return a, tea.Batch(a.loadCmd(), a.spin.Tick)

	case "s":
		a.filter.Sort = model.NextSort(a.filter.Sort)
		a.loading = true
		return a, tea.Batch(a.loadCmd(), a.spin.Tick)

	case "c":
		a.filter = model.FilterSpec{Sort: model.SortPointsDesc}
		a.pointsIdx = -1
		a.filterInput.SetValue("")
		a.loading = true
		return a, tea.Batch(a.loadCmd(), a.spin.Tick)
	}

	return a, nil
}

// cyclePointsFilter steps none → 1 → 2 → 4 → 8 → 16 → none.
func (a *App) cyclePointsFilter() {
	tiers := model.Tiers()
	a.pointsIdx++
	if a.pointsIdx >= len(tiers) {
		a.pointsIdx = -1
		a.filter.Points = nil
		return
	}
	p := tiers[a.pointsIdx]
	a.filter.Points = &p
}

// ------------------------------------------------------------------
// filter input (debounced)
// ------------------------------------------------------------------

func (a *App) updateFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter", "esc":
			a.filterFoc = false
			a.filterInput.Blur()
			// flush immediately rather than waiting out the quiet period
			a.filter.Assignee = a.filterInput.Value()
			a.debounceGen++ // cancel any pending tick
			a.loading = true
			return a, tea.Batch(a.loadCmd(), a.spin.Tick)
		}
	}
	before := a.filterInput.Value()
	var cmd tea.Cmd
	a.filterInput, cmd = a.filterInput.Update(msg)
	if a.filterInput.Value() != before {
		// each keystroke restarts the singular debounce timer
		return a, tea.Batch(cmd, a.debounceCmd())
	}
	return a, cmd
}

// ------------------------------------------------------------------
// inline edit panel
// ------------------------------------------------------------------

// openEditPanel opens the panel for t, implicitly closing any other: there
// is a single editID for the whole board.
func (a *App) openEditPanel(t model.Task) {
	a.editID = t.ID
	a.editFld = editTitle
	a.editErr = ""
	a.seedEditInput(t)
	a.editInput.Focus()
}

func (a *App) closeEditPanel() {
	a.editID = ""
	a.editErr = ""
	a.editInput.SetValue("")
	a.editInput.Blur()
}

// seedEditInput fills the input with the field's current value. Only the
// field area changes when the selector cycles.
func (a *App) seedEditInput(t model.Task) {
	switch a.editFld {
	case editTitle:
		a.editInput.Placeholder = "task title"
		a.editInput.SetValue(t.Title)
	case editAssignee:
		a.editInput.Placeholder = "assignee (empty clears)"
		a.editInput.SetValue(t.Assignee)
	case editPoints:
		a.editInput.Placeholder = "points: 1, 2, 4, 8 or 16"
		points := t.Points
		if points == 0 {
			points = 1
		}
		a.editInput.SetValue(strconv.Itoa(points))
	}
	a.editInput.CursorEnd()
}

func (a *App) updateEditPanel(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		switch keyMsg.String() {
		case "esc":
			a.closeEditPanel()
			return a, nil
		case "tab":
			a.editFld = (a.editFld + 1) % 3
			if t, ok := a.taskByID(a.editID); ok {
				a.seedEditInput(t)
			}
			return a, nil
		case "enter":
			return a, a.saveEditCmd(a.editID, a.editFld, a.editInput.Value())
		}
	}
	var cmd tea.Cmd
	a.editInput, cmd = a.editInput.Update(msg)
	return a, cmd
}

// ------------------------------------------------------------------
// add form
// ------------------------------------------------------------------

func (a *App) updateAddForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		switch keyMsg.String() {
		case "esc":
			a.adding = false
			return a, nil
		case "tab":
			a.addFoc = (a.addFoc + 1) % 2
			if a.addFoc == 0 {
				a.addTitle.Focus()
				a.addWho.Blur()
			} else {
				a.addWho.Focus()
				a.addTitle.Blur()
			}
			return a, nil
		case "up", "down":
			tiers := model.Tiers()
			if keyMsg.String() == "up" {
				a.addTierIdx = (a.addTierIdx + 1) % len(tiers)
			} else {
				a.addTierIdx = (a.addTierIdx + len(tiers) - 1) % len(tiers)
			}
			return a, nil
		case "enter":
			title := strings.TrimSpace(a.addTitle.Value())
			if title == "" {
				return a, nil // nothing to create; form stays open
			}
			points := model.Tiers()[a.addTierIdx]
			who := a.addWho.Value()
			a.adding = false
			return a, a.createCmd(title, points, who)
		}
	}
	var cmd tea.Cmd
	if a.addFoc == 0 {
		a.addTitle, cmd = a.addTitle.Update(msg)
	} else {
		a.addWho, cmd = a.addWho.Update(msg)
	}
	return a, cmd
}

// ------------------------------------------------------------------
// mutation commands
// ------------------------------------------------------------------

func (a *App) moveCmd(id string, st model.Status) tea.Cmd {
	store, role := a.store, a.role()
	return func() tea.Msg {
		reload, err := store.MoveTask(context.Background(), role, id, st)
		return mutationDoneMsg{reload: reload, err: err}
	}
}

func (a *App) deleteCmd(id string) tea.Cmd {
	store, role := a.store, a.role()
	return func() tea.Msg {
		reload, err := store.DeleteTask(context.Background(), role, id)
		return mutationDoneMsg{reload: reload, err: err}
	}
}

func (a *App) createCmd(title string, points int, assignee string) tea.Cmd {
	store, role := a.store, a.role()
	return func() tea.Msg {
		reload, err := store.CreateTask(context.Background(), role, title, points, assignee)
		return mutationDoneMsg{reload: reload, err: err}
	}
}

func (a *App) saveEditCmd(id string, fld editField, value string) tea.Cmd {
	store, role := a.store, a.role()
	return func() tea.Msg {
		var saved bool
		var err error
		switch fld {
		case editTitle:
			saved, err = store.SaveTitle(context.Background(), role, id, value)
		case editAssignee:
			saved, err = store.SaveAssignee(context.Background(), role, id, value)
		case editPoints:
			n, convErr := strconv.Atoi(strings.TrimSpace(value))
			if convErr != nil {
				n = 1 // garbage defaults to 1
			}
			saved, err = store.SavePoints(context.Background(), role, id, n)
		}
		return editSavedMsg{saved: saved, err: err}
	}
}

// ------------------------------------------------------------------
// cursor helpers
// ------------------------------------------------------------------

func (a *App) selectedTask() (model.Task, bool) {
	lane := a.store.Lane(model.Statuses()[a.cursorLane])
	if a.cursorRow < 0 || a.cursorRow >= len(lane) {
		return model.Task{}, false
	}
	return lane[a.cursorRow], true
}

func (a *App) taskByID(id string) (model.Task, bool) {
	for _, t := range a.store.Snapshot() {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// clampCursor keeps the selection inside the current lane after the
// snapshot changes underneath it.
func (a *App) clampCursor() {
	lane := a.store.Lane(model.Statuses()[a.cursorLane])
	if len(lane) == 0 {
		a.cursorRow = 0
		return
	}
	if a.cursorRow >= len(lane) {
		a.cursorRow = len(lane) - 1
	}
	if a.cursorRow < 0 {
		a.cursorRow = 0
	}
	// interaction state must not outlive the tasks it points at
	if a.editID != "" {
		if _, ok := a.taskByID(a.editID); !ok {
			a.closeEditPanel()
		}
	}
	if a.carryID != "" {
		if _, ok := a.taskByID(a.carryID); !ok {
			a.carryID = ""
		}
	}
}

// ------------------------------------------------------------------
// board view
// ------------------------------------------------------------------

func (a *App) viewBoard() string {
	loadingFrame := ""
	if a.loading {
		loadingFrame = a.spin.View()
	}
	v := BoardView{
		Styles:   a.styles,
		Width:    a.width,
		LoggedIn: a.sess != nil,
		APIUp:    a.apiUp,
		Loading:  loadingFrame,
		Role:     a.role(),
		Filter:   a.filter,
		Snapshot: a.store.Snapshot(),
		Counts:   a.store.Counts(),
		Status:   a.status,
		Inter: Interaction{
			CursorLane:  a.cursorLane,
			CursorRow:   a.cursorRow,
			CarryID:     a.carryID,
			CarryTarget: model.Statuses()[a.carryLane],
			EditID:      a.editID,
		},
	}
	if a.sess != nil {
		v.Username = a.sess.Username
	}

	out := RenderBoard(v)
	if a.filterFoc {
		out += "\n" + a.filterInput.View()
	}
	if a.adding {
		out += "\n" + a.viewAddForm()
	}
	if a.editID != "" {
		out += "\n" + a.viewEditPanel()
	}
	return out + "\n" + a.help.View(a.keys)
}

func (a *App) viewAddForm() string {
	s := a.styles
	tier := model.Tiers()[a.addTierIdx]
	lines := []string{
		s.Title.Render("New task"),
		a.addTitle.View(),
		a.addWho.View(),
		fmt.Sprintf("points: %s %s", s.PillPoints.Render(strconv.Itoa(tier)), s.Help.Render("(↑/↓ to change)")),
		s.Help.Render("enter create · tab next field · esc cancel"),
	}
	return s.Panel.Render(strings.Join(lines, "\n"))
}

func (a *App) viewEditPanel() string {
	s := a.styles
	fields := [3]string{"title", "assignee", "points"}
	selector := make([]string, 0, 3)
	for i, f := range fields {
		if editField(i) == a.editFld {
			selector = append(selector, s.Selected.Render(" "+f+" "))
		} else {
			selector = append(selector, s.Muted.Render(" "+f+" "))
		}
	}
	title := "Edit task"
	if t, ok := a.taskByID(a.editID); ok {
		title = "Edit: " + t.Title
	}
	lines := []string{
		s.Title.Render(title),
		strings.Join(selector, " "),
		a.editInput.View(),
		s.Help.Render("enter save · tab switch field · esc close"),
	}
	if a.editErr != "" {
		lines = append(lines, s.Error.Render(a.editErr))
	}
	return s.Panel.Render(strings.Join(lines, "\n"))
}
