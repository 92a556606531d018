package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/valgq/tablero/internal/policy"
)

// updateLogin handles the login/register screen. Malformed input never
// reaches the server: empty fields abort with an inline hint.
func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a.updateLoginInputs(msg)
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc":
		return a, tea.Quit

	case "tab", "shift+tab", "down", "up":
		a.loginFoc = 1 - a.loginFoc
		if a.loginFoc == 0 {
			a.userInput.Focus()
			a.passInput.Blur()
		} else {
			a.passInput.Focus()
			a.userInput.Blur()
		}
		return a, nil

	case "ctrl+r":
		a.register = !a.register
		a.authErr = ""
		return a, nil

	case "ctrl+g":
		// guest entry: a local read-only session, no server round trip
		a.enterSession("invitado", string(policy.RoleGuest))
		a.loading = true
		return a, tea.Batch(a.loadCmd(), a.spin.Tick)

	case "enter":
		if a.authBusy {
			return a, nil
		}
		username := strings.TrimSpace(a.userInput.Value())
		password := strings.TrimSpace(a.passInput.Value())
		if username == "" || password == "" {
			a.authErr = "username and password are required"
			return a, nil
		}
		a.authBusy = true
		a.authErr = ""
		return a, a.loginCmd(username, password, a.register)
	}

	return a.updateLoginInputs(msg)
}

func (a *App) updateLoginInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if a.loginFoc == 0 {
		a.userInput, cmd = a.userInput.Update(msg)
	} else {
		a.passInput, cmd = a.passInput.Update(msg)
	}
	return a, cmd
}

func (a *App) viewLogin() string {
	s := a.styles

	mode := "Log in"
	if a.register {
		mode = "Register"
	}
	api := s.Success.Render("API: OK")
	if !a.apiUp {
		api = s.Error.Render("API: OFF")
	}

	lines := []string{
		s.Title.Render("tablero") + "  " + api,
		"",
		s.Accent.Render(mode),
		a.userInput.View(),
		a.passInput.View(),
	}
	if a.authBusy {
		lines = append(lines, s.Muted.Render("…"))
	}
	if a.authErr != "" {
		lines = append(lines, s.Error.Render(a.authErr))
	}
	lines = append(lines, "",
		s.Help.Render("enter submit · tab switch · ctrl+r toggle register · ctrl+g guest · esc quit"))

	return s.Panel.Render(strings.Join(lines, "\n"))
}
