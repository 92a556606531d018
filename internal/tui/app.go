// Package tui is the interactive board. It follows the Elm shape bubbletea
// imposes: one model, messages in, a pure view out. Every network completion
// comes back as a message on the single update loop, so the snapshot and the
// session are never touched concurrently.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/valgq/tablero/internal/board"
	"github.com/valgq/tablero/internal/model"
	"github.com/valgq/tablero/internal/policy"
	"github.com/valgq/tablero/internal/session"
	"github.com/valgq/tablero/internal/ui"
)

// screen selects which view the app is showing.
type screen int

const (
	screenLogin screen = iota
	screenBoard
)

// editField selects the single editable field in the inline panel.
type editField int

const (
	editTitle editField = iota
	editAssignee
	editPoints
)

const (
	healthInterval = 5 * time.Second
	debounceQuiet  = 300 * time.Millisecond
)

// AuthGateway is the slice of the API client the login screen needs.
type AuthGateway interface {
	Health(ctx context.Context) error
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, password, role string) (string, error)
}

type keyMap struct {
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Carry   key.Binding
	Drop    key.Binding
	MoveL   key.Binding
	MoveR   key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Add     key.Binding
	Filter  key.Binding
	Points  key.Binding
	SortKey key.Binding
	ClearF  key.Binding
	Theme   key.Binding
	Logout  key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Left:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "lane")),
		Right:   key.NewBinding(key.WithKeys("l", "right")),
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "card")),
		Down:    key.NewBinding(key.WithKeys("j", "down")),
		Carry:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "carry")),
		Drop:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		MoveL:   key.NewBinding(key.WithKeys("H"), key.WithHelp("H/L", "step card")),
		MoveR:   key.NewBinding(key.WithKeys("L")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Points:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "points filter")),
		SortKey: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		ClearF:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Logout:  key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp and FullHelp satisfy help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Carry, k.Drop, k.Edit, k.Add, k.Delete, k.Filter, k.Theme, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Up, k.Carry, k.Drop, k.MoveL},
		{k.Edit, k.Add, k.Delete, k.Filter, k.Points, k.SortKey, k.ClearF},
		{k.Theme, k.Logout, k.Quit},
	}
}

// App is the whole application model.
type App struct {
	store    *board.Store
	auth     AuthGateway
	sessions *session.Store
	sess     *session.Session

	themeName string
	styles    ui.Styles

	scr    screen
	width  int
	height int

	// login screen
	userInput textinput.Model
	passInput textinput.Model
	loginFoc  int
	register  bool
	authErr   string
	authBusy  bool

	// board: filter controls
	filter      model.FilterSpec
	filterInput textinput.Model
	filterFoc   bool
	debounceGen int
	pointsIdx   int // -1 means no points filter

	// board: cursor + carry + edit + add
	cursorLane int
	cursorRow  int
	carryID    string
	carryLane  int
	editID     string
	editFld    editField
	editInput  textinput.Model
	editErr    string
	adding     bool
	addTitle   textinput.Model
	addWho     textinput.Model
	addTierIdx int
	addFoc     int

	spin    spinner.Model
	loading bool
	apiUp   bool
	status  string
	help    help.Model
	keys    keyMap
}

// New builds the app. sess may be nil (starts on the login screen).
func New(store *board.Store, auth AuthGateway, sessions *session.Store, sess *session.Session, themeName string) *App {
	a := &App{
		store:      store,
		auth:       auth,
		sessions:   sessions,
		sess:       sess,
		themeName:  themeName,
		styles:     ui.ForTheme(themeName),
		width:      100,
		pointsIdx:  -1,
		addTierIdx: 0,
		help:       help.New(),
		keys:       newKeyMap(),
	}
	a.filter.Sort = model.SortPointsDesc

	a.userInput = textinput.New()
	a.userInput.Prompt = "user > "
	a.userInput.CharLimit = 64
	a.passInput = textinput.New()
	a.passInput.Prompt = "pass > "
	a.passInput.EchoMode = textinput.EchoPassword
	a.passInput.CharLimit = 64

	a.filterInput = textinput.New()
	a.filterInput.Prompt = "assignee ~ "
	a.filterInput.CharLimit = 64

	a.editInput = textinput.New()
	a.editInput.Prompt = "> "
	a.editInput.CharLimit = 200

	a.addTitle = textinput.New()
	a.addTitle.Prompt = "title > "
	a.addTitle.CharLimit = 200
	a.addWho = textinput.New()
	a.addWho.Prompt = "assignee > "
	a.addWho.CharLimit = 64

	a.spin = spinner.New()
	a.spin.Spinner = spinner.Dot

	if sess == nil {
		a.scr = screenLogin
		a.userInput.Focus()
	} else {
		a.scr = screenBoard
	}
	return a
}

// role is the current role, guest when logged out.
func (a *App) role() policy.Role {
	if a.sess == nil {
		return policy.RoleGuest
	}
	return a.sess.ParsedRole()
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.healthCmd(), a.healthTick(), textinput.Blink}
	if a.scr == screenBoard {
		cmds = append(cmds, a.loadCmd(), a.spin.Tick)
		a.loading = true
	}
	return tea.Batch(cmds...)
}

// ------------------------------------------------------------------
// messages and commands
// ------------------------------------------------------------------

type loadedMsg struct {
	res board.LoadResult
	err error
}

type mutationDoneMsg struct {
	reload bool
	err    error
}

type editSavedMsg struct {
	saved bool
	err   error
}

type healthMsg struct{ up bool }

type healthTickMsg struct{}

type debounceMsg struct{ gen int }

type authDoneMsg struct {
	username string
	role     string
	err      error
}

func (a *App) loadCmd() tea.Cmd {
	sess, filter := a.sess, a.filter
	store := a.store
	return func() tea.Msg {
		res, err := store.Load(context.Background(), sess, filter)
		return loadedMsg{res: res, err: err}
	}
}

func (a *App) healthCmd() tea.Cmd {
	auth := a.auth
	return func() tea.Msg {
		err := auth.Health(context.Background())
		return healthMsg{up: err == nil}
	}
}

func (a *App) healthTick() tea.Cmd {
	return tea.Tick(healthInterval, func(time.Time) tea.Msg { return healthTickMsg{} })
}

// debounceCmd arms the singular filter timer. A newer generation invalidates
// every older pending tick.
func (a *App) debounceCmd() tea.Cmd {
	a.debounceGen++
	gen := a.debounceGen
	return tea.Tick(debounceQuiet, func(time.Time) tea.Msg { return debounceMsg{gen: gen} })
}

func (a *App) loginCmd(username, password string, register bool) tea.Cmd {
	auth := a.auth
	return func() tea.Msg {
		var role string
		var err error
		if register {
			role, err = auth.Register(context.Background(), username, password, "normal")
		} else {
			role, err = auth.Login(context.Background(), username, password)
		}
		return authDoneMsg{username: username, role: role, err: err}
	}
}

// ------------------------------------------------------------------
// update
// ------------------------------------------------------------------

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil

	case healthTickMsg:
		return a, tea.Batch(a.healthCmd(), a.healthTick())

	case healthMsg:
		// offline is an indicator, never a blocker
		a.apiUp = msg.up
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case loadedMsg:
		a.loading = false
		if msg.err != nil {
			a.status = msg.err.Error()
			return a, nil
		}
		a.status = ""
		if a.store.Apply(msg.res) {
			a.clampCursor()
		}
		return a, nil

	case mutationDoneMsg:
		if msg.err != nil {
			a.status = msg.err.Error()
			return a, nil
		}
		a.status = ""
		if msg.reload {
			a.loading = true
			return a, tea.Batch(a.loadCmd(), a.spin.Tick)
		}
		return a, nil

	case editSavedMsg:
		if msg.err != nil {
			// keep the panel and the user's text; surface the failure
			a.editErr = msg.err.Error()
			return a, nil
		}
		if !msg.saved {
			// empty title: treated as nothing to change, panel stays open
			return a, nil
		}
		a.closeEditPanel()
		a.loading = true
		return a, tea.Batch(a.loadCmd(), a.spin.Tick)

	case debounceMsg:
		if msg.gen != a.debounceGen {
			return a, nil // superseded by a newer keystroke
		}
		a.filter.Assignee = a.filterInput.Value()
		a.loading = true
		return a, tea.Batch(a.loadCmd(), a.spin.Tick)

	case authDoneMsg:
		a.authBusy = false
		if msg.err != nil {
			a.authErr = msg.err.Error()
			if a.authErr == "" {
				a.authErr = "login failed"
			}
			return a, nil
		}
		a.enterSession(msg.username, msg.role)
		a.loading = true
		return a, tea.Batch(a.loadCmd(), a.spin.Tick)
	}

	switch a.scr {
	case screenLogin:
		return a.updateLogin(msg)
	default:
		return a.updateBoard(msg)
	}
}

// enterSession installs a session and switches to the board.
func (a *App) enterSession(username, role string) {
	_ = a.sessions.Save(username, role)
	a.sess = &session.Session{Username: username, Role: role}
	a.scr = screenBoard
	a.authErr = ""
	a.passInput.SetValue("")
}

// logout clears everything session-scoped. The board empties immediately;
// the theme preference stays.
func (a *App) logout() {
	_ = a.sessions.Clear()
	a.sess = nil
	a.store.Clear()
	a.closeEditPanel()
	a.carryID = ""
	a.adding = false
	a.filterFoc = false
	a.scr = screenLogin
	a.userInput.Focus()
}

func (a *App) View() string {
	if a.scr == screenLogin {
		return a.viewLogin()
	}
	return a.viewBoard()
}

// Run starts the program in the alternate screen and blocks until quit.
func Run(a *App) error {
	_, err := tea.NewProgram(a, tea.WithAltScreen()).Run()
	return err
}
