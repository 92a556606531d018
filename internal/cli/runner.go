package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/valgq/tablero/internal/board"
	"github.com/valgq/tablero/internal/config"
	"github.com/valgq/tablero/internal/gateway"
	"github.com/valgq/tablero/internal/model"
	"github.com/valgq/tablero/internal/policy"
	"github.com/valgq/tablero/internal/session"
	"github.com/valgq/tablero/internal/tui"
	"github.com/valgq/tablero/internal/ui"
)

// env is everything a subcommand needs, wired once per invocation.
type env struct {
	cfg      config.Config
	sessions *session.Store
	gw       *gateway.Client
	store    *board.Store
	styles   ui.Styles
	theme    string
}

func newEnv() (*env, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	sessions := session.New("")
	theme := sessions.LoadTheme()
	if theme == "" {
		theme = cfg.Theme
	}
	gw := gateway.NewClient(cfg.APIBase, time.Duration(cfg.TimeoutSeconds)*time.Second, func() string {
		s, _ := sessions.Current()
		if s == nil {
			return ""
		}
		return s.Username
	})
	return &env{
		cfg:      cfg,
		sessions: sessions,
		gw:       gw,
		store:    board.New(gw),
		styles:   ui.ForTheme(theme),
		theme:    theme,
	}, nil
}

func (e *env) currentSession() *session.Session {
	s, _ := e.sessions.Current()
	return s
}

func (e *env) role() policy.Role {
	s := e.currentSession()
	if s == nil {
		return policy.RoleGuest
	}
	return s.ParsedRole()
}

func (e *env) ok(msg string)   { ui.OK(e.styles, msg) }
func (e *env) fail(msg string) { ui.Fail(e.styles, msg) }

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string) int {
	e, err := newEnv()
	if err != nil {
		ui.Fail(ui.ForTheme(""), "setup: "+err.Error())
		return 1
	}

	if len(args) == 0 {
		return doBoard(e)
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "board":
		return doBoard(e)

	case "ls":
		return doList(e)

	case "add":
		return doAdd(e, a)

	case "mv":
		if len(a) != 2 {
			e.fail("usage: tablero mv <id> <left|right|todo|in_progress|done>")
			return 2
		}
		return doMove(e, a[0], a[1])

	case "rm":
		if len(a) != 1 {
			e.fail("usage: tablero rm <id>")
			return 2
		}
		return doRemove(e, a[0])

	case "health":
		return doHealth(e)

	case "auth":
		if len(a) == 0 {
			e.fail("usage: tablero auth <login|register|guest|logout|status>")
			return 2
		}
		switch a[0] {
		case "login":
			return doAuthLogin(e, false)
		case "register":
			return doAuthLogin(e, true)
		case "guest":
			return doAuthGuest(e)
		case "logout":
			return doAuthLogout(e)
		case "status":
			return doAuthStatus(e)
		default:
			e.fail("usage: tablero auth <login|register|guest|logout|status>")
			return 2
		}
	}

	e.fail("unknown subcommand: " + cmd)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`tablero - a terminal client for the shared task board

Usage:
  tablero [subcommand] [args]

Subcommands:
  board              Open the interactive board (default)
  ls                 Print the three lanes with counts
  add <title...>     Create a task (-points N, -assignee NAME flags first)
  mv <id> <dir>      Move a task: left, right or a lane name
  rm <id>            Delete a task
  health             Check the API
  auth <login|register|guest|logout|status>

Examples:
  tablero auth login
  tablero add -points 4 -assignee Ana "Write spec"
  tablero mv 4f1c right
  tablero board
`)
}

// ------------------------------------------------------------------
// board + listing
// ------------------------------------------------------------------

func doBoard(e *env) int {
	app := tui.New(e.store, e.gw, e.sessions, e.currentSession(), e.theme)
	if err := tui.Run(app); err != nil {
		e.fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func doList(e *env) int {
	res, err := e.store.Load(context.Background(), e.currentSession(), model.FilterSpec{Sort: model.SortPointsDesc})
	if err != nil {
		e.fail("load: " + err.Error())
		return 1
	}
	e.store.Apply(res)

	counts := e.store.Counts()
	for _, st := range model.Statuses() {
		fmt.Println(e.styles.Title.Render(fmt.Sprintf("%s (%d)", st, counts[st])))
		for _, t := range e.store.Lane(st) {
			who := t.Assignee
			if who == "" {
				who = "—"
			}
			fmt.Printf("  %s  %s  %s  %s\n",
				e.styles.Muted.Render(shortID(t.ID)),
				t.Title,
				e.styles.PillPoints.Render(fmt.Sprintf("%d pts", t.Points)),
				e.styles.Pill.Render(who),
			)
		}
	}
	return 0
}

// shortID keeps listings readable; mv/rm accept the prefix too.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ------------------------------------------------------------------
// mutations
// ------------------------------------------------------------------

func doAdd(e *env, args []string) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	points := fs.Int("points", 1, "story points (1, 2, 4, 8 or 16)")
	assignee := fs.String("assignee", "", "assignee name")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		e.fail("usage: tablero add [-points N] [-assignee NAME] <title...>")
		return 2
	}

	reload, err := e.store.CreateTask(context.Background(), e.role(), title, *points, *assignee)
	if err != nil {
		e.fail("add: " + err.Error())
		return 1
	}
	if !reload {
		fmt.Println(e.styles.Muted.Render("your role cannot create tasks"))
		return 0
	}
	e.ok("created")
	return 0
}

func doMove(e *env, id, dir string) int {
	t, code := findTask(e, id)
	if code != 0 {
		return code
	}

	var target model.Status
	switch strings.ToLower(dir) {
	case "left":
		target = t.Status.Prev()
	case "right":
		target = t.Status.Next()
	default:
		target = model.NormalizeStatus(strings.ToUpper(dir))
	}

	reload, err := e.store.MoveTask(context.Background(), e.role(), t.ID, target)
	if err != nil {
		e.fail("mv: " + err.Error())
		return 1
	}
	if !reload {
		fmt.Println(e.styles.Muted.Render("your role cannot move tasks"))
		return 0
	}
	e.ok(fmt.Sprintf("moved to %s", target))
	return 0
}

func doRemove(e *env, id string) int {
	t, code := findTask(e, id)
	if code != 0 {
		return code
	}
	reload, err := e.store.DeleteTask(context.Background(), e.role(), t.ID)
	if err != nil {
		e.fail("rm: " + err.Error())
		return 1
	}
	if !reload {
		fmt.Println(e.styles.Muted.Render("your role cannot delete tasks"))
		return 0
	}
	e.ok("removed")
	return 0
}

// findTask resolves an id or id prefix against a fresh load.
func findTask(e *env, id string) (model.Task, int) {
	sess := e.currentSession()
	if sess == nil {
		e.fail("not logged in. Run: tablero auth login")
		return model.Task{}, 2
	}
	res, err := e.store.Load(context.Background(), sess, model.FilterSpec{})
	if err != nil {
		e.fail("load: " + err.Error())
		return model.Task{}, 1
	}
	e.store.Apply(res)

	var match *model.Task
	for i := range res.Tasks {
		t := &res.Tasks[i]
		if t.ID == id || strings.HasPrefix(t.ID, id) {
			if match != nil {
				e.fail("ambiguous id prefix: " + id)
				return model.Task{}, 2
			}
			match = t
		}
	}
	if match == nil {
		e.fail("no task with id " + id)
		return model.Task{}, 1
	}
	return *match, 0
}

func doHealth(e *env) int {
	if err := e.gw.Health(context.Background()); err != nil {
		e.fail("API: OFF (" + e.cfg.APIBase + ")")
		return 1
	}
	e.ok("API: OK (" + e.cfg.APIBase + ")")
	return 0
}

// ------------------------------------------------------------------
// auth subcommands
// ------------------------------------------------------------------

func doAuthLogin(e *env, register bool) int {
	var username, password string
	fmt.Print("username: ")
	if _, err := fmt.Scanln(&username); err != nil {
		e.fail("read username: " + err.Error())
		return 1
	}
	fmt.Print("password: ")
	if _, err := fmt.Scanln(&password); err != nil {
		e.fail("read password: " + err.Error())
		return 1
	}
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		e.fail("username and password are required")
		return 2
	}

	var role string
	var err error
	if register {
		role, err = e.gw.Register(context.Background(), username, password, string(policy.RoleNormal))
	} else {
		role, err = e.gw.Login(context.Background(), username, password)
	}
	if err != nil {
		e.fail(err.Error())
		return 1
	}
	if err := e.sessions.Save(username, role); err != nil {
		e.fail("save session: " + err.Error())
		return 1
	}
	e.ok("logged in as " + username + " (" + string(policy.ParseRole(role)) + ")")
	return 0
}

func doAuthGuest(e *env) int {
	if err := e.sessions.Save("invitado", string(policy.RoleGuest)); err != nil {
		e.fail("save session: " + err.Error())
		return 1
	}
	e.ok("entered as guest (read-only)")
	return 0
}

func doAuthLogout(e *env) int {
	if err := e.sessions.Clear(); err != nil {
		e.fail("logout: " + err.Error())
		return 1
	}
	e.ok("logged out")
	return 0
}

func doAuthStatus(e *env) int {
	s := e.currentSession()
	if s == nil {
		fmt.Println(e.styles.Muted.Render("not logged in"))
		fmt.Println("Run: tablero auth login")
		return 0
	}
	fmt.Printf("user: %s\n", s.Username)
	fmt.Printf("role: %s\n", policy.ParseRole(s.Role))
	if !s.CreatedAt.IsZero() {
		fmt.Printf("since: %s\n", s.CreatedAt.UTC().Format(time.RFC3339))
	}
	fmt.Println("env override: TABLERO_USER / TABLERO_ROLE")
	return 0
}
