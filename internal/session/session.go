// Package session persists the logged-in identity under ~/.tablero so a new
// invocation restores it without re-authenticating.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/valgq/tablero/internal/policy"
)

const (
	sessionFileName = "session.json"
	themeFileName   = "theme"
)

// Session is the current identity and its server-assigned role. Absence of a
// session means logged out; the board renders empty without querying.
type Session struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ParsedRole maps the stored label through the policy table.
func (s *Session) ParsedRole() policy.Role {
	return policy.ParseRole(s.Role)
}

// Store reads and writes session state. When the dotdir is unwritable it
// degrades to an in-memory session for this process only; the user is simply
// logged out again next run.
type Store struct {
	dir string

	mem *Session // fallback when disk is unavailable
}

// New returns a store rooted at dir. An empty dir means ~/.tablero.
func New(dir string) *Store {
	return &Store{dir: dir}
}

func (st *Store) baseDir() (string, error) {
	if st.dir != "" {
		return st.dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".tablero"), nil
}

func (st *Store) sessionPath() (string, error) {
	dir, err := st.baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFileName), nil
}

// Current returns the active session, or nil when logged out.
// Precedence: env override, in-memory fallback, session file.
func (st *Store) Current() (*Session, error) {
	// env override pair, for scripting
	if u := strings.TrimSpace(os.Getenv("TABLERO_USER")); u != "" {
		return &Session{Username: u, Role: strings.TrimSpace(os.Getenv("TABLERO_ROLE"))}, nil
	}

	if st.mem != nil {
		return st.mem, nil
	}

	p, err := st.sessionPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil // logged out
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if strings.TrimSpace(s.Username) == "" {
		return nil, nil
	}
	return &s, nil
}

// Save persists the session. Storage trouble is not surfaced: the session is
// kept in memory and the next run starts logged out.
func (st *Store) Save(username, role string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("empty username")
	}
	s := &Session{Username: username, Role: role, CreatedAt: time.Now().UTC()}

	dir, err := st.baseDir()
	if err != nil {
		st.mem = s
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		st.mem = s
		return nil
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, sessionFileName), b, 0o600); err != nil {
		st.mem = s
		return nil
	}
	st.mem = nil
	return nil
}

// Clear logs out. Removing a file that is already gone is fine. The theme
// preference is left untouched.
func (st *Store) Clear() error {
	st.mem = nil
	p, err := st.sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// LoadTheme returns the persisted theme name, or empty when unset.
func (st *Store) LoadTheme() string {
	dir, err := st.baseDir()
	if err != nil {
		return ""
	}
	b, err := os.ReadFile(filepath.Join(dir, themeFileName))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// SaveTheme persists the theme name. Best effort; a read-only dotdir just
// means the preference does not stick.
func (st *Store) SaveTheme(name string) {
	dir, err := st.baseDir()
	if err != nil {
		return
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(dir, themeFileName), []byte(name+"\n"), 0o644)
}
