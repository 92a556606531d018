package cli

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// isolate redirects every dotfile and env the runner touches.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TABLERO_USER", "")
	t.Setenv("TABLERO_ROLE", "")
	t.Setenv("TABLERO_API", "http://127.0.0.1:0") // unreachable unless a test overrides
}

func TestRunHelp(t *testing.T) {
	isolate(t)
	if code := Run([]string{"help"}); code != 0 {
		t.Fatalf("help exit = %d", code)
	}
}

func TestRunUnknownSubcommand(t *testing.T) {
	isolate(t)
	if code := Run([]string{"frobnicate"}); code != 2 {
		t.Fatalf("unknown subcommand exit = %d, want 2", code)
	}
}

func TestLsLoggedOutPrintsEmptyLanesWithoutQuerying(t *testing.T) {
	isolate(t)
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		io.WriteString(w, `{"tasks":[]}`)
	}))
	defer srv.Close()
	t.Setenv("TABLERO_API", srv.URL)

	if code := Run([]string{"ls"}); code != 0 {
		t.Fatalf("ls exit = %d", code)
	}
	if hits != 0 {
		t.Fatal("logged-out ls must not query the server")
	}
}

func TestAuthGuestThenStatusAndLogout(t *testing.T) {
	isolate(t)
	if code := Run([]string{"auth", "guest"}); code != 0 {
		t.Fatal("guest entry should succeed locally")
	}
	if code := Run([]string{"auth", "status"}); code != 0 {
		t.Fatal("status should succeed")
	}
	if code := Run([]string{"auth", "logout"}); code != 0 {
		t.Fatal("logout should succeed")
	}
}

func TestGuestMutationsAreInertButSuccessful(t *testing.T) {
	isolate(t)
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		io.WriteString(w, `{"tasks":[]}`)
	}))
	defer srv.Close()
	t.Setenv("TABLERO_API", srv.URL)

	if code := Run([]string{"auth", "guest"}); code != 0 {
		t.Fatal("guest entry failed")
	}
	// denied by policy before any request: not an error, nothing created
	if code := Run([]string{"add", "Nueva tarea"}); code != 0 {
		t.Fatalf("denied add exit = %d, want 0", code)
	}
	if hits != 0 {
		t.Fatalf("guest add must not reach the server, hits = %d", hits)
	}
}

func TestHealthAgainstLiveAndDeadServer(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":"ok"}`)
	}))
	t.Setenv("TABLERO_API", srv.URL)
	if code := Run([]string{"health"}); code != 0 {
		t.Fatal("health against a live server should pass")
	}

	srv.Close()
	if code := Run([]string{"health"}); code != 1 {
		t.Fatal("health against a dead server should fail with exit 1")
	}
}
