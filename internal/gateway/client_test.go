package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/valgq/tablero/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second, func() string { return "ana" })
}

func TestListBuildsQueryAndIdentityHeader(t *testing.T) {
	var gotQuery, gotUser string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotUser = r.Header.Get("X-User")
		io.WriteString(w, `{"tasks":[{"id":"t1","title":"Write spec","points":4,"assignee":"Ana","status":"TODO"}]}`)
	})

	p := 4
	tasks, err := c.List(context.Background(), model.FilterSpec{Points: &p, Assignee: "Ana", Sort: model.SortPointsDesc})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotUser != "ana" {
		t.Fatalf("X-User = %q", gotUser)
	}
	if gotQuery != "assignee=Ana&points=4&sort=points_desc" {
		t.Fatalf("query = %q", gotQuery)
	}
	if len(tasks) != 1 || tasks[0].Title != "Write spec" || tasks[0].Status != model.StatusTodo {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
}

func TestListEmptyBodyYieldsEmptySlice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"tasks":[]}`)
	})
	tasks, err := c.List(context.Background(), model.FilterSpec{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("want empty slice, got %#v", tasks)
	}
}

func TestUpdateSendsOnlyPatchedFields(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		io.WriteString(w, `{"id":"t1","title":"x","points":1,"status":"TODO"}`)
	})

	st := model.StatusTodo
	if _, err := c.Update(context.Background(), "t1", Patch{Status: &st}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/api/tasks/t1" {
		t.Fatalf("%s %s", gotMethod, gotPath)
	}
	if len(gotBody) != 1 || gotBody["status"] != "TODO" {
		t.Fatalf("patch body should carry only status, got %v", gotBody)
	}
}

func TestServerErrorMessageSurfacesVerbatim(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":"Credenciales inválidas"}`)
	})

	_, err := c.Login(context.Background(), "ana", "nope")
	if err == nil {
		t.Fatal("want error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Credenciales inválidas" {
		t.Fatalf("want verbatim server message, got %v", err)
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatal("401 should match ErrUnauthorized")
	}
}

func TestErrorFallbackWhenBodyHasNoMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	err := c.Delete(context.Background(), "t1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want APIError, got %v", err)
	}
	if apiErr.Error() != "request failed (status 500)" {
		t.Fatalf("fallback message = %q", apiErr.Error())
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Fatal("500 is not ErrUnauthorized")
	}
}

func TestCreateDefaultsStatusToTodo(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":"t9","title":"Write spec","points":4,"assignee":"Ana","status":"TODO"}`)
	})

	task, err := c.Create(context.Background(), CreateRequest{Title: "Write spec", Points: 4, Assignee: "Ana"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if gotBody["status"] != "TODO" {
		t.Fatalf("status should default to TODO on the wire, got %v", gotBody["status"])
	}
	if task.ID != "t9" {
		t.Fatalf("task = %+v", task)
	}
}

func TestHealth(t *testing.T) {
	ok := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":"ok"}`)
	})
	if err := ok.Health(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}

	down := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	if err := down.Health(context.Background()); err == nil {
		t.Fatal("want unhealthy")
	}
}
