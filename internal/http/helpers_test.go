package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	api "github.com/hemdhoni222/todo-app/internal/http"
	"github.com/hemdhoni222/todo-app/internal/mail"
	"github.com/hemdhoni222/todo-app/internal/notify"
	"github.com/hemdhoni222/todo-app/internal/oauth"
	"github.com/hemdhoni222/todo-app/internal/queue"
	"github.com/hemdhoni222/todo-app/internal/repo"
)

const testSecret = "test-secret"

type recordedMail struct {
	To, Subject, Body string
}

type mailRecorder struct {
	mu   sync.Mutex
	sent []recordedMail
}

var _ mail.Sender = (*mailRecorder)(nil)

func (r *mailRecorder) Send(to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, recordedMail{to, subject, body})
	return nil
}

func (r *mailRecorder) all() []recordedMail {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]recordedMail, len(r.sent))
	copy(out, r.sent)
	return out
}

type testEnv struct {
	T        *testing.T
	Store    *repo.Memory
	Mail     *mailRecorder
	Notifier *notify.Notifier
	Handler  *api.Handler
	Router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repo.NewMemory()
	rec := &mailRecorder{}
	n := notify.New(rec, queue.NewNoop(), time.Second)
	google := oauth.NewGoogle("test-client", "test-secret", "http://localhost/cb", "state-key")

	h := api.NewHandler(store, n, google, testSecret, time.Hour, 24*time.Hour, "http://localhost:3000")
	return &testEnv{T: t, Store: store, Mail: rec, Notifier: n, Handler: h, Router: api.NewRouter(h)}
}

// googleStub stands in for the provider round trip so callback tests can
// hand the handler a canned profile.
type googleStub struct {
	profile *oauth.Profile
	err     error
}

var _ api.GoogleAuth = (*googleStub)(nil)

func (g *googleStub) NewState() string             { return "stub-state" }
func (g *googleStub) VerifyState(s string) bool    { return s == "stub-state" }
func (g *googleStub) AuthURL(state string) string  { return "https://accounts.google.com/o/oauth2/auth?state=" + state }
func (g *googleStub) Exchange(ctx context.Context, code string) (*oauth.Profile, error) {
	return g.profile, g.err
}

func (e *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	e.T.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	e.Router.ServeHTTP(w, req)
	return w
}

type authResult struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

func (e *testEnv) register(name, email, password string) authResult {
	e.T.Helper()
	w := e.do("POST", "/auth/register",
		`{"name":"`+name+`","email":"`+email+`","password":"`+password+`"}`, "")
	if w.Code != 200 {
		e.T.Fatalf("register %s: %d %s", email, w.Code, w.Body.String())
	}
	var out authResult
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || out.Token == "" {
		e.T.Fatalf("register resp parse: %v body=%s", err, w.Body.String())
	}
	return out
}

type taskResult struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Desc      string  `json:"description"`
	Priority  string  `json:"priority"`
	Completed bool    `json:"completed"`
	DueDate   *string `json:"dueDate"`
	Creator   struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"creator"`
	AssignedTo []struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"assignedTo"`
}

func (e *testEnv) createTask(token, body string) taskResult {
	e.T.Helper()
	w := e.do("POST", "/api/todos", body, token)
	if w.Code != 201 {
		e.T.Fatalf("create task: %d %s", w.Code, w.Body.String())
	}
	var out taskResult
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		e.T.Fatalf("task resp parse: %v body=%s", err, w.Body.String())
	}
	return out
}

func (e *testEnv) listTasks(token, query string) []taskResult {
	e.T.Helper()
	w := e.do("GET", "/api/todos"+query, "", token)
	if w.Code != 200 {
		e.T.Fatalf("list tasks: %d %s", w.Code, w.Body.String())
	}
	var out []taskResult
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		e.T.Fatalf("list resp parse: %v body=%s", err, w.Body.String())
	}
	return out
}
