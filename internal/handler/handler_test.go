package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rms-foh/api/internal/auth"
	"github.com/rms-foh/api/internal/handler"
	"github.com/rms-foh/api/internal/middleware"
	"github.com/rms-foh/api/internal/service"
	"github.com/rms-foh/api/internal/state"
	"github.com/rms-foh/api/internal/upstream"
	"github.com/rms-foh/api/internal/ws"
)

const testSecret = "test-secret"

type noopNotifier struct{}

func (noopNotifier) BroadcastToSession(uuid.UUID, ws.Event) {}

// testEnv wires real state and service behind an authenticated router, the
// way cmd/server does, minus the hub and the listener.
type testEnv struct {
	sessions *state.Manager
	session  *state.Session
	svc      *service.FrontOfHouse
	router   chi.Router
	token    string
}

// newTestEnv creates a live session and a router with all protected screen
// routes mounted. The token belongs to that session with the given role.
func newTestEnv(t *testing.T, role string) *testEnv {
	t.Helper()

	sessions := state.NewManager()
	session := sessions.Create()
	svc := service.New(noopNotifier{})

	token, err := auth.GenerateToken(testSecret, "u-test", session.ID, "Test User", role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(testSecret))
		handler.NewTableHandler(sessions, svc).RegisterRoutes(r)
		handler.NewOrderHandler(sessions, svc).RegisterRoutes(r)
		handler.NewKitchenHandler(sessions, svc).RegisterRoutes(r)
		handler.NewTakeawayHandler(sessions, svc, upstream.New("")).RegisterRoutes(r)
		handler.NewQueueHandler(sessions, svc).RegisterRoutes(r)
		handler.NewReportsHandler(sessions).RegisterRoutes(r)
	})

	return &testEnv{sessions: sessions, session: session, svc: svc, router: r, token: token}
}

// do performs a request against the env router with the env token attached.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+e.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestExpiredSessionGets401(t *testing.T) {
	env := newTestEnv(t, "waiter")
	env.sessions.Delete(env.session.ID)

	rec := env.do(t, http.MethodGet, "/tables", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rec.Code)
	}
}
