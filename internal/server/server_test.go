package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iesm-tools/intake/internal/db"
	"github.com/iesm-tools/intake/internal/directory"
	"github.com/iesm-tools/intake/internal/intake"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	sheets := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	t.Cleanup(sheets.Close)

	client := directory.New(sheets.URL, "", directory.Options{})
	svc := intake.NewService(intake.NewStore(database), client, "User", "Config")
	return New(Config{Port: 0}, svc)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("healthz: status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("healthz body: %s", w.Body.String())
	}
}

func TestSessionRoutesMounted(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/sessions", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("create session through server: status %d: %s", w.Code, w.Body.String())
	}
}

func TestCORSAllowAll(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	svc := intake.NewService(intake.NewStore(database), directory.New("", "", directory.Options{}), "User", "Config")
	s := New(Config{Port: 0, AllowAll: true}, svc)

	req := httptest.NewRequest("OPTIONS", "/api/sessions", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin: got %q, want *", got)
	}
}
