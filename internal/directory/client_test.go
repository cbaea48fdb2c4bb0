package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "tok", Options{}), srv
}

func TestFetchDataWrapperAndBareArrayAgree(t *testing.T) {
	wrapped, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"Email":"a@b.com","Name":"A"}]}`))
	})
	bare, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"Email":"a@b.com","Name":"A"}]`))
	})

	got1, err := wrapped.Fetch(context.Background(), "User")
	if err != nil {
		t.Fatalf("wrapped fetch: %v", err)
	}
	got2, err := bare.Fetch(context.Background(), "User")
	if err != nil {
		t.Fatalf("bare fetch: %v", err)
	}

	if !reflect.DeepEqual(got1, got2) {
		t.Errorf("wrapped and bare responses differ: %v vs %v", got1, got2)
	}
	rows := ObjectRows(got1)
	if len(rows) != 1 || rows[0].Value("Email") != "a@b.com" {
		t.Errorf("unexpected rows: %v", rows)
	}
}

func TestFetchSendsTokenAndSheetParams(t *testing.T) {
	var gotToken, gotSheet string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("token")
		gotSheet = r.URL.Query().Get("sheet")
		w.Write([]byte(`[]`))
	})

	if _, err := client.Fetch(context.Background(), "Config"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotToken != "tok" {
		t.Errorf("token param: got %q, want %q", gotToken, "tok")
	}
	if gotSheet != "Config" {
		t.Errorf("sheet param: got %q, want %q", gotSheet, "Config")
	}
}

func TestFetchClassification(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		kind Kind
	}{
		{name: "server error field", body: `{"error":"bad token"}`, code: 200, kind: KindServer},
		{name: "invalid json", body: `<html>oops</html>`, code: 200, kind: KindInvalidResponse},
		{name: "unexpected object", body: `{"rows":[1,2]}`, code: 200, kind: KindUnexpectedShape},
		{name: "scalar body", body: `42`, code: 200, kind: KindUnexpectedShape},
		{name: "http failure status", body: `[]`, code: 500, kind: KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(tt.body))
			})

			_, err := client.Fetch(context.Background(), "")
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsKind(err, tt.kind) {
				t.Errorf("got %v, want kind %d", err, tt.kind)
			}
		})
	}
}

func TestFetchTransportFailureIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := New(srv.URL, "", Options{})
	_, err := client.Fetch(context.Background(), "")
	if !IsKind(err, KindNetwork) {
		t.Errorf("got %v, want KindNetwork", err)
	}
}

func TestFetchNoURLConfigured(t *testing.T) {
	client := New("", "", Options{})
	_, err := client.Fetch(context.Background(), "")
	if !IsKind(err, KindNetwork) {
		t.Errorf("got %v, want KindNetwork", err)
	}
}

func TestFetchMemoizesWithinTTL(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[{"Email":"a@b.com"}]`))
	})

	for i := 0; i < 3; i++ {
		if _, err := client.Fetch(context.Background(), "User"); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", calls)
	}

	// Different sheet is a different cache key.
	if _, err := client.Fetch(context.Background(), "Config"); err != nil {
		t.Fatalf("config fetch: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 upstream calls after new sheet, got %d", calls)
	}
}

func TestFetchCacheExpiry(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[]`))
	})

	now := time.Now()
	client.cache.now = func() time.Time { return now }

	if _, err := client.Fetch(context.Background(), "User"); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	// Advance past the TTL; the cached entry must not be served.
	now = now.Add(61 * time.Second)
	if _, err := client.Fetch(context.Background(), "User"); err != nil {
		t.Fatalf("fetch after expiry: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected refetch after TTL, got %d calls", calls)
	}
}

func TestFetchFailuresAreNotCached(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`{"error":"flaky"}`))
			return
		}
		w.Write([]byte(`[]`))
	})

	if _, err := client.Fetch(context.Background(), "User"); !IsKind(err, KindServer) {
		t.Fatalf("expected server error, got %v", err)
	}
	if _, err := client.Fetch(context.Background(), "User"); err != nil {
		t.Fatalf("second fetch should succeed: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 upstream calls, got %d", calls)
	}
}

func TestRowPreservesColumnOrderAndNumbers(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"Zeta":"z","Alpha":3,"Mid":true}]`))
	})

	entries, err := client.Fetch(context.Background(), "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	rows := ObjectRows(entries)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	want := []string{"Zeta", "Alpha", "Mid"}
	if !reflect.DeepEqual(rows[0].Columns(), want) {
		t.Errorf("columns: got %v, want %v", rows[0].Columns(), want)
	}
	if rows[0].Value("Alpha") != "3" {
		t.Errorf("numeric cell: got %q, want %q", rows[0].Value("Alpha"), "3")
	}
	if rows[0].Value("Mid") != "true" {
		t.Errorf("bool cell: got %q, want %q", rows[0].Value("Mid"), "true")
	}
}
