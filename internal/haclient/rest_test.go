package haclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRestStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"unauthorized", http.StatusUnauthorized, func(err error) bool {
			var e *AuthError
			return errors.As(err, &e)
		}},
		{"forbidden", http.StatusForbidden, func(err error) bool {
			var e *AuthError
			return errors.As(err, &e)
		}},
		{"not found", http.StatusNotFound, func(err error) bool {
			var e *NotFoundError
			return errors.As(err, &e)
		}},
		{"bad request", http.StatusBadRequest, func(err error) bool {
			var e *ValidationError
			return errors.As(err, &e)
		}},
		{"unprocessable", http.StatusUnprocessableEntity, func(err error) bool {
			var e *ValidationError
			return errors.As(err, &e)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tc.status)
			}))
			defer srv.Close()
			rest := NewRest(srv.URL, testToken, testLogger())
			err := rest.Ping(context.Background())
			if err == nil || !tc.check(err) {
				t.Fatalf("status %d mapped to wrong error: %v", tc.status, err)
			}
		})
	}
}

func TestRestConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	rest := NewRest(srv.URL, testToken, testLogger())
	err := rest.Ping(context.Background())
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected ConnectionError, got %v", err)
	}
}

func TestRestValidationErrorKeepsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Message malformed: required key not provided @ data['name']", http.StatusBadRequest)
	}))
	defer srv.Close()

	rest := NewRest(srv.URL, testToken, testLogger())
	err := rest.SaveComponentConfig(context.Background(), "automation", "x", map[string]any{})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if valErr.Body == "" || valErr.Body == "nope" {
		t.Fatalf("server explanation lost: %q", valErr.Body)
	}
}

func TestRestErrorBodyMasksCredential(t *testing.T) {
	// A misbehaving proxy may echo the request headers back in the body.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rejected: "+r.Header.Get("Authorization"), http.StatusUnauthorized)
	}))
	defer srv.Close()

	rest := NewRest(srv.URL, testToken, testLogger())
	err := rest.Ping(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if strings.Contains(authErr.Message, testToken) {
		t.Fatalf("credential leaked into the error: %q", authErr.Message)
	}
	if !strings.Contains(authErr.Message, "rejected") {
		t.Fatalf("server explanation lost: %q", authErr.Message)
	}
}

func TestRestBearerHeaderAndPaths(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	rest := NewRest(srv.URL, testToken, testLogger())
	_, err := rest.CallService(context.Background(), "light", "turn_on", map[string]any{"entity_id": "light.kitchen"})
	if err != nil {
		t.Fatalf("call_service failed: %v", err)
	}
	if gotPath != "/api/services/light/turn_on" {
		t.Fatalf("wrong path: %s", gotPath)
	}
	if gotAuth != "Bearer "+testToken {
		t.Fatalf("wrong auth header: %s", gotAuth)
	}
	if gotBody["entity_id"] != "light.kitchen" {
		t.Fatalf("service data lost: %v", gotBody)
	}
}

func TestRestHistoryQuery(t *testing.T) {
	var gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	rest := NewRest(srv.URL, testToken, testLogger())
	_, err := rest.History(context.Background(), "light.kitchen", "2026-01-01T00:00:00Z", "2026-01-02T00:00:00Z")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	want := "/api/history/period/2026-01-01T00:00:00Z?end_time=2026-01-02T00%3A00%3A00Z&filter_entity_id=light.kitchen"
	if gotURL != want {
		t.Fatalf("wrong url:\n got %s\nwant %s", gotURL, want)
	}
}

func TestRestInflightBound(t *testing.T) {
	var inflight, peak atomic.Int64
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inflight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		<-release
		inflight.Add(-1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	rest := NewRest(srv.URL, testToken, testLogger())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = rest.Ping(context.Background())
		}()
	}

	deadline := time.Now().Add(2 * time.Second)
	for inflight.Load() < 5 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)
	if got := peak.Load(); got != 5 {
		t.Fatalf("expected at most 5 in-flight requests, peak was %d", got)
	}
	close(release)
	wg.Wait()
}
