package service

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"amumal/internal/backend"
)

// fakeBackend wraps an httptest server speaking the board API's envelope
// format, with a hit counter for asserting which calls actually went out.
type fakeBackend struct {
	srv  *httptest.Server
	hits atomic.Int64
}

func newFakeBackend(t *testing.T, mux *http.ServeMux) (*fakeBackend, *backend.Client) {
	t.Helper()
	fb := &fakeBackend{}
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.hits.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(fb.srv.Close)
	return fb, backend.New(fb.srv.URL, 5*time.Second)
}

func writeEnvelope(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
