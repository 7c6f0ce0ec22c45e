// Package consoletest provides a scripted stand-in for the users, books and
// loans backends.
package consoletest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Request is one call received by the Backend.
type Request struct {
	Method string
	Path   string
	Body   string
}

type response struct {
	status int
	body   string
}

// Backend records every request. GET returns the configured list (default
// "[]"), POST answers 201 and PUT 200 echoing the body, DELETE answers 204.
// Respond overrides any of those per method and path.
type Backend struct {
	*httptest.Server

	mu        sync.Mutex
	requests  []Request
	lists     map[string]string
	overrides map[string]response
	hold      map[string]chan struct{}
	arrived   chan Request
}

func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		lists:     map[string]string{},
		overrides: map[string]response{},
		hold:      map[string]chan struct{}{},
		arrived:   make(chan Request, 64),
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

// Endpoint joins the server address with path.
func (b *Backend) Endpoint(path string) string {
	return b.URL + path
}

func (b *Backend) SetList(path, body string) {
	b.mu.Lock()
	b.lists[path] = body
	b.mu.Unlock()
}

func (b *Backend) Respond(method, path string, status int, body string) {
	b.mu.Lock()
	b.overrides[method+" "+path] = response{status: status, body: body}
	b.mu.Unlock()
}

// Hold blocks the next request for method and path until the returned func
// is called.
func (b *Backend) Hold(method, path string) (release func()) {
	ch := make(chan struct{})
	b.mu.Lock()
	b.hold[method+" "+path] = ch
	b.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Arrived delivers every request as soon as it is received.
func (b *Backend) Arrived() <-chan Request {
	return b.arrived
}

func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Count returns how many requests matched method and path.
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Forget drops the recorded requests.
func (b *Backend) Forget() {
	b.mu.Lock()
	b.requests = nil
	b.mu.Unlock()
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	req := Request{Method: r.Method, Path: r.URL.Path, Body: strings.TrimSpace(string(raw))}
	key := r.Method + " " + r.URL.Path

	b.mu.Lock()
	b.requests = append(b.requests, req)
	hold := b.hold[key]
	delete(b.hold, key)
	override, overridden := b.overrides[key]
	list, hasList := b.lists[r.URL.Path]
	b.mu.Unlock()

	select {
	case b.arrived <- req:
	default:
	}
	if hold != nil {
		<-hold
	}

	w.Header().Set("Content-Type", "application/json")
	if overridden {
		w.WriteHeader(override.status)
		io.WriteString(w, override.body)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if !hasList {
			list = "[]"
		}
		io.WriteString(w, list)
	case http.MethodPost:
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, req.Body)
	case http.MethodPut:
		io.WriteString(w, req.Body)
	case http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
