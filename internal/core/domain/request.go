package domain

import (
	"net/http"
	"strings"
)

// Request is an intercepted outgoing request as seen by the agent.
type Request struct {
	// Method is the HTTP verb, always upper case.
	Method string
	// URL is the origin-relative URL (path plus optional query).
	URL string
	// Header carries the request headers forwarded to the network.
	Header http.Header
	// Body is the request payload for mutating verbs.
	Body []byte
	// Navigate reports whether the request is a top-level page navigation.
	Navigate bool
}

// RequestKey identifies an entry in a cache partition.
type RequestKey struct {
	Method string
	URL    string
}

// String renders the key as "METHOD URL".
func (k RequestKey) String() string {
	return k.Method + " " + k.URL
}

// Key returns the cache identity of the request.
func (r *Request) Key() RequestKey {
	return RequestKey{Method: strings.ToUpper(r.Method), URL: r.URL}
}

// IsSafe reports whether the request may be answered from, or stored into, a cache.
func (r *Request) IsSafe() bool {
	return strings.EqualFold(r.Method, http.MethodGet)
}

// Path returns the URL without its query string or fragment.
func (r *Request) Path() string {
	p := r.URL
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return p
}

// HasPrefix reports whether the request path lives under prefix.
func (r *Request) HasPrefix(prefix string) bool {
	if prefix == "" {
		return false
	}
	return strings.HasPrefix(r.Path(), prefix)
}
