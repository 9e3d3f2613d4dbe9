package query

import (
	"strings"
	"sync"
)

// Location is the routing layer as seen by a view: it reports the current
// params and moves to new ones without a reload.
type Location interface {
	CurrentParams() Params
	Navigate(params Params)
}

// Router is an in-memory Location with back navigation.
type Router struct {
	mu      sync.RWMutex
	path    string
	params  Params
	history []Params
}

func NewRouter(path string, params Params) *Router {
	if params == nil {
		params = Params{}
	}
	return &Router{
		path:   path,
		params: params.Clone(),
	}
}

// ParseRouter builds a Router from a path with an optional query string.
func ParseRouter(rawURL string) (*Router, error) {
	path, rawQuery, _ := strings.Cut(rawURL, "?")
	params, err := Parse(rawQuery)
	if err != nil {
		return nil, err
	}
	return NewRouter(path, params), nil
}

func (r *Router) CurrentParams() Params {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.params.Clone()
}

// Navigate replaces the current params. Navigating to the same params is a no-op
// and does not grow the history.
func (r *Router) Navigate(params Params) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.params.Equal(params) {
		return
	}
	r.history = append(r.history, r.params)
	r.params = params.Clone()
	if r.params == nil {
		r.params = Params{}
	}
}

// Back restores the previous params. It reports false when there is no history.
func (r *Router) Back() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.history) == 0 {
		return false
	}
	last := len(r.history) - 1
	r.params = r.history[last]
	r.history = r.history[:last]
	return true
}

func (r *Router) Depth() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.history)
}

// URL renders the current location as path plus query string.
func (r *Router) URL() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.path + r.params.String()
}
