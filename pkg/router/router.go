// Package router is a thin named-route layer over chi. Every route carries a
// name so route:list can print the table and handlers can look paths up.
package router

import (
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

type Middleware func(http.Handler) http.Handler

// RouteInfo describes one registered method/path pair.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

type Router struct {
	mux    chi.Router
	mu     sync.RWMutex
	names  map[string]string
	routes []RouteInfo
}

func New() *Router {
	return &Router{
		mux:   chi.NewRouter(),
		names: make(map[string]string),
	}
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

// Use appends global middleware. Must be called before any route is added.
func (r *Router) Use(middlewares ...Middleware) {
	for _, mw := range middlewares {
		r.mux.Use(mw)
	}
}

func (r *Router) Get(path, name string, handler http.Handler, middlewares ...Middleware) {
	r.Handle([]string{http.MethodGet}, path, name, handler, middlewares...)
}

func (r *Router) Post(path, name string, handler http.Handler, middlewares ...Middleware) {
	r.Handle([]string{http.MethodPost}, path, name, handler, middlewares...)
}

// Handle mounts handler for each of methods under one route name.
func (r *Router) Handle(methods []string, path, name string, handler http.Handler, middlewares ...Middleware) {
	fullPath := normalizePath(path)
	h := chain(handler, middlewares...)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range methods {
		r.mux.Method(m, fullPath, h)
		r.routes = append(r.routes, RouteInfo{Method: m, Path: fullPath, Name: name})
	}
	if name != "" {
		r.names[name] = fullPath
	}
}

// Path returns the path registered under name.
func (r *Router) Path(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path, ok := r.names[name]
	return path, ok
}

// Routes lists every registered route ordered by path, then method.
func (r *Router) Routes() []RouteInfo {
	r.mu.RLock()
	out := append([]RouteInfo(nil), r.routes...)
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

func chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	wrapped := handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

func normalizePath(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed
}
