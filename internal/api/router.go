package api

import (
	"database/sql"
	"net/http"
	"strings"

	apperrors "github.com/erazemk/precificacao/internal/errors"
)

// route is one row of the routing table. An empty method matches any method.
//
// Pattern segments are literals, "{name}" for exactly one segment, or a
// final "{name...}" for the rest of the path (possibly empty). Matched values
// are available through r.PathValue.
type route struct {
	method  string
	pattern string
	handler http.HandlerFunc
}

// Router dispatches requests through an ordered routing table. Routes are
// tried top to bottom and the first match wins.
type Router struct {
	routes []route
}

// NewRouter creates the router with the item API and files as the fallback
// for GET requests outside /api/.
func NewRouter(db *sql.DB, files http.Handler) *Router {
	items := &ItemsHandler{DB: db}

	return &Router{routes: []route{
		{http.MethodGet, "/api/items", items.List},
		{http.MethodPost, "/api/items", items.Create},
		{http.MethodPut, "/api/items/{id}", items.Update},
		{http.MethodDelete, "/api/items/{id}", items.Delete},
		{"", "/api/{rest...}", routeNotFound},
		{http.MethodGet, "/{path...}", files.ServeHTTP},
	}}
}

// ServeHTTP implements http.Handler.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, rte := range rt.routes {
		if rte.method != "" && rte.method != r.Method {
			continue
		}
		params, ok := match(rte.pattern, r.URL.Path)
		if !ok {
			continue
		}
		for name, value := range params {
			r.SetPathValue(name, value)
		}
		rte.handler(w, r)
		return
	}
	routeNotFound(w, r)
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, apperrors.ErrRouteNotFound)
}

// match reports whether path matches pattern and returns the wildcard values.
func match(pattern, path string) (map[string]string, bool) {
	patSegs := strings.Split(strings.TrimPrefix(pattern, "/"), "/")
	pathSegs := strings.Split(strings.TrimPrefix(path, "/"), "/")

	params := map[string]string{}
	for i, seg := range patSegs {
		if name, ok := wildcard(seg); ok && strings.HasSuffix(name, "...") {
			params[strings.TrimSuffix(name, "...")] = strings.Join(pathSegs[i:], "/")
			return params, true
		}
		if i >= len(pathSegs) {
			return nil, false
		}
		if name, ok := wildcard(seg); ok {
			params[name] = pathSegs[i]
			continue
		}
		if seg != pathSegs[i] {
			return nil, false
		}
	}
	if len(pathSegs) != len(patSegs) {
		return nil, false
	}
	return params, true
}

func wildcard(seg string) (string, bool) {
	if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
		return seg[1 : len(seg)-1], true
	}
	return "", false
}
