package wex

import (
	"strings"

	"github.com/arjunvbhat/wex/internal/pattern"
)

// route is a compiled (method, pattern, handler) triple, plus the optional
// name used for URL reversal.
type route struct {
	method  string
	pattern *pattern.Pattern
	handler Handler
	name    string
}

// Router is an ordered sequence of routes. Lookup walks the table in
// registration order and returns the first pattern match, with no
// static-over-dynamic precedence: there is no static-over-dynamic
// preference, so callers write more-specific routes first.
type Router struct {
	routes   []route
	reverser *reverser
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{reverser: newReverser()}
}

// Handle registers handler for method and pat, optionally naming the route
// for later [Router.Reverse] lookups.
func (rt *Router) Handle(method, pat string, handler Handler, name ...string) error {
	p, err := pattern.Parse(pat)
	if err != nil {
		return NewError(CodeInternalServerError, err)
	}

	if len(name) > 0 {
		if err := rt.reverser.name(name[0], p); err != nil {
			return err
		}
	}

	rt.routes = append(rt.routes, route{method: method, pattern: p, handler: handler, name: firstOrEmpty(name)})

	return nil
}

func firstOrEmpty(s []string) string {
	if len(s) > 0 {
		return s[0]
	}
	return ""
}

// Match looks up (method, path) against the route table in registration
// order. It returns the first route
// whose pattern and method both match. If some route's pattern matches but
// none with that pattern matches the method, it returns a
// [NewMethodNotAllowed] error carrying the union of methods that would
// have matched; otherwise it returns [NewRouteNotFound].
func (rt *Router) Match(method, path string) (map[string]string, Handler, error) {
	path = stripQuery(path)

	var allowed []string
	seenAllowed := map[string]bool{}

	for _, rte := range rt.routes {
		params, ok, err := pattern.Match(rte.pattern, path)
		if err != nil {
			return nil, nil, NewBadRequest("invalid path encoding", err)
		}
		if !ok {
			continue
		}

		if rte.method == method {
			return params, rte.handler, nil
		}

		if !seenAllowed[rte.method] {
			seenAllowed[rte.method] = true
			allowed = append(allowed, rte.method)
		}
	}

	if len(allowed) > 0 {
		return nil, nil, NewMethodNotAllowed(allowed)
	}

	return nil, nil, NewRouteNotFound(path)
}

// Reverse returns the concrete URL for a named route, substituting vals for
// its dynamic segments in declaration order.
func (rt *Router) Reverse(name string, vals ...string) (string, error) {
	return rt.reverser.reverse(name, vals...)
}

func stripQuery(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}

// localRoute is a route registered on a SubRouter, stored with its local
// (unprefixed) pattern string.
type localRoute struct {
	method  string
	pat     string
	handler Handler
	name    string
}

// mountedRouter is a nested SubRouter mounted under a local prefix.
type mountedRouter struct {
	prefix string
	sub    *SubRouter
}

// SubRouter groups routes under a shared path prefix and a shared
// middleware stack, both applied only at mount time. SubRouters may
// themselves mount other SubRouters; prefix composition is associative
// and middleware nests outer-first.
type SubRouter struct {
	prefix     string
	routes     []localRoute
	middleware []Middleware
	mounted    []mountedRouter
}

// NewSubRouter returns a SubRouter scoped to prefix. An empty prefix is
// valid and mounts routes directly under the parent's mount point.
func NewSubRouter(prefix string) *SubRouter {
	return &SubRouter{prefix: prefix}
}

// Use appends middleware to the SubRouter's scoped stack. Order is
// preserved; registered order equals execution order.
func (s *SubRouter) Use(mw ...Middleware) {
	s.middleware = append(s.middleware, mw...)
}

// Handle registers a local route under this SubRouter's prefix.
func (s *SubRouter) Handle(method, pat string, handler Handler, name ...string) {
	s.routes = append(s.routes, localRoute{method: method, pat: pat, handler: handler, name: firstOrEmpty(name)})
}

// Mount nests a child SubRouter under a local prefix, applied relative to
// this SubRouter's own prefix when it is itself mounted.
func (s *SubRouter) Mount(prefix string, child *SubRouter) {
	s.mounted = append(s.mounted, mountedRouter{prefix: prefix, sub: child})
}

// flattened is one fully re-rooted route produced by resolving a mount
// tree.
type flattened struct {
	method  string
	pat     string
	handler Handler
	name    string
}

// flatten resolves s's routes and nested mounts into fully re-rooted
// routes under mountPrefix, wrapping each handler with every scope's
// middleware outer-first: prefix composition is associative and preserves
// middleware nesting order.
func (s *SubRouter) flatten(mountPrefix string) []flattened {
	base := pattern.Join(mountPrefix, s.prefix)

	out := make([]flattened, 0, len(s.routes))
	for _, r := range s.routes {
		full := pattern.Join(base, r.pat)
		out = append(out, flattened{
			method:  r.method,
			pat:     full,
			handler: wrapMiddleware(r.handler, s.middleware...),
			name:    r.name,
		})
	}

	for _, m := range s.mounted {
		for _, fr := range m.sub.flatten(pattern.Join(base, m.prefix)) {
			out = append(out, flattened{
				method:  fr.method,
				pat:     fr.pat,
				handler: wrapMiddleware(fr.handler, s.middleware...),
				name:    fr.name,
			})
		}
	}

	return out
}

// wrapMiddleware wraps h with mw applied outer-first: mw[0] is the
// outermost layer.
func wrapMiddleware(h Handler, mw ...Middleware) Handler {
	if len(mw) == 0 {
		return h
	}
	return Chain(h, mw...)
}
