package wex

import (
	"context"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// App is the top-level composition: it owns a root Router and the global
// middleware stack, and drives the transport loop via [App.Listen]. A
// freshly constructed App has zero routes and zero middleware.
type App struct {
	router *Router
	global []Middleware
	logger Logger
	frozen atomic.Bool
}

// NewApp returns an empty App with a stdlib-backed default Logger.
func NewApp() *App {
	return &App{
		router: NewRouter(),
		logger: NewStdLogger(log.Default()),
	}
}

// SetLogger replaces the App's Logger. Call it before [App.Listen].
func (a *App) SetLogger(l Logger) { a.logger = l }

// Router exposes the App's underlying route table, e.g. for inspection in
// tests.
func (a *App) Router() *Router { return a.router }

// Use appends middleware to the App's global stack. Registration order is
// preserved; execution order equals registration order.
func (a *App) Use(mw ...Middleware) {
	a.ensureNotFrozen()
	a.global = append(a.global, mw...)
}

// Get registers handler for GET requests matching pat.
func (a *App) Get(pat string, handler Handler, name ...string) error {
	return a.handle(MethodGet, pat, handler, name...)
}

// Post registers handler for POST requests matching pat.
func (a *App) Post(pat string, handler Handler, name ...string) error {
	return a.handle(MethodPost, pat, handler, name...)
}

// Put registers handler for PUT requests matching pat.
func (a *App) Put(pat string, handler Handler, name ...string) error {
	return a.handle(MethodPut, pat, handler, name...)
}

// Delete registers handler for DELETE requests matching pat.
func (a *App) Delete(pat string, handler Handler, name ...string) error {
	return a.handle(MethodDelete, pat, handler, name...)
}

// Patch registers handler for PATCH requests matching pat.
func (a *App) Patch(pat string, handler Handler, name ...string) error {
	return a.handle(MethodPatch, pat, handler, name...)
}

// Options registers handler for OPTIONS requests matching pat.
func (a *App) Options(pat string, handler Handler, name ...string) error {
	return a.handle(MethodOptions, pat, handler, name...)
}

// Head registers handler for HEAD requests matching pat.
func (a *App) Head(pat string, handler Handler, name ...string) error {
	return a.handle(MethodHead, pat, handler, name...)
}

// HandleStd registers a standard library http.Handler for a single exact
// route. Global middleware registered via [App.Use] still applies; the std
// handler owns its own error signaling.
func (a *App) HandleStd(method, pat string, handler http.Handler, name ...string) error {
	return a.handle(method, pat, ToHandler(handler), name...)
}

func (a *App) handle(method, pat string, handler Handler, name ...string) error {
	a.ensureNotFrozen()
	return a.router.Handle(method, pat, handler, name...)
}

// Mount merges a SubRouter into the App: each of sub's routes (and those of
// anything mounted into sub) is re-rooted under prefix and appended to the
// App's route table, with sub's (and any nested SubRouter's) middleware
// wrapped around the corresponding handler.
func (a *App) Mount(prefix string, sub *SubRouter) error {
	a.ensureNotFrozen()

	for _, fr := range sub.flatten(prefix) {
		var name []string
		if fr.name != "" {
			name = []string{fr.name}
		}
		if err := a.router.Handle(fr.method, fr.pat, fr.handler, name...); err != nil {
			return err
		}
	}

	return nil
}

// Reverse returns the concrete URL for a named route.
func (a *App) Reverse(name string, vals ...string) (string, error) {
	return a.router.Reverse(name, vals...)
}

// ServeHTTP makes App itself a standard http.Handler, so it can be plugged
// into http.Server directly or wrapped by further std-library middleware.
// It matches the route, runs the global (and any route-scope) middleware
// chain around the matched handler — or a 404/405 synthetic terminal when
// nothing matched — then converts the result to a Response and emits it.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.frozen.Store(true)

	params, matched, matchErr := a.router.Match(r.Method, r.URL.Path)

	var final Handler
	if matchErr != nil {
		final = HandlerFunc(func(_ context.Context, _ *Request) (*Response, error) {
			return nil, matchErr
		})
	} else {
		final = matched
	}

	req, err := newRequest(r, params)
	if err != nil {
		a.logger.LogUnhandledServeError(errors.Wrap(err, "build request"))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp, err := Chain(final, a.global...).ServeHTTP(r.Context(), req)
	if err != nil {
		a.logger.LogUnhandledServeError(err)
		resp = errorToResponse(err)
	}
	if resp == nil {
		resp = NewResponse()
	}

	if err := resp.write(w); err != nil {
		a.logger.LogImplicitFlushError(err)
	}
}

// Listen binds an *http.Server to addr and blocks serving requests until
// the server stops or encounters a fatal error. Address parsing/binding
// errors surface before the accept loop begins; once Listen has been
// called, further registration panics — after listen begins, middleware
// and routes are frozen.
func (a *App) Listen(addr string) error {
	a.frozen.Store(true)

	srv := &http.Server{
		Addr:    addr,
		Handler: a,
	}

	return srv.ListenAndServe()
}

func (a *App) ensureNotFrozen() {
	if a.frozen.Load() {
		panic("wex: cannot register routes or middleware after App has started serving")
	}
}
