// Package route dispatches JSON API requests to handlers registered
// against "METHOD /path/:arg" patterns, and gives those handlers a
// Request for reading payloads and writing JSON responses or Errors.
package route

import (
	"net/http"
	"sort"
	"strings"

	"github.com/jhunt/go-log"
)

type Handler func(r *Request)

type route struct {
	pattern pattern
	handler Handler
}

type Router struct {
	Debug  bool
	routes []route
}

// Dispatch registers handler for match.  Routes are tried in the order
// they were dispatched; the first one to match wins.
func (r *Router) Dispatch(match string, handler Handler) {
	r.routes = append(r.routes, route{
		pattern: compile(match),
		handler: handler,
	})
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	request := NewRequest(w, req, r.Debug)

	var allowed []string
	for _, rt := range r.routes {
		args := rt.pattern.args(req)
		if args == nil {
			continue
		}
		if !rt.pattern.allows(req.Method) {
			allowed = append(allowed, rt.pattern.method)
			continue
		}

		w.Header().Set("Content-Type", "application/json")
		request.Args = args
		rt.handler(request)
		if !request.Done() {
			log.Errorf("%s handler bug: failed to call either OK() or Fail()", request)
			request.Fail(Oops(nil, "an unknown error has occurred"))
		}
		return
	}

	if len(allowed) > 0 {
		sort.Strings(allowed)
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		request.Fail(Errorf(405, nil, "%s not allowed on `%s'", req.Method, req.URL.Path))
		return
	}
	request.Fail(NotFound(nil, "API endpoint `%s' not found", request))
}
