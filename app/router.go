package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/msig"
	"github.com/iov-one/msig/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different paths and then
// direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]msig.Handler
}

var _ msig.Registry = (*Router)(nil)
var _ msig.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]msig.Handler, 10),
	}
}

// Handle adds a new handler for the given path. It panics if the path is
// malformed or another handler is already registered there.
func (r *Router) Handle(path string, h msig.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the handler registered for path, or one that fails
// every call with ErrNotFound.
func (r *Router) handler(path string) msig.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the handler of the message path.
func (r *Router) Check(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.CheckResult, error) {
	return r.handler(msig.GetPath(tx)).Check(ctx, db, tx)
}

// Deliver dispatches to the handler of the message path.
func (r *Router) Deliver(ctx msig.Context, db msig.KVStore, tx msig.Tx) (*msig.DeliverResult, error) {
	return r.handler(msig.GetPath(tx)).Deliver(ctx, db, tx)
}

type notFoundHandler string

func (path notFoundHandler) Check(msig.Context, msig.KVStore, msig.Tx) (*msig.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(msig.Context, msig.KVStore, msig.Tx) (*msig.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
