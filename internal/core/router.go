package core

import (
	"fmt"

	"github.com/vovakirdan/wireboard-server/internal/proto"
	"github.com/vovakirdan/wireboard-server/internal/route"
)

// HandlerFunc is one action handler. The receiver it is bound to plays the
// "server" role; sender and command arrive per dispatch.
type HandlerFunc func(sender *Client, cmd *proto.Envelope) error

// HandlerGroup is the set of action handlers addressed by one namespace.
// Actions returns the dispatch table keyed by resolved method identifiers
// (route.ActionName form); it must be stable for the group's lifetime.
type HandlerGroup interface {
	Actions() map[string]HandlerFunc
}

// Router resolves an envelope's namespace and action to a handler and
// invokes it. There is no hidden instance cache: groups are registered once
// at construction time and the router is passed by reference to whoever
// dispatches through it.
type Router struct {
	groups map[string]HandlerGroup
}

// NewRouter builds an empty router.
func NewRouter() *Router {
	return &Router{groups: make(map[string]HandlerGroup)}
}

// Register binds a namespace token to a handler group. Registering a group
// with an empty dispatch table is a construction bug and fails immediately.
func (r *Router) Register(namespace string, g HandlerGroup) error {
	if len(g.Actions()) == 0 {
		return fmt.Errorf("handler group %q has no actions", namespace)
	}
	r.groups[route.ControllerName(namespace)] = g
	return nil
}

// Dispatch routes one envelope to its handler and runs it. Any error the
// handler returns propagates to the caller unchanged.
func (r *Router) Dispatch(sender *Client, cmd *proto.Envelope) error {
	if cmd.Controller == "" || cmd.Action == "" {
		return route.NewError(route.ErrCodeMissingField, "envelope has no controller or action")
	}

	group := route.ControllerName(cmd.Controller)
	g, ok := r.groups[group]
	if !ok {
		return route.NewError(route.ErrCodeHandlerGroupNotFound, fmt.Sprintf("no handler group %s", group))
	}

	method := route.ActionName(cmd.Action)
	handler, ok := g.Actions()[method]
	if !ok {
		return route.NewError(route.ErrCodeActionNotCallable, fmt.Sprintf("%s has no action %s", group, method))
	}

	return handler(sender, cmd)
}
