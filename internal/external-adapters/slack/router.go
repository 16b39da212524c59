package slack

import (
	"context"

	orchestrators "github.com/ochairo/casebot/internal/domain-orchestrators"
)

// MessageHandler handles a user message
type MessageHandler func(ctx context.Context, msg orchestrators.IncomingMessage, reply orchestrators.ReplySink) error

// ActionHandler handles a block action. ack must be called before replying.
type ActionHandler func(ctx context.Context, action orchestrators.ActionEvent, ack orchestrators.Acknowledger, reply orchestrators.ReplySink) error

// Router is the routing table the composition root registers handlers in
type Router struct {
	message MessageHandler
	actions map[string]ActionHandler
}

// NewRouter creates an empty routing table
func NewRouter() *Router {
	return &Router{actions: make(map[string]ActionHandler)}
}

// OnMessage registers the handler for plain messages and mentions
func (r *Router) OnMessage(h MessageHandler) {
	r.message = h
}

// OnAction registers the handler for a block action id
func (r *Router) OnAction(actionID string, h ActionHandler) {
	r.actions[actionID] = h
}

func (r *Router) messageHandler() (MessageHandler, bool) {
	return r.message, r.message != nil
}

func (r *Router) actionHandler(actionID string) (ActionHandler, bool) {
	h, ok := r.actions[actionID]
	return h, ok
}
