package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wireboard-server/internal/proto"
	"github.com/vovakirdan/wireboard-server/internal/route"
	"github.com/vovakirdan/wireboard-server/internal/store"
)

// Hub owns the registry, the router and the session controller, and
// serializes every connect, disconnect and inbound frame through one mutex.
// Each message's routing and broadcast side effects complete before the next
// one is processed, so the drawn-line log matches arrival order and welcome
// snapshots stay consistent with concurrent join notifications.
type Hub struct {
	mu       sync.Mutex
	registry *Registry
	router   *Router
	ctrl     *SessionController
	log      *zerolog.Logger
}

// NewHub builds a hub with its handler groups registered. The store may be
// nil for an ephemeral session.
func NewHub(st store.Store, palette []string, logger *zerolog.Logger) (*Hub, error) {
	h := &Hub{
		registry: NewRegistry(),
		router:   NewRouter(),
		log:      logger,
	}
	h.ctrl = newSessionController(h, palette, st, logger)
	if err := h.router.Register(proto.ControllerServer, h.ctrl); err != nil {
		return nil, fmt.Errorf("register server controller: %w", err)
	}
	return h, nil
}

// Restore seeds the drawn-line log from the store. Call once before serving.
func (h *Hub) Restore(ctx context.Context) error {
	if h.ctrl.store == nil {
		return nil
	}
	lines, err := h.ctrl.store.ListLines(ctx)
	if err != nil {
		return fmt.Errorf("list lines: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.ctrl.seed(lines)
	h.log.Info().Int("lines", len(lines)).Msg("drawn-line log restored")
	return nil
}

// Connect registers a new client and tells every other client that someone
// is connecting. The newcomer itself is not notified.
func (h *Hub) Connect(conn Sender) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	client := h.registry.Register(conn)
	for _, other := range h.registry.All() {
		if other.ID == client.ID {
			continue
		}
		h.send(other, proto.New(proto.ControllerClient, proto.ActionUserConnecting, map[string]any{
			"id": client.ID,
		}))
	}

	h.log.Info().Int64("client_id", client.ID).Int("clients", h.registry.Len()).Msg("client connected")
	return client
}

// Disconnect removes the client and its state and tells every remaining
// client that it left.
func (h *Hub) Disconnect(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.registry.Unregister(client.ID)
	for _, other := range h.registry.All() {
		h.send(other, proto.New(proto.ControllerClient, proto.ActionUserDisconnected, map[string]any{
			"id": client.ID,
		}))
	}

	h.log.Info().Int64("client_id", client.ID).Int("clients", h.registry.Len()).Msg("client disconnected")
}

// Deliver routes one inbound envelope from a client. Routing and validation
// failures are reported back to the sender and the message is dropped; they
// never terminate the connection or the process.
func (h *Hub) Deliver(sender *Client, cmd *proto.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.router.Dispatch(sender, cmd); err != nil {
		h.log.Warn().
			Err(err).
			Int64("client_id", sender.ID).
			Str("controller", cmd.Controller).
			Str("action", cmd.Action).
			Msg("command failed")
		h.send(sender, proto.New(proto.ControllerClient, proto.ActionError, map[string]any{
			"code":    errorCode(err),
			"message": err.Error(),
		}))
	}
}

// Stats reports the number of registered clients and logged lines.
func (h *Hub) Stats() (clients, lines int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.registry.Len(), len(h.ctrl.lines)
}

// send delivers one envelope to one client, best effort.
func (h *Hub) send(c *Client, env *proto.Envelope) {
	if err := c.Send(env); err != nil {
		h.log.Debug().Err(err).Int64("client_id", c.ID).Str("action", env.Action).Msg("drop outbound envelope")
	}
}

// broadcast fans one envelope out to every registered client. A failed send
// to one client never aborts delivery to the others.
func (h *Hub) broadcast(env *proto.Envelope) {
	for _, c := range h.registry.All() {
		h.send(c, env)
	}
}

func errorCode(err error) string {
	var rerr *route.Error
	if errors.As(err, &rerr) {
		return rerr.Code
	}
	var serr *SessionError
	if errors.As(err, &serr) {
		return serr.Code
	}
	return "internal_error"
}
