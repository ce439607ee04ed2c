package core

import "errors"

// ErrClientNotFound is returned by Get for an id the registry does not hold.
var ErrClientNotFound = errors.New("client not found")

// Registry tracks connected clients and assigns their identities. Ids are
// unique for the registry's lifetime and never reused. The registry has no
// lock of its own: the hub serializes every access.
type Registry struct {
	nextID  int64
	clients map[int64]*Client
	order   []int64
}

// NewRegistry builds an empty registry. The first registered client gets id 1.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[int64]*Client)}
}

// Register creates a client for the given connection, assigns the next id
// and stores it with empty state.
func (r *Registry) Register(conn Sender) *Client {
	r.nextID++
	c := newClient(r.nextID, conn)
	r.clients[c.ID] = c
	r.order = append(r.order, c.ID)
	return c
}

// Unregister removes the client and its state. Unknown ids are a no-op.
func (r *Registry) Unregister(id int64) {
	if _, ok := r.clients[id]; !ok {
		return
	}
	delete(r.clients, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns the client with the given id.
func (r *Registry) Get(id int64) (*Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, ErrClientNotFound
	}
	return c, nil
}

// All returns a snapshot of the registered clients in registration order.
// The returned slice is the caller's own; a later register or unregister
// does not mutate it.
func (r *Registry) All() []*Client {
	out := make([]*Client, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.clients[id])
	}
	return out
}

// Len reports the number of registered clients.
func (r *Registry) Len() int {
	return len(r.clients)
}
