package core

import "github.com/vovakirdan/wireboard-server/internal/proto"

// State keys under which the session controller records per-client values.
// Keys are dotted namespaces so unrelated features never collide.
const (
	StateColor = "drawing.color"
	StateName  = "user.name"
	StateLines = "graphics.lines"
)

// Sender delivers one outbound envelope to a connected peer. Delivery is
// best effort: an implementation may drop the envelope if the peer cannot
// keep up, and a failed send never affects other peers.
type Sender interface {
	Send(env *proto.Envelope) error
}

// Client is one connected participant as seen by the session core. The
// registry is the only creator and destroyer of clients; per-client state is
// only touched by handlers running under the hub's lock.
type Client struct {
	ID    int64
	conn  Sender
	state map[string]any
}

func newClient(id int64, conn Sender) *Client {
	return &Client{
		ID:    id,
		conn:  conn,
		state: make(map[string]any),
	}
}

// Set stores a value under a dotted namespace key, last write wins.
func (c *Client) Set(key string, v any) {
	c.state[key] = v
}

// Get returns the value stored under key, or def when absent.
func (c *Client) Get(key string, def any) any {
	if v, ok := c.state[key]; ok {
		return v
	}
	return def
}

// Send forwards an envelope to the client's connection.
func (c *Client) Send(env *proto.Envelope) error {
	return c.conn.Send(env)
}
