// Package client implements the board's side of the protocol: it owns the
// connection, dispatches inbound envelopes to local handlers, and maintains
// a projection of the remote users. Drawing itself is delegated to a Canvas.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wireboard-server/internal/proto"
	"github.com/vovakirdan/wireboard-server/internal/route"
)

// State is the connection state of the agent.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// ReconnectPolicy names how the agent treats a lost connection.
type ReconnectPolicy int

// PolicyNone is the only policy: Closed and Errored are terminal, a caller
// who wants back in constructs a new agent.
const PolicyNone ReconnectPolicy = iota

// User is a read-only mirror of a remote client's public attributes.
type User struct {
	ID    int64
	Color string
	Name  string // empty until the user names itself
}

// Canvas receives the stroke data the agent does not render itself.
type Canvas interface {
	DrawLine(color string, x1, y1, x2, y2 float64)
}

// Agent mirrors the server session locally. One Run loop reads and
// dispatches inbound envelopes, so no two handlers ever run concurrently.
type Agent struct {
	url    string
	token  string
	canvas Canvas
	policy ReconnectPolicy
	log    *zerolog.Logger

	mu    sync.RWMutex
	state State
	id    int64
	color string
	users map[int64]*User

	conn     *websocket.Conn
	handlers map[string]func(env *proto.Envelope) error
}

// New builds an agent for the given ws URL. The token may be empty when the
// server runs without authentication; canvas may be nil to discard strokes.
func New(wsURL, token string, canvas Canvas, logger *zerolog.Logger) *Agent {
	a := &Agent{
		url:    wsURL,
		token:  token,
		canvas: canvas,
		policy: PolicyNone,
		log:    logger,
		state:  StateConnecting,
		users:  make(map[int64]*User),
	}
	a.handlers = map[string]func(env *proto.Envelope) error{
		route.ActionName(proto.ActionWelcome):          a.welcomeAction,
		route.ActionName(proto.ActionUserConnecting):   a.userConnectingAction,
		route.ActionName(proto.ActionUserConnected):    a.userConnectedAction,
		route.ActionName(proto.ActionNameChanged):      a.nameChangedAction,
		route.ActionName(proto.ActionUserDisconnected): a.userDisconnectedAction,
		route.ActionName(proto.ActionStrokeLine):       a.strokeLineAction,
		route.ActionName(proto.ActionRestore):          a.restoreAction,
		route.ActionName(proto.ActionError):            a.errorAction,
	}
	return a
}

// Run dials the server, sends hello, and reads until the context is
// canceled or the connection ends. It never reconnects (PolicyNone).
func (a *Agent) Run(ctx context.Context) error {
	dialURL := a.url
	if a.token != "" {
		u, err := url.Parse(a.url)
		if err != nil {
			a.setState(StateErrored)
			return &TransportError{Op: "dial", Err: err}
		}
		q := u.Query()
		q.Set("token", a.token)
		u.RawQuery = q.Encode()
		dialURL = u.String()
	}

	conn, _, err := websocket.Dial(ctx, dialURL, nil)
	if err != nil {
		a.setState(StateErrored)
		return &TransportError{Op: "dial", Err: err}
	}
	a.mu.Lock()
	a.conn = conn
	a.state = StateOpen
	a.mu.Unlock()
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if err := a.send(ctx, proto.New(proto.ControllerServer, proto.ActionHello, nil)); err != nil {
		return err
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				a.setState(StateClosed)
				return nil
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				a.setState(StateClosed)
				return nil
			}
			a.setState(StateErrored)
			return &TransportError{Op: "read", Err: err}
		}

		env, derr := proto.Decode(data)
		if derr != nil {
			a.log.Warn().Err(derr).Msg("drop malformed frame")
			continue
		}
		// Per-message guard: a handler failure is logged and the session
		// stays alive.
		if err := a.dispatch(env); err != nil {
			a.log.Warn().Err(err).Str("action", env.Action).Msg("inbound envelope failed")
		}
	}
}

// SetName asks the server to change this user's name.
func (a *Agent) SetName(ctx context.Context, name string) error {
	return a.send(ctx, proto.New(proto.ControllerServer, proto.ActionSetName, map[string]any{
		"name": name,
	}))
}

// StrokeLine sends one stroke segment.
func (a *Agent) StrokeLine(ctx context.Context, x1, y1, x2, y2 float64) error {
	return a.send(ctx, proto.New(proto.ControllerServer, proto.ActionStrokeLine, map[string]any{
		"x1": x1, "y1": y1, "x2": x2, "y2": y2,
	}))
}

// RequestRestore asks the server to replay the full drawn-line log.
func (a *Agent) RequestRestore(ctx context.Context) error {
	return a.send(ctx, proto.New(proto.ControllerServer, proto.ActionRequestRestore, nil))
}

// State returns the current connection state.
func (a *Agent) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// ID returns the identity assigned by the server's welcome, 0 before it.
func (a *Agent) ID() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.id
}

// Color returns the color assigned by the server's welcome.
func (a *Agent) Color() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.color
}

// Users returns a snapshot of the known remote users ordered by id.
func (a *Agent) Users() []User {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]User, 0, len(a.users))
	for _, u := range a.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (a *Agent) setState(s State) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}

func (a *Agent) send(ctx context.Context, env *proto.Envelope) error {
	a.mu.RLock()
	conn := a.conn
	state := a.state
	a.mu.RUnlock()

	if state != StateOpen || conn == nil {
		return fmt.Errorf("connection is %s", state)
	}
	if err := wsjson.Write(ctx, conn, env); err != nil {
		a.setState(StateErrored)
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}
