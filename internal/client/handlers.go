package client

import (
	"encoding/json"

	"github.com/vovakirdan/wireboard-server/internal/proto"
	"github.com/vovakirdan/wireboard-server/internal/route"
)

// dispatch resolves an inbound envelope to a local handler and runs it.
func (a *Agent) dispatch(env *proto.Envelope) error {
	if env.Controller != proto.ControllerClient {
		return &UnsupportedActionError{Controller: env.Controller, Action: env.Action}
	}
	handler, ok := a.handlers[route.ActionName(env.Action)]
	if !ok {
		return &UnsupportedActionError{Controller: env.Controller, Action: env.Action}
	}
	return handler(env)
}

// welcomeAction records this client's identity and the pre-existing users.
func (a *Agent) welcomeAction(env *proto.Envelope) error {
	var users []proto.UserInfo
	if err := decodeParam(env.Param("users", nil), &users); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.id = env.Int64("id", 0)
	a.color = env.String("color", "")
	a.users = make(map[int64]*User, len(users))
	for _, u := range users {
		user := &User{ID: u.ID, Color: u.Color}
		if u.Name != nil {
			user.Name = *u.Name
		}
		a.users[u.ID] = user
	}
	return nil
}

// userConnectingAction records a placeholder: the newcomer has no color or
// name until its own hello produces a user-connected.
func (a *Agent) userConnectingAction(env *proto.Envelope) error {
	id := env.Int64("id", 0)

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.users[id]; !ok {
		a.users[id] = &User{ID: id}
	}
	return nil
}

func (a *Agent) userConnectedAction(env *proto.Envelope) error {
	id := env.Int64("id", 0)
	color := env.String("color", "")

	a.mu.Lock()
	defer a.mu.Unlock()
	if id == a.id {
		return nil
	}
	u, ok := a.users[id]
	if !ok {
		u = &User{ID: id}
		a.users[id] = u
	}
	u.Color = color
	return nil
}

func (a *Agent) nameChangedAction(env *proto.Envelope) error {
	id := env.Int64("id", 0)
	name := env.String("name", "")

	a.mu.Lock()
	defer a.mu.Unlock()
	if u, ok := a.users[id]; ok {
		u.Name = name
	}
	return nil
}

func (a *Agent) userDisconnectedAction(env *proto.Envelope) error {
	id := env.Int64("id", 0)

	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.users, id)
	return nil
}

// strokeLineAction forwards one remote stroke to the canvas, colored by the
// originating user.
func (a *Agent) strokeLineAction(env *proto.Envelope) error {
	id := env.Int64("id", 0)

	a.mu.RLock()
	color := a.color
	if u, ok := a.users[id]; ok {
		color = u.Color
	}
	canvas := a.canvas
	a.mu.RUnlock()

	if canvas == nil {
		return nil
	}
	canvas.DrawLine(color,
		env.Float64("x1", 0),
		env.Float64("y1", 0),
		env.Float64("x2", 0),
		env.Float64("y2", 0),
	)
	return nil
}

// restoreAction replays the full historical log onto the canvas.
func (a *Agent) restoreAction(env *proto.Envelope) error {
	var lines []proto.LineInfo
	if err := decodeParam(env.Param("lines", nil), &lines); err != nil {
		return err
	}

	a.mu.RLock()
	canvas := a.canvas
	a.mu.RUnlock()

	if canvas == nil {
		return nil
	}
	for _, l := range lines {
		canvas.DrawLine(l.Color, l.X1, l.Y1, l.X2, l.Y2)
	}
	return nil
}

// errorAction surfaces a server-reported command failure in the log.
func (a *Agent) errorAction(env *proto.Envelope) error {
	a.log.Warn().
		Str("code", env.String("code", "")).
		Str("message", env.String("message", "")).
		Msg("server rejected command")
	return nil
}

// decodeParam converts a decoded parameter value into a typed wire struct by
// round-tripping it through JSON.
func decodeParam(v any, dst any) error {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
