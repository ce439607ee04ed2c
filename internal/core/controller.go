package core

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vovakirdan/wireboard-server/internal/proto"
	"github.com/vovakirdan/wireboard-server/internal/route"
	"github.com/vovakirdan/wireboard-server/internal/store"
)

// DefaultPalette holds the colors handed out to joining users, in assignment
// order. Once every palette entry is in use a random color is generated.
var DefaultPalette = []string{
	"#2c82c9",
	"#27ae60",
	"#e74c3c",
	"#f1c40f",
	"#9b59b6",
	"#e67e22",
	"#16a085",
	"#d35400",
}

// SessionController implements the "server" handler group: identity
// assignment, naming, stroke recording and restore. It owns the global
// drawn-line log, which grows for the session's lifetime; nothing evicts it.
// All methods run under the hub's lock.
type SessionController struct {
	hub     *Hub
	palette []string
	lines   []store.Line
	store   store.Store
	log     *zerolog.Logger
	actions map[string]HandlerFunc
}

func newSessionController(hub *Hub, palette []string, st store.Store, logger *zerolog.Logger) *SessionController {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	c := &SessionController{
		hub:     hub,
		palette: palette,
		store:   st,
		log:     logger,
	}
	c.actions = map[string]HandlerFunc{
		route.ActionName(proto.ActionHello):          c.helloAction,
		route.ActionName(proto.ActionSetName):        c.setNameAction,
		route.ActionName(proto.ActionStrokeLine):     c.strokeLineAction,
		route.ActionName(proto.ActionRequestRestore): c.requestRestoreAction,
	}
	return c
}

// Actions returns the dispatch table, keyed by resolved method identifiers.
func (c *SessionController) Actions() map[string]HandlerFunc {
	return c.actions
}

// seed replaces the drawn-line log, used once at startup to restore history.
func (c *SessionController) seed(lines []store.Line) {
	c.lines = lines
}

// helloAction assigns the sender a color, replies with a welcome carrying
// the other users, then announces the newcomer to everyone including the
// sender itself.
func (c *SessionController) helloAction(sender *Client, _ *proto.Envelope) error {
	color := c.nextColor()
	sender.Set(StateColor, color)

	users := make([]proto.UserInfo, 0)
	for _, other := range c.hub.registry.All() {
		if other.ID == sender.ID {
			continue
		}
		users = append(users, userInfo(other))
	}

	c.hub.send(sender, proto.New(proto.ControllerClient, proto.ActionWelcome, map[string]any{
		"id":    sender.ID,
		"color": color,
		"users": users,
	}))

	c.hub.broadcast(proto.New(proto.ControllerClient, proto.ActionUserConnected, map[string]any{
		"id":    sender.ID,
		"color": color,
	}))
	return nil
}

// setNameAction title-cases and stores the sender's name, then announces it.
// A name that is blank after trimming fails with no broadcast at all.
func (c *SessionController) setNameAction(sender *Client, cmd *proto.Envelope) error {
	trimmed := strings.TrimSpace(cmd.String("name", ""))
	if trimmed == "" {
		return sessionError(ErrCodeEmptyName, "name is empty")
	}
	name := cases.Title(language.Und).String(trimmed)

	sender.Set(StateName, name)

	c.hub.broadcast(proto.New(proto.ControllerClient, proto.ActionNameChanged, map[string]any{
		"id":   sender.ID,
		"name": name,
	}))
	return nil
}

// strokeLineAction records a line in the sender's own state and the global
// log, persists it, and fans it out to every registered client.
func (c *SessionController) strokeLineAction(sender *Client, cmd *proto.Envelope) error {
	color, _ := sender.Get(StateColor, "").(string)
	line := store.Line{
		Color: color,
		X1:    cmd.Float64("x1", 0),
		Y1:    cmd.Float64("y1", 0),
		X2:    cmd.Float64("x2", 0),
		Y2:    cmd.Float64("y2", 0),
	}

	own, _ := sender.Get(StateLines, []store.Line(nil)).([]store.Line)
	sender.Set(StateLines, append(own, line))

	c.lines = append(c.lines, line)

	if c.store != nil {
		if err := c.store.AppendLine(context.Background(), &line); err != nil {
			c.log.Warn().Err(err).Msg("persist line failed")
		}
	}

	c.hub.broadcast(proto.New(proto.ControllerClient, proto.ActionStrokeLine, map[string]any{
		"id": sender.ID,
		"x1": line.X1,
		"y1": line.Y1,
		"x2": line.X2,
		"y2": line.Y2,
	}))
	return nil
}

// requestRestoreAction replays the full drawn-line log to the requesting
// client only, in arrival order.
func (c *SessionController) requestRestoreAction(sender *Client, _ *proto.Envelope) error {
	lines := make([]proto.LineInfo, 0, len(c.lines))
	for _, l := range c.lines {
		lines = append(lines, proto.LineInfo{Color: l.Color, X1: l.X1, Y1: l.Y1, X2: l.X2, Y2: l.Y2})
	}

	c.hub.send(sender, proto.New(proto.ControllerClient, proto.ActionRestore, map[string]any{
		"lines": lines,
	}))
	return nil
}

// nextColor returns the first palette entry no registered client holds, or a
// random color once the palette is exhausted.
func (c *SessionController) nextColor() string {
	used := make(map[string]bool)
	for _, client := range c.hub.registry.All() {
		if col, ok := client.Get(StateColor, "").(string); ok && col != "" {
			used[col] = true
		}
	}
	for _, col := range c.palette {
		if !used[col] {
			return col
		}
	}
	return randomColor()
}

func randomColor() string {
	var b [3]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "#808080"
	}
	return fmt.Sprintf("#%02x%02x%02x", b[0], b[1], b[2])
}

func userInfo(c *Client) proto.UserInfo {
	info := proto.UserInfo{ID: c.ID}
	if col, ok := c.Get(StateColor, "").(string); ok {
		info.Color = col
	}
	if name, ok := c.Get(StateName, "").(string); ok && name != "" {
		info.Name = &name
	}
	return info
}
