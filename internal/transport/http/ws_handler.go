package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wireboard-server/internal/auth"
	"github.com/vovakirdan/wireboard-server/internal/core"
	"github.com/vovakirdan/wireboard-server/internal/proto"
)

// errSlowConsumer is returned by peer.Send when the outbound queue is full.
var errSlowConsumer = errors.New("outbound queue full")

// peer adapts a websocket connection to core.Sender. Send never blocks; an
// envelope that does not fit the queue is dropped so one slow client cannot
// stall a broadcast.
type peer struct {
	out chan *proto.Envelope
}

func newPeer() *peer {
	return &peer{out: make(chan *proto.Envelope, 64)}
}

func (p *peer) Send(env *proto.Envelope) error {
	select {
	case p.out <- env:
		return nil
	default:
		return errSlowConsumer
	}
}

// WSHandler upgrades HTTP connections and bridges them to core clients.
type WSHandler struct {
	hub    *core.Hub
	tokens *auth.TokenService
	log    *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, tokens *auth.TokenService, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{hub: hub, tokens: tokens, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	if h.tokens.Enabled() {
		token := r.URL.Query().Get("token")
		if _, err := h.tokens.Validate(token); err != nil {
			h.log.Debug().Err(err).Msg("ws token rejected")
			stdhttp.Error(w, "invalid token", stdhttp.StatusUnauthorized)
			return
		}
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	connID := uuid.NewString()
	p := newPeer()
	client := h.hub.Connect(p)
	defer h.hub.Disconnect(client)

	h.log.Debug().Str("conn_id", connID).Int64("client_id", client.ID).Msg("ws session started")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client, p)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, p)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("conn_id", connID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client, p *peer) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		env, err := proto.Decode(data)
		if err != nil {
			// Malformed frames are reported to the sender and dropped;
			// the connection stays open.
			var perr *proto.ProtocolError
			if errors.As(err, &perr) {
				h.log.Warn().Err(err).Int64("client_id", client.ID).Msg("bad inbound frame")
				_ = p.Send(proto.New(proto.ControllerClient, proto.ActionError, map[string]any{
					"code":    perr.Code,
					"message": perr.Message,
				}))
				continue
			}
			return err
		}

		h.hub.Deliver(client, env)
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, p *peer) error {
	for {
		select {
		case env := <-p.out:
			if err := wsjson.Write(ctx, conn, env); err != nil {
				h.log.Error().Err(err).Msg("write ws envelope")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
