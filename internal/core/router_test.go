package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vovakirdan/wireboard-server/internal/proto"
	"github.com/vovakirdan/wireboard-server/internal/route"
)

type stubGroup struct {
	actions map[string]HandlerFunc
}

func (g *stubGroup) Actions() map[string]HandlerFunc {
	return g.actions
}

func TestRouterDispatch(t *testing.T) {
	var gotSender *Client
	var gotCmd *proto.Envelope

	g := &stubGroup{actions: map[string]HandlerFunc{
		"pingAction": func(sender *Client, cmd *proto.Envelope) error {
			gotSender, gotCmd = sender, cmd
			return nil
		},
	}}

	r := NewRouter()
	if err := r.Register("echo-service", g); err != nil {
		t.Fatalf("register: %v", err)
	}

	reg := NewRegistry()
	sender := reg.Register(&fakeSender{})

	cmd := proto.New("echo-service", "ping", nil)
	if err := r.Dispatch(sender, cmd); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if gotSender != sender || gotCmd != cmd {
		t.Fatal("handler invoked with wrong arguments")
	}
}

func TestRouterDispatchErrors(t *testing.T) {
	g := &stubGroup{actions: map[string]HandlerFunc{
		"pingAction": func(*Client, *proto.Envelope) error { return nil },
	}}

	r := NewRouter()
	if err := r.Register("echo-service", g); err != nil {
		t.Fatalf("register: %v", err)
	}

	reg := NewRegistry()
	sender := reg.Register(&fakeSender{})

	cases := []struct {
		name string
		cmd  *proto.Envelope
		code string
	}{
		{"missing action", &proto.Envelope{Controller: "echo-service"}, route.ErrCodeMissingField},
		{"missing controller", &proto.Envelope{Action: "ping"}, route.ErrCodeMissingField},
		{"unknown group", proto.New("no-such", "ping", nil), route.ErrCodeHandlerGroupNotFound},
		{"unknown action", proto.New("echo-service", "fly", nil), route.ErrCodeActionNotCallable},
	}

	for _, tc := range cases {
		err := r.Dispatch(sender, tc.cmd)
		var rerr *route.Error
		if !errors.As(err, &rerr) || rerr.Code != tc.code {
			t.Errorf("%s: expected code %s, got %v", tc.name, tc.code, err)
		}
	}
}

func TestRouterPropagatesHandlerError(t *testing.T) {
	boom := fmt.Errorf("boom")
	g := &stubGroup{actions: map[string]HandlerFunc{
		"pingAction": func(*Client, *proto.Envelope) error { return boom },
	}}

	r := NewRouter()
	if err := r.Register("echo-service", g); err != nil {
		t.Fatalf("register: %v", err)
	}

	reg := NewRegistry()
	sender := reg.Register(&fakeSender{})

	if err := r.Dispatch(sender, proto.New("echo-service", "ping", nil)); !errors.Is(err, boom) {
		t.Fatalf("expected handler error to propagate, got %v", err)
	}
}

func TestRouterRejectsEmptyGroup(t *testing.T) {
	r := NewRouter()
	if err := r.Register("empty", &stubGroup{actions: map[string]HandlerFunc{}}); err == nil {
		t.Fatal("expected registration of empty group to fail")
	}
}
