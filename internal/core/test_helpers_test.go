package core

import (
	"errors"
	"testing"

	"github.com/vovakirdan/wireboard-server/internal/log"
	"github.com/vovakirdan/wireboard-server/internal/proto"
)

// fakeSender records every envelope delivered to it.
type fakeSender struct {
	envs []*proto.Envelope
	fail bool
}

func (f *fakeSender) Send(env *proto.Envelope) error {
	if f.fail {
		return errors.New("send failed")
	}
	f.envs = append(f.envs, env)
	return nil
}

// byAction returns the recorded envelopes with the given action.
func (f *fakeSender) byAction(action string) []*proto.Envelope {
	var out []*proto.Envelope
	for _, env := range f.envs {
		if env.Action == action {
			out = append(out, env)
		}
	}
	return out
}

// lastByAction returns the most recent envelope with the given action.
func (f *fakeSender) lastByAction(t *testing.T, action string) *proto.Envelope {
	t.Helper()
	envs := f.byAction(action)
	if len(envs) == 0 {
		t.Fatalf("no %s envelope recorded", action)
	}
	return envs[len(envs)-1]
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub, err := NewHub(nil, nil, log.Nop())
	if err != nil {
		t.Fatalf("new hub: %v", err)
	}
	return hub
}

func command(action string, params map[string]any) *proto.Envelope {
	return proto.New(proto.ControllerServer, action, params)
}
