package core

import (
	"errors"
	"testing"
)

func TestRegistryAssignsUniqueStableIDs(t *testing.T) {
	r := NewRegistry()

	a := r.Register(&fakeSender{})
	b := r.Register(&fakeSender{})
	if a.ID == b.ID {
		t.Fatalf("ids must be unique, both are %d", a.ID)
	}

	r.Unregister(a.ID)
	c := r.Register(&fakeSender{})
	if c.ID == a.ID || c.ID == b.ID {
		t.Fatalf("id %d was reused", c.ID)
	}
}

func TestRegistryAllIsOrderedSnapshot(t *testing.T) {
	r := NewRegistry()
	a := r.Register(&fakeSender{})
	b := r.Register(&fakeSender{})
	c := r.Register(&fakeSender{})

	snap := r.All()
	if len(snap) != 3 || snap[0].ID != a.ID || snap[1].ID != b.ID || snap[2].ID != c.ID {
		t.Fatalf("unexpected order: %v", snap)
	}

	// Mutating the registry must not change an already-taken snapshot.
	r.Unregister(b.ID)
	if len(snap) != 3 || snap[1].ID != b.ID {
		t.Fatal("snapshot mutated by unregister")
	}
	if len(r.All()) != 2 {
		t.Fatalf("expected 2 clients after unregister, got %d", len(r.All()))
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	a := r.Register(&fakeSender{})

	got, err := r.Get(a.ID)
	if err != nil || got != a {
		t.Fatalf("get: %v %v", got, err)
	}

	if _, err := r.Get(999); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestClientStateLastWriteWins(t *testing.T) {
	r := NewRegistry()
	c := r.Register(&fakeSender{})

	if got := c.Get("graphics.lines", "default"); got != "default" {
		t.Fatalf("expected default, got %v", got)
	}

	c.Set("user.name", "Ada")
	c.Set("user.name", "Grace")
	if got := c.Get("user.name", ""); got != "Grace" {
		t.Fatalf("expected last write, got %v", got)
	}
}
