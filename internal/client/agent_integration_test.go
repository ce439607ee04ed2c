package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/wireboard-server/internal/auth"
	"github.com/vovakirdan/wireboard-server/internal/config"
	"github.com/vovakirdan/wireboard-server/internal/core"
	"github.com/vovakirdan/wireboard-server/internal/log"
	transporthttp "github.com/vovakirdan/wireboard-server/internal/transport/http"
)

func startBoard(t *testing.T) string {
	t.Helper()

	hub, err := core.NewHub(nil, nil, log.Nop())
	if err != nil {
		t.Fatalf("new hub: %v", err)
	}
	tokens := auth.NewTokenService("", "", "", 0)
	server := transporthttp.NewServer(hub, tokens, config.Default(), log.Nop())

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestAgentAgainstServer(t *testing.T) {
	url := startBoard(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	canvasA := &recordingCanvas{}
	a := New(url, "", canvasA, log.Nop())
	runA := make(chan error, 1)
	go func() { runA <- a.Run(ctx) }()

	waitFor(t, "agent A welcome", func() bool { return a.ID() != 0 })

	b := New(url, "", &recordingCanvas{}, log.Nop())
	runB := make(chan error, 1)
	go func() { runB <- b.Run(ctx) }()

	waitFor(t, "agent B welcome", func() bool { return b.ID() != 0 })
	waitFor(t, "A sees B", func() bool {
		for _, u := range a.Users() {
			if u.ID == b.ID() && u.Color != "" {
				return true
			}
		}
		return false
	})

	if err := b.SetName(ctx, "grace hopper"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	waitFor(t, "A sees B's name", func() bool {
		for _, u := range a.Users() {
			if u.ID == b.ID() && u.Name == "Grace Hopper" {
				return true
			}
		}
		return false
	})

	if err := b.StrokeLine(ctx, 0, 0, 10, 10); err != nil {
		t.Fatalf("stroke: %v", err)
	}
	waitFor(t, "A receives stroke", func() bool { return canvasA.count() == 1 })
	if canvasA.at(0).color != b.Color() {
		t.Fatalf("stroke color %q, want %q", canvasA.at(0).color, b.Color())
	}

	// A late joiner replays the history.
	canvasC := &recordingCanvas{}
	c := New(url, "", canvasC, log.Nop())
	runC := make(chan error, 1)
	go func() { runC <- c.Run(ctx) }()
	waitFor(t, "agent C welcome", func() bool { return c.ID() != 0 })

	if err := c.RequestRestore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	waitFor(t, "C replays history", func() bool { return canvasC.count() == 1 })

	cancel()
	for _, ch := range []chan error{runA, runB, runC} {
		if err := <-ch; err != nil {
			t.Fatalf("run exited with error: %v", err)
		}
	}
}

func TestAgentDialFailureIsErrored(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	a := New("ws://127.0.0.1:1/ws", "", nil, log.Nop())
	err := a.Run(ctx)

	var terr *TransportError
	if err == nil {
		t.Fatal("expected dial failure")
	}
	if !errors.As(err, &terr) || terr.Op != "dial" {
		t.Fatalf("expected transport dial error, got %v", err)
	}
	if a.State() != StateErrored {
		t.Fatalf("state = %s, want errored", a.State())
	}
}
