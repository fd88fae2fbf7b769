package core

import (
	"errors"
	"sync"
	"testing"

	"github.com/codehaven/collab-server/internal/domain"
)

type nullConn struct {
	mu     sync.Mutex
	frames []Frame
}

func (c *nullConn) TrySend(f Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, f)
	return nil
}

func (c *nullConn) Close() {}

func TestBindFirstJoinWins(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", &nullConn{}, nil)
	if err := r.Bind("c1", "r1", "alice"); err != nil {
		t.Fatal(err)
	}
	err := r.Bind("c1", "r2", "alice")
	if !errors.Is(err, domain.ErrAlreadyJoined) {
		t.Fatalf("expected ErrAlreadyJoined, got %v", err)
	}
	room, name, ok := r.BindingOf("c1")
	if !ok || room != "r1" || name != "alice" {
		t.Fatalf("binding changed by rejected join: %s/%s", room, name)
	}
}

func TestBindUnknownConnection(t *testing.T) {
	r := NewRegistry()
	if err := r.Bind("ghost", "r1", "alice"); !errors.Is(err, domain.ErrUnknownConn) {
		t.Fatalf("expected ErrUnknownConn, got %v", err)
	}
}

func TestRemoveReturnsBinding(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", &nullConn{}, nil)
	_ = r.Bind("c1", "r1", "alice")
	room, name, joined := r.Remove("c1")
	if !joined || room != "r1" || name != "alice" {
		t.Fatalf("expected r1/alice, got %s/%s joined=%v", room, name, joined)
	}
	if _, ok := r.Lookup("c1"); ok {
		t.Fatal("connection still present after remove")
	}
}

func TestRemoveInvokesCancel(t *testing.T) {
	r := NewRegistry()
	called := false
	r.Register("c1", &nullConn{}, func() { called = true })
	r.Remove("c1")
	if !called {
		t.Fatal("remove must release the connection context")
	}
}

func TestRemoveUnboundConnection(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", &nullConn{}, nil)
	if _, _, joined := r.Remove("c1"); joined {
		t.Fatal("unbound connection should report joined=false")
	}
}

func TestRemoveUnknownConnectionIsNoop(t *testing.T) {
	r := NewRegistry()
	if _, _, joined := r.Remove("ghost"); joined {
		t.Fatal("expected no-op for unknown connection")
	}
}

func TestConnsInRoom(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", &nullConn{}, nil)
	r.Register("c2", &nullConn{}, nil)
	r.Register("c3", &nullConn{}, nil)
	_ = r.Bind("c1", "r1", "alice")
	_ = r.Bind("c2", "r1", "bob")
	_ = r.Bind("c3", "r2", "carol")

	if got := len(r.ConnsInRoom("r1")); got != 2 {
		t.Fatalf("expected 2 connections in r1, got %d", got)
	}
	if got := len(r.ConnsInRoom("r2")); got != 1 {
		t.Fatalf("expected 1 connection in r2, got %d", got)
	}
}

func TestCancelAllInvokesCancels(t *testing.T) {
	r := NewRegistry()
	called := 0
	r.Register("c1", &nullConn{}, func() { called++ })
	r.Register("c2", &nullConn{}, func() { called++ })
	r.CancelAll()
	if called != 2 {
		t.Fatalf("expected 2 cancels, got %d", called)
	}
}
