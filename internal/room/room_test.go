package room

import (
	"context"
	"testing"
	"time"
)

// recvSnapshot receives one snapshot with a timeout so tests never hang.
func recvSnapshot(t *testing.T, ch <-chan Snapshot, within time.Duration) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatalf("client outbox closed unexpectedly")
		}
		return snap
	case <-time.After(within):
		t.Fatalf("timed out waiting for snapshot")
		return Snapshot{} // unreachable
	}
}

func recvErr(t *testing.T, ch <-chan error, within time.Duration) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(within):
		t.Fatalf("timed out waiting for command result")
		return nil // unreachable
	}
}

func recvView(t *testing.T, ch <-chan View, within time.Duration) View {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(within):
		t.Fatalf("timed out waiting for view")
		return View{} // unreachable
	}
}

func TestJoinBroadcastsSnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRoom(ctx, NewState(testBoard4(), false), allowAll())

	out := make(chan Snapshot, 2)
	r.Inbox() <- Join{PlayerID: "p1", Name: "anna", Outbox: out}

	snap := recvSnapshot(t, out, 100*time.Millisecond)
	if snap.Version != 1 {
		t.Fatalf("after join: version = %d, want 1", snap.Version)
	}
	p, ok := snap.State.Players["p1"]
	if !ok || p.Name != "anna" {
		t.Fatalf("player not registered: %+v", snap.State.Players)
	}
}

func TestSubmitWordBroadcastsNewVersion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRoom(ctx, NewState(testBoard4(), false), allowAll())

	out := make(chan Snapshot, 4)
	r.Inbox() <- Join{PlayerID: "p1", Name: "anna", Outbox: out}
	first := recvSnapshot(t, out, 100*time.Millisecond)

	errs := make(chan error, 1)
	r.Inbox() <- FromClient{Cmd: submit("p1", "tea"), Errs: errs}
	if err := recvErr(t, errs, 100*time.Millisecond); err != nil {
		t.Fatalf("submit rejected: %v", err)
	}

	next := recvSnapshot(t, out, 100*time.Millisecond)
	if next.Version != first.Version+1 {
		t.Fatalf("version = %d, want %d", next.Version, first.Version+1)
	}
	if next.State.Players["p1"].Score == 0 {
		t.Fatal("score not applied")
	}
	if !containsEvent(next.Events, EvtWordAccepted) {
		t.Fatalf("snapshot events = %+v", next.Events)
	}
}

func TestRejectedCommandSendsErrorAndNoSnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRoom(ctx, NewState(testBoard4(), false), allowAll())

	out := make(chan Snapshot, 4)
	r.Inbox() <- Join{PlayerID: "p1", Name: "anna", Outbox: out}
	recvSnapshot(t, out, 100*time.Millisecond)

	errs := make(chan error, 1)
	r.Inbox() <- FromClient{Cmd: submit("p1", "zz"), Errs: errs}
	if err := recvErr(t, errs, 100*time.Millisecond); err == nil {
		t.Fatal("expected a rule error for a two-letter word")
	}

	select {
	case snap, ok := <-out:
		if ok {
			t.Fatalf("unexpected snapshot after rejection: %+v", snap)
		}
	case <-time.After(50 * time.Millisecond):
		// good: no broadcast
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRoom(ctx, NewState(testBoard4(), false), allowAll())

	// Zero-buffer outbox with no reader: the first broadcast drops it.
	stuck := make(chan Snapshot)
	r.Inbox() <- Join{PlayerID: "p1", Name: "anna", Outbox: stuck}

	// The channel gets closed as part of being dropped.
	select {
	case _, ok := <-stuck:
		if ok {
			t.Fatal("expected outbox to be closed, got a snapshot")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("stuck client was never dropped")
	}

	view := make(chan View, 1)
	r.Inbox() <- GetView{Reply: view}
	v := recvView(t, view, 100*time.Millisecond)
	if v.NumClients != 0 {
		t.Fatalf("clients = %d, want 0", v.NumClients)
	}
}

func TestLeaveKeepsScoreOnBoard(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRoom(ctx, NewState(testBoard4(), false), allowAll())

	out := make(chan Snapshot, 4)
	r.Inbox() <- Join{PlayerID: "p1", Name: "anna", Outbox: out}
	recvSnapshot(t, out, 100*time.Millisecond)

	errs := make(chan error, 1)
	r.Inbox() <- FromClient{Cmd: submit("p1", "tea"), Errs: errs}
	recvErr(t, errs, 100*time.Millisecond)
	recvSnapshot(t, out, 100*time.Millisecond)

	r.Inbox() <- Leave{PlayerID: "p1"}

	view := make(chan View, 1)
	r.Inbox() <- GetView{Reply: view}
	v := recvView(t, view, 100*time.Millisecond)
	if v.NumClients != 0 {
		t.Fatalf("clients = %d, want 0", v.NumClients)
	}
	if v.State.Players["p1"].Score == 0 {
		t.Fatal("score lost on leave")
	}
}

func TestLeaveClosesOutbox(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRoom(ctx, NewState(testBoard4(), false), allowAll())

	out := make(chan Snapshot, 2)
	r.Inbox() <- Join{PlayerID: "p1", Name: "anna", Outbox: out}
	recvSnapshot(t, out, 100*time.Millisecond)

	// A writer loop like the ws handler's: it must terminate once the
	// room lets go of the outbox.
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for range out {
		}
	}()

	r.Inbox() <- Leave{PlayerID: "p1"}

	select {
	case <-writerDone:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("outbox never closed after Leave; writer still blocked")
	}

	// Leaving twice must not panic the actor.
	r.Inbox() <- Leave{PlayerID: "p1"}
	view := make(chan View, 1)
	r.Inbox() <- GetView{Reply: view}
	if v := recvView(t, view, 100*time.Millisecond); v.NumClients != 0 {
		t.Fatalf("clients = %d, want 0", v.NumClients)
	}
}

func TestShutdownClosesOutboxes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRoom(ctx, NewState(testBoard4(), false), allowAll())

	out := make(chan Snapshot, 2)
	r.Inbox() <- Join{PlayerID: "p1", Name: "anna", Outbox: out}
	recvSnapshot(t, out, 100*time.Millisecond)

	r.Inbox() <- Shutdown{}

	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("expected closed outbox after shutdown")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("outbox never closed")
	}
}
