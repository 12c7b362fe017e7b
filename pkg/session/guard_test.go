package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blackcoderx/postmaiden/pkg/opfs"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGuard_Activate(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	g := NewGuard(store, time.Millisecond, nil)

	if g.State() != Inactive {
		t.Fatalf("initial state = %v, want inactive", g.State())
	}
	if err := g.Activate(ctx); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if g.State() != Active {
		t.Errorf("state = %v, want active", g.State())
	}

	stored, err := store.RetrieveClientSessionUUID(ctx)
	if err != nil {
		t.Fatalf("RetrieveClientSessionUUID: %v", err)
	}
	if stored != g.ID() {
		t.Errorf("stored = %q, want %q", stored, g.ID())
	}

	first := g.ID()
	if err := g.Activate(ctx); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if g.ID() != first {
		t.Errorf("ID changed on re-activation: %q -> %q", first, g.ID())
	}
}

func TestGuard_CheckDetectsTakeover(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	mine := NewGuard(store, time.Hour, nil)
	theirs := NewGuard(store, time.Hour, nil)

	if err := mine.Activate(ctx); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if state, err := mine.Check(ctx); err != nil || state != Active {
		t.Fatalf("Check = %v, %v; want active", state, err)
	}

	if err := theirs.Activate(ctx); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	state, err := mine.Check(ctx)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if state != Superseded {
		t.Errorf("state = %v, want superseded", state)
	}

	// Claiming back supersedes the other guard on its next check.
	if err := mine.Activate(ctx); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if state, _ := theirs.Check(ctx); state != Superseded {
		t.Errorf("other state = %v, want superseded", state)
	}
}

func TestGuard_InactiveDoesNotRead(t *testing.T) {
	store, _ := newTestStore(t)
	g := NewGuard(store, time.Hour, nil)

	state, err := g.Check(context.Background())
	if err != nil || state != Inactive {
		t.Errorf("Check = %v, %v; want inactive, nil", state, err)
	}
}

func TestGuard_RunEmitsSuperseded(t *testing.T) {
	store, _ := newTestStore(t)
	g := NewGuard(store, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := g.Activate(ctx); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if got := <-g.Changes(); got != Active {
		t.Fatalf("first change = %v, want active", got)
	}

	done := make(chan error, 1)
	go func() { done <- g.Run(ctx) }()

	if err := store.PersistClientSessionUUID(ctx, uuid.NewString()); err != nil {
		t.Fatalf("PersistClientSessionUUID: %v", err)
	}

	select {
	case got := <-g.Changes():
		if got != Superseded {
			t.Errorf("change = %v, want superseded", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for takeover")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
}

// unreadableFs fails every Open once broken is set.
type unreadableFs struct {
	afero.Fs
	broken atomic.Bool
}

func (f *unreadableFs) Open(name string) (afero.File, error) {
	if f.broken.Load() {
		return nil, errors.New("storage unavailable")
	}
	return f.Fs.Open(name)
}

func TestGuard_RunLogsReadFailures(t *testing.T) {
	fs := &unreadableFs{Fs: afero.NewMemMapFs()}
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)
	store := NewStore(opfs.NewRegistry(opfs.NewRoot(fs, logger)))
	g := NewGuard(store, 5*time.Millisecond, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := g.Activate(ctx); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	fs.broken.Store(true)

	done := make(chan error, 1)
	go func() { done <- g.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for logs.FilterMessage("failed to check client session").Len() < 2 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for repeated warnings")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if g.State() != Active {
		t.Errorf("state = %v, want active after read failures", g.State())
	}

	cancel()
	<-done
}

func TestState_String(t *testing.T) {
	tests := map[State]string{Inactive: "inactive", Active: "active", Superseded: "superseded"}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}
