package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/wolfpackhq/wolfpack/internal/bus"
	"github.com/wolfpackhq/wolfpack/internal/platform/auth"
	"github.com/wolfpackhq/wolfpack/internal/platform/docstore"
	"github.com/wolfpackhq/wolfpack/internal/store"
)

func newTestManager(t *testing.T) (*Manager, *docstore.Memory, *bus.Bus, *store.DB) {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "wolfpack.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	b := bus.New()
	docs := docstore.NewMemory()
	m := NewManager(auth.NewMemory(), docs, db, NewGate(b), b, zap.NewNop())
	return m, docs, b, db
}

func waitEvent(t *testing.T, ch <-chan bus.Event, kind string) bus.Event {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Kind == kind {
				return evt
			}
		case <-deadline:
			t.Fatalf("no %s event", kind)
		}
	}
}

func TestStartWithoutPersistedSession(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if m.gate.Current() != SignedOut {
		t.Errorf("gate = %s, want SIGNED_OUT", m.gate.Current())
	}
	if m.Current() != nil {
		t.Error("Current() != nil without persisted session")
	}
}

func TestStartRestoresPersistedSession(t *testing.T) {
	m, _, _, db := newTestManager(t)
	err := db.SaveSession(&store.SavedSession{
		UID:       "u-1",
		Email:     "alpha@pack.io",
		IDToken:   "tok",
		ExpiresAt: time.Now().Add(time.Hour).UnixMilli(),
	})
	if err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if m.gate.Current() != SignedIn {
		t.Errorf("gate = %s, want SIGNED_IN", m.gate.Current())
	}
	sess := m.Current()
	if sess == nil || sess.UID != "u-1" || sess.Email != "alpha@pack.io" {
		t.Errorf("restored session = %+v", sess)
	}
}

func TestSignInPersistsAndRoutes(t *testing.T) {
	m, _, b, db := newTestManager(t)
	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if _, err := m.auth.SignUp(ctx, "alpha@pack.io", "hunter22"); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	ch, unsub := b.Subscribe("session.", 8)
	defer unsub()

	if err := m.SignIn(ctx, "alpha@pack.io", "hunter22"); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	waitEvent(t, ch, bus.KindSessionSignedIn)

	if m.gate.Current() != SignedIn {
		t.Errorf("gate = %s, want SIGNED_IN", m.gate.Current())
	}
	saved, err := db.LoadSession()
	if err != nil {
		t.Fatalf("LoadSession() error = %v", err)
	}
	if saved == nil || saved.Email != "alpha@pack.io" {
		t.Errorf("persisted session = %+v", saved)
	}
}

func TestSignInFailureLeavesGateAlone(t *testing.T) {
	m, _, _, db := newTestManager(t)
	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	err := m.SignIn(ctx, "nobody@pack.io", "hunter22")
	if auth.ErrorCode(err) != auth.CodeUserNotFound {
		t.Fatalf("code = %v, want %v", auth.ErrorCode(err), auth.CodeUserNotFound)
	}
	if m.gate.Current() != SignedOut {
		t.Errorf("gate = %s, want SIGNED_OUT", m.gate.Current())
	}
	if saved, _ := db.LoadSession(); saved != nil {
		t.Error("failed sign-in persisted a session")
	}
}

func TestSignOutClearsEverything(t *testing.T) {
	m, _, b, db := newTestManager(t)
	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := m.auth.SignUp(ctx, "alpha@pack.io", "hunter22"); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	if err := m.SignIn(ctx, "alpha@pack.io", "hunter22"); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	ch, unsub := b.Subscribe("session.", 8)
	defer unsub()

	if err := m.SignOut(ctx); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	waitEvent(t, ch, bus.KindSessionSignedOut)

	if m.Current() != nil {
		t.Error("Current() != nil after sign out")
	}
	if m.gate.Current() != SignedOut {
		t.Errorf("gate = %s, want SIGNED_OUT", m.gate.Current())
	}
	if saved, _ := db.LoadSession(); saved != nil {
		t.Error("session still persisted after sign out")
	}
}

func TestSignUpConsumesInvitationCode(t *testing.T) {
	m, docs, _, _ := newTestManager(t)
	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := docs.Set(ctx, "invitationCodes", "WOLF-42", map[string]any{"issuedBy": "admin"}); err != nil {
		t.Fatalf("seed code: %v", err)
	}

	if err := m.SignUp(ctx, "beta@pack.io", "hunter22", "WOLF-42"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	sess := m.Current()
	if sess == nil {
		t.Fatal("no session after sign up")
	}
	profile, err := docs.Get(ctx, "users", sess.UID)
	if err != nil {
		t.Fatalf("user profile not written: %v", err)
	}
	if profile.String("role") != "member" || profile.String("email") != "beta@pack.io" {
		t.Errorf("profile = %+v", profile)
	}
	if _, err := docs.Get(ctx, "invitationCodes", "WOLF-42"); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("invitation code not consumed: %v", err)
	}
	if m.gate.Current() != SignedIn {
		t.Errorf("gate = %s, want SIGNED_IN", m.gate.Current())
	}
}

func TestSignUpRejectsUnknownCode(t *testing.T) {
	m, docs, _, _ := newTestManager(t)
	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	err := m.SignUp(ctx, "beta@pack.io", "hunter22", "NOPE")
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("error = %v, want ErrInvalidCode", err)
	}
	if m.Current() != nil {
		t.Error("session created despite invalid code")
	}
	if _, err := docs.Get(ctx, "users", "any"); !errors.Is(err, docstore.ErrNotFound) {
		t.Error("unexpected user profile write")
	}
	if _, err := m.auth.SignIn(ctx, "beta@pack.io", "hunter22"); auth.ErrorCode(err) != auth.CodeUserNotFound {
		t.Error("account was created despite invalid code")
	}
}
