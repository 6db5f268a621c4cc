package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wolfpackhq/wolfpack/internal/bus"
	"github.com/wolfpackhq/wolfpack/internal/platform/auth"
	"github.com/wolfpackhq/wolfpack/internal/platform/docstore"
	"github.com/wolfpackhq/wolfpack/internal/store"
)

// Manager owns the single process-wide session. It restores the persisted
// session on startup, drives the gate on every change, and keeps the SQLite
// token cache in step so the session survives restarts.
type Manager struct {
	auth   auth.Service
	docs   docstore.Client
	db     *store.DB
	gate   *Gate
	bus    *bus.Bus
	logger *zap.Logger

	mu      sync.RWMutex
	current *auth.Session
}

// NewManager creates a session manager.
func NewManager(svc auth.Service, docs docstore.Client, db *store.DB, gate *Gate, b *bus.Bus, logger *zap.Logger) *Manager {
	return &Manager{
		auth:   svc,
		docs:   docs,
		db:     db,
		gate:   gate,
		bus:    b,
		logger: logger,
	}
}

// Start restores the persisted session, if any, and routes the gate out of
// Booting. Called once during application startup.
func (m *Manager) Start(context.Context) error {
	saved, err := m.db.LoadSession()
	if err != nil {
		return fmt.Errorf("load persisted session: %w", err)
	}
	if saved == nil {
		m.logger.Info("no persisted session")
		return m.gate.Transition(SignedOut)
	}

	sess := &auth.Session{
		UID:          saved.UID,
		Email:        saved.Email,
		IDToken:      saved.IDToken,
		RefreshToken: saved.RefreshToken,
	}
	if saved.ExpiresAt > 0 {
		sess.ExpiresAt = time.UnixMilli(saved.ExpiresAt)
	}

	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()

	m.logger.Info("restored persisted session", zap.String("uid", sess.UID))
	return m.gate.Transition(SignedIn)
}

// Current returns the active session, or nil when signed out.
func (m *Manager) Current() *auth.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// SignIn authenticates, persists the session, and routes the gate.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	sess, err := m.auth.SignIn(ctx, email, password)
	if err != nil {
		m.logger.Warn("sign in failed", zap.String("code", string(auth.ErrorCode(err))))
		return err
	}
	return m.adopt(sess)
}

// SignOut revokes the session best-effort, clears the token cache, and
// routes the gate. Local state is dropped even if revocation fails.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	sess := m.current
	m.current = nil
	m.mu.Unlock()

	if sess != nil {
		if err := m.auth.SignOut(ctx, sess.IDToken); err != nil {
			m.logger.Warn("remote sign out failed", zap.Error(err))
		}
	}
	if err := m.db.ClearSession(); err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}
	if err := m.gate.Transition(SignedOut); err != nil {
		return err
	}
	m.bus.Emit(bus.KindSessionSignedOut, nil)
	return nil
}

// adopt installs a freshly authenticated session: persist, route, announce.
func (m *Manager) adopt(sess *auth.Session) error {
	saved := &store.SavedSession{
		UID:          sess.UID,
		Email:        sess.Email,
		IDToken:      sess.IDToken,
		RefreshToken: sess.RefreshToken,
	}
	if !sess.ExpiresAt.IsZero() {
		saved.ExpiresAt = sess.ExpiresAt.UnixMilli()
	}
	if err := m.db.SaveSession(saved); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()

	if err := m.gate.Transition(SignedIn); err != nil {
		return err
	}
	m.bus.Emit(bus.KindSessionSignedIn, sess)
	m.logger.Info("signed in", zap.String("uid", sess.UID))
	return nil
}
