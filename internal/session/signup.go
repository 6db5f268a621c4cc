package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wolfpackhq/wolfpack/internal/platform/docstore"
)

// ErrInvalidCode means the invitation code does not exist (or was already
// consumed). No account is created.
var ErrInvalidCode = errors.New("session: invalid invitation code")

const (
	invitationCollection = "invitationCodes"
	userCollection       = "users"
)

// SignUp creates an account behind an invitation code. The code is checked
// before the account exists, the user profile is written after, and the code
// is consumed last so a failed sign-up never burns it.
func (m *Manager) SignUp(ctx context.Context, email, password, inviteCode string) error {
	inviteCode = strings.TrimSpace(inviteCode)
	if inviteCode == "" {
		return ErrInvalidCode
	}
	if _, err := m.docs.Get(ctx, invitationCollection, inviteCode); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			m.logger.Info("rejected unknown invitation code")
			return ErrInvalidCode
		}
		return fmt.Errorf("check invitation code: %w", err)
	}

	sess, err := m.auth.SignUp(ctx, email, password)
	if err != nil {
		return err
	}

	if err := m.docs.Set(ctx, userCollection, sess.UID, map[string]any{
		"email": sess.Email,
		"role":  "member",
	}); err != nil {
		return fmt.Errorf("write user profile: %w", err)
	}

	if err := m.docs.Delete(ctx, invitationCollection, inviteCode); err != nil {
		// Account and profile exist; a leftover code is recoverable by hand.
		m.logger.Warn("failed to consume invitation code", zap.Error(err))
	}

	return m.adopt(sess)
}
