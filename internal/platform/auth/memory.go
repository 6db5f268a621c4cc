package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var emailRegexp = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Memory is an in-process Service used by --local development mode and
// tests. Passwords are bcrypt-hashed and sessions carry real HS256 tokens so
// the rest of the client behaves exactly as it does against the hosted
// service.
type Memory struct {
	mu         sync.Mutex
	accounts   map[string]memAccount // keyed by lowercased email
	signingKey []byte
	tokenTTL   time.Duration
}

type memAccount struct {
	uid          string
	email        string
	passwordHash []byte
}

// NewMemory creates an empty in-memory identity service.
func NewMemory() *Memory {
	key := make([]byte, 32)
	_, _ = rand.Read(key)
	return &Memory{
		accounts:   make(map[string]memAccount),
		signingKey: key,
		tokenTTL:   time.Hour,
	}
}

// SignUp implements Service.
func (m *Memory) SignUp(_ context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegexp.MatchString(email) {
		return nil, &Error{Code: CodeInvalidEmail}
	}
	if len(password) < 6 {
		return nil, &Error{Code: CodeWeakPassword}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.accounts[email]; exists {
		return nil, &Error{Code: CodeEmailInUse}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &Error{Code: CodeUnknown, Err: fmt.Errorf("hash password: %w", err)}
	}

	acct := memAccount{
		uid:          strings.ReplaceAll(uuid.New().String(), "-", ""),
		email:        email,
		passwordHash: hash,
	}
	m.accounts[email] = acct
	return m.issueSession(acct)
}

// SignIn implements Service.
func (m *Memory) SignIn(_ context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegexp.MatchString(email) {
		return nil, &Error{Code: CodeInvalidEmail}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	acct, exists := m.accounts[email]
	if !exists {
		return nil, &Error{Code: CodeUserNotFound}
	}
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)); err != nil {
		return nil, &Error{Code: CodeWrongPassword}
	}
	return m.issueSession(acct)
}

// SignOut implements Service. Local tokens are stateless, so there is
// nothing to revoke.
func (m *Memory) SignOut(context.Context, string) error {
	return nil
}

func (m *Memory) issueSession(acct memAccount) (*Session, error) {
	now := time.Now()
	expires := now.Add(m.tokenTTL)
	claims := TokenClaims{
		Email: acct.email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acct.uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
	if err != nil {
		return nil, &Error{Code: CodeUnknown, Err: fmt.Errorf("sign token: %w", err)}
	}
	return &Session{
		UID:       acct.uid,
		Email:     acct.email,
		IDToken:   token,
		ExpiresAt: expires,
	}, nil
}
