package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// REST talks to the hosted identity endpoint over JSON/HTTP.
// No client-side timeout is applied; a hung call hangs its initiating
// operation until the caller's context is cancelled.
type REST struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewREST creates an adapter for the identity endpoint at baseURL.
func NewREST(baseURL string, logger *zap.Logger) *REST {
	return &REST{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		logger:  logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // seconds
}

type errorResponse struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

// SignIn implements Service.
func (r *REST) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return r.credentialCall(ctx, "/v1/signin", email, password)
}

// SignUp implements Service.
func (r *REST) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return r.credentialCall(ctx, "/v1/signup", email, password)
}

// SignOut implements Service.
func (r *REST) SignOut(ctx context.Context, idToken string) error {
	body, _ := json.Marshal(map[string]string{"idToken": idToken})
	resp, err := r.post(ctx, "/v1/signout", body)
	if err != nil {
		return &Error{Code: CodeNetwork, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}

func (r *REST) credentialCall(ctx context.Context, path, email, password string) (*Session, error) {
	body, err := json.Marshal(credentialsRequest{Email: email, Password: password})
	if err != nil {
		return nil, &Error{Code: CodeUnknown, Err: err}
	}

	resp, err := r.post(ctx, path, body)
	if err != nil {
		r.logger.Warn("identity endpoint unreachable", zap.String("path", path), zap.Error(err))
		return nil, &Error{Code: CodeNetwork, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var sr sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, &Error{Code: CodeUnknown, Err: fmt.Errorf("decode session response: %w", err)}
	}

	sess := &Session{
		UID:          sr.UID,
		Email:        sr.Email,
		IDToken:      sr.IDToken,
		RefreshToken: sr.RefreshToken,
	}
	if sr.ExpiresIn > 0 {
		sess.ExpiresAt = time.Now().Add(time.Duration(sr.ExpiresIn) * time.Second)
	}
	// Fill gaps defensively from the token itself.
	if uid, tokenEmail, exp, err := ParseToken(sr.IDToken); err == nil {
		if sess.UID == "" {
			sess.UID = uid
		}
		if sess.Email == "" {
			sess.Email = tokenEmail
		}
		if sess.ExpiresAt.IsZero() {
			sess.ExpiresAt = exp
		}
	}
	return sess, nil
}

func (r *REST) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return r.client.Do(req)
}

func decodeError(resp *http.Response) *Error {
	var er errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&er)
	return &Error{
		Code: mapBackendCode(er.Error.Code),
		Err:  fmt.Errorf("identity endpoint returned %d (%s)", resp.StatusCode, er.Error.Code),
	}
}

func mapBackendCode(code string) Code {
	switch code {
	case "INVALID_PASSWORD", "WRONG_PASSWORD":
		return CodeWrongPassword
	case "EMAIL_NOT_FOUND", "USER_NOT_FOUND":
		return CodeUserNotFound
	case "INVALID_EMAIL":
		return CodeInvalidEmail
	case "EMAIL_EXISTS":
		return CodeEmailInUse
	case "WEAK_PASSWORD":
		return CodeWeakPassword
	default:
		return CodeUnknown
	}
}
