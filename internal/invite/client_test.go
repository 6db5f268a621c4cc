package invite

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestAcceptPostsTokenAndPassword(t *testing.T) {
	var got acceptRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())
	if err := c.Accept(context.Background(), "tok-1", "hunter22"); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if got.Token != "tok-1" || got.Password != "hunter22" {
		t.Errorf("request = %+v", got)
	}
}

func TestAcceptNonOKIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer srv.Close()

	c := New(srv.URL, zap.NewNop())
	if err := c.Accept(context.Background(), "tok-1", "hunter22"); err == nil {
		t.Fatal("Accept() succeeded on 410")
	}
}

func TestAcceptUnreachableIsError(t *testing.T) {
	c := New("http://127.0.0.1:1/accept", zap.NewNop())
	if err := c.Accept(context.Background(), "tok-1", "hunter22"); err == nil {
		t.Fatal("Accept() succeeded against unreachable endpoint")
	}
}
