package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func authServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"userId": "u1",
			"email":  creds["email"],
			"token":  "tok-abc",
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSignInAndOut(t *testing.T) {
	srv := authServer(t)
	dir := t.TempDir()
	p := NewProvider(srv.URL, dir)

	if p.Current() != nil {
		t.Fatal("fresh provider should be signed out")
	}
	if p.Token() != "" {
		t.Fatal("signed-out provider should have no token")
	}

	u, err := p.SignIn(context.Background(), "me@example.com", "secret")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if u.ID != "u1" || u.Email != "me@example.com" {
		t.Errorf("SignIn() = %+v", u)
	}
	if p.Token() != "tok-abc" {
		t.Errorf("Token() = %q, want tok-abc", p.Token())
	}

	p.SignOut()
	if p.Current() != nil || p.Token() != "" {
		t.Error("SignOut() should clear the current user")
	}
	if _, err := os.Stat(filepath.Join(dir, "credentials.json")); !os.IsNotExist(err) {
		t.Error("SignOut() should delete the credential cache")
	}
}

func TestSignInBadPassword(t *testing.T) {
	srv := authServer(t)
	p := NewProvider(srv.URL, t.TempDir())

	if _, err := p.SignIn(context.Background(), "me@example.com", "wrong"); err == nil {
		t.Fatal("SignIn() with bad password should fail")
	}
	if p.Current() != nil {
		t.Error("failed sign-in must not set a current user")
	}
}

func TestSignInNoEndpoint(t *testing.T) {
	p := NewProvider("", t.TempDir())
	if _, err := p.SignIn(context.Background(), "a@b.c", "x"); err == nil {
		t.Fatal("SignIn() without endpoint should fail")
	}
}

func TestCachedCredentialSurvivesRestart(t *testing.T) {
	srv := authServer(t)
	dir := t.TempDir()

	p := NewProvider(srv.URL, dir)
	if _, err := p.SignIn(context.Background(), "me@example.com", "secret"); err != nil {
		t.Fatal(err)
	}

	// A new provider over the same config dir picks the credential back up.
	p2 := NewProvider(srv.URL, dir)
	u := p2.Current()
	if u == nil || u.ID != "u1" || u.Token != "tok-abc" {
		t.Errorf("restarted provider user = %+v, want cached u1", u)
	}
}
