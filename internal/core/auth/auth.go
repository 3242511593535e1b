// Package auth handles email/password sign-in against a configured token
// endpoint and caches the resulting credential on disk so the signed-in
// user survives process restarts.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"yeomju/internal/core/watch"
)

// User is the signed-in identity. Nil means signed out.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Provider signs users in and out and exposes the current user as an
// observable value. Other packages read the current user; only the CLI
// login/logout commands mutate it.
type Provider struct {
	endpoint  string
	cachePath string
	httpc     *http.Client
	current   *watch.Value[*User]
}

// NewProvider creates a provider that caches credentials under configDir.
// A previously cached credential is loaded immediately.
func NewProvider(endpoint, configDir string) *Provider {
	p := &Provider{
		endpoint:  endpoint,
		cachePath: filepath.Join(configDir, "credentials.json"),
		httpc:     &http.Client{Timeout: 10 * time.Second},
		current:   watch.NewValue[*User](nil),
	}
	if u := p.loadCache(); u != nil {
		p.current.Store(u)
	}
	return p
}

// Current returns the signed-in user, or nil.
func (p *Provider) Current() *User {
	return p.current.Load()
}

// Watch returns the observable current user.
func (p *Provider) Watch() *watch.Value[*User] {
	return p.current
}

// Token returns the current bearer token, empty when signed out. Suitable
// as the token callback of the remote client.
func (p *Provider) Token() string {
	if u := p.current.Load(); u != nil {
		return u.Token
	}
	return ""
}

// SignIn exchanges email/password for a credential, caches it and makes it
// the current user.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*User, error) {
	if p.endpoint == "" {
		return nil, fmt.Errorf("no auth endpoint configured")
	}

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("sign in failed: %s", resp.Status)
	}

	var payload struct {
		UserID string `json:"userId"`
		Email  string `json:"email"`
		Token  string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode sign-in response: %w", err)
	}
	if payload.UserID == "" || payload.Token == "" {
		return nil, fmt.Errorf("sign-in response missing user id or token")
	}

	u := &User{ID: payload.UserID, Email: payload.Email, Token: payload.Token}
	if u.Email == "" {
		u.Email = email
	}
	p.saveCache(u)
	p.current.Store(u)
	return u, nil
}

// SignOut clears the current user and deletes the cached credential.
func (p *Provider) SignOut() {
	p.current.Store(nil)
	_ = os.Remove(p.cachePath)
}

func (p *Provider) loadCache() *User {
	data, err := os.ReadFile(p.cachePath)
	if err != nil {
		return nil
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil || u.ID == "" {
		return nil
	}
	return &u
}

func (p *Provider) saveCache(u *User) {
	data, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(p.cachePath), 0755); err != nil {
		return
	}
	// Credential file: owner-only.
	_ = os.WriteFile(p.cachePath, data, 0600)
}
