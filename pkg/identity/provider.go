package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"worktracker/pkg/user"
)

var ErrAuth = errors.New("authentication failed")

type Config struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// OAuth2 is the part of *oauth2.Config the provider needs.
type OAuth2 interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
}

// IDClaims are the ID token claims read on sign-in.
type IDClaims struct {
	Subject string `json:"sub"`
	Nonce   string `json:"nonce"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

type VerifyFunc func(ctx context.Context, rawIDToken string) (*IDClaims, error)

// Listener observes sign-in and sign-out. u is nil on sign-out.
type Listener func(ctx context.Context, u *user.User)

type Provider struct {
	oauth  OAuth2
	verify VerifyFunc

	mu        sync.RWMutex
	listeners map[int]Listener
	nextID    int
}

// NewProvider discovers the issuer and builds a provider for the
// authorization code flow.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	oauth := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     provider.Endpoint(),
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})

	return New(oauth, func(ctx context.Context, raw string) (*IDClaims, error) {
		token, err := verifier.Verify(ctx, raw)
		if err != nil {
			return nil, err
		}
		var c IDClaims
		if err := token.Claims(&c); err != nil {
			return nil, err
		}
		return &c, nil
	}), nil
}

func New(oauth OAuth2, verify VerifyFunc) *Provider {
	return &Provider{
		oauth:     oauth,
		verify:    verify,
		listeners: make(map[int]Listener),
	}
}

func (p *Provider) AuthCodeURL(state, nonce string) string {
	return p.oauth.AuthCodeURL(state, oidc.Nonce(nonce))
}

// SignIn exchanges an authorization code and verifies the returned ID token.
// Every failure wraps ErrAuth.
func (p *Provider) SignIn(ctx context.Context, code, nonce string) (*user.User, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: token exchange: %v", ErrAuth, err)
	}

	raw, ok := token.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, fmt.Errorf("%w: no id token in response", ErrAuth)
	}

	c, err := p.verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: id token: %v", ErrAuth, err)
	}
	if c.Nonce != nonce {
		return nil, fmt.Errorf("%w: nonce mismatch", ErrAuth)
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrAuth)
	}

	u := &user.User{ID: c.Subject, DisplayName: c.Name, Email: c.Email}
	p.notify(ctx, u)
	return u, nil
}

func (p *Provider) SignOut(ctx context.Context) {
	p.notify(ctx, nil)
}

// OnAuthStateChanged registers l and returns a func that removes it.
func (p *Provider) OnAuthStateChanged(l Listener) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = l
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *Provider) notify(ctx context.Context, u *user.User) {
	p.mu.RLock()
	ls := make([]Listener, 0, len(p.listeners))
	for _, l := range p.listeners {
		ls = append(ls, l)
	}
	p.mu.RUnlock()

	for _, l := range ls {
		l(ctx, u)
	}
}
