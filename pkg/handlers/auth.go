package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"worktracker/pkg/authsession"
	"worktracker/pkg/claims"
	"worktracker/pkg/generator"
	"worktracker/pkg/identity"
	"worktracker/pkg/middleware"
	"worktracker/pkg/user"
)

const (
	stateCookie  = "wt_oidc_state"
	nonceCookie  = "wt_oidc_nonce"
	lenState     = 24
	cookieMaxAge = 300
	tokenTTL     = time.Hour
)

type Authenticator interface {
	AuthCodeURL(state, nonce string) string
	SignIn(ctx context.Context, code, nonce string) (*user.User, error)
	SignOut(ctx context.Context)
}

type AuthHandler struct {
	Identity Authenticator
	Sessions authsession.Repository
	Users    user.ServiceUser
	Secret   []byte
	Logger   *slog.Logger
}

func NewAuthHandler(identity Authenticator, sessions authsession.Repository, users user.ServiceUser, secret []byte, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		Identity: identity,
		Sessions: sessions,
		Users:    users,
		Secret:   secret,
		Logger:   logger,
	}
}

// Login redirects to the identity provider. State and nonce travel in short
// lived cookies and are checked on the callback.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, nonce, err := generator.StateAndNonce(lenState)
	if err != nil {
		h.Logger.Error("state gen", "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "internal error")
		return
	}

	setCookie(w, r, stateCookie, state, cookieMaxAge)
	setCookie(w, r, nonceCookie, nonce, cookieMaxAge)
	http.Redirect(w, r, h.Identity.AuthCodeURL(state, nonce), http.StatusFound)
}

func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if e := r.FormValue("error"); e != "" {
		writeError(w, http.StatusBadRequest, typeMessage, "authorization failed: "+e)
		return
	}

	code := r.FormValue("code")
	state := r.FormValue("state")
	if code == "" || state == "" {
		writeError(w, http.StatusBadRequest, typeMessage, "missing code or state")
		return
	}

	sc, err := r.Cookie(stateCookie)
	if err != nil || sc.Value != state {
		writeError(w, http.StatusBadRequest, typeMessage, "invalid state")
		return
	}
	nc, err := r.Cookie(nonceCookie)
	if err != nil {
		writeError(w, http.StatusBadRequest, typeMessage, "invalid state")
		return
	}
	setCookie(w, r, stateCookie, "", -1)
	setCookie(w, r, nonceCookie, "", -1)

	u, err := h.Identity.SignIn(r.Context(), code, nc.Value)
	if err != nil {
		middleware.RecordAuthAttempt(false)
		if errors.Is(err, identity.ErrAuth) {
			h.Logger.Info("sign-in rejected", "error", err)
			writeError(w, http.StatusUnauthorized, typeMessage, "authentication failed")
			return
		}
		h.Logger.Error("sign-in", "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "internal error")
		return
	}
	middleware.RecordAuthAttempt(true)

	h.issueToken(w, r, u)
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, r *http.Request, u *user.User) {
	s, err := h.Sessions.Create(r.Context(), u.ID, tokenTTL)
	if err != nil {
		h.Logger.Error("create sign-in session", "user", u.ID, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "failed to create session")
		return
	}

	c := claims.New(claims.User{ID: u.ID, Name: u.DisplayName, Email: u.Email}, s.ID, time.Now(), tokenTTL)
	token, err := c.Sign(h.Secret)
	if err != nil {
		h.Logger.Error("token signing", "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "internal error")
		return
	}

	if ok := WriteResp(w, h.Logger, map[string]any{"token": token}, http.StatusOK); ok {
		h.Logger.Info("login", "user", u.ID)
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var c claims.Claims
	if ok := getClaimsFromContext(w, r, &c); !ok {
		return
	}

	if err := h.Sessions.Invalidate(r.Context(), c.User.ID); err != nil {
		h.Logger.Error("invalidate sign-in sessions", "user", c.User.ID, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "failed to sign out")
		return
	}
	h.Identity.SignOut(r.Context())

	if ok := WriteResp(w, h.Logger, map[string]any{"message": "signed out"}, http.StatusOK); ok {
		h.Logger.Info("logout", "user", c.User.ID)
	}
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	var c claims.Claims
	if ok := getClaimsFromContext(w, r, &c); !ok {
		return
	}

	u, err := h.Users.Get(r.Context(), c.User.ID)
	if errors.Is(err, user.ErrNotFound) {
		writeError(w, http.StatusNotFound, typeMessage, err.Error())
		return
	}
	if err != nil {
		h.Logger.Error("get profile", "user", c.User.ID, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "internal error")
		return
	}

	writeJSON(w, h.Logger, u)
}

func setCookie(w http.ResponseWriter, r *http.Request, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/api/auth",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}
