package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/datamesh/mesh-console/pkg/auth"
	"github.com/datamesh/mesh-console/pkg/config/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	tokenLength = 32
	// errorParam carries the reason of a failed login back to the login page.
	errorParam = "error"
)

type OAuth2 interface {
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	SignupURL(state string) string
	LogoutURL() string
	VerifyClaims(ctx context.Context, rawIDToken string) (*auth.Claims, error)
}

type HTTP struct {
	oauth2Config OAuth2
	gate         *auth.RegistrationGate
	sessions     auth.SessionStore
	cookies      config.Cookies
	log          *logrus.Entry
}

func NewHTTP(oauth2Config OAuth2, gate *auth.RegistrationGate, sessions auth.SessionStore, cookies config.Cookies, log *logrus.Entry) HTTP {
	return HTTP{
		oauth2Config: oauth2Config,
		gate:         gate,
		sessions:     sessions,
		cookies:      cookies,
		log:          log,
	}
}

func (h HTTP) Login(w http.ResponseWriter, r *http.Request) {
	h.setRedirectCookie(w, r)

	oauthState := uuid.New().String()
	h.setCookie(w, h.cookies.OauthState, oauthState)

	http.Redirect(w, r, h.oauth2Config.AuthCodeURL(oauthState), http.StatusFound)
}

// Signup sends the browser to the sign up form of the hosted UI, it is only
// open to whoever holds the registration token of the deployment.
func (h HTTP) Signup(w http.ResponseWriter, r *http.Request) {
	if !h.gate.Enabled(r) {
		h.log.Info("Signup attempted without a valid registration token")
		http.Error(w, "registration is not enabled", http.StatusForbidden)

		return
	}

	h.setRedirectCookie(w, r)

	oauthState := uuid.New().String()
	h.setCookie(w, h.cookies.OauthState, oauthState)

	http.Redirect(w, r, h.oauth2Config.SignupURL(oauthState), http.StatusFound)
}

func (h HTTP) Callback(w http.ResponseWriter, r *http.Request) {
	landingPage := "/"

	redirectURI, err := r.Cookie(h.cookies.Redirect.Name)
	if err == nil && isLocalPath(redirectURI.Value) {
		landingPage = redirectURI.Value
	}

	h.deleteCookie(w, h.cookies.Redirect)

	code := r.URL.Query().Get("code")
	if len(code) == 0 {
		h.loginFailed(w, r, "unauthenticated")
		return
	}

	oauthCookie, err := r.Cookie(h.cookies.OauthState.Name)
	if err != nil {
		h.log.Errorf("Missing oauth state cookie: %v", err)
		h.loginFailed(w, r, "invalid-state")

		return
	}

	h.deleteCookie(w, h.cookies.OauthState)

	state := r.URL.Query().Get("state")
	if state != oauthCookie.Value {
		h.log.Info("Incoming state does not match local state")
		h.loginFailed(w, r, "invalid-state")

		return
	}

	tokens, err := h.oauth2Config.Exchange(r.Context(), code)
	if err != nil {
		h.log.Errorf("Exchanging authorization code for tokens: %v", err)
		h.loginFailed(w, r, "unauthenticated")

		return
	}

	rawIDToken, ok := tokens.Extra("id_token").(string)
	if !ok {
		h.log.Info("Missing id_token")
		h.loginFailed(w, r, "unauthenticated")

		return
	}

	claims, err := h.oauth2Config.VerifyClaims(r.Context(), rawIDToken)
	if err != nil {
		h.log.WithError(err).Info("Invalid id_token")
		h.loginFailed(w, r, "unauthenticated")

		return
	}

	session := &auth.Session{
		Token:        generateSecureToken(tokenLength),
		IDToken:      rawIDToken,
		RefreshToken: tokens.RefreshToken,
		Username:     claims.Username,
		Email:        claims.Email,
		DomainIDs:    claims.DomainIDs,
		Expires:      claims.Expiry,
	}

	if err := h.sessions.CreateSession(r.Context(), session); err != nil {
		h.log.WithError(err).Error("Unable to store session")
		h.loginFailed(w, r, "unauthenticated")

		return
	}

	h.setCookie(w, h.cookies.Session, session.Token)

	http.Redirect(w, r, landingPage, http.StatusFound)
}

func (h HTTP) Logout(w http.ResponseWriter, r *http.Request) {
	h.deleteCookie(w, h.cookies.Session)

	session, err := r.Cookie(h.cookies.Session.Name)
	if err != nil {
		h.log.WithError(err).Info("Unable to logout session")
	} else if err := h.sessions.DeleteSession(r.Context(), session.Value); err != nil {
		h.log.WithError(err).Info("Unable to delete session from database")
	}

	http.Redirect(w, r, h.oauth2Config.LogoutURL(), http.StatusFound)
}

func (h HTTP) loginFailed(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, auth.LoginPath+"?"+errorParam+"="+url.QueryEscape(reason), http.StatusFound)
}

func (h HTTP) setRedirectCookie(w http.ResponseWriter, r *http.Request) {
	redirectURI := r.URL.Query().Get("redirect_uri")
	if !isLocalPath(redirectURI) {
		return
	}

	h.setCookie(w, h.cookies.Redirect, redirectURI)
}

func (h HTTP) setCookie(w http.ResponseWriter, settings config.CookieSettings, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     settings.Name,
		Value:    value,
		Path:     settings.Path,
		Domain:   settings.Domain,
		MaxAge:   settings.MaxAge,
		SameSite: settings.GetSameSite(),
		Secure:   settings.Secure,
		HttpOnly: settings.HttpOnly,
	})
}

func (h HTTP) deleteCookie(w http.ResponseWriter, settings config.CookieSettings) {
	http.SetCookie(w, &http.Cookie{
		Name:     settings.Name,
		Value:    "",
		Path:     settings.Path,
		Domain:   settings.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		SameSite: settings.GetSameSite(),
		Secure:   settings.Secure,
		HttpOnly: settings.HttpOnly,
	})
}

// isLocalPath only lets the login flow return to pages of the console.
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}

func generateSecureToken(length int) string {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return ""
	}

	return hex.EncodeToString(b)
}
