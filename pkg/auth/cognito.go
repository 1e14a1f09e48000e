package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/datamesh/mesh-console/pkg/config/v2"
	"golang.org/x/oauth2"
)

// Cognito is the OpenID Connect provider backing the login gate. The hosted
// UI adds signup and logout endpoints that are not in the discovery
// document.
type Cognito struct {
	oauth2.Config

	hostedUIURL       string
	logoutRedirectURL string
	domainsClaim      string

	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
}

func NewCognito(ctx context.Context, cfg config.Oauth) (*Cognito, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("discovering oidc provider: %w", err)
	}

	return &Cognito{
		Config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
		hostedUIURL:       strings.TrimSuffix(cfg.HostedUIURL, "/"),
		logoutRedirectURL: cfg.LogoutRedirectURL,
		domainsClaim:      cfg.DomainsClaim,
		provider:          provider,
		verifier:          provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// VerifyClaims verifies the signature, audience and expiry of the ID token
// and returns the claims the console uses.
func (c *Cognito) VerifyClaims(ctx context.Context, rawIDToken string) (*Claims, error) {
	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("verifying id token: %w", err)
	}

	raw := map[string]interface{}{}

	err = idToken.Claims(&raw)
	if err != nil {
		return nil, fmt.Errorf("parsing id token claims: %w", err)
	}

	return ClaimsFromMap(raw, c.domainsClaim, idToken.Expiry), nil
}

// SignupURL is the hosted UI signup page, which returns to the regular
// callback once the account is confirmed.
func (c *Cognito) SignupURL(state string) string {
	q := url.Values{}
	q.Set("client_id", c.ClientID)
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(c.Scopes, " "))
	q.Set("redirect_uri", c.RedirectURL)
	q.Set("state", state)

	return fmt.Sprintf("%s/signup?%s", c.hostedUIURL, q.Encode())
}

// LogoutURL ends the hosted UI session as well, otherwise the next login
// would silently sign the same user in again.
func (c *Cognito) LogoutURL() string {
	q := url.Values{}
	q.Set("client_id", c.ClientID)
	q.Set("logout_uri", c.logoutRedirectURL)

	return fmt.Sprintf("%s/logout?%s", c.hostedUIURL, q.Encode())
}

// Refresh trades the refresh token for a new ID token. Cognito does not
// rotate refresh tokens, so the returned one is often empty.
func (c *Cognito) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	token, err := c.TokenSource(ctx, &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Unix(1, 0),
	}).Token()
	if err != nil {
		return "", "", fmt.Errorf("refreshing credentials: %w", err)
	}

	idToken, ok := token.Extra("id_token").(string)
	if !ok {
		return "", "", fmt.Errorf("refresh response has no id_token")
	}

	rotated := ""
	if token.RefreshToken != refreshToken {
		rotated = token.RefreshToken
	}

	return idToken, rotated, nil
}
