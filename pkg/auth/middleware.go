package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/rs/zerolog"
)

type MiddlewareHandler func(http.Handler) http.Handler

type contextKey int

const ContextUserKey contextKey = 1

// LoginPath is where unauthenticated browsers are sent.
const LoginPath = "/login"

func GetUser(ctx context.Context) *service.User {
	user := ctx.Value(ContextUserKey)
	if user == nil {
		return nil
	}

	return user.(*service.User)
}

func SetUser(ctx context.Context, user *service.User) context.Context {
	return context.WithValue(ctx, ContextUserKey, user)
}

// Refresher obtains a new ID token for an expired session. The returned
// refresh token is empty when the provider did not rotate it.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (idToken string, newRefreshToken string, err error)
}

type Middleware struct {
	sessions   SessionStore
	refresher  Refresher
	cookieName string
	now        func() time.Time
	log        zerolog.Logger
}

func NewMiddleware(sessions SessionStore, refresher Refresher, cookieName string, log zerolog.Logger) *Middleware {
	return &Middleware{
		sessions:   sessions,
		refresher:  refresher,
		cookieName: cookieName,
		now:        time.Now,
		log:        log,
	}
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return m.handle(next)
}

// handle puts the user of the session cookie into the request context. A
// missing, unknown or unrefreshable session leaves the request anonymous,
// RequireUser decides what to do with those.
func (m *Middleware) handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cookie, err := r.Cookie(m.cookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := m.sessions.GetSession(ctx, cookie.Value)
		if err != nil {
			if !errs.KindIs(errs.NotExist, err) {
				m.log.Error().Err(err).Msg("retrieving session")
			}

			next.ServeHTTP(w, r)

			return
		}

		if !sess.Expires.After(m.now()) {
			sess, err = m.refresh(ctx, sess)
			if err != nil {
				m.log.Info().Err(err).Str("user", sess.Username).Msg("refreshing expired session")
				next.ServeHTTP(w, r)

				return
			}
		}

		r = r.WithContext(SetUser(ctx, &service.User{
			Username:     sess.Username,
			Email:        sess.Email,
			DomainIDs:    sess.DomainIDs,
			Expiry:       sess.Expires,
			IDToken:      sess.IDToken,
			SessionToken: sess.Token,
		}))

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) refresh(ctx context.Context, sess *Session) (*Session, error) {
	if sess.RefreshToken == "" {
		return sess, errs.E(errs.Unauthenticated, errs.Str("session has no refresh token"))
	}

	idToken, refreshToken, err := m.refresher.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		return sess, errs.E(errs.Unauthenticated, err)
	}

	expires, err := TokenExpiry(idToken)
	if err != nil {
		return sess, errs.E(errs.Unauthenticated, err)
	}

	err = m.sessions.UpdateSessionTokens(ctx, sess.Token, idToken, refreshToken, expires)
	if err != nil {
		return sess, err
	}

	refreshed := *sess
	refreshed.IDToken = idToken
	refreshed.Expires = expires

	if refreshToken != "" {
		refreshed.RefreshToken = refreshToken
	}

	return &refreshed, nil
}

// RequireUser stops anonymous requests. Browsers are sent to the login page
// and come back to where they were, API clients get a 401.
func RequireUser(log zerolog.Logger) MiddlewareHandler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetUser(r.Context()) != nil {
				next.ServeHTTP(w, r)
				return
			}

			if r.Method == http.MethodGet && !acceptsJSON(r) {
				http.Redirect(w, r, LoginPath+"?redirect_uri="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
				return
			}

			errs.HTTPErrorResponse(w, log, errs.E(errs.Unauthenticated, errs.Op("auth.RequireUser"), errs.Str("no user in session")))
		})
	}
}

func acceptsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
