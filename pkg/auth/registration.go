package auth

import (
	"crypto/subtle"
	"net/http"
)

const RegistrationTokenParam = "token"

// RegistrationGate enables self registration only for visitors that came in
// through the link carrying the deployment's registration token.
type RegistrationGate struct {
	token string
}

// Enabled reports whether the token query parameter equals the registration
// token exactly. An unset registration token disables registration.
func (g *RegistrationGate) Enabled(r *http.Request) bool {
	return g.Allows(r.URL.Query().Get(RegistrationTokenParam))
}

func (g *RegistrationGate) Allows(token string) bool {
	if g == nil || g.token == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(token), []byte(g.token)) == 1
}

func NewRegistrationGate(token string) *RegistrationGate {
	return &RegistrationGate{
		token: token,
	}
}
