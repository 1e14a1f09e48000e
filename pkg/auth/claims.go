package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type Claims struct {
	Username  string
	Email     string
	DomainIDs []string
	Expiry    time.Time
}

// ClaimsFromMap picks the user out of the raw ID token claims. Cognito
// custom attributes are always strings, so the domains claim holds a comma
// separated list, a JSON array is accepted as well.
func ClaimsFromMap(raw map[string]interface{}, domainsClaim string, expiry time.Time) *Claims {
	claims := &Claims{
		Username: stringClaim(raw, "cognito:username"),
		Email:    strings.ToLower(stringClaim(raw, "email")),
		Expiry:   expiry,
	}

	if claims.Username == "" {
		claims.Username = stringClaim(raw, "sub")
	}

	switch v := raw[domainsClaim].(type) {
	case string:
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				claims.DomainIDs = append(claims.DomainIDs, id)
			}
		}
	case []interface{}:
		for _, id := range v {
			if s, ok := id.(string); ok && s != "" {
				claims.DomainIDs = append(claims.DomainIDs, s)
			}
		}
	}

	return claims
}

func stringClaim(raw map[string]interface{}, key string) string {
	s, _ := raw[key].(string)

	return s
}

// TokenExpiry reads the expiry of a token without verifying it. Only use it
// on tokens received directly from the identity provider.
func TokenExpiry(rawToken string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(rawToken, claims)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing token: %w", err)
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("token has no expiry")
	}

	return claims.ExpiresAt.Time, nil
}
